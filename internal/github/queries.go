// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"fmt"

	"github.com/apex/log"
)

const (
	statsErrorMessage    = "Unable to load GitHub stats. Please try again later."
	projectsErrorMessage = "Unable to load projects from GitHub. Please visit my GitHub profile directly."
)

// FetchUser returns the user's profile. Failures are returned to the caller.
func (c *Client) FetchUser(ctx context.Context) (User, error) {
	user, err := fetch[User](ctx, c, c.UserURL())
	if err != nil {
		log.WithError(err).Debug("failed to fetch GitHub user")
		return User{}, fmt.Errorf("failed to fetch user %s: %w", c.username, err)
	}
	return user, nil
}

// FetchRepos returns the user's repositories in the order the API lists
// them. Failures are returned to the caller.
func (c *Client) FetchRepos(ctx context.Context) ([]Repo, error) {
	repos, err := fetch[[]Repo](ctx, c, c.ReposURL())
	if err != nil {
		log.WithError(err).Debug("failed to fetch GitHub repos")
		return nil, fmt.Errorf("failed to fetch repos for %s: %w", c.username, err)
	}
	return repos, nil
}

// FetchStats aggregates follower, repository and star counts. It never
// fails; on error the counts are zero and IsError is set.
func (c *Client) FetchStats(ctx context.Context) Stats {
	user, err := c.FetchUser(ctx)
	if err != nil {
		return statsError(err)
	}
	repos, err := c.FetchRepos(ctx)
	if err != nil {
		return statsError(err)
	}

	totalStars := 0
	for _, repo := range repos {
		totalStars += repo.StargazersCount
	}

	return Stats{
		Followers:   user.Followers,
		PublicRepos: user.PublicRepos,
		TotalStars:  totalStars,
	}
}

func statsError(err error) Stats {
	log.WithError(err).Error("failed to fetch GitHub stats")
	return Stats{IsError: true, ErrorMessage: statsErrorMessage}
}

// FetchFeaturedProjects returns the allow-listed repositories in allow-list
// order. Names missing from the repository list are skipped. It never fails;
// on error Projects is empty and IsError is set.
func (c *Client) FetchFeaturedProjects(ctx context.Context) Projects {
	repos, err := c.FetchRepos(ctx)
	if err != nil {
		log.WithError(err).Error("failed to fetch featured projects")
		return Projects{
			Projects:     []Project{},
			IsError:      true,
			ErrorMessage: projectsErrorMessage,
		}
	}

	byName := make(map[string]Repo, len(repos))
	for _, repo := range repos {
		if _, dup := byName[repo.Name]; !dup {
			byName[repo.Name] = repo
		}
	}

	projects := make([]Project, 0, len(c.featured))
	for _, name := range c.featured {
		repo, ok := byName[name]
		if !ok {
			log.Debugf("featured repo not found: %s", name)
			continue
		}
		projects = append(projects, c.project(repo))
	}

	return Projects{Projects: projects}
}

// project maps a repository onto its display record.
func (c *Client) project(repo Repo) Project {
	language := "Unknown"
	if repo.Language != nil && *repo.Language != "" {
		language = *repo.Language
	}

	var description string
	if repo.Description != nil && *repo.Description != "" {
		description = *repo.Description
	} else {
		kind := "code"
		if repo.Language != nil && *repo.Language != "" {
			kind = *repo.Language
		}
		description = fmt.Sprintf("A %s project by %s", kind, c.author)
	}

	return Project{
		Title:       FormatRepoName(repo.Name),
		Description: description,
		Language:    language,
		Stars:       repo.StargazersCount,
		GitHubURL:   repo.HTMLURL,
	}
}
