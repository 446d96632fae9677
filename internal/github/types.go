// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package github

// User is the subset of GET /users/{username} that is used.
type User struct {
	Login       string  `json:"login"`
	Name        *string `json:"name"`
	Bio         *string `json:"bio"`
	Location    *string `json:"location"`
	AvatarURL   string  `json:"avatar_url"`
	HTMLURL     string  `json:"html_url"`
	Followers   int     `json:"followers"`
	Following   int     `json:"following"`
	PublicRepos int     `json:"public_repos"`
}

// Repo is the subset of GET /users/{username}/repos items that is used.
type Repo struct {
	Name            string  `json:"name"`
	Description     *string `json:"description"`
	Language        *string `json:"language"`
	HTMLURL         string  `json:"html_url"`
	StargazersCount int     `json:"stargazers_count"`
	ForksCount      int     `json:"forks_count"`
	Fork            bool    `json:"fork"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// Stats is the aggregate profile view. IsError is set, and the counts are
// zero, when the data could not be loaded.
type Stats struct {
	Followers    int    `json:"followers"`
	PublicRepos  int    `json:"publicRepos"`
	TotalStars   int    `json:"totalStars"`
	IsError      bool   `json:"isError"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// Project is one featured repository prepared for display.
type Project struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Stars       int    `json:"stars"`
	GitHubURL   string `json:"githubUrl"`
}

// Projects is the featured-projects view. Projects is never nil.
type Projects struct {
	Projects     []Project `json:"projects"`
	IsError      bool      `json:"isError"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
}
