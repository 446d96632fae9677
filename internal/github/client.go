// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/hashicorp/go-cleanhttp"

	"github.com/staranto/ghstatsgo/internal/cache"
	"github.com/staranto/ghstatsgo/internal/version"
)

const (
	// DefaultAPI is the public GitHub REST endpoint.
	DefaultAPI = "https://api.github.com"
	// DefaultTimeout bounds a single request, including reading the body.
	DefaultTimeout = 30 * time.Second
	// reposPerPage is the page size of the repository listing.
	reposPerPage = 100
)

// DefaultFeatured is the allow-list used by FetchFeaturedProjects when none
// is configured.
var DefaultFeatured = []string{
	"mcp-git-commit-generator",
	"css-modules-types-generator",
	"express-greeklish",
}

// Client queries one GitHub user's public data through a cache.Store.
type Client struct {
	api       string
	username  string
	author    string
	token     string
	userAgent string
	featured  []string
	http      *http.Client
	timeout   *time.Duration
	store     *cache.Store
}

// Option customizes a Client.
type Option func(*Client)

// WithAPI overrides DefaultAPI, e.g. for GitHub Enterprise or tests.
func WithAPI(api string) Option {
	return func(c *Client) {
		if api != "" {
			c.api = strings.TrimSuffix(api, "/")
		}
	}
}

// WithAuthor sets the name used in generated project descriptions. Defaults
// to the username.
func WithAuthor(author string) Option {
	return func(c *Client) { c.author = author }
}

// WithToken sends the token as a bearer credential.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithFeatured sets the featured-projects allow-list. An empty list keeps
// DefaultFeatured.
func WithFeatured(names []string) Option {
	return func(c *Client) {
		if len(names) > 0 {
			c.featured = names
		}
	}
}

// WithHTTPClient replaces the default pooled client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout. Zero disables it. It applies to
// a copy of the HTTP client, never to one passed with WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = &d }
}

// NewClient returns a Client for username backed by store.
func NewClient(store *cache.Store, username string, opts ...Option) *Client {
	hc := cleanhttp.DefaultPooledClient()
	hc.Timeout = DefaultTimeout

	c := &Client{
		api:       DefaultAPI,
		username:  username,
		author:    username,
		userAgent: version.UserAgent(),
		featured:  DefaultFeatured,
		http:      hc,
		store:     store,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout != nil {
		hc := *c.http
		hc.Timeout = *c.timeout
		c.http = &hc
	}
	return c
}

// UserURL is the profile endpoint.
func (c *Client) UserURL() string {
	return fmt.Sprintf("%s/users/%s", c.api, c.username)
}

// ReposURL is the repository listing endpoint, most recently updated first.
func (c *Client) ReposURL() string {
	return fmt.Sprintf("%s/users/%s/repos?per_page=%d&sort=updated", c.api, c.username, reposPerPage)
}

// response is the outcome of one network round trip.
type response struct {
	body        []byte
	etag        string
	notModified bool
}

// fetch returns the body for url decoded into T. A fresh cache entry is used
// without touching the network. Otherwise exactly one request is made; if it
// fails, an entry inside the stale window stands in for it.
func fetch[T any](ctx context.Context, c *Client, url string) (T, error) {
	var result T

	c.store.Init(ctx)
	cached, hasCached := c.store.Get(url)

	if hasCached && c.store.IsValid(cached) {
		if err := json.Unmarshal(cached.Data, &result); err == nil {
			log.Debugf("cache hit: %s", url)
			return result, nil
		}
		log.Debugf("cached body for %s no longer decodes, refetching", url)
	}

	err := func() error {
		resp, err := c.makeRequest(ctx, url, cached, hasCached)
		if err != nil {
			return err
		}

		if resp.notModified {
			log.Debugf("not modified: %s", url)
			return json.Unmarshal(cached.Data, &result)
		}

		if err := json.Unmarshal(resp.body, &result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}

		c.store.Set(ctx, url, cache.Entry{
			Data:      json.RawMessage(resp.body),
			Timestamp: c.store.Now(),
			ETag:      resp.etag,
		})
		return nil
	}()
	if err == nil {
		return result, nil
	}

	log.WithError(err).Warnf("GitHub API request failed: %s", url)

	if hasCached && c.store.IsStaleButUsable(cached) {
		var stale T
		if jerr := json.Unmarshal(cached.Data, &stale); jerr == nil {
			log.Warnf("using stale cache due to API failure: %s", url)
			return stale, nil
		}
	}

	var zero T
	return zero, fmt.Errorf("%w: %w", ErrFetchFailed, err)
}

// makeRequest performs a single conditional GET.
func (c *Client) makeRequest(ctx context.Context, url string, cached cache.Entry, hasCached bool) (response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return response{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if hasCached && cached.ETag != "" {
		req.Header.Set("If-None-Match", cached.ETag)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return response{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified && hasCached {
		return response{notModified: true}, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return response{}, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
		}
	}

	var body bytes.Buffer
	if _, err := body.ReadFrom(resp.Body); err != nil {
		return response{}, fmt.Errorf("failed to read response: %w", err)
	}

	return response{
		body: body.Bytes(),
		etag: resp.Header.Get("ETag"),
	}, nil
}

// statusText strips the numeric code from resp.Status ("404 Not Found").
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
