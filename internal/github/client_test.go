// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/ghstatsgo/internal/cache"
)

const (
	testUser  = "octocat"
	testETag  = `W/"v1"`
	userBody  = `{"login":"octocat","followers":12,"public_repos":3}`
	reposBody = `[
		{"name":"express-greeklish","stargazers_count":3,"language":"JavaScript","html_url":"https://github.com/octocat/express-greeklish"},
		{"name":"dotfiles","stargazers_count":0,"language":null,"description":null,"html_url":"https://github.com/octocat/dotfiles"},
		{"name":"mcp-git-commit-generator","stargazers_count":7,"language":"Python","description":"Generate commit messages","html_url":"https://github.com/octocat/mcp-git-commit-generator"}
	]`
)

// upstream is a scripted GitHub API.
type upstream struct {
	server *httptest.Server
	calls  atomic.Int32
	// handler serves the current behaviour; swap it between steps.
	handler http.HandlerFunc
	// lastIfNoneMatch is the validator sent with the latest request.
	lastIfNoneMatch string
	lastUserAgent   string
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{handler: serveBodies(http.StatusOK)}
	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.calls.Add(1)
		u.lastIfNoneMatch = r.Header.Get("If-None-Match")
		u.lastUserAgent = r.Header.Get("User-Agent")
		u.handler(w, r)
	}))
	t.Cleanup(u.server.Close)
	return u
}

// serveBodies answers the user and repos endpoints with their canned bodies.
func serveBodies(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", testETag)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if r.URL.Path == "/users/"+testUser+"/repos" {
			_, _ = w.Write([]byte(reposBody))
			return
		}
		_, _ = w.Write([]byte(userBody))
	}
}

func serveStatus(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	}
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestClient(u *upstream, store *cache.Store, opts ...Option) *Client {
	return NewClient(store, testUser, append([]Option{WithAPI(u.server.URL)}, opts...)...)
}

func newTestStore(clock *fakeClock, storage cache.Storage) *cache.Store {
	return cache.NewStore(cache.WithClock(clock.Now), cache.WithStorage(storage))
}

func TestFetch_ColdCacheFetchesOnceAndStores(t *testing.T) {
	u := newUpstream(t)
	clock := &fakeClock{t: time.Now()}
	storage := cache.NewMemoryStorage(nil)
	store := newTestStore(clock, storage)
	c := newTestClient(u, store)

	user, err := c.FetchUser(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), u.calls.Load())
	assert.Equal(t, 12, user.Followers)
	assert.Empty(t, u.lastIfNoneMatch)
	assert.Contains(t, u.lastUserAgent, "ghstats/")

	entry, ok := store.Get(c.UserURL())
	require.True(t, ok)
	assert.JSONEq(t, userBody, string(entry.Data))
	assert.Equal(t, testETag, entry.ETag)
	assert.True(t, clock.Now().Equal(entry.Timestamp))
	assert.Equal(t, 1, storage.Saves())
}

func TestFetch_FreshEntrySkipsNetwork(t *testing.T) {
	u := newUpstream(t)
	clock := &fakeClock{t: time.Now()}
	store := newTestStore(clock, cache.NewMemoryStorage(nil))
	c := newTestClient(u, store)

	store.Set(context.Background(), c.UserURL(), cache.Entry{
		Data:      json.RawMessage(`{"followers":99}`),
		Timestamp: clock.Now().Add(-14 * time.Minute),
	})

	user, err := c.FetchUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 99, user.Followers)
	assert.Equal(t, int32(0), u.calls.Load())
}

func TestFetch_ConditionalRequestNotModified(t *testing.T) {
	u := newUpstream(t)
	u.handler = serveStatus(http.StatusNotModified)
	clock := &fakeClock{t: time.Now()}
	storage := cache.NewMemoryStorage(nil)
	store := newTestStore(clock, storage)
	c := newTestClient(u, store)

	stamp := clock.Now().Add(-20 * time.Minute)
	store.Set(context.Background(), c.UserURL(), cache.Entry{
		Data:      json.RawMessage(`{"followers":5}`),
		Timestamp: stamp,
		ETag:      testETag,
	})
	saves := storage.Saves()

	user, err := c.FetchUser(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, user.Followers)
	assert.Equal(t, int32(1), u.calls.Load())
	assert.Equal(t, testETag, u.lastIfNoneMatch)

	// 304 leaves the entry untouched, timestamp included.
	entry, _ := store.Get(c.UserURL())
	assert.True(t, stamp.Equal(entry.Timestamp))
	assert.Equal(t, saves, storage.Saves())
}

func TestFetch_NoValidatorWithoutETag(t *testing.T) {
	u := newUpstream(t)
	clock := &fakeClock{t: time.Now()}
	store := newTestStore(clock, cache.NewMemoryStorage(nil))
	c := newTestClient(u, store)

	store.Set(context.Background(), c.UserURL(), cache.Entry{
		Data:      json.RawMessage(`{"followers":5}`),
		Timestamp: clock.Now().Add(-time.Hour),
	})

	user, err := c.FetchUser(context.Background())
	require.NoError(t, err)
	assert.Empty(t, u.lastIfNoneMatch)
	assert.Equal(t, 12, user.Followers)
}

func TestFetch_StaleFallback(t *testing.T) {
	tests := []struct {
		name    string
		age     time.Duration
		handler http.HandlerFunc
		wantErr bool
	}{
		{name: "500 inside stale window", age: 2 * time.Hour, handler: serveStatus(http.StatusInternalServerError)},
		{name: "403 rate limit inside stale window", age: 16 * time.Minute, handler: serveStatus(http.StatusForbidden)},
		{name: "malformed json inside stale window", age: time.Hour, handler: func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"followers":`))
		}},
		{name: "500 past stale window", age: 25 * time.Hour, handler: serveStatus(http.StatusInternalServerError), wantErr: true},
		{name: "500 at stale window", age: cache.StaleWindow, handler: serveStatus(http.StatusBadGateway), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newUpstream(t)
			u.handler = tt.handler
			clock := &fakeClock{t: time.Now()}
			store := newTestStore(clock, cache.NewMemoryStorage(nil))
			c := newTestClient(u, store)

			store.Set(context.Background(), c.UserURL(), cache.Entry{
				Data:      json.RawMessage(`{"followers":42}`),
				Timestamp: clock.Now().Add(-tt.age),
			})

			user, err := c.FetchUser(context.Background())
			assert.Equal(t, int32(1), u.calls.Load())

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrFetchFailed))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 42, user.Followers)
		})
	}
}

func TestFetch_StatusErrorWithoutCache(t *testing.T) {
	u := newUpstream(t)
	u.handler = serveStatus(http.StatusNotFound)
	store := newTestStore(&fakeClock{t: time.Now()}, cache.NewMemoryStorage(nil))
	c := newTestClient(u, store)

	_, err := c.FetchUser(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, "Not Found", statusErr.Status)
	assert.Contains(t, err.Error(), "GitHub API error: 404 Not Found")

	_, ok := store.Get(c.UserURL())
	assert.False(t, ok)
}

func TestFetch_NotModifiedWithoutCacheIsFailure(t *testing.T) {
	u := newUpstream(t)
	u.handler = serveStatus(http.StatusNotModified)
	store := newTestStore(&fakeClock{t: time.Now()}, cache.NewMemoryStorage(nil))
	c := newTestClient(u, store)

	_, err := c.FetchUser(context.Background())
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestFetch_TransportError(t *testing.T) {
	u := newUpstream(t)
	u.server.Close()
	clock := &fakeClock{t: time.Now()}
	store := newTestStore(clock, cache.NewMemoryStorage(nil))
	c := newTestClient(u, store)

	_, err := c.FetchRepos(context.Background())
	assert.ErrorIs(t, err, ErrFetchFailed)

	store.Set(context.Background(), c.ReposURL(), cache.Entry{
		Data:      json.RawMessage(`[{"name":"x","stargazers_count":1}]`),
		Timestamp: clock.Now().Add(-time.Hour),
	})
	repos, err := c.FetchRepos(context.Background())
	require.NoError(t, err)
	assert.Len(t, repos, 1)
}

func TestFetch_Timeout(t *testing.T) {
	u := newUpstream(t)
	u.handler = func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(userBody))
	}
	store := newTestStore(&fakeClock{t: time.Now()}, cache.NewMemoryStorage(nil))
	c := newTestClient(u, store, WithTimeout(20*time.Millisecond))

	_, err := c.FetchUser(context.Background())
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestFetch_Headers(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(userBody))
	}))
	defer server.Close()

	store := cache.NewStore()
	c := NewClient(store, testUser,
		WithAPI(server.URL+"/"),
		WithToken("s3cr3t"),
		WithUserAgent("portfolio-build/1.0"),
	)

	_, err := c.FetchUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer s3cr3t", got.Get("Authorization"))
	assert.Equal(t, "portfolio-build/1.0", got.Get("User-Agent"))
	assert.Equal(t, server.URL+"/users/"+testUser, c.UserURL())
}

func TestURLs(t *testing.T) {
	c := NewClient(cache.NewStore(), "theoklitosBam7")
	assert.Equal(t, "https://api.github.com/users/theoklitosBam7", c.UserURL())
	assert.Equal(t, "https://api.github.com/users/theoklitosBam7/repos?per_page=100&sort=updated", c.ReposURL())
}

func TestNewClient_TimeoutOption(t *testing.T) {
	store := cache.NewStore()

	tests := []struct {
		name  string
		opts  func(shared *http.Client) []Option
		want  time.Duration
		owned bool
	}{
		{
			name: "default pooled client",
			opts: func(*http.Client) []Option { return nil },
			want: DefaultTimeout,
		},
		{
			name: "timeout after shared client",
			opts: func(shared *http.Client) []Option {
				return []Option{WithHTTPClient(shared), WithTimeout(time.Second)}
			},
			want: time.Second,
		},
		{
			name: "timeout before shared client",
			opts: func(shared *http.Client) []Option {
				return []Option{WithTimeout(time.Second), WithHTTPClient(shared)}
			},
			want: time.Second,
		},
		{
			name: "zero disables",
			opts: func(*http.Client) []Option {
				return []Option{WithTimeout(0)}
			},
			want: 0,
		},
		{
			name: "shared client without timeout is used as is",
			opts: func(shared *http.Client) []Option {
				return []Option{WithHTTPClient(shared)}
			},
			want:  5 * time.Minute,
			owned: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shared := &http.Client{Timeout: 5 * time.Minute}
			c := NewClient(store, testUser, tt.opts(shared)...)

			assert.Equal(t, tt.want, c.http.Timeout)
			assert.Equal(t, 5*time.Minute, shared.Timeout, "caller's client must not change")
			assert.Equal(t, tt.owned, c.http == shared)
		})
	}
}
