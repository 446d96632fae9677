// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A cache file as written by the site build before the Go port.
const legacyCacheFile = `{
  "https://api.github.com/users/theoklitosBam7": {
    "data": {"login": "theoklitosBam7", "followers": 12, "public_repos": 30},
    "timestamp": 1748779200000,
    "etag": "W/\"abc123\""
  },
  "https://api.github.com/users/theoklitosBam7/repos?per_page=100&sort=updated": {
    "data": [{"name": "express-greeklish", "stargazers_count": 3}],
    "timestamp": 1748779200000
  }
}`

func TestFileStorage_LoadLegacyFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".github-cache.json")
	require.NoError(t, os.WriteFile(path, []byte(legacyCacheFile), 0o600))

	entries, err := NewFileStorage(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	user := entries["https://api.github.com/users/theoklitosBam7"]
	assert.Equal(t, `W/"abc123"`, user.ETag)
	assert.Equal(t, int64(1748779200000), user.Timestamp.UnixMilli())
	assert.JSONEq(t, `{"login": "theoklitosBam7", "followers": 12, "public_repos": 30}`, string(user.Data))

	repos := entries["https://api.github.com/users/theoklitosBam7/repos?per_page=100&sort=updated"]
	assert.Empty(t, repos.ETag)
}

func TestFileStorage_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.json")
	fs := NewFileStorage(path)
	ts := time.UnixMilli(1748779200123)

	err := fs.Save(context.Background(), map[string]Entry{
		"u": {Data: json.RawMessage(`{"a":1}`), Timestamp: ts, ETag: `"e"`},
		"v": {Data: json.RawMessage(`[1,2]`), Timestamp: ts},
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"timestamp": 1748779200123`)
	assert.NotContains(t, string(raw), `"etag": ""`)

	entries, err := fs.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `"e"`, entries["u"].ETag)
	assert.True(t, ts.Equal(entries["v"].Timestamp))
	assert.JSONEq(t, `[1,2]`, string(entries["v"].Data))
}

func TestFileStorage_MissingFileIsEmpty(t *testing.T) {
	entries, err := NewFileStorage(filepath.Join(t.TempDir(), "absent.json")).Load(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileStorage_EmptyFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, []byte("\n"), 0o600))

	entries, err := NewFileStorage(path).Load(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileStorage_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStorage(path).Load(context.Background())
	assert.Error(t, err)

	// A Store over a corrupt file just starts empty.
	s := NewStore(WithStorage(NewFileStorage(path)))
	s.Init(context.Background())
	assert.Empty(t, s.Entries())
}

func TestFileStorage_SaveFailure(t *testing.T) {
	dir := t.TempDir()
	// The target path is an existing directory, so WriteFile must fail.
	err := NewFileStorage(dir).Save(context.Background(), map[string]Entry{})
	assert.Error(t, err)
}

func TestMemoryStorage_IsolatesCopies(t *testing.T) {
	m := NewMemoryStorage(nil)
	src := map[string]Entry{"u": {ETag: "1"}}
	require.NoError(t, m.Save(context.Background(), src))

	src["u"] = Entry{ETag: "2"}
	loaded, _ := m.Load(context.Background())
	assert.Equal(t, "1", loaded["u"].ETag)

	loaded["x"] = Entry{}
	again, _ := m.Load(context.Background())
	assert.Len(t, again, 1)
}

func TestEntry_MarshalNilData(t *testing.T) {
	b, err := json.Marshal(Entry{Timestamp: time.UnixMilli(5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":null,"timestamp":5}`, string(b))
}
