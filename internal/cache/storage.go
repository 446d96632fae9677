// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Storage is the durable backing of a Store. Save always receives the whole
// store; implementations rewrite rather than append.
type Storage interface {
	Load(ctx context.Context) (map[string]Entry, error)
	Save(ctx context.Context, entries map[string]Entry) error
	String() string
}

// FileStorage keeps the store as one pretty-printed JSON object in Path.
type FileStorage struct {
	Path string
}

// NewFileStorage returns a FileStorage rooted at path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{Path: path}
}

// Load reads Path. A missing or empty file is an empty store, not an error.
func (f *FileStorage) Load(_ context.Context) (map[string]Entry, error) {
	b, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	return decodeEntries(b)
}

// Save rewrites Path with the full store.
func (f *FileStorage) Save(_ context.Context, entries map[string]Entry) error {
	b, err := encodeEntries(entries)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(f.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
			return fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	if err := os.WriteFile(f.Path, b, os.FileMode(0o600)); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}

func (f *FileStorage) String() string {
	return "file:" + f.Path
}

// MemoryStorage keeps the last saved store in process memory. It is what a
// Store uses when durable caching is disabled.
type MemoryStorage struct {
	mu      sync.Mutex
	entries map[string]Entry
	saves   int
}

// NewMemoryStorage returns a MemoryStorage optionally seeded with entries.
func NewMemoryStorage(seed map[string]Entry) *MemoryStorage {
	return &MemoryStorage{entries: copyEntries(seed)}
}

func (m *MemoryStorage) Load(_ context.Context) (map[string]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyEntries(m.entries), nil
}

func (m *MemoryStorage) Save(_ context.Context, entries map[string]Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = copyEntries(entries)
	m.saves++
	return nil
}

// Saves is the number of times Save has been called.
func (m *MemoryStorage) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *MemoryStorage) String() string {
	return "memory"
}

func copyEntries(src map[string]Entry) map[string]Entry {
	dst := make(map[string]Entry, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func encodeEntries(entries map[string]Entry) ([]byte, error) {
	if entries == nil {
		entries = map[string]Entry{}
	}
	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode cache: %w", err)
	}
	return b, nil
}

func decodeEntries(b []byte) (map[string]Entry, error) {
	entries := map[string]Entry{}
	if len(bytes.TrimSpace(b)) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse cache: %w", err)
	}
	return entries, nil
}
