// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/apex/log"
)

const (
	// FreshWindow is how long an entry is served without a network call.
	FreshWindow = 15 * time.Minute
	// StaleWindow is how long an entry may stand in for a failed fetch.
	StaleWindow = 24 * time.Hour
)

// Store is a process-local, URL-keyed cache of API responses. It is created
// once per process and handed to whatever needs it.
type Store struct {
	mu          sync.Mutex
	entries     map[string]Entry
	initialized bool

	storage Storage
	now     func() time.Time
	fresh   time.Duration
	stale   time.Duration
}

// Option customizes a Store.
type Option func(*Store)

// WithStorage sets the durable backing for the store. Defaults to an
// in-memory storage that persists nothing beyond the process.
func WithStorage(storage Storage) Option {
	return func(s *Store) { s.storage = storage }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithFreshWindow overrides FreshWindow. Non-positive values are ignored.
func WithFreshWindow(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.fresh = d
		}
	}
}

// WithStaleWindow overrides StaleWindow. Non-positive values are ignored.
func WithStaleWindow(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.stale = d
		}
	}
}

// NewStore constructs an empty, unloaded Store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		entries: make(map[string]Entry),
		now:     time.Now,
		fresh:   FreshWindow,
		stale:   StaleWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.storage == nil {
		s.storage = NewMemoryStorage(nil)
	}
	return s
}

// Init loads the store from its storage. Only the first call does any work.
// A load failure is logged and leaves the store empty.
func (s *Store) Init(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initLocked(ctx)
}

func (s *Store) initLocked(ctx context.Context) {
	if s.initialized {
		return
	}
	s.initialized = true

	loaded, err := s.storage.Load(ctx)
	if err != nil {
		log.WithError(err).Warnf("failed to load persistent cache from %s", s.storage)
		return
	}
	for url, entry := range loaded {
		s.entries[url] = entry
	}
	log.Debugf("loaded %d cache entries from %s", len(loaded), s.storage)
}

// Get returns the entry for url, if any.
func (s *Store) Get(url string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initLocked(context.Background())

	entry, ok := s.entries[url]
	return entry, ok
}

// Set stores entry under url and rewrites the whole store to its storage.
// Persistence is best-effort: failures are logged, never returned.
func (s *Store) Set(ctx context.Context, url string, entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initLocked(ctx)

	s.entries[url] = entry
	if err := s.storage.Save(ctx, s.snapshotLocked()); err != nil {
		log.WithError(err).Warnf("failed to save persistent cache to %s", s.storage)
	}
}

// IsValid reports whether entry is young enough to skip the network.
func (s *Store) IsValid(entry Entry) bool {
	return entry.Age(s.now()) < s.fresh
}

// IsStaleButUsable reports whether entry may be served when a fetch fails.
func (s *Store) IsStaleButUsable(entry Entry) bool {
	return entry.Age(s.now()) < s.stale
}

// Now is the store's notion of the current time.
func (s *Store) Now() time.Time {
	return s.now()
}

// Record pairs a URL with its entry.
type Record struct {
	URL   string
	Entry Entry
}

// Entries returns a snapshot of the store ordered by URL.
func (s *Store) Entries() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initLocked(context.Background())

	records := make([]Record, 0, len(s.entries))
	for url, entry := range s.entries {
		records = append(records, Record{URL: url, Entry: entry})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].URL < records[j].URL
	})
	return records
}

// Purge drops every entry and persists the empty store. Unlike Set, a
// persistence failure is returned since the caller asked for it explicitly.
func (s *Store) Purge(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = true

	s.entries = make(map[string]Entry)
	if err := s.storage.Save(ctx, s.snapshotLocked()); err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	return nil
}

func (s *Store) snapshotLocked() map[string]Entry {
	snapshot := make(map[string]Entry, len(s.entries))
	for url, entry := range s.entries {
		snapshot[url] = entry
	}
	return snapshot
}
