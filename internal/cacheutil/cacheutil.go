// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/ghstatsgo/internal/aws"
	"github.com/staranto/ghstatsgo/internal/cache"
	"github.com/staranto/ghstatsgo/internal/config"
)

// DefaultFile is the cache file used when nothing else is configured. It is
// relative to the working directory of the build.
const DefaultFile = ".github-cache.json"

const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendS3     = "s3"
)

// Enabled returns true unless GHSTATS_CACHE explicitly disables it ("0"/"false").
func Enabled() bool {
	enabled, _ := os.LookupEnv("GHSTATS_CACHE")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// FilePath resolves the cache file.
// Precedence:
//  1. GHSTATS_CACHE_FILE, if set and non-empty
//  2. cache.file from ghstats.yaml
//  3. DefaultFile
func FilePath() string {
	if p, ok := os.LookupEnv("GHSTATS_CACHE_FILE"); ok && p != "" {
		return p
	}
	p, _ := config.GetString("cache.file", DefaultFile)
	return p
}

// Backend returns the configured storage backend. A disabled cache is always
// BackendMemory.
func Backend() string {
	if !Enabled() {
		return BackendMemory
	}
	b, _ := config.GetString("cache.backend", BackendFile)
	return strings.ToLower(b)
}

// NewStorage picks the Storage implementation for this process.
func NewStorage(ctx context.Context) (cache.Storage, error) {
	backend := Backend()
	log.Debugf("cache backend: %s", backend)

	switch backend {
	case BackendFile:
		return cache.NewFileStorage(FilePath()), nil
	case BackendMemory:
		return cache.NewMemoryStorage(nil), nil
	case BackendS3:
		bucket, _ := config.GetString("cache.s3.bucket", "")
		if bucket == "" {
			return nil, fmt.Errorf("cache.s3.bucket is required for the s3 cache backend")
		}
		key, _ := config.GetString("cache.s3.key", "ghstats/"+DefaultFile)
		region, _ := config.GetString("cache.s3.region", "")
		profile, _ := config.GetString("cache.s3.profile", "")
		endpoint, _ := config.GetString("cache.s3.endpoint", "")

		client, err := aws.NewS3(ctx,
			aws.WithRegion(region),
			aws.WithProfile(profile),
			aws.WithEndpoint(endpoint),
		)
		if err != nil {
			return nil, err
		}
		return cache.NewS3Storage(client, bucket, key), nil
	}

	return nil, fmt.Errorf("unknown cache backend %q", backend)
}

// NewStore builds the process-wide cache store from config.
func NewStore(ctx context.Context) (*cache.Store, error) {
	storage, err := NewStorage(ctx)
	if err != nil {
		return nil, err
	}

	fresh, err := config.GetDuration("cache.fresh", cache.FreshWindow)
	if err != nil {
		return nil, fmt.Errorf("invalid cache.fresh: %w", err)
	}
	stale, err := config.GetDuration("cache.stale", cache.StaleWindow)
	if err != nil {
		return nil, fmt.Errorf("invalid cache.stale: %w", err)
	}

	return cache.NewStore(
		cache.WithStorage(storage),
		cache.WithFreshWindow(fresh),
		cache.WithStaleWindow(stale),
	), nil
}
