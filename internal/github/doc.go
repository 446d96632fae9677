// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package github reads a user's profile and repositories from the GitHub REST
// API through a cache.Store, using conditional requests to stay inside the
// unauthenticated rate limit and falling back to stale data when the API is
// unavailable.
package github
