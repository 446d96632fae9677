// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// ghstats is a command line tool that reports a GitHub user's profile,
// repositories, aggregate stats and featured projects through a durable,
// ETag-aware response cache.
package main
