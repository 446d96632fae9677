// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package cache holds prior API responses keyed by request URL together with
// the freshness metadata needed to decide whether a network call can be
// skipped. The store is loaded lazily from a pluggable Storage and rewritten
// in full after every update.
package cache
