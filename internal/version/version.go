// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package version holds the build version, overridden with -ldflags.
package version

var Version = "dev"

// UserAgent is sent with every GitHub API request.
func UserAgent() string {
	return "ghstats/" + Version
}
