// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package command defines the ghstats CLI. Each query subcommand fetches
// through a github.Client sharing one cache.Store and hands the result to
// output.SliceDiceSpit.
package command
