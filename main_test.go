// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/ghstatsgo/internal/config"
)

const setsConfig = `
rq:
  defaults:
    - --titles
    - --sort -stars
  popular:
    - --filter stars>5
sq:
  json: --output json
`

func loadSets(t *testing.T) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ghstats.yaml")
	require.NoError(t, os.WriteFile(path, []byte(setsConfig), 0o600))
	t.Setenv("GHSTATS_CFG", path)
	_, err := config.Load()
	require.NoError(t, err)
	t.Cleanup(func() { config.Config = config.Type{} })
}

func TestMangleArguments(t *testing.T) {
	loadSets(t)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "defaults inserted after subcommand",
			args: []string{"ghstats", "rq", "--output", "json"},
			want: []string{"ghstats", "rq", "--titles", "--sort", "-stars", "--output", "json"},
		},
		{
			name: "named set replaces defaults in place",
			args: []string{"ghstats", "rq", "--output", "json", "@popular", "--attrs", "html_url"},
			want: []string{"ghstats", "rq", "--output", "json", "--filter", "stars>5", "--attrs", "html_url"},
		},
		{
			name: "scalar set",
			args: []string{"ghstats", "sq", "@json"},
			want: []string{"ghstats", "sq", "--output", "json"},
		},
		{
			name: "unknown set is dropped",
			args: []string{"ghstats", "sq", "@nope", "--titles"},
			want: []string{"ghstats", "sq", "--titles"},
		},
		{
			name: "no defaults for command",
			args: []string{"ghstats", "uq"},
			want: []string{"ghstats", "uq"},
		},
		{
			name: "help wins",
			args: []string{"ghstats", "rq", "@popular", "-h"},
			want: []string{"ghstats", "rq", "--help"},
		},
		{
			name: "flag in command position untouched",
			args: []string{"ghstats", "--version"},
			want: []string{"ghstats", "--version"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mangleArguments(tt.args))
		})
	}
}

func TestRealMain_ExitCodes(t *testing.T) {
	tests := []struct {
		name   string
		config string
		args   []string
		want   int
	}{
		{
			name: "version",
			args: []string{"ghstats", "--version"},
			want: 0,
		},
		{
			name:   "completion survives a broken cache config",
			config: "cache:\n  backend: redis\n",
			args:   []string{"ghstats", "completion", "bash"},
			want:   0,
		},
		{
			name:   "unknown cache backend fails init",
			config: "cache:\n  backend: redis\n",
			args:   []string{"ghstats", "rq"},
			want:   1,
		},
		{
			name:   "s3 backend without bucket fails init",
			config: "cache:\n  backend: s3\n",
			args:   []string{"ghstats", "sq"},
			want:   1,
		},
		{
			name: "missing user fails the run",
			args: []string{"ghstats", "uq"},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)
			t.Setenv("HOME", dir)
			t.Setenv("XDG_CONFIG_HOME", dir)
			t.Setenv("APPDATA", dir)
			t.Setenv("GHSTATS_CACHE", "")
			for _, key := range []string{"GHSTATS_USER", "GHSTATS_TIMEOUT"} {
				t.Setenv(key, "")
				require.NoError(t, os.Unsetenv(key))
			}

			path := filepath.Join(dir, "ghstats.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.config), 0o600))
			t.Setenv("GHSTATS_CFG", path)
			_, err := config.Load()
			require.NoError(t, err)
			t.Cleanup(func() { config.Config = config.Type{} })

			assert.Equal(t, tt.want, realMain(tt.args))
		})
	}
}
