// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/staranto/ghstatsgo/internal/attrs"
)

const reposJSON = `[
	{"name": "express-greeklish", "language": "JavaScript", "stargazers_count": 3, "fork": false, "topics": ["express", "middleware"], "license": {"key": "mit"}},
	{"name": "dotfiles", "language": null, "stargazers_count": 0, "fork": true, "topics": [], "license": null},
	{"name": "mcp-git-commit-generator", "language": "Python", "stargazers_count": 7, "fork": false, "topics": ["mcp"], "license": {"key": "apache-2.0"}},
	{"name": "css-modules-types-generator", "language": "TypeScript", "stargazers_count": 12, "fork": false, "topics": ["css"], "license": {"key": "mit"}}
]`

func testAttrs(t *testing.T, spec string) attrs.AttrList {
	t.Helper()
	var al attrs.AttrList
	require.NoError(t, al.Set(spec))
	return al
}

func names(rows []map[string]interface{}) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row["name"].(string))
	}
	return out
}

func TestBuildFilters(t *testing.T) {
	tests := []struct {
		name      string
		spec      string
		delimiter string
		want      []Filter
	}{
		{name: "empty spec", spec: ""},
		{
			name: "exact match",
			spec: "name=dotfiles",
			want: []Filter{{Key: "name", Operand: "=", Target: "dotfiles"}},
		},
		{
			name: "negated exact match",
			spec: "language!=Python",
			want: []Filter{{Key: "language", Operand: "=", Target: "Python", Negate: true}},
		},
		{
			name: "negated prefix",
			spec: "name!^css",
			want: []Filter{{Key: "name", Operand: "^", Target: "css", Negate: true}},
		},
		{
			name: "regex keeps target intact",
			spec: "name/^m.*r$",
			want: []Filter{{Key: "name", Operand: "/", Target: "^m.*r$"}},
		},
		{
			name: "numeric comparisons",
			spec: "stars>2,stars<10",
			want: []Filter{
				{Key: "stars", Operand: ">", Target: "2"},
				{Key: "stars", Operand: "<", Target: "10"},
			},
		},
		{
			name: "empty target",
			spec: "language=",
			want: []Filter{{Key: "language", Operand: "=", Target: ""}},
		},
		{
			name: "invalid expressions skipped",
			spec: "name=x,nooperand,=nokey,topics@mcp",
			want: []Filter{
				{Key: "name", Operand: "=", Target: "x"},
				{Key: "topics", Operand: "@", Target: "mcp"},
			},
		},
		{
			name:      "custom delimiter",
			spec:      "name/a,b;stars>1",
			delimiter: ";",
			want: []Filter{
				{Key: "name", Operand: "/", Target: "a,b"},
				{Key: "stars", Operand: ">", Target: "1"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.delimiter != "" {
				t.Setenv(DelimEnv, tt.delimiter)
			}
			assert.Equal(t, tt.want, BuildFilters(tt.spec))
		})
	}
}

func TestFilterDataset(t *testing.T) {
	dataset := gjson.Parse(reposJSON)
	al := testAttrs(t, "name,language,stargazers_count:stars,!fork,!topics,!license.key:license")

	tests := []struct {
		name   string
		filter string
		want   []string
	}{
		{name: "no filter", filter: "", want: []string{"express-greeklish", "dotfiles", "mcp-git-commit-generator", "css-modules-types-generator"}},
		{name: "equal", filter: "language=Python", want: []string{"mcp-git-commit-generator"}},
		{name: "case insensitive", filter: "language~python", want: []string{"mcp-git-commit-generator"}},
		{name: "prefix", filter: "name^css", want: []string{"css-modules-types-generator"}},
		{name: "substring", filter: "name@generator", want: []string{"mcp-git-commit-generator", "css-modules-types-generator"}},
		{name: "negated substring", filter: "name!@generator", want: []string{"express-greeklish", "dotfiles"}},
		{name: "regex", filter: "name/^(dot|exp)", want: []string{"express-greeklish", "dotfiles"}},
		{name: "numeric greater", filter: "stars>5", want: []string{"mcp-git-commit-generator", "css-modules-types-generator"}},
		{name: "numeric range", filter: "stars>2,stars<10", want: []string{"express-greeklish", "mcp-git-commit-generator"}},
		{name: "numeric equal", filter: "stars=0", want: []string{"dotfiles"}},
		{name: "numeric not equal", filter: "stars!=0", want: []string{"express-greeklish", "mcp-git-commit-generator", "css-modules-types-generator"}},
		{name: "boolean", filter: "fork=true", want: []string{"dotfiles"}},
		{name: "null never matches", filter: "language!=JavaScript", want: []string{"mcp-git-commit-generator", "css-modules-types-generator"}},
		{name: "array membership", filter: "topics@middleware", want: []string{"express-greeklish"}},
		{name: "nested path via output key", filter: "license=mit", want: []string{"express-greeklish", "css-modules-types-generator"}},
		{name: "raw path accepted", filter: "stargazers_count>10", want: []string{"css-modules-types-generator"}},
		{name: "unknown key ignored", filter: "homepage=x,stars=3", want: []string{"express-greeklish"}},
		{name: "invalid regex rejects", filter: "name/([", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := FilterDataset(dataset, al, tt.filter)
			assert.Equal(t, tt.want, names(rows))
		})
	}
}

func TestFilterDataset_ProjectsAttrs(t *testing.T) {
	dataset := gjson.Parse(reposJSON)
	al := testAttrs(t, "name:title,stargazers_count:stars,!fork")

	rows := FilterDataset(dataset, al, "fork=false,stars>10")
	require.Len(t, rows, 1)
	assert.Equal(t, map[string]interface{}{
		"title": "css-modules-types-generator",
		"stars": float64(12),
		"fork":  false,
	}, rows[0])
}
