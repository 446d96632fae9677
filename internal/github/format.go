// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// FormatRepoName turns "mcp-git-commit-generator" into
// "Mcp Git Commit Generator". Only the first letter of each hyphen-separated
// segment changes; empty segments are kept, so "a--b" becomes "A  B".
func FormatRepoName(name string) string {
	segments := strings.Split(name, "-")
	for i, segment := range segments {
		r, size := utf8.DecodeRuneInString(segment)
		if size == 0 {
			continue
		}
		segments[i] = string(unicode.ToUpper(r)) + segment[size:]
	}
	return strings.Join(segments, " ")
}
