// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package driller

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// indexRegex matches a path segment with an array subscript, e.g. topics[1].
var indexRegex = regexp.MustCompile(`^(.*)\[(\d+)\]$`)

// Driller returns the value at path inside the JSON document js. Segments are
// separated by "." and may carry an explicit [n] subscript. A single element
// array is drilled through without a subscript. A path that leads nowhere
// yields an empty Result.
func Driller(js string, path string) gjson.Result {
	current := gjson.Parse(js)
	if path == "" {
		return current
	}

	for _, segment := range strings.Split(path, ".") {
		name, idx := segment, -1
		if m := indexRegex.FindStringSubmatch(segment); m != nil {
			name = m[1]
			idx, _ = strconv.Atoi(m[2])
		}

		current = unwrap(current)
		if name != "" {
			// Map lookup keeps keys with gjson metacharacters (- * ?) literal.
			next, ok := current.Map()[name]
			if !ok {
				return gjson.Result{}
			}
			current = next
		}

		if idx >= 0 {
			elems := current.Array()
			if !current.IsArray() || idx >= len(elems) {
				return gjson.Result{}
			}
			current = elems[idx]
		}
	}

	return unwrap(current)
}

// unwrap descends into single element arrays.
func unwrap(r gjson.Result) gjson.Result {
	for r.IsArray() {
		elems := r.Array()
		if len(elems) != 1 {
			break
		}
		r = elems[0]
	}
	return r
}
