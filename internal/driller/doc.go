// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package driller walks a JSON document along a dotted path, the way the
// --attrs, --filter and --sort flags address fields of an API response.
package driller
