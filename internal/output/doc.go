// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package output filters, transforms, sorts and renders API datasets as text
// tables, JSON, YAML or the raw upstream document.
package output
