// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package aws builds the S3 client used when the response cache is kept in a
// bucket instead of a local file.
package aws
