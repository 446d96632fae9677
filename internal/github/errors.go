// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"errors"
	"fmt"
)

// ErrFetchFailed wraps every error that could not be covered by the cache:
// transport failures, unexpected statuses and undecodable bodies alike.
var ErrFetchFailed = errors.New("GitHub API request failed")

// StatusError is an HTTP response that was neither 2xx nor 304.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GitHub API error: %d %s", e.StatusCode, e.Status)
}
