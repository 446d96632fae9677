// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"encoding/json"
	"time"
)

// Entry is a single cached response.
type Entry struct {
	// Data is the last successfully parsed JSON body for the URL.
	Data json.RawMessage
	// Timestamp is when Data was fetched.
	Timestamp time.Time
	// ETag is the validator returned with Data, if any.
	ETag string
}

// entryJSON is the on-disk shape. Timestamps are unix milliseconds.
type entryJSON struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
	ETag      string          `json:"etag,omitempty"`
}

func (e Entry) MarshalJSON() ([]byte, error) {
	data := e.Data
	if len(data) == 0 {
		data = json.RawMessage("null")
	}
	return json.Marshal(entryJSON{
		Data:      data,
		Timestamp: e.Timestamp.UnixMilli(),
		ETag:      e.ETag,
	})
}

func (e *Entry) UnmarshalJSON(b []byte) error {
	var raw entryJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	e.Data = raw.Data
	e.Timestamp = time.UnixMilli(raw.Timestamp)
	e.ETag = raw.ETag
	return nil
}

// Age is how old the entry is relative to now.
func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.Timestamp)
}
