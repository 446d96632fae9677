// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/staranto/ghstatsgo/internal/meta"
)

// cacheRow is one cache entry as listed by cq.
type cacheRow struct {
	URL       string    `json:"url"`
	Timestamp time.Time `json:"timestamp"`
	Age       string    `json:"age"`
	Fresh     bool      `json:"fresh"`
	Usable    bool      `json:"usable"`
	ETag      string    `json:"etag,omitempty"`
	Size      string    `json:"size"`
}

func CqCommandAction(ctx context.Context, cmd *cli.Command) error {
	if ShortCircuitTLDR(ctx, cmd, "cq") {
		return nil
	}
	if DumpSchemaIfRequested(cmd, reflect.TypeOf(cacheRow{})) {
		return nil
	}

	store, err := storeFor(cmd)
	if err != nil {
		return err
	}
	store.Init(ctx)

	if cmd.Bool("purge") {
		n := len(store.Entries())
		if err := store.Purge(ctx); err != nil {
			return err
		}
		fmt.Fprintf(stderr(cmd), "purged %d cache entries\n", n)
		return nil
	}

	now := store.Now()
	records := store.Entries()
	rows := make([]cacheRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, cacheRow{
			URL:       r.URL,
			Timestamp: r.Entry.Timestamp,
			Age:       humanize.RelTime(r.Entry.Timestamp, now, "ago", "from now"),
			Fresh:     store.IsValid(r.Entry),
			Usable:    store.IsStaleButUsable(r.Entry),
			ETag:      r.Entry.ETag,
			Size:      humanize.Bytes(uint64(len(r.Entry.Data))),
		})
	}
	log.Debugf("listing %d cache entries", len(rows))

	attrs := BuildAttrs(cmd, "url", "age", "fresh", "usable", "size")
	return Emit(rows, attrs, cmd, "")
}

func CqCommandBuilder(_ *cli.Command, meta meta.Meta) *cli.Command {
	flags := []cli.Flag{
		newTldrFlag(),
		newSchemaFlag(),
		&cli.BoolFlag{
			Name:        "purge",
			Usage:       "drop every cache entry",
			HideDefault: true,
		},
	}
	flags = append(flags, NewGlobalFlags("cq", meta.Config.Source)...)

	return &cli.Command{
		Name:      "cq",
		Usage:     "cache query",
		UsageText: "ghstats cq [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  flags,
		Action: CqCommandAction,
	}
}
