// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"fmt"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/staranto/ghstatsgo/internal/github"
	"github.com/staranto/ghstatsgo/internal/meta"
)

// SqCommandAction prints the aggregate stats. Like FetchStats itself it never
// fails on API errors: the message goes to stderr and the zero counts are
// still emitted.
func SqCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[github.Stats]{
		CommandName: "sq",
		SchemaType:  reflect.TypeOf(github.Stats{}),
		DefaultAttrs: []string{
			"followers",
			"publicRepos:repos",
			"totalStars:stars",
		},
		FetchFn: func(ctx context.Context, cmd *cli.Command, client *github.Client) (github.Stats, error) {
			stats := client.FetchStats(ctx)
			if stats.IsError {
				fmt.Fprintln(stderr(cmd), stats.ErrorMessage)
			}
			return stats, nil
		},
	}
	return runner.Run(ctx, cmd)
}

func SqCommandBuilder(_ *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "sq",
		Usage:     "stats query",
		UsageText: "ghstats sq [options]",
		Action:    SqCommandAction,
		Meta:      meta,
	}).Build()
}
