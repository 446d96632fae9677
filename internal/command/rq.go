// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/staranto/ghstatsgo/internal/github"
	"github.com/staranto/ghstatsgo/internal/meta"
)

func RqCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[[]github.Repo]{
		CommandName: "rq",
		SchemaType:  reflect.TypeOf(github.Repo{}),
		DefaultAttrs: []string{
			"name",
			"language",
			"stargazers_count:stars",
			"updated_at:updated",
		},
		FetchFn: func(ctx context.Context, _ *cli.Command, client *github.Client) ([]github.Repo, error) {
			return client.FetchRepos(ctx)
		},
	}
	return runner.Run(ctx, cmd)
}

func RqCommandBuilder(_ *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "rq",
		Usage:     "repository query",
		UsageText: "ghstats rq [options]",
		Action:    RqCommandAction,
		Meta:      meta,
	}).Build()
}
