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

func UqCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[github.User]{
		CommandName: "uq",
		SchemaType:  reflect.TypeOf(github.User{}),
		DefaultAttrs: []string{
			"login",
			"name",
			"public_repos:repos",
			"followers",
			"following",
		},
		FetchFn: func(ctx context.Context, _ *cli.Command, client *github.Client) (github.User, error) {
			return client.FetchUser(ctx)
		},
	}
	return runner.Run(ctx, cmd)
}

func UqCommandBuilder(_ *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "uq",
		Usage:     "user query",
		UsageText: "ghstats uq [options]",
		Action:    UqCommandAction,
		Meta:      meta,
	}).Build()
}
