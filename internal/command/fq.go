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

func FqCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[github.Projects]{
		CommandName: "fq",
		SchemaType:  reflect.TypeOf(github.Project{}),
		DefaultAttrs: []string{
			"title",
			"language",
			"stars",
			"description",
		},
		Parent: "projects",
		FetchFn: func(ctx context.Context, cmd *cli.Command, client *github.Client) (github.Projects, error) {
			projects := client.FetchFeaturedProjects(ctx)
			if projects.IsError {
				fmt.Fprintln(stderr(cmd), projects.ErrorMessage)
			}
			return projects, nil
		},
	}
	return runner.Run(ctx, cmd)
}

func FqCommandBuilder(_ *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "fq",
		Usage:     "featured projects query",
		UsageText: "ghstats fq [options]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "featured",
				Usage: "repository names to feature, in display order",
			},
		},
		Action: FqCommandAction,
		Meta:   meta,
	}).Build()
}
