// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT
package command

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/urfave/cli/v3"

	"github.com/staranto/ghstatsgo/internal/cache"
	"github.com/staranto/ghstatsgo/internal/cacheutil"
	"github.com/staranto/ghstatsgo/internal/config"
	"github.com/staranto/ghstatsgo/internal/meta"
)

// InitApp builds the command tree. The cache store is created at most once and
// handed to every subcommand through meta.Meta. When args run a command that
// reads the cache it is built here so a bad cache config fails early.
func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	store := sync.OnceValues(func() (*cache.Store, error) {
		return cacheutil.NewStore(ctx)
	})
	if usesCache(args) {
		if _, err := store(); err != nil {
			return nil, err
		}
	}
	return NewApp(ctx, args, store), nil
}

// NewApp is InitApp with an explicit store.
func NewApp(ctx context.Context, args []string, store meta.StoreFunc) *cli.Command {
	sd, _ := os.Getwd()

	// args[1] is the subcommand and doubles as the config namespace. It could
	// be -h/--help, so ignore it if it looks like a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	cfg, _ := config.Load(ns)
	meta := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		Store:       store,
		StartingDir: sd,
	}

	app := &cli.Command{
		Name:  "ghstats",
		Usage: "GitHub profile statistics through a durable response cache",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "ghstats version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		CqCommandBuilder(app, meta),
		FqCommandBuilder(app, meta),
		RqCommandBuilder(app, meta),
		SqCommandBuilder(app, meta),
		UqCommandBuilder(app, meta),
		CompletionCommandBuilder(app, meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app
}

// usesCache reports whether args run a query command. Help, tldr, schema and
// completion never touch the cache.
func usesCache(args []string) bool {
	if len(args) < 2 {
		return false
	}
	for _, a := range args[2:] {
		switch a {
		case "--help", "-h", "--tldr", "--schema":
			return false
		}
	}
	switch args[1] {
	case "cq", "fq", "rq", "sq", "uq":
		return true
	}
	return false
}

// storeFor returns the cache store from the command's meta, building it if
// this is the first use.
func storeFor(cmd *cli.Command) (*cache.Store, error) {
	m := GetMeta(cmd)
	if m.Store == nil {
		return nil, fmt.Errorf("command %s has no cache store", cmd.Name)
	}
	return m.Store()
}
