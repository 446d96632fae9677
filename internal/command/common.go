// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"reflect"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/ghstatsgo/internal/attrs"
	"github.com/staranto/ghstatsgo/internal/config"
	"github.com/staranto/ghstatsgo/internal/github"
	"github.com/staranto/ghstatsgo/internal/meta"
	"github.com/staranto/ghstatsgo/internal/output"
)

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr ghstats <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "ghstats", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// DumpSchemaIfRequested prints the attributes of t when --schema is set, and
// returns true if it handled the request.
func DumpSchemaIfRequested(cmd *cli.Command, t reflect.Type) bool {
	if t != nil && cmd.Bool("schema") {
		output.DumpSchema(stdout(cmd), "", t)
		return true
	}
	return false
}

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList) {
	//nolint:errcheck
	{
		for _, d := range defaults {
			al.Set(d)
		}
		if extras := cmd.String("attrs"); extras != "" {
			al.Set(extras)
		}
		al.SetGlobalTransformSpec()
	}
	return
}

// Emit marshals result to JSON and passes it to the common output routine.
func Emit(result any, al attrs.AttrList, cmd *cli.Command, parent string) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	return output.SliceDiceSpit(raw, al, cmd, parent, stdout(cmd))
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// NewClient builds a github.Client from the command's flags and config,
// backed by the shared store in meta.
func NewClient(cmd *cli.Command) (*github.Client, error) {
	store, err := storeFor(cmd)
	if err != nil {
		return nil, err
	}

	user := cmd.String("user")
	author, _ := config.GetString("author", user)
	featured, _ := config.GetStringSlice("featured", github.DefaultFeatured)
	if names := cmd.StringSlice("featured"); len(names) > 0 {
		featured = names
	}

	return github.NewClient(store, user,
		github.WithAPI(cmd.String("api")),
		github.WithToken(cmd.String("token")),
		github.WithAuthor(author),
		github.WithFeatured(featured),
		github.WithTimeout(cmd.Duration("timeout")),
	), nil
}

// stdout and stderr honour writers set on the root command, which tests use
// to capture output.
func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}

// QueryCommandBuilder constructs a query subcommand: metadata, tldr and schema
// flags, the GitHub and output flags, and the global validator.
type QueryCommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (qcb *QueryCommandBuilder) Build() *cli.Command {
	flags := append([]cli.Flag{newTldrFlag(), newSchemaFlag()}, qcb.Flags...)
	flags = append(flags, NewGitHubFlags(qcb.Name, qcb.Meta.Config.Source)...)
	flags = append(flags, NewGlobalFlags(qcb.Name, qcb.Meta.Config.Source)...)

	return &cli.Command{
		Name:      qcb.Name,
		Usage:     qcb.Usage,
		UsageText: qcb.UsageText,
		Metadata: map[string]any{
			"meta": qcb.Meta,
		},
		Flags: flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if c.Bool("schema") || c.Bool("tldr") {
				return ctx, nil
			}
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: qcb.Action,
	}
}

// QueryActionRunner[T] is the action shared by the query subcommands:
// short-circuits, attrs, fetch, emit.
type QueryActionRunner[T any] struct {
	CommandName  string
	SchemaType   reflect.Type
	DefaultAttrs []string
	// Parent selects the rows inside the marshalled result, if not the root.
	Parent  string
	FetchFn func(context.Context, *cli.Command, *github.Client) (T, error)
}

// Run executes the query action with the provided context and command.
func (qar *QueryActionRunner[T]) Run(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("executing action for %v", m.Args)

	if ShortCircuitTLDR(ctx, cmd, qar.CommandName) {
		return nil
	}
	if DumpSchemaIfRequested(cmd, qar.SchemaType) {
		return nil
	}

	attrs := BuildAttrs(cmd, qar.DefaultAttrs...)
	log.Debugf("attrs: %v", attrs.String())

	client, err := NewClient(cmd)
	if err != nil {
		return err
	}

	result, err := qar.FetchFn(ctx, cmd, client)
	if err != nil {
		return err
	}

	return Emit(result, attrs, cmd, qar.Parent)
}
