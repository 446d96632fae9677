// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/ghstatsgo/internal/command"
	"github.com/staranto/ghstatsgo/internal/config"
	mylog "github.com/staranto/ghstatsgo/internal/log"
	"github.com/staranto/ghstatsgo/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain(os.Args))
}

func realMain(args []string) int {
	mylog.InitLogger()

	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "No command specified.")
		args = append(args, "--help")
	} else {
		args = mangleArguments(args)
	}

	// Short-circuit --version/-v.
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return 0
		}
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	return 0
}

// mangleArguments expands an argument set from the config file into args. A
// set is named with @name anywhere after the subcommand and is read from the
// "<subcommand>.<name>" list; without one, "<subcommand>.defaults" is used.
// The set's arguments are inserted where the @name was, or right after the
// subcommand, so explicit arguments later on the command line still win.
func mangleArguments(args []string) []string {
	// Short-circuit for --help/-h. If help is requested, just keep the preamble
	// and add --help flag.
	for _, a := range args {
		if a == "--help" || a == "-h" {
			return []string{args[0], args[1], "--help"}
		}
	}

	if strings.HasPrefix(args[1], "-") {
		return args
	}

	out := make([]string, 0, len(args))
	out = append(out, args[:2]...)

	idx := 2
	set := "defaults"
	rest := args[2:]
	for i, a := range rest {
		if strings.HasPrefix(a, "@") {
			set = a[1:]
			idx += i
			rest = append(append([]string{}, rest[:i]...), rest[i+1:]...)
			break
		}
	}
	out = append(out, rest...)

	setArgs, _ := config.GetStringSlice(args[1] + "." + set)
	for _, arg := range setArgs {
		parts := strings.Fields(arg)
		out = append(out[:idx], append(parts, out[idx:]...)...)
		idx += len(parts)
	}

	log.Debugf("idx=%d, set=%s, args=%v", idx, set, out)
	return out
}
