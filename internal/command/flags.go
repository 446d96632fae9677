// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os"
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/ghstatsgo/internal/github"
	"github.com/staranto/ghstatsgo/internal/output"
)

// newSchemaFlag and newTldrFlag return fresh flags per command since cli
// flags carry their parsed value.
func newSchemaFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "schema",
		Usage:       "dump the attributes available to --attrs",
		HideDefault: true,
	}
}

func newTldrFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
}

// NewGlobalFlags returns the output flags shared by every query command. ns
// is the command name, used as the config namespace; path is the config file.
func NewGlobalFlags(ns string, path string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+".color", altsrc.StringSourcer(path)),
				yaml.YAML("color", altsrc.StringSourcer(path)),
			),
			Value: output.IsTerminal(os.Stdout),
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.BoolFlag{
			Name:    "local",
			Aliases: []string{"l"},
			Usage:   "show timestamps in the local timezone",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+".local", altsrc.StringSourcer(path)),
				yaml.YAML("local", altsrc.StringSourcer(path)),
			),
			HideDefault: true,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format (text, json, yaml, raw)",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+".output", altsrc.StringSourcer(path)),
				yaml.YAML("output", altsrc.StringSourcer(path)),
			),
			Value: output.FormatText,
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+".sort", altsrc.StringSourcer(path)),
			),
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+".titles", altsrc.StringSourcer(path)),
				yaml.YAML("titles", altsrc.StringSourcer(path)),
			),
			Value: false,
		},
	}
}

// NewGitHubFlags returns the flags that configure the github.Client.
func NewGitHubFlags(ns string, path string) []cli.Flag {
	return []cli.Flag{
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:    "user",
			Aliases: []string{"u"},
			Usage:   "GitHub user to query",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("GHSTATS_USER"),
			),
		}, "username"),
		&cli.StringFlag{
			Name:  "token",
			Usage: "GitHub token, sent as a bearer credential",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("GHSTATS_TOKEN"),
				cli.EnvVar("GITHUB_TOKEN"),
			),
		},
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:  "api",
			Usage: "GitHub REST API base URL",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("GHSTATS_API"),
			),
			Value: github.DefaultAPI,
		}),
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "per-request timeout",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("GHSTATS_TIMEOUT"),
				yaml.YAML(ns+".timeout", altsrc.StringSourcer(path)),
				yaml.YAML("timeout", altsrc.StringSourcer(path)),
			),
			Value: github.DefaultTimeout,
		},
	}
}

// NameSpacedValueChainFlagFromConfigFile appends the namespaced and global
// config file keys to the flag's Sources chain. The key defaults to the flag
// name.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag, key ...string) *cli.StringFlag {
	k := flag.Name
	if len(key) > 0 {
		k = key[0]
	}

	if ns != "" {
		flag.Sources.Chain = append(flag.Sources.Chain, yaml.YAML(ns+"."+k, altsrc.StringSourcer(path)))
	}
	flag.Sources.Chain = append(flag.Sources.Chain, yaml.YAML(k, altsrc.StringSourcer(path)))

	return flag
}

// pathHas reports whether target is an executable on $PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
