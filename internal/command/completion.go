// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/ghstatsgo/internal/meta"
)

const bashCompletionScript = `# bash completion for ghstats
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_ghstats()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "cq fq rq sq uq completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--attrs -a --color -c --filter -f --local -l --output -o --sort -s --titles -t --schema --tldr"
    local github="--user -u --token --api --timeout"

    case "$cmd" in
        cq)
            local opts="$common --purge"
            ;;
        fq)
            local opts="$common $github --featured"
            ;;
        rq|sq|uq)
            local opts="$common $github"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text json yaml raw" -- "$cur") )
        return 0
    fi

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}

complete -F _ghstats ghstats
`

const zshCompletionScript = `#compdef ghstats

_ghstats() {
  local -a cmds
  cmds=(
    'cq:cache query'
    'fq:featured projects query'
    'rq:repository query'
    'sq:stats query'
    'uq:user query'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-l --local)'{-l,--local}'[local timestamps]'
  '(-o --output)'{-o,--output}'[output format]:format:(text json yaml raw)'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--schema[dump schema]'
  '--tldr[show tldr page]'
  )

  local -a github
  github=(
  '(-u --user)'{-u,--user}'[GitHub user]:user'
  '--token[GitHub token]:token'
  '--api[API base URL]:url'
  '--timeout[request timeout]:duration'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'ghstats commands' cmds
    return
  fi

  case $words[2] in
    cq)
      _arguments -C $common '--purge[drop every cache entry]'
      ;;
    fq)
      _arguments -C $common $github '*--featured[repository to feature]:name'
      ;;
    rq|sq|uq)
      _arguments -C $common $github
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _ghstats ghstats
`

func CompletionCommandAction(_ context.Context, cmd *cli.Command) error {
	shell := cmd.Args().First()
	if shell == "" {
		switch sh := os.Getenv("SHELL"); {
		case strings.HasSuffix(sh, "zsh"):
			shell = "zsh"
		case strings.HasSuffix(sh, "bash"):
			shell = "bash"
		}
	}

	switch shell {
	case "bash":
		fmt.Fprint(stdout(cmd), bashCompletionScript)
	case "zsh":
		fmt.Fprint(stdout(cmd), zshCompletionScript)
	default:
		fmt.Fprintln(stderr(cmd), "usage: ghstats completion [bash|zsh]")
	}
	return nil
}

func CompletionCommandBuilder(_ *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "ghstats completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
