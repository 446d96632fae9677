// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/ghstatsgo/internal/output"
)

// ErrNoUser is returned when no GitHub user was configured anywhere.
var ErrNoUser = errors.New("no GitHub user: use --user, GHSTATS_USER or username in ghstats.yaml")

// GlobalFlagsValidator checks what the per-flag validators cannot.
func GlobalFlagsValidator(_ context.Context, c *cli.Command) error {
	if c.String("user") == "" {
		return ErrNoUser
	}
	if c.Duration("timeout") < 0 {
		return fmt.Errorf("--timeout: must not be negative")
	}
	return nil
}

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// JammedFlagValidator verifies that the arg following a flag does not begin
// with '--'.  urfave/cli allows this and I don't see how to turn it off.
func JammedFlagValidator(value any) error {
	if strings.HasPrefix(value.(string), "--") {
		return errors.New("must not begin with '--'")
	}
	return nil
}

func OutputValidator(value any) error {
	s, _ := value.(string)
	if !slices.Contains(output.Formats, s) {
		return fmt.Errorf("must be one of %v", output.Formats)
	}
	return nil
}
