// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package meta

import (
	"context"

	"github.com/staranto/ghstatsgo/internal/cache"
	"github.com/staranto/ghstatsgo/internal/config"
)

// StoreFunc returns the process wide response cache. It is built on first
// use so commands that never read the cache do not depend on its config.
type StoreFunc func() (*cache.Store, error)

// Meta are the meta-options that are available on all commands.
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context
	// Store is the process wide response cache shared by every command.
	Store       StoreFunc
	StartingDir string
}
