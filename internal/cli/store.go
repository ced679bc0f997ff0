// Package cli carries the shared wiring behind the parley commands:
// store selection and engine construction for the chat and serve
// frontends.
package cli

import (
	"fmt"

	"github.com/aretw0/parley/pkg/adapters/file"
	"github.com/aretw0/parley/pkg/adapters/memory"
	"github.com/aretw0/parley/pkg/adapters/redis"
	"github.com/aretw0/parley/pkg/ports"
)

// StoreConfig selects and parameterizes a snapshot store backend.
type StoreConfig struct {
	Backend   string // "memory", "file" or "redis"
	Path      string // file backend: directory for snapshots
	RedisAddr string // redis backend: host:port
	RedisDB   int
}

// BuildStore constructs the snapshot store named by cfg.Backend.
func BuildStore(cfg StoreConfig) (ports.SnapshotStore, error) {
	switch cfg.Backend {
	case "", "memory":
		return memory.NewStore(), nil
	case "file":
		if cfg.Path == "" {
			return nil, fmt.Errorf("file store requires a path")
		}
		return file.NewStore(cfg.Path), nil
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("redis store requires an address")
		}
		return redis.New(cfg.RedisAddr, "", cfg.RedisDB), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q (use memory, file or redis)", cfg.Backend)
	}
}
