package storage

import (
	"fmt"
	"strings"
	"time"
)

// Package storage provides local DB/cache abstraction.

// Store tracks published vault snapshot IDs.
type Store interface {
	Close() error
	SeenVault(id string) (bool, error)
	MarkVault(id string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	VaultTTL        time.Duration
	CleanupInterval time.Duration
}

const (
	defaultVaultTTL        = 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.VaultTTL <= 0 {
		opts.VaultTTL = defaultVaultTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                   { return nil }
func (noopStore) SeenVault(string) (bool, error) { return false, nil }
func (noopStore) MarkVault(string) error         { return nil }
