package ports

import (
	"context"

	"github.com/aretw0/parley/pkg/domain"
)

// SnapshotStore defines the interface for persisting conversation
// transcripts. This makes conversations durable across restarts,
// scoped to one logical entity by the storage key.
type SnapshotStore interface {
	// Save persists the snapshot for a given storage key.
	Save(ctx context.Context, key string, snap *domain.Snapshot) error

	// Load retrieves the snapshot for a given storage key.
	// Returns domain.ErrSnapshotNotFound if the key does not exist.
	Load(ctx context.Context, key string) (*domain.Snapshot, error)

	// Delete removes the snapshot for a given storage key.
	Delete(ctx context.Context, key string) error

	// List returns the storage keys with a persisted snapshot.
	List(ctx context.Context) ([]string, error)
}
