package store

import (
	"context"

	"github.com/hederw/nfs-extrator/internal/model"
)

// maxSavedBatches caps the extraction history kept in the store; saving a new
// batch prunes the oldest beyond this count.
const maxSavedBatches = 20

// Store defines the persistence interface for quota state, layouts and
// extraction history. Get returns ("", false, nil) for an absent key.
type Store interface {
	// Key-value state (quota counter and friends)
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error

	// Layouts
	ListLayouts(ctx context.Context) ([]model.Layout, error)
	GetLayout(ctx context.Context, name string) (*model.Layout, error)
	SaveLayout(ctx context.Context, l model.Layout) error
	DeleteLayout(ctx context.Context, id string) error

	// Extraction history
	SaveBatch(ctx context.Context, b *model.Batch) error
	ListBatches(ctx context.Context) ([]model.Batch, error)
	GetBatch(ctx context.Context, id string) (*model.Batch, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
