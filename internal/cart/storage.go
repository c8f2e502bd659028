package cart

import (
	"context"
	"errors"
	"time"

	"github.com/sweethut/storefront/internal/domain"
)

// DefaultNamespace is the storage slot used when a store is not scoped
// to a particular customer.
const DefaultNamespace = "cart-storage"

// Snapshot is the serialized form of a cart, written on every mutation
// and read back on startup.
type Snapshot struct {
	Items     []domain.CartItem `json:"items"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// SnapshotStorage defines the durable slot a cart persists into.
// Consumers define this interface, not the SQLite implementation.
type SnapshotStorage interface {
	Load(ctx context.Context, namespace string) (*Snapshot, error)
	Save(ctx context.Context, namespace string, snap *Snapshot) error
	Delete(ctx context.Context, namespace string) error
}

var ErrSnapshotNotFound = errors.New("cart snapshot not found")
