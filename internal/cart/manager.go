package cart

import (
	"context"
	"fmt"
	"sync"
)

// Manager hands out one Store per customer, creating and rehydrating it
// on first access. Each store persists under its own namespace so two
// customers never share a snapshot slot.
type Manager struct {
	mu      sync.Mutex
	storage SnapshotStorage
	stores  map[string]*Store
}

func NewManager(storage SnapshotStorage) *Manager {
	return &Manager{
		storage: storage,
		stores:  make(map[string]*Store),
	}
}

// StoreFor returns the cart store for the given customer ID.
func (m *Manager) StoreFor(ctx context.Context, customerID string) (*Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if store, ok := m.stores[customerID]; ok {
		return store, nil
	}

	namespace := DefaultNamespace
	if customerID != "" {
		namespace = fmt.Sprintf("%s:%s", DefaultNamespace, customerID)
	}

	store, err := NewStore(ctx, m.storage, namespace)
	if err != nil {
		return nil, err
	}

	m.stores[customerID] = store
	return store, nil
}
