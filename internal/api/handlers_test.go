package api

import (
	"context"
	"net/http"
	"sync"

	"github.com/sweethut/storefront/internal/cart"
	"github.com/sweethut/storefront/internal/catalog"
	"github.com/sweethut/storefront/internal/domain"
)

// Shared fakes for the handler tests.

type fakeCatalog struct {
	products []domain.Product
	err      error
}

func (f fakeCatalog) Query(context.Context, catalog.Filter) ([]domain.Product, error) {
	return f.products, f.err
}

func (f fakeCatalog) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.products {
		if f.products[i].ID == id {
			return &f.products[i], nil
		}
	}
	return nil, catalog.ErrProductNotFound
}

func (f fakeCatalog) Featured(context.Context, int) ([]domain.Product, error) {
	return f.products, f.err
}

func (f fakeCatalog) Related(context.Context, string, string) ([]domain.Product, error) {
	return f.products, f.err
}

type memoryStorage struct {
	m     sync.RWMutex
	snaps map[string]*cart.Snapshot
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{snaps: make(map[string]*cart.Snapshot)}
}

func (m *memoryStorage) Load(_ context.Context, namespace string) (*cart.Snapshot, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	snap, ok := m.snaps[namespace]
	if !ok {
		return nil, cart.ErrSnapshotNotFound
	}
	return snap, nil
}

func (m *memoryStorage) Save(_ context.Context, namespace string, snap *cart.Snapshot) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.snaps[namespace] = snap
	return nil
}

func (m *memoryStorage) Delete(_ context.Context, namespace string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.snaps, namespace)
	return nil
}

func withUser(r *http.Request, user domain.User) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}

func seededCatalog() fakeCatalog {
	return fakeCatalog{products: []domain.Product{
		{ID: "1", Name: "Chocolate Truffle Box", Price: 24.99, Category: "chocolates"},
		{ID: "2", Name: "Assorted Macarons", Price: 18.99, Category: "pastries"},
	}}
}
