package cart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/sweethut/storefront/internal/domain"
)

// Store holds the line items of one customer's cart. Lines are
// insertion-ordered and keyed by product ID: adding a product that is
// already present increments its quantity instead of duplicating the
// line. Every mutation writes the full snapshot back to storage before
// returning.
type Store struct {
	mu        sync.RWMutex
	storage   SnapshotStorage
	namespace string
	items     []domain.CartItem
}

// NewStore creates a cart store bound to one storage namespace and
// rehydrates any snapshot a previous process left there.
func NewStore(ctx context.Context, storage SnapshotStorage, namespace string) (*Store, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	s := &Store{
		storage:   storage,
		namespace: namespace,
	}

	snap, err := storage.Load(ctx, namespace)
	if err != nil {
		if errors.Is(err, ErrSnapshotNotFound) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to rehydrate cart: %w", err)
	}

	s.items = snap.Items
	return s, nil
}

// AddItem inserts a line for the given product, or increments the
// quantity of the existing line for the same product ID. A non-positive
// quantity is clamped to 1.
func (s *Store) AddItem(ctx context.Context, item domain.CartItem, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == item.ProductID {
			s.items[i].Quantity += quantity
			return s.persist(ctx)
		}
	}

	item.Quantity = quantity
	s.items = append(s.items, item)
	return s.persist(ctx)
}

// RemoveItem deletes the line with the given product ID. Removing an
// absent product is a no-op.
func (s *Store) RemoveItem(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item.ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return s.persist(ctx)
		}
	}
	return nil
}

// UpdateQuantity sets the quantity of an existing line exactly. A
// quantity of zero or less removes the line. Unknown product IDs are a
// no-op. Stock limits are a catalog concern, not enforced here.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, productID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = quantity
			return s.persist(ctx)
		}
	}
	return nil
}

// Clear empties the cart, for example after an order was placed.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	return s.persist(ctx)
}

// Items returns a copy of the cart lines in insertion order.
func (s *Store) Items() []domain.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// TotalItems returns the sum of quantities over all lines.
func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice returns the sum of price times quantity over all lines,
// rounded to two decimals.
func (s *Store) TotalPrice() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0.0
	for _, item := range s.items {
		total += item.Price * float64(item.Quantity)
	}
	return RoundPrice(total)
}

// persist writes the current snapshot. Callers must hold the write lock.
func (s *Store) persist(ctx context.Context) error {
	snap := &Snapshot{
		Items:     s.items,
		UpdatedAt: time.Now(),
	}
	if err := s.storage.Save(ctx, s.namespace, snap); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}

// RoundPrice rounds a monetary amount to two decimals.
func RoundPrice(v float64) float64 {
	return math.Round(v*100) / 100
}
