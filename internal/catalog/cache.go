package catalog

import (
	"context"
	"errors"

	"github.com/sweethut/storefront/internal/domain"
)

// Cache holds catalog query results keyed by canonical filter string.
type Cache interface {
	Get(ctx context.Context, key string) ([]domain.Product, error)
	Set(ctx context.Context, key string, products []domain.Product) error
	Delete(ctx context.Context, key string) error
}

var ErrCacheMiss = errors.New("cache miss")
