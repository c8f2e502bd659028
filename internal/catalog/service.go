package catalog

import (
	"context"
	"errors"
	"log"

	"github.com/sweethut/storefront/internal/domain"
	"golang.org/x/sync/singleflight"
)

// ProductRepository defines the catalog reads the service needs.
type ProductRepository interface {
	Query(ctx context.Context, filter Filter) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	Featured(ctx context.Context, limit int) ([]domain.Product, error)
	Related(ctx context.Context, productID, category string) ([]domain.Product, error)
}

// Service is the cached read path over the product repository. Query
// results go through the cache; cache failures are logged and bypassed
// so a broken cache never breaks browsing.
type Service struct {
	repo  ProductRepository
	cache Cache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewService(repo ProductRepository, cache Cache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

func (s *Service) Query(ctx context.Context, filter Filter) ([]domain.Product, error) {
	key := filter.CacheKey()

	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		products, err := s.cache.Get(ctx, key)
		if err == nil {
			return products, nil
		}

		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("cache get error: %v", err)
		}

		products, err = s.repo.Query(ctx, filter)
		if err != nil {
			return nil, err
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), key, products); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return products, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]domain.Product), nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) Featured(ctx context.Context, limit int) ([]domain.Product, error) {
	return s.repo.Featured(ctx, limit)
}

func (s *Service) Related(ctx context.Context, productID, category string) ([]domain.Product, error) {
	return s.repo.Related(ctx, productID, category)
}
