package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sweethut/storefront/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

const relatedLimit = 4

const productColumns = `id, name, description, price, image_url, category,
	featured, best_seller, is_new, stock, rating, reviews, created_at`

// Repository reads the product table from the local SQLite database.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Query returns the products matching every provided predicate, in the
// requested order (newest-first when no order is requested).
func (r *Repository) Query(ctx context.Context, filter Filter) ([]domain.Product, error) {
	var conds []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Category != "" {
		conds = append(conds, "category = "+arg(filter.Category))
	}

	switch filter.Collection {
	case CollectionBestsellers:
		conds = append(conds, "best_seller = TRUE")
	case CollectionNewArrivals:
		conds = append(conds, "is_new = TRUE")
	}

	if min, max, hasMax, ok := filter.priceBounds(); ok {
		conds = append(conds, "price >= "+arg(min))
		if hasMax {
			conds = append(conds, "price <= "+arg(max))
		}
	}

	query := "SELECT " + productColumns + " FROM products"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	switch filter.SortBy {
	case SortPriceAsc:
		query += " ORDER BY price ASC"
	case SortPriceDesc:
		query += " ORDER BY price DESC"
	default:
		query += " ORDER BY created_at DESC"
	}

	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}

	return r.queryProducts(ctx, query, args...)
}

// GetProduct returns a single product by ID.
func (r *Repository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE id = $1"

	products, err := r.queryProducts(ctx, query, id)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrProductNotFound
	}
	return &products[0], nil
}

// Featured returns up to limit products flagged for the home page.
func (r *Repository) Featured(ctx context.Context, limit int) ([]domain.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE featured = TRUE LIMIT $1"
	return r.queryProducts(ctx, query, limit)
}

// Related returns products in the same category, excluding the product
// itself.
func (r *Repository) Related(ctx context.Context, productID, category string) ([]domain.Product, error) {
	query := "SELECT " + productColumns + ` FROM products
		WHERE category = $1 AND id != $2 LIMIT $3`
	return r.queryProducts(ctx, query, category, productID, relatedLimit)
}

func (r *Repository) queryProducts(ctx context.Context, query string, args ...interface{}) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Price,
			&p.Image,
			&p.Category,
			&p.Featured,
			&p.BestSeller,
			&p.IsNew,
			&p.Stock,
			&p.Rating,
			&p.Reviews,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}
