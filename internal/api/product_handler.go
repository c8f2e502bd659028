package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sweethut/storefront/internal/catalog"
	"github.com/sweethut/storefront/internal/domain"
)

const featuredLimit = 4

// Catalog is the product read path the handlers need.
type Catalog interface {
	Query(ctx context.Context, filter catalog.Filter) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	Featured(ctx context.Context, limit int) ([]domain.Product, error)
	Related(ctx context.Context, productID, category string) ([]domain.Product, error)
}

type ProductHandler struct {
	catalog Catalog
}

func NewProductHandler(catalog Catalog) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := catalog.Filter{
		Category:   q.Get("category"),
		Collection: q.Get("collection"),
		PriceRange: q.Get("priceRange"),
		SortBy:     q.Get("sortBy"),
	}

	products, err := h.catalog.Query(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "catalog_error", "failed to load products")
		return
	}

	if products == nil {
		products = []domain.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "product_not_found", "no product with id "+id)
			return
		}
		respondError(w, http.StatusInternalServerError, "catalog_error", "failed to load product")
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Featured(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Featured(r.Context(), featuredLimit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "catalog_error", "failed to load featured products")
		return
	}

	if products == nil {
		products = []domain.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Related(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "product_not_found", "no product with id "+id)
			return
		}
		respondError(w, http.StatusInternalServerError, "catalog_error", "failed to load product")
		return
	}

	related, err := h.catalog.Related(r.Context(), product.ID, product.Category)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "catalog_error", "failed to load related products")
		return
	}

	if related == nil {
		related = []domain.Product{}
	}
	respondJSON(w, http.StatusOK, related)
}
