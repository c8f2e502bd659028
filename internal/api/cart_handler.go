package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sweethut/storefront/internal/cart"
	"github.com/sweethut/storefront/internal/catalog"
	"github.com/sweethut/storefront/internal/domain"
)

type CartHandler struct {
	carts   *cart.Manager
	catalog Catalog
}

func NewCartHandler(carts *cart.Manager, catalog Catalog) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: catalog,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponseDTO struct {
	Items      []domain.CartItem `json:"items"`
	TotalItems int               `json:"total_items"`
	TotalPrice float64           `json:"total_price"`
}

// storeFor resolves the caller's cart. Anonymous customers get the
// default cart, signed-in customers their own.
func (h *CartHandler) storeFor(r *http.Request) (*cart.Store, error) {
	customerID := ""
	if user, ok := userFromContext(r.Context()); ok {
		customerID = user.ID
	}
	return h.carts.StoreFor(r.Context(), customerID)
}

func cartResponse(store *cart.Store) CartResponseDTO {
	items := store.Items()
	if items == nil {
		items = []domain.CartItem{}
	}
	return CartResponseDTO{
		Items:      items,
		TotalItems: store.TotalItems(),
		TotalPrice: store.TotalPrice(),
	}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	store, err := h.storeFor(r)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_error", "failed to load cart")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(store))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "product_not_found", "no product with id "+req.ProductID)
			return
		}
		respondError(w, http.StatusInternalServerError, "catalog_error", "failed to load product")
		return
	}

	store, err := h.storeFor(r)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_error", "failed to load cart")
		return
	}

	item := domain.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Image:     product.Image,
		Category:  product.Category,
	}
	if err := store.AddItem(r.Context(), item, req.Quantity); err != nil {
		respondError(w, http.StatusInternalServerError, "cart_error", "failed to add item")
		return
	}

	respondJSON(w, http.StatusCreated, cartResponse(store))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	store, err := h.storeFor(r)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_error", "failed to load cart")
		return
	}

	if err := store.UpdateQuantity(r.Context(), productID, req.Quantity); err != nil {
		respondError(w, http.StatusInternalServerError, "cart_error", "failed to update quantity")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(store))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")

	store, err := h.storeFor(r)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_error", "failed to load cart")
		return
	}

	if err := store.RemoveItem(r.Context(), productID); err != nil {
		respondError(w, http.StatusInternalServerError, "cart_error", "failed to remove item")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(store))
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	store, err := h.storeFor(r)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_error", "failed to load cart")
		return
	}

	if err := store.Clear(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, "cart_error", "failed to clear cart")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(store))
}
