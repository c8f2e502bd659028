package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sweethut/storefront/internal/cart"
	"github.com/sweethut/storefront/internal/domain"
)

func newCartHandler() *CartHandler {
	return NewCartHandler(cart.NewManager(newMemoryStorage()), seededCatalog())
}

func TestCartAddItem_Success(t *testing.T) {
	handler := newCartHandler()

	body, _ := json.Marshal(AddItemRequestDTO{ProductID: "1", Quantity: 2})
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/v1/cart/items", bytes.NewReader(body))

	handler.AddItem(recorder, request)

	require.Equal(t, http.StatusCreated, recorder.Code)

	var resp CartResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Chocolate Truffle Box", resp.Items[0].Name)
	assert.Equal(t, 2, resp.TotalItems)
	assert.InDelta(t, 49.98, resp.TotalPrice, 0.001)
}

func TestCartAddItem_UnknownProduct(t *testing.T) {
	handler := newCartHandler()

	body, _ := json.Marshal(AddItemRequestDTO{ProductID: "999", Quantity: 1})
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/v1/cart/items", bytes.NewReader(body))

	handler.AddItem(recorder, request)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestCartAddItem_InvalidBody(t *testing.T) {
	handler := newCartHandler()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/v1/cart/items", bytes.NewReader([]byte("{")))

	handler.AddItem(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCartGet_EmptyCart(t *testing.T) {
	handler := newCartHandler()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/api/v1/cart", nil)

	handler.Get(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp CartResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Empty(t, resp.Items)
	assert.Equal(t, 0, resp.TotalItems)
}

func TestCartUpdateQuantity_ZeroRemoves(t *testing.T) {
	handler := newCartHandler()

	addBody, _ := json.Marshal(AddItemRequestDTO{ProductID: "1", Quantity: 2})
	addReq := httptest.NewRequest("POST", "/api/v1/cart/items", bytes.NewReader(addBody))
	handler.AddItem(httptest.NewRecorder(), addReq)

	body, _ := json.Marshal(UpdateQuantityRequestDTO{Quantity: 0})
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("PUT", "/api/v1/cart/items/1", bytes.NewReader(body))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("product_id", "1")
	request = request.WithContext(context.WithValue(request.Context(), chi.RouteCtxKey, rctx))

	handler.UpdateQuantity(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp CartResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Empty(t, resp.Items)
}

func TestCart_SeparateCartsPerUser(t *testing.T) {
	handler := newCartHandler()

	body, _ := json.Marshal(AddItemRequestDTO{ProductID: "1", Quantity: 1})
	request := httptest.NewRequest("POST", "/api/v1/cart/items", bytes.NewReader(body))
	request = withUser(request, domain.User{ID: "alice"})
	handler.AddItem(httptest.NewRecorder(), request)

	// bob's cart stays empty
	recorder := httptest.NewRecorder()
	getReq := httptest.NewRequest("GET", "/api/v1/cart", nil)
	getReq = withUser(getReq, domain.User{ID: "bob"})
	handler.Get(recorder, getReq)

	var resp CartResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Empty(t, resp.Items)
}
