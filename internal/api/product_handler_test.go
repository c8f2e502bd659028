package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sweethut/storefront/internal/domain"
)

func TestProductList_Success(t *testing.T) {
	handler := NewProductHandler(seededCatalog())

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/api/v1/products?category=chocolates", nil)

	handler.List(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var products []domain.Product
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&products))
	assert.Len(t, products, 2)
}

func TestProductList_EmptyResultIsArray(t *testing.T) {
	handler := NewProductHandler(fakeCatalog{})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/api/v1/products", nil)

	handler.List(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, "[]", recorder.Body.String())
}

func TestProductGet_NotFound(t *testing.T) {
	handler := NewProductHandler(seededCatalog())

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/api/v1/products/999", nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "999")
	request = request.WithContext(context.WithValue(request.Context(), chi.RouteCtxKey, rctx))

	handler.Get(recorder, request)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestProductGet_Success(t *testing.T) {
	handler := NewProductHandler(seededCatalog())

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/api/v1/products/1", nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "1")
	request = request.WithContext(context.WithValue(request.Context(), chi.RouteCtxKey, rctx))

	handler.Get(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var product domain.Product
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&product))
	assert.Equal(t, "Chocolate Truffle Box", product.Name)
}
