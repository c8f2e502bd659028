package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/sweethut/storefront/internal/cart"
	"github.com/sweethut/storefront/internal/checkout"
	"github.com/sweethut/storefront/internal/domain"
	"github.com/sweethut/storefront/internal/events"
)

// CheckoutHandler drives one checkout flow per signed-in customer.
type CheckoutHandler struct {
	carts     *cart.Manager
	publisher events.Publisher

	mu    sync.Mutex
	flows map[string]*checkout.Flow
}

func NewCheckoutHandler(carts *cart.Manager, publisher events.Publisher) *CheckoutHandler {
	return &CheckoutHandler{
		carts:     carts,
		publisher: publisher,
		flows:     make(map[string]*checkout.Flow),
	}
}

type CheckoutStateDTO struct {
	Step     string              `json:"step"`
	Method   string              `json:"method"`
	Shipping domain.ShippingInfo `json:"shipping"`
	Summary  checkout.Summary    `json:"summary"`
}

type ShippingMethodDTO struct {
	Method string `json:"method"`
}

func (h *CheckoutHandler) state(flow *checkout.Flow) CheckoutStateDTO {
	return CheckoutStateDTO{
		Step:     flow.Step().String(),
		Method:   string(flow.Method()),
		Shipping: flow.Shipping(),
		Summary:  flow.Summarize(),
	}
}

// Begin guards entry into checkout. Without a session or with an empty
// cart it answers with the view the customer should be sent to instead.
func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "sign_in_required", "/login")
		return
	}

	store, err := h.carts.StoreFor(r.Context(), user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_error", "failed to load cart")
		return
	}

	flow, err := checkout.Begin(store, user, h.publisher)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrNotSignedIn):
			respondError(w, http.StatusUnauthorized, "sign_in_required", "/login")
		case errors.Is(err, checkout.ErrEmptyCart):
			respondError(w, http.StatusConflict, "empty_cart", "/products")
		default:
			respondError(w, http.StatusInternalServerError, "checkout_error", "failed to start checkout")
		}
		return
	}

	h.mu.Lock()
	h.flows[user.ID] = flow
	h.mu.Unlock()

	respondJSON(w, http.StatusCreated, h.state(flow))
}

func (h *CheckoutHandler) State(w http.ResponseWriter, r *http.Request) {
	flow, ok := h.flowFor(r)
	if !ok {
		respondError(w, http.StatusNotFound, "no_checkout", "no checkout in progress")
		return
	}

	respondJSON(w, http.StatusOK, h.state(flow))
}

func (h *CheckoutHandler) SubmitShipping(w http.ResponseWriter, r *http.Request) {
	flow, ok := h.flowFor(r)
	if !ok {
		respondError(w, http.StatusNotFound, "no_checkout", "no checkout in progress")
		return
	}

	var info domain.ShippingInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := flow.SubmitShipping(info); err != nil {
		h.respondFlowError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.state(flow))
}

func (h *CheckoutHandler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	flow, ok := h.flowFor(r)
	if !ok {
		respondError(w, http.StatusNotFound, "no_checkout", "no checkout in progress")
		return
	}

	var info domain.PaymentInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := flow.SubmitPayment(info); err != nil {
		h.respondFlowError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.state(flow))
}

func (h *CheckoutHandler) SetMethod(w http.ResponseWriter, r *http.Request) {
	flow, ok := h.flowFor(r)
	if !ok {
		respondError(w, http.StatusNotFound, "no_checkout", "no checkout in progress")
		return
	}

	var req ShippingMethodDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := flow.SetMethod(domain.ShippingMethod(req.Method)); err != nil {
		h.respondFlowError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.state(flow))
}

func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	flow, ok := h.flowFor(r)
	if !ok {
		respondError(w, http.StatusNotFound, "no_checkout", "no checkout in progress")
		return
	}

	if err := flow.Back(); err != nil {
		h.respondFlowError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.state(flow))
}

func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "sign_in_required", "/login")
		return
	}

	flow, found := h.flowFor(r)
	if !found {
		respondError(w, http.StatusNotFound, "no_checkout", "no checkout in progress")
		return
	}

	order, err := flow.PlaceOrder(r.Context())
	if err != nil {
		h.respondFlowError(w, err)
		return
	}

	// The flow is done; a new checkout starts fresh.
	h.mu.Lock()
	delete(h.flows, user.ID)
	h.mu.Unlock()

	respondJSON(w, http.StatusCreated, order)
}

func (h *CheckoutHandler) flowFor(r *http.Request) (*checkout.Flow, bool) {
	user, ok := userFromContext(r.Context())
	if !ok {
		return nil, false
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	flow, found := h.flows[user.ID]
	return flow, found
}

func (h *CheckoutHandler) respondFlowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrMissingField):
		respondError(w, http.StatusBadRequest, "missing_fields", err.Error())
	case errors.Is(err, checkout.ErrUnknownShipMethod):
		respondError(w, http.StatusBadRequest, "unknown_method", err.Error())
	case errors.Is(err, checkout.ErrIllegalTransition):
		respondError(w, http.StatusConflict, "illegal_transition", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "checkout_error", "checkout operation failed")
	}
}
