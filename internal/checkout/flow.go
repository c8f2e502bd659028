package checkout

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sweethut/storefront/internal/cart"
	"github.com/sweethut/storefront/internal/domain"
	"github.com/sweethut/storefront/internal/events"
)

// Pricing constants. Standard shipping is free above the threshold.
const (
	ExpressShippingCost   = 12.99
	StandardShippingCost  = 5.99
	FreeShippingThreshold = 50.00
	TaxRate               = 0.08
)

// Summary is the order total breakdown, recomputed from the live cart
// on every read rather than cached.
type Summary struct {
	Subtotal     float64 `json:"subtotal"`
	ShippingCost float64 `json:"shipping_cost"`
	Tax          float64 `json:"tax"`
	Total        float64 `json:"total"`
}

// Flow walks one customer through shipping, payment, and review. Form
// data survives back-navigation; the cart is only touched when the
// order is actually placed.
type Flow struct {
	mu        sync.Mutex
	cart      *cart.Store
	user      domain.User
	publisher events.Publisher

	step     Step
	method   domain.ShippingMethod
	shipping domain.ShippingInfo
	payment  domain.PaymentInfo
}

// Begin guards entry into checkout: no session or an empty cart refuses
// the flow outright so the caller can redirect instead.
func Begin(cartStore *cart.Store, user domain.User, publisher events.Publisher) (*Flow, error) {
	if user.ID == "" {
		return nil, ErrNotSignedIn
	}
	if cartStore.TotalItems() == 0 {
		return nil, ErrEmptyCart
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}

	return &Flow{
		cart:      cartStore,
		user:      user,
		publisher: publisher,
		step:      StepShipping,
		method:    domain.ShippingStandard,
		shipping: domain.ShippingInfo{
			Email:   user.Email,
			Country: "United States",
		},
	}, nil
}

func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

func (f *Flow) Shipping() domain.ShippingInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shipping
}

func (f *Flow) Payment() domain.PaymentInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.payment
}

func (f *Flow) Method() domain.ShippingMethod {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.method
}

// SetMethod selects the shipping method used for pricing.
func (f *Flow) SetMethod(method domain.ShippingMethod) error {
	if method != domain.ShippingStandard && method != domain.ShippingExpress {
		return fmt.Errorf("%w: %q", ErrUnknownShipMethod, method)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.method = method
	return nil
}

// SubmitShipping validates the address form and advances to payment.
func (f *Flow) SubmitShipping(info domain.ShippingInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepShipping {
		return fmt.Errorf("%w: submit shipping from %s", ErrIllegalTransition, f.step)
	}
	if err := validateShipping(info); err != nil {
		return err
	}

	f.shipping = info
	f.step = StepPayment
	return nil
}

// SubmitPayment validates the card form and advances to review.
func (f *Flow) SubmitPayment(info domain.PaymentInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepPayment {
		return fmt.Errorf("%w: submit payment from %s", ErrIllegalTransition, f.step)
	}
	if err := validatePayment(info); err != nil {
		return err
	}

	f.payment = info
	f.step = StepReview
	return nil
}

// Back steps to the previous form without discarding anything entered.
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.step {
	case StepPayment:
		f.step = StepShipping
	case StepReview:
		f.step = StepPayment
	default:
		return fmt.Errorf("%w: back from %s", ErrIllegalTransition, f.step)
	}
	return nil
}

// Summarize recomputes the totals from the current cart contents.
func (f *Flow) Summarize() Summary {
	f.mu.Lock()
	method := f.method
	f.mu.Unlock()

	subtotal := f.cart.TotalPrice()

	var shippingCost float64
	switch {
	case method == domain.ShippingExpress:
		shippingCost = ExpressShippingCost
	case subtotal >= FreeShippingThreshold:
		shippingCost = 0
	default:
		shippingCost = StandardShippingCost
	}

	tax := cart.RoundPrice(subtotal * TaxRate)

	return Summary{
		Subtotal:     subtotal,
		ShippingCost: shippingCost,
		Tax:          tax,
		Total:        cart.RoundPrice(subtotal + shippingCost + tax),
	}
}

// PlaceOrder is only legal from review. It freezes the cart into an
// order, clears the cart, and announces the order. Card details are
// deliberately left off the order.
func (f *Flow) PlaceOrder(ctx context.Context) (*domain.Order, error) {
	if f.Step() != StepReview {
		return nil, fmt.Errorf("%w: place order from %s", ErrIllegalTransition, f.Step())
	}

	summary := f.Summarize()
	items := f.cart.Items()

	orderItems := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, domain.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.Name,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}

	f.mu.Lock()
	order := &domain.Order{
		Number:       generateOrderNumber(),
		UserID:       f.user.ID,
		Items:        orderItems,
		Shipping:     f.shipping,
		Method:       f.method,
		Subtotal:     summary.Subtotal,
		ShippingCost: summary.ShippingCost,
		Tax:          summary.Tax,
		Total:        summary.Total,
		Currency:     "USD",
		PlacedAt:     time.Now(),
	}
	f.mu.Unlock()

	if err := f.cart.Clear(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear cart after order: %w", err)
	}

	if err := f.publisher.PublishOrderPlaced(ctx, order); err != nil {
		log.Printf("failed to publish order %s: %v", order.Number, err)
	}

	return order, nil
}

// generateOrderNumber makes a short human-readable order reference.
func generateOrderNumber() string {
	id := strings.ToUpper(uuid.New().String())
	return "SH-" + strings.ReplaceAll(id, "-", "")[:8]
}
