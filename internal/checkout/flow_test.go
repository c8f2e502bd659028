package checkout

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sweethut/storefront/internal/cart"
	"github.com/sweethut/storefront/internal/domain"
)

type memoryStorage struct {
	m     sync.RWMutex
	snaps map[string]*cart.Snapshot
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{snaps: make(map[string]*cart.Snapshot)}
}

func (m *memoryStorage) Load(_ context.Context, namespace string) (*cart.Snapshot, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	snap, ok := m.snaps[namespace]
	if !ok {
		return nil, cart.ErrSnapshotNotFound
	}
	return snap, nil
}

func (m *memoryStorage) Save(_ context.Context, namespace string, snap *cart.Snapshot) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.snaps[namespace] = snap
	return nil
}

func (m *memoryStorage) Delete(_ context.Context, namespace string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.snaps, namespace)
	return nil
}

type mockPublisher struct {
	m      sync.Mutex
	orders []*domain.Order
	err    error
}

func (m *mockPublisher) PublishOrderPlaced(_ context.Context, order *domain.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.orders = append(m.orders, order)
	return nil
}

func (m *mockPublisher) published() []*domain.Order {
	m.m.Lock()
	defer m.m.Unlock()
	return m.orders
}

var testUser = domain.User{ID: "user-1", Email: "alice@example.com"}

func cartWithSubtotal(t *testing.T, subtotal float64) *cart.Store {
	store, err := cart.NewStore(context.Background(), newMemoryStorage(), cart.DefaultNamespace)
	require.NoError(t, err)
	item := domain.CartItem{ProductID: "1", Name: "Chocolate Truffle Box", Price: subtotal}
	require.NoError(t, store.AddItem(context.Background(), item, 1))
	return store
}

func validShipping() domain.ShippingInfo {
	return domain.ShippingInfo{
		FirstName: "Alice",
		LastName:  "Smith",
		Email:     "alice@example.com",
		Phone:     "555-0100",
		Address:   "1 Candy Lane",
		City:      "Springfield",
		State:     "IL",
		ZipCode:   "62704",
		Country:   "United States",
	}
}

func validPayment() domain.PaymentInfo {
	return domain.PaymentInfo{
		CardholderName: "Alice Smith",
		CardNumber:     "4242424242424242",
		ExpiryDate:     "12/30",
		CVV:            "123",
	}
}

func TestBegin_RequiresSession(t *testing.T) {
	store := cartWithSubtotal(t, 10)

	_, err := Begin(store, domain.User{}, nil)
	assert.ErrorIs(t, err, ErrNotSignedIn)
	// the guard must not touch the cart
	assert.Equal(t, 1, store.TotalItems())
}

func TestBegin_RequiresNonEmptyCart(t *testing.T) {
	store, err := cart.NewStore(context.Background(), newMemoryStorage(), cart.DefaultNamespace)
	require.NoError(t, err)

	_, err = Begin(store, testUser, nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestBegin_PrefillsEmailAndCountry(t *testing.T) {
	flow, err := Begin(cartWithSubtotal(t, 10), testUser, nil)
	require.NoError(t, err)

	assert.Equal(t, StepShipping, flow.Step())
	assert.Equal(t, "alice@example.com", flow.Shipping().Email)
	assert.Equal(t, "United States", flow.Shipping().Country)
	assert.Equal(t, domain.ShippingStandard, flow.Method())
}

func TestSubmitShipping_MissingFieldsBlockTransition(t *testing.T) {
	flow, err := Begin(cartWithSubtotal(t, 10), testUser, nil)
	require.NoError(t, err)

	info := validShipping()
	info.City = ""
	info.Phone = "  "

	err = flow.SubmitShipping(info)
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "city")
	assert.Contains(t, err.Error(), "phone")
	assert.Equal(t, StepShipping, flow.Step())
}

func TestSubmitPayment_MissingFieldsBlockTransition(t *testing.T) {
	flow, err := Begin(cartWithSubtotal(t, 10), testUser, nil)
	require.NoError(t, err)
	require.NoError(t, flow.SubmitShipping(validShipping()))

	err = flow.SubmitPayment(domain.PaymentInfo{CardholderName: "Alice Smith"})
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Equal(t, StepPayment, flow.Step())
}

func TestHappyPathTransitions(t *testing.T) {
	flow, err := Begin(cartWithSubtotal(t, 10), testUser, nil)
	require.NoError(t, err)

	require.NoError(t, flow.SubmitShipping(validShipping()))
	assert.Equal(t, StepPayment, flow.Step())

	require.NoError(t, flow.SubmitPayment(validPayment()))
	assert.Equal(t, StepReview, flow.Step())
}

func TestOutOfOrderSubmissionsRejected(t *testing.T) {
	flow, err := Begin(cartWithSubtotal(t, 10), testUser, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, flow.SubmitPayment(validPayment()), ErrIllegalTransition)

	require.NoError(t, flow.SubmitShipping(validShipping()))
	assert.ErrorIs(t, flow.SubmitShipping(validShipping()), ErrIllegalTransition)
}

func TestBack_PreservesEnteredData(t *testing.T) {
	flow, err := Begin(cartWithSubtotal(t, 10), testUser, nil)
	require.NoError(t, err)

	shipping := validShipping()
	payment := validPayment()
	require.NoError(t, flow.SubmitShipping(shipping))
	require.NoError(t, flow.SubmitPayment(payment))

	require.NoError(t, flow.Back())
	assert.Equal(t, StepPayment, flow.Step())
	assert.Equal(t, payment, flow.Payment())

	require.NoError(t, flow.Back())
	assert.Equal(t, StepShipping, flow.Step())
	assert.Equal(t, shipping, flow.Shipping())

	assert.ErrorIs(t, flow.Back(), ErrIllegalTransition)
}

func TestSummarize_StandardShippingBelowThreshold(t *testing.T) {
	flow, err := Begin(cartWithSubtotal(t, 40), testUser, nil)
	require.NoError(t, err)

	summary := flow.Summarize()
	assert.Equal(t, 40.00, summary.Subtotal)
	assert.Equal(t, 5.99, summary.ShippingCost)
	assert.Equal(t, 3.20, summary.Tax)
	assert.Equal(t, 49.19, summary.Total)
}

func TestSummarize_FreeShippingAtThreshold(t *testing.T) {
	flow, err := Begin(cartWithSubtotal(t, 50), testUser, nil)
	require.NoError(t, err)

	summary := flow.Summarize()
	assert.Equal(t, 0.00, summary.ShippingCost)
	assert.Equal(t, 4.00, summary.Tax)
	assert.Equal(t, 54.00, summary.Total)
}

func TestSummarize_ExpressAlwaysCharges(t *testing.T) {
	flow, err := Begin(cartWithSubtotal(t, 200), testUser, nil)
	require.NoError(t, err)
	require.NoError(t, flow.SetMethod(domain.ShippingExpress))

	summary := flow.Summarize()
	assert.Equal(t, 12.99, summary.ShippingCost)
}

func TestSummarize_TaxOnHundred(t *testing.T) {
	flow, err := Begin(cartWithSubtotal(t, 100), testUser, nil)
	require.NoError(t, err)

	summary := flow.Summarize()
	assert.Equal(t, 8.00, summary.Tax)
	assert.Equal(t, summary.Subtotal+summary.ShippingCost+summary.Tax, summary.Total)
}

func TestSummarize_ReflectsLiveCart(t *testing.T) {
	store := cartWithSubtotal(t, 40)
	flow, err := Begin(store, testUser, nil)
	require.NoError(t, err)

	require.Equal(t, 5.99, flow.Summarize().ShippingCost)

	// crossing the threshold mid-checkout changes the quote
	extra := domain.CartItem{ProductID: "2", Name: "Assorted Macarons", Price: 15}
	require.NoError(t, store.AddItem(context.Background(), extra, 1))
	assert.Equal(t, 0.00, flow.Summarize().ShippingCost)
}

func TestSetMethod_RejectsUnknown(t *testing.T) {
	flow, err := Begin(cartWithSubtotal(t, 10), testUser, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, flow.SetMethod("carrier-pigeon"), ErrUnknownShipMethod)
	assert.Equal(t, domain.ShippingStandard, flow.Method())
}

func TestPlaceOrder_OnlyFromReview(t *testing.T) {
	flow, err := Begin(cartWithSubtotal(t, 10), testUser, nil)
	require.NoError(t, err)

	_, err = flow.PlaceOrder(context.Background())
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestPlaceOrder_ClearsCartAndPublishes(t *testing.T) {
	store := cartWithSubtotal(t, 40)
	publisher := &mockPublisher{}

	flow, err := Begin(store, testUser, publisher)
	require.NoError(t, err)
	require.NoError(t, flow.SubmitShipping(validShipping()))
	require.NoError(t, flow.SubmitPayment(validPayment()))

	order, err := flow.PlaceOrder(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, order.Number)
	assert.Contains(t, order.Number, "SH-")
	assert.Equal(t, "user-1", order.UserID)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Chocolate Truffle Box", order.Items[0].ProductName)
	assert.Equal(t, 40.00, order.Subtotal)
	assert.Equal(t, 5.99, order.ShippingCost)
	assert.Equal(t, 3.20, order.Tax)
	assert.Equal(t, 49.19, order.Total)
	assert.Equal(t, "USD", order.Currency)

	assert.Equal(t, 0, store.TotalItems())

	published := publisher.published()
	require.Len(t, published, 1)
	assert.Equal(t, order.Number, published[0].Number)
}

func TestPlaceOrder_PublishFailureDoesNotFailOrder(t *testing.T) {
	store := cartWithSubtotal(t, 40)
	publisher := &mockPublisher{err: assert.AnError}

	flow, err := Begin(store, testUser, publisher)
	require.NoError(t, err)
	require.NoError(t, flow.SubmitShipping(validShipping()))
	require.NoError(t, flow.SubmitPayment(validPayment()))

	order, err := flow.PlaceOrder(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, order.Number)
	assert.Equal(t, 0, store.TotalItems())
}

func TestOrderNumbersAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		n := generateOrderNumber()
		assert.False(t, seen[n], "duplicate order number %s", n)
		seen[n] = true
	}
}
