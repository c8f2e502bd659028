package domain

import "time"

type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "standard"
	ShippingExpress  ShippingMethod = "express"
)

// ShippingInfo is the address form collected during checkout. It lives
// only for the checkout session.
type ShippingInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
	Country   string `json:"country"`
}

// PaymentInfo holds placeholder card details. Nothing here is ever sent
// to a payment processor and it is never stored on the order.
type PaymentInfo struct {
	CardholderName string `json:"cardholder_name"`
	CardNumber     string `json:"card_number"`
	ExpiryDate     string `json:"expiry_date"`
	CVV            string `json:"cvv"`
}

type OrderItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// Order is built at place-order time from the cart contents and the
// checkout forms. It is ephemeral: published as an event and handed to
// the caller, not persisted by this service.
type Order struct {
	Number       string         `json:"number"`
	UserID       string         `json:"user_id"`
	Items        []OrderItem    `json:"items"`
	Shipping     ShippingInfo   `json:"shipping"`
	Method       ShippingMethod `json:"method"`
	Subtotal     float64        `json:"subtotal"`
	ShippingCost float64        `json:"shipping_cost"`
	Tax          float64        `json:"tax"`
	Total        float64        `json:"total"`
	Currency     string         `json:"currency"`
	PlacedAt     time.Time      `json:"placed_at"`
}
