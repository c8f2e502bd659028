package domain

// CartItem is a single line in a customer's cart: a snapshot of the
// product at the time it was added plus the chosen quantity.
type CartItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Category  string  `json:"category"`
	Quantity  int     `json:"quantity"`
}
