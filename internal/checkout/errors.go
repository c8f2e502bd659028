package checkout

import "errors"

var (
	// ErrEmptyCart means the flow was entered with nothing to buy; the
	// caller should send the customer back to browsing.
	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

	// ErrNotSignedIn means the flow was entered without a session; the
	// caller should send the customer to sign-in.
	ErrNotSignedIn = errors.New("sign in required to checkout")

	ErrIllegalTransition = errors.New("illegal checkout step transition")
	ErrMissingField      = errors.New("required field missing")
	ErrUnknownShipMethod = errors.New("unknown shipping method")
)
