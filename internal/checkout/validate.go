package checkout

import (
	"fmt"
	"strings"

	"github.com/sweethut/storefront/internal/domain"
)

// Validation here is presence-only; field formats are the form's
// concern and card details are placeholders anyway.

func validateShipping(info domain.ShippingInfo) error {
	var missing []string

	require := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}

	require("first_name", info.FirstName)
	require("last_name", info.LastName)
	require("email", info.Email)
	require("phone", info.Phone)
	require("address", info.Address)
	require("city", info.City)
	require("state", info.State)
	require("zip_code", info.ZipCode)
	require("country", info.Country)

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	return nil
}

func validatePayment(info domain.PaymentInfo) error {
	var missing []string

	require := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}

	require("cardholder_name", info.CardholderName)
	require("card_number", info.CardNumber)
	require("expiry_date", info.ExpiryDate)
	require("cvv", info.CVV)

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	return nil
}
