package order

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// -- Validation & Input --
	ErrMissingAddress       = errors.New("shipping address is required")
	ErrMissingEmail         = errors.New("email is required for guest checkout")
	ErrMissingPaymentMethod = errors.New("payment method is required")
	ErrNoShippingMethod     = errors.New("no shipping method available, please select a valid address")

	// -- State Conflicts --
	ErrCartEmpty     = errors.New("cart is empty")
	ErrTotalChanged  = errors.New("your cart has changed, please reload the page and review your order")
	ErrInvalidStatus = errors.New("invalid order status transition")

	// -- Resource State --
	ErrOrderNotFound = errors.New("order not found")
	ErrUnauthorized  = errors.New("unauthorized")
)

// UnavailableItemsError names every cart line that failed the stock or
// publication re-check so the whole submission can fail loudly instead of
// partially fulfilling.
type UnavailableItemsError struct {
	ProductNames []string
}

func (e *UnavailableItemsError) Error() string {
	return fmt.Sprintf(
		"the following products are no longer available: %s",
		strings.Join(e.ProductNames, ", "),
	)
}
