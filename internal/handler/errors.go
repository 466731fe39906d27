package handler

import (
	"errors"
	"net/http"

	"storefront-be/internal/cart"
	"storefront-be/internal/coupon"
	"storefront-be/internal/currency"
	"storefront-be/internal/customer"
	"storefront-be/internal/order"
	"storefront-be/internal/payment"
	"storefront-be/internal/shipping"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError converts a service error into the JSON error taxonomy:
// validation and state conflicts are 400 with a human-readable message,
// auth is 401, unknown resources are 404, configuration problems and
// everything unexpected are 500.
func writeError(c echo.Context, err error) error {
	var unavailable *order.UnavailableItemsError
	if errors.As(err, &unavailable) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: unavailable.Error()})
	}

	switch {
	case errors.Is(err, order.ErrCartEmpty),
		errors.Is(err, order.ErrTotalChanged),
		errors.Is(err, order.ErrMissingAddress),
		errors.Is(err, order.ErrMissingEmail),
		errors.Is(err, order.ErrMissingPaymentMethod),
		errors.Is(err, order.ErrNoShippingMethod),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, customer.ErrAccountExists),
		errors.Is(err, customer.ErrAddressNotFound),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrProductNotFound),
		errors.Is(err, cart.ErrProductNotForSale),
		errors.Is(err, cart.ErrCartItemNotFound),
		errors.Is(err, coupon.ErrCouponNotFound),
		errors.Is(err, coupon.ErrCouponExpired),
		errors.Is(err, coupon.ErrCouponInactive),
		errors.Is(err, coupon.ErrSubtotalTooSmall),
		errors.Is(err, payment.ErrMethodNotFound),
		errors.Is(err, shipping.ErrMethodNotFound):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	case errors.Is(err, order.ErrUnauthorized),
		errors.Is(err, customer.ErrInvalidCredentials),
		errors.Is(err, order.ErrInvalidOrderKey):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})

	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, cart.ErrCartNotFound),
		errors.Is(err, customer.ErrCustomerNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, currency.ErrChannelNotFound),
		errors.Is(err, currency.ErrNoCurrencies),
		errors.Is(err, currency.ErrNoDefaultCurrency),
		errors.Is(err, currency.ErrCurrencyNotInChannel):
		// Operator-fixable setup problems, not user input.
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})

	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
