package payment

import "errors"

var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrMethodNotFound  = errors.New("payment method not found")
	ErrInvalidStatus   = errors.New("invalid payment status")
)
