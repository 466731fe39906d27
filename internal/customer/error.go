package customer

import "errors"

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrAddressNotFound  = errors.New("address not found")
	// ErrAccountExists guards guest checkout: a guest email matching a
	// registered account must log in instead.
	ErrAccountExists      = errors.New("you already have an account, please log in")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
