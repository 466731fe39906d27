package currency

import "errors"

var (
	// -- Configuration (operator-fixable, surfaces as 500) --
	ErrChannelNotFound      = errors.New("sales channel not found")
	ErrNoCurrencies         = errors.New("sales channel has no currencies configured")
	ErrNoDefaultCurrency    = errors.New("sales channel has no default currency")
	ErrCurrencyNotInChannel = errors.New("currency is not configured in the sales channel")
)
