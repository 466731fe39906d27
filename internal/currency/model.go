package currency

// SalesChannel owns the set of currencies an order can be displayed in.
// Exactly one currency per channel is marked default; every other currency
// carries an exchange rate relative to that default.
type SalesChannel struct {
	ID         int64
	Code       string
	Name       string
	Currencies []ChannelCurrency
}

type ChannelCurrency struct {
	ID        int64
	ChannelID int64
	Code      string
	Symbol    string
	Rate      *float64
	IsDefault bool
}

// EffectiveRate returns the configured rate, defaulting to 1 when none is set.
func (c ChannelCurrency) EffectiveRate() float64 {
	if c.Rate == nil {
		return 1
	}
	return *c.Rate
}
