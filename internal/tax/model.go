package tax

// Rate is one tax component scoped by country. Multiple rates for the same
// country stack additively.
type Rate struct {
	ID          int64
	CountryCode string
	Name        string
	Percent     float64
}
