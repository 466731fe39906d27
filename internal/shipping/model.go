package shipping

import "strings"

// Method is a shipping option scoped to a country, optionally narrowed to a
// list of cities.
type Method struct {
	ID            int64
	Name          string
	CountryCode   string
	CountryName   string
	Cities        []string
	BaseCost      float64
	FreeThreshold *float64
	Taxable       bool
	TaxRate       float64
	MinDays       int
	MaxDays       int
	Active        bool
}

// MatchesCity reports whether the method serves the given city. Methods
// without a city list serve the whole country.
func (m *Method) MatchesCity(city string) bool {
	if len(m.Cities) == 0 {
		return true
	}
	for _, c := range m.Cities {
		if strings.EqualFold(c, city) {
			return true
		}
	}
	return false
}

// Quote is a priced shipping option for a particular cart.
type Quote struct {
	Method  *Method
	Cost    float64
	IsFree  bool
	MinDays int
	MaxDays int
	// TaxRate is non-zero only when shipping itself is taxable.
	TaxRate float64
}
