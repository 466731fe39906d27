package tax

import (
	"context"

	"storefront-be/internal/utils"
)

// Calculator derives a monetary tax amount for a destination country.
type Calculator interface {
	Amount(ctx context.Context, countryCode string, taxable float64) (float64, error)
}

type calculator struct {
	repo Repository
}

func NewCalculator(repo Repository) Calculator {
	return &calculator{repo: repo}
}

// Amount sums every rate scoped to the country and applies the combined
// percentage. A country with no rates is simply untaxed.
func (c *calculator) Amount(ctx context.Context, countryCode string, taxable float64) (float64, error) {
	if taxable <= 0 {
		return 0, nil
	}

	rates, err := c.repo.GetByCountry(ctx, countryCode)
	if err != nil {
		return 0, err
	}

	combined := 0.0
	for _, r := range rates {
		combined += r.Percent
	}

	return utils.RoundMoney(taxable * combined / 100), nil
}
