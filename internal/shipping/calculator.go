package shipping

import (
	"context"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

// Calculator prices shipping for a destination and cart subtotal.
type Calculator interface {
	// Quote returns every eligible method priced against the subtotal. An
	// empty result means the caller should ask for a valid address; it is
	// not an error.
	Quote(ctx context.Context, countryCode, city string, subtotal float64) ([]*Quote, error)
	// QuoteMethod prices one specific method, or ErrMethodNotFound.
	QuoteMethod(ctx context.Context, methodID int64, city string, subtotal float64) (*Quote, error)
}

type calculator struct {
	repo Repository
}

func NewCalculator(repo Repository) Calculator {
	return &calculator{repo: repo}
}

func (c *calculator) Quote(ctx context.Context, countryCode, city string, subtotal float64) ([]*Quote, error) {
	methods, err := c.repo.GetActiveByCountry(ctx, countryCode)
	if err != nil {
		return nil, err
	}

	quotes := make([]*Quote, 0, len(methods))
	for _, m := range methods {
		if !m.MatchesCity(city) {
			continue
		}
		quotes = append(quotes, price(m, subtotal))
	}

	if len(quotes) == 0 {
		logger.FromCtx(ctx).Info("no eligible shipping method for destination",
			zap.String("country", countryCode),
			zap.String("city", city),
		)
	}

	return quotes, nil
}

func (c *calculator) QuoteMethod(ctx context.Context, methodID int64, city string, subtotal float64) (*Quote, error) {
	m, err := c.repo.GetByID(ctx, methodID)
	if err != nil {
		return nil, err
	}
	if !m.Active || !m.MatchesCity(city) {
		return nil, ErrMethodNotFound
	}
	return price(m, subtotal), nil
}

// price applies the free-shipping threshold: once the subtotal meets it the
// cost is zero regardless of the base cost.
func price(m *Method, subtotal float64) *Quote {
	q := &Quote{
		Method:  m,
		Cost:    m.BaseCost,
		MinDays: m.MinDays,
		MaxDays: m.MaxDays,
	}
	if m.Taxable {
		q.TaxRate = m.TaxRate
	}
	if m.FreeThreshold != nil && subtotal >= *m.FreeThreshold {
		q.Cost = 0
		q.IsFree = true
	}
	return q
}
