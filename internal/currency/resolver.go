package currency

import (
	"context"
	"strings"

	"storefront-be/internal/logger"
	"storefront-be/internal/utils"

	"go.uber.org/zap"
)

// Resolver answers which currency an order should be displayed in and how to
// convert between two currencies of the same sales channel.
type Resolver interface {
	Channel(ctx context.Context, code string) (*SalesChannel, error)
	DefaultCurrency(channel *SalesChannel) (*ChannelCurrency, error)
	CurrentCurrency(ctx context.Context, channel *SalesChannel) (*ChannelCurrency, error)
	ExchangeRate(channel *SalesChannel, from, to string) (float64, error)
}

type resolver struct {
	repo Repository
}

func NewResolver(repo Repository) Resolver {
	return &resolver{repo: repo}
}

func (r *resolver) Channel(ctx context.Context, code string) (*SalesChannel, error) {
	return r.repo.GetChannelByCode(ctx, code)
}

// DefaultCurrency returns the channel currency marked default. A channel
// without one is a setup problem, not user input.
func (r *resolver) DefaultCurrency(channel *SalesChannel) (*ChannelCurrency, error) {
	if channel == nil || len(channel.Currencies) == 0 {
		return nil, ErrNoCurrencies
	}

	for i := range channel.Currencies {
		if channel.Currencies[i].IsDefault {
			return &channel.Currencies[i], nil
		}
	}

	return nil, ErrNoDefaultCurrency
}

// CurrentCurrency reads the client-selected currency code from the request
// context and falls back to the channel default when the code is absent or
// not configured for the channel.
func (r *resolver) CurrentCurrency(ctx context.Context, channel *SalesChannel) (*ChannelCurrency, error) {
	code := utils.GetCurrencyCodeFromContext(ctx)
	if code != "" {
		if cur := findCurrency(channel, code); cur != nil {
			return cur, nil
		}
		logger.FromCtx(ctx).Warn("requested currency not configured, using default",
			zap.String("code", code),
		)
	}

	return r.DefaultCurrency(channel)
}

// ExchangeRate computes the multiplicative rate converting an amount in from
// into to. Identical codes short-circuit to 1 without touching configuration.
func (r *resolver) ExchangeRate(channel *SalesChannel, from, to string) (float64, error) {
	if strings.EqualFold(from, to) {
		return 1, nil
	}

	if channel == nil || len(channel.Currencies) == 0 {
		return 0, ErrNoCurrencies
	}

	fromCur := findCurrency(channel, from)
	toCur := findCurrency(channel, to)
	if fromCur == nil || toCur == nil {
		return 0, ErrCurrencyNotInChannel
	}

	if fromCur.Rate == nil {
		logger.L().Warn("channel currency has no explicit rate, assuming 1",
			zap.String("code", fromCur.Code),
		)
	}
	if toCur.Rate == nil {
		logger.L().Warn("channel currency has no explicit rate, assuming 1",
			zap.String("code", toCur.Code),
		)
	}

	return toCur.EffectiveRate() / fromCur.EffectiveRate(), nil
}

func findCurrency(channel *SalesChannel, code string) *ChannelCurrency {
	if channel == nil {
		return nil
	}
	for i := range channel.Currencies {
		if strings.EqualFold(channel.Currencies[i].Code, code) {
			return &channel.Currencies[i]
		}
	}
	return nil
}
