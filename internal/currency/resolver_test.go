package currency

import (
	"context"
	"testing"

	"storefront-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetChannelByCode(ctx context.Context, code string) (*SalesChannel, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SalesChannel), args.Error(1)
}

func fixtureChannel() *SalesChannel {
	return &SalesChannel{
		ID:   1,
		Code: "default",
		Currencies: []ChannelCurrency{
			{ID: 1, Code: "USD", IsDefault: true},
			{ID: 2, Code: "IDR", Rate: utils.Float64Ptr(16000)},
			{ID: 3, Code: "EUR", Rate: utils.Float64Ptr(0.9)},
		},
	}
}

func TestResolver_DefaultCurrency(t *testing.T) {
	r := NewResolver(new(MockRepository))

	t.Run("Success", func(t *testing.T) {
		cur, err := r.DefaultCurrency(fixtureChannel())
		assert.NoError(t, err)
		assert.Equal(t, "USD", cur.Code)
	})

	t.Run("NoCurrencies", func(t *testing.T) {
		_, err := r.DefaultCurrency(&SalesChannel{ID: 1})
		assert.ErrorIs(t, err, ErrNoCurrencies)
	})

	t.Run("NoDefaultConfigured", func(t *testing.T) {
		ch := fixtureChannel()
		for i := range ch.Currencies {
			ch.Currencies[i].IsDefault = false
		}

		_, err := r.DefaultCurrency(ch)
		assert.ErrorIs(t, err, ErrNoDefaultCurrency)
	})
}

func TestResolver_CurrentCurrency(t *testing.T) {
	r := NewResolver(new(MockRepository))
	channel := fixtureChannel()

	t.Run("FromContext", func(t *testing.T) {
		ctx := utils.WithCurrencyCode(context.Background(), "IDR")

		cur, err := r.CurrentCurrency(ctx, channel)
		assert.NoError(t, err)
		assert.Equal(t, "IDR", cur.Code)
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		ctx := utils.WithCurrencyCode(context.Background(), "idr")

		cur, err := r.CurrentCurrency(ctx, channel)
		assert.NoError(t, err)
		assert.Equal(t, "IDR", cur.Code)
	})

	t.Run("UnknownCodeFallsBackToDefault", func(t *testing.T) {
		ctx := utils.WithCurrencyCode(context.Background(), "JPY")

		cur, err := r.CurrentCurrency(ctx, channel)
		assert.NoError(t, err)
		assert.Equal(t, "USD", cur.Code)
	})

	t.Run("NoSelectionFallsBackToDefault", func(t *testing.T) {
		cur, err := r.CurrentCurrency(context.Background(), channel)
		assert.NoError(t, err)
		assert.Equal(t, "USD", cur.Code)
	})
}

func TestResolver_ExchangeRate(t *testing.T) {
	r := NewResolver(new(MockRepository))
	channel := fixtureChannel()

	t.Run("IdenticalCodesAreOne", func(t *testing.T) {
		rate, err := r.ExchangeRate(channel, "USD", "USD")
		assert.NoError(t, err)
		assert.Equal(t, 1.0, rate)

		// Even codes the channel does not know about
		rate, err = r.ExchangeRate(channel, "XXX", "xxx")
		assert.NoError(t, err)
		assert.Equal(t, 1.0, rate)
	})

	t.Run("DefaultToOther", func(t *testing.T) {
		rate, err := r.ExchangeRate(channel, "USD", "IDR")
		assert.NoError(t, err)
		assert.Equal(t, 16000.0, rate)
	})

	t.Run("InverseMultipliesToOne", func(t *testing.T) {
		forward, err := r.ExchangeRate(channel, "USD", "EUR")
		assert.NoError(t, err)
		back, err := r.ExchangeRate(channel, "EUR", "USD")
		assert.NoError(t, err)

		assert.InDelta(t, 1.0, forward*back, 1e-9)
	})

	t.Run("CrossRate", func(t *testing.T) {
		// IDR -> EUR via the shared default: 0.9 / 16000
		rate, err := r.ExchangeRate(channel, "IDR", "EUR")
		assert.NoError(t, err)
		assert.InDelta(t, 0.9/16000, rate, 1e-12)
	})

	t.Run("MissingRateTreatedAsOne", func(t *testing.T) {
		// The default currency carries no explicit rate
		rate, err := r.ExchangeRate(channel, "USD", "EUR")
		assert.NoError(t, err)
		assert.Equal(t, 0.9, rate)
	})

	t.Run("UnknownCurrency", func(t *testing.T) {
		_, err := r.ExchangeRate(channel, "USD", "JPY")
		assert.ErrorIs(t, err, ErrCurrencyNotInChannel)
	})

	t.Run("EmptyChannel", func(t *testing.T) {
		_, err := r.ExchangeRate(&SalesChannel{}, "USD", "IDR")
		assert.ErrorIs(t, err, ErrNoCurrencies)
	})
}
