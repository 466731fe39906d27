package coupon

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrCouponNotFound   = errors.New("coupon not found")
	ErrCouponExpired    = errors.New("coupon has expired")
	ErrCouponInactive   = errors.New("coupon is not active")
	ErrSubtotalTooSmall = errors.New("cart subtotal does not meet the coupon minimum")
)

type Repository interface {
	GetByCode(ctx context.Context, code string) (*Coupon, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Coupon, error) {
	var c Coupon
	err := r.db.QueryRowContext(ctx, `
		SELECT id, code, discount_type, discount_value, min_subtotal, expires_at, active
		FROM coupons
		WHERE lower(code) = lower($1)
	`, code).Scan(&c.ID, &c.Code, &c.Type, &c.Value, &c.MinSubtotal, &c.ExpiresAt, &c.Active)
	if err == sql.ErrNoRows {
		return nil, ErrCouponNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	return &c, nil
}

// Validate applies the coupon eligibility rules against a cart subtotal.
func Validate(c *Coupon, subtotal float64, now time.Time) error {
	if c == nil {
		return ErrCouponNotFound
	}
	if !c.Active {
		return ErrCouponInactive
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return ErrCouponExpired
	}
	if subtotal < c.MinSubtotal {
		return ErrSubtotalTooSmall
	}
	if strings.TrimSpace(c.Code) == "" {
		return ErrCouponNotFound
	}
	return nil
}
