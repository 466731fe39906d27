package coupon

import "time"

type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

type Coupon struct {
	ID          int64
	Code        string
	Type        DiscountType
	Value       float64
	MinSubtotal float64
	ExpiresAt   *time.Time
	Active      bool
}

// DiscountFor computes the discount a coupon grants on a subtotal. The result
// never exceeds the subtotal and never goes negative.
func (c *Coupon) DiscountFor(subtotal float64) float64 {
	var d float64
	switch c.Type {
	case DiscountPercent:
		d = subtotal * c.Value / 100
	case DiscountFixed:
		d = c.Value
	}

	if d < 0 {
		return 0
	}
	if d > subtotal {
		return subtotal
	}
	return d
}
