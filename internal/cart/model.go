package cart

import (
	"time"

	"github.com/google/uuid"
)

// Cart is keyed by an opaque identifier the client keeps in a cookie. Totals
// are derived on read, never stored, so a price or stock change is always
// reflected the next time the cart is loaded.
type Cart struct {
	ID         uuid.UUID
	CustomerID *int64
	CouponCode *string
	Items      []Item
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Derived on read.
	Subtotal float64
	Discount float64
	Total    float64
}

type Item struct {
	ID        int64
	CartID    uuid.UUID
	ProductID int64
	OptionIDs []int64
	Quantity  int64
	UnitPrice float64
	ImageURL  *string

	// Denormalized on read for display and checkout eligibility.
	ProductName string
	SKU         string
	VariantText string
	OutOfStock  bool
}

func (i *Item) LineTotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// EligibleItems returns the lines that count toward checkout. Out-of-stock
// lines still display in the cart but never price into the subtotal.
func (c *Cart) EligibleItems() []Item {
	eligible := make([]Item, 0, len(c.Items))
	for _, item := range c.Items {
		if !item.OutOfStock {
			eligible = append(eligible, item)
		}
	}
	return eligible
}

type AddItemParams struct {
	CartID    uuid.UUID
	ProductID int64
	OptionIDs []int64
	Quantity  int64
}

type UpdateItemParams struct {
	CartID   uuid.UUID
	ItemID   int64
	Quantity int64
}
