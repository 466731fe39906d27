package cart

import (
	"context"
	"time"

	"storefront-be/internal/coupon"
	"storefront-be/internal/logger"
	"storefront-be/internal/product"
	"storefront-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the cart-identifier-scoped business logic.
type Service interface {
	GetOrCreate(ctx context.Context, id *uuid.UUID, customerID *int64) (*Cart, error)
	Get(ctx context.Context, id uuid.UUID) (*Cart, error)
	AddItem(ctx context.Context, params AddItemParams) (*Cart, error)
	UpdateItemQuantity(ctx context.Context, params UpdateItemParams) (*Cart, error)
	RemoveItem(ctx context.Context, cartID uuid.UUID, itemID int64) (*Cart, error)
	ApplyCoupon(ctx context.Context, cartID uuid.UUID, code string) (*Cart, error)
	RemoveCoupon(ctx context.Context, cartID uuid.UUID) (*Cart, error)
	Clear(ctx context.Context, cartID uuid.UUID) error
}

type service struct {
	repo        Repository
	productRepo product.Repository
	couponRepo  coupon.Repository
}

func NewService(repo Repository, productRepo product.Repository, couponRepo coupon.Repository) Service {
	return &service{repo: repo, productRepo: productRepo, couponRepo: couponRepo}
}

func (s *service) GetOrCreate(ctx context.Context, id *uuid.UUID, customerID *int64) (*Cart, error) {
	if id != nil {
		c, err := s.Get(ctx, *id)
		if err == nil {
			return c, nil
		}
		if err != ErrCartNotFound {
			return nil, err
		}
	}

	c, err := s.repo.CreateCart(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, c)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Cart, error) {
	c, err := s.repo.GetCart(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, c)
}

func (s *service) AddItem(ctx context.Context, params AddItemParams) (*Cart, error) {
	if params.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	p, err := s.productRepo.GetByID(ctx, params.ProductID)
	if err != nil {
		if err == product.ErrProductNotFound {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !p.Published {
		return nil, ErrProductNotForSale
	}

	existing, err := s.repo.GetItemByProductAndOptions(ctx, params.CartID, params.ProductID, params.OptionIDs)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		err = s.repo.UpdateItemQuantity(ctx, params.CartID, existing.ID, existing.Quantity+params.Quantity)
	} else {
		_, err = s.repo.CreateItem(ctx, &Item{
			CartID:    params.CartID,
			ProductID: params.ProductID,
			OptionIDs: params.OptionIDs,
			Quantity:  params.Quantity,
			UnitPrice: p.Price,
			ImageURL:  p.ImageURL,
		})
	}
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, params.CartID)
}

func (s *service) UpdateItemQuantity(ctx context.Context, params UpdateItemParams) (*Cart, error) {
	if params.Quantity <= 0 {
		// Zero or negative quantity removes the line.
		return s.RemoveItem(ctx, params.CartID, params.ItemID)
	}

	if err := s.repo.UpdateItemQuantity(ctx, params.CartID, params.ItemID, params.Quantity); err != nil {
		return nil, err
	}
	return s.Get(ctx, params.CartID)
}

func (s *service) RemoveItem(ctx context.Context, cartID uuid.UUID, itemID int64) (*Cart, error) {
	if err := s.repo.RemoveItem(ctx, cartID, itemID); err != nil {
		return nil, err
	}
	return s.Get(ctx, cartID)
}

func (s *service) ApplyCoupon(ctx context.Context, cartID uuid.UUID, code string) (*Cart, error) {
	c, err := s.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}

	cpn, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := coupon.Validate(cpn, c.Subtotal, time.Now()); err != nil {
		return nil, err
	}

	if err := s.repo.SetCoupon(ctx, cartID, utils.StrPtr(cpn.Code)); err != nil {
		return nil, err
	}
	return s.Get(ctx, cartID)
}

func (s *service) RemoveCoupon(ctx context.Context, cartID uuid.UUID) (*Cart, error) {
	if err := s.repo.SetCoupon(ctx, cartID, nil); err != nil {
		return nil, err
	}
	return s.Get(ctx, cartID)
}

func (s *service) Clear(ctx context.Context, cartID uuid.UUID) error {
	return s.repo.Clear(ctx, cartID)
}

// enrich resolves product state for every line and derives the cart totals.
// Lines whose product is unpublished or out of stock stay visible but are
// flagged and priced out of the subtotal.
func (s *service) enrich(ctx context.Context, c *Cart) (*Cart, error) {
	if len(c.Items) == 0 {
		return c, nil
	}

	ids := make([]int64, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	subtotal := 0.0
	for i := range c.Items {
		item := &c.Items[i]
		p, ok := products[item.ProductID]
		if !ok {
			item.OutOfStock = true
			continue
		}

		item.ProductName = p.Name
		item.SKU = p.SKU
		item.VariantText = p.VariantText(item.OptionIDs)
		item.OutOfStock = !p.Available(item.OptionIDs, item.Quantity)

		if !item.OutOfStock {
			subtotal += item.LineTotal()
		}
	}

	c.Subtotal = utils.RoundMoney(subtotal)
	c.Discount = 0

	if c.CouponCode != nil {
		cpn, err := s.couponRepo.GetByCode(ctx, *c.CouponCode)
		if err == nil && coupon.Validate(cpn, c.Subtotal, time.Now()) == nil {
			c.Discount = utils.RoundMoney(cpn.DiscountFor(c.Subtotal))
		} else {
			logger.FromCtx(ctx).Warn("applied coupon no longer valid, ignoring",
				zap.String("code", *c.CouponCode),
			)
		}
	}

	c.Total = utils.RoundMoney(c.Subtotal - c.Discount)
	return c, nil
}
