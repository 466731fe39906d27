package cart

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Repository interface {
	CreateCart(ctx context.Context, customerID *int64) (*Cart, error)
	GetCart(ctx context.Context, id uuid.UUID) (*Cart, error)
	GetItemByProductAndOptions(ctx context.Context, cartID uuid.UUID, productID int64, optionIDs []int64) (*Item, error)
	CreateItem(ctx context.Context, item *Item) (*Item, error)
	UpdateItemQuantity(ctx context.Context, cartID uuid.UUID, itemID, quantity int64) error
	RemoveItem(ctx context.Context, cartID uuid.UUID, itemID int64) error
	SetCoupon(ctx context.Context, cartID uuid.UUID, code *string) error
	Clear(ctx context.Context, cartID uuid.UUID) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateCart(ctx context.Context, customerID *int64) (*Cart, error) {
	c := &Cart{
		ID:         uuid.New(),
		CustomerID: customerID,
		CreatedAt:  time.Now(),
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO carts (id, customer_id, created_at)
		VALUES ($1, $2, $3)
	`, c.ID, c.CustomerID, c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	return c, nil
}

func (r *repository) GetCart(ctx context.Context, id uuid.UUID) (*Cart, error) {
	var c Cart
	err := r.db.QueryRowContext(ctx, `
		SELECT id, customer_id, coupon_code, created_at, updated_at
		FROM carts
		WHERE id = $1
	`, id).Scan(&c.ID, &c.CustomerID, &c.CouponCode, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, cart_id, product_id, option_ids, quantity, unit_price, image_url
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item Item
		var optionIDs pq.Int64Array
		if err := rows.Scan(
			&item.ID, &item.CartID, &item.ProductID, &optionIDs,
			&item.Quantity, &item.UnitPrice, &item.ImageURL,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		item.OptionIDs = optionIDs
		c.Items = append(c.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *repository) GetItemByProductAndOptions(
	ctx context.Context,
	cartID uuid.UUID,
	productID int64,
	optionIDs []int64,
) (*Item, error) {

	var item Item
	var gotOptions pq.Int64Array
	err := r.db.QueryRowContext(ctx, `
		SELECT id, cart_id, product_id, option_ids, quantity, unit_price, image_url
		FROM cart_items
		WHERE cart_id = $1 AND product_id = $2 AND option_ids = $3
	`, cartID, productID, pq.Array(optionIDs)).Scan(
		&item.ID, &item.CartID, &item.ProductID, &gotOptions,
		&item.Quantity, &item.UnitPrice, &item.ImageURL,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	item.OptionIDs = gotOptions
	return &item, nil
}

func (r *repository) CreateItem(ctx context.Context, item *Item) (*Item, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO cart_items (cart_id, product_id, option_ids, quantity, unit_price, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, item.CartID, item.ProductID, pq.Array(item.OptionIDs), item.Quantity, item.UnitPrice, item.ImageURL).
		Scan(&item.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create cart item: %w", err)
	}
	return item, nil
}

func (r *repository) UpdateItemQuantity(ctx context.Context, cartID uuid.UUID, itemID, quantity int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cart_items SET quantity = $1 WHERE id = $2 AND cart_id = $3
	`, quantity, itemID, cartID)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *repository) RemoveItem(ctx context.Context, cartID uuid.UUID, itemID int64) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items WHERE id = $1 AND cart_id = $2
	`, itemID, cartID)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *repository) SetCoupon(ctx context.Context, cartID uuid.UUID, code *string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE carts SET coupon_code = $1, updated_at = now() WHERE id = $2
	`, code, cartID)
	if err != nil {
		return fmt.Errorf("failed to set coupon: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCartNotFound
	}
	return nil
}

// Clear removes the cart and its items once an order supersedes it.
func (r *repository) Clear(ctx context.Context, cartID uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("failed to clear cart items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM carts WHERE id = $1`, cartID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return tx.Commit()
}
