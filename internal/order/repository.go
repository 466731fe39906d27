package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

type Repository interface {
	// NextCounter atomically increments the order counter for a scope
	// (typically the number template) and returns the new value. Safe under
	// concurrent submissions.
	NextCounter(ctx context.Context, scope string, floor int64) (int64, error)

	CreateOrderTx(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*Order, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error

	// MarkProcessingIfPending flips a pending order to processing and stamps
	// paid_at in one statement. Returns false when the order was not pending,
	// which makes repeated success callbacks idempotent.
	MarkProcessingIfPending(ctx context.Context, orderID int64, paidAt time.Time) (bool, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) NextCounter(ctx context.Context, scope string, floor int64) (int64, error) {
	var counter int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO order_counters (scope, value)
		VALUES ($1, $2)
		ON CONFLICT (scope)
		DO UPDATE SET value = order_counters.value + 1
		RETURNING value
	`, scope, floor).Scan(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to advance order counter: %w", err)
	}
	return counter, nil
}

func (r *repository) CreateOrderTx(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	shippingAddr, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return err
	}
	billingAddr, err := json.Marshal(o.BillingAddress)
	if err != nil {
		return err
	}

	o.CreatedAt = time.Now()
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			number, counter, ordered_by, status,
			currency, exchange_rate,
			subtotal, discount, shipping_total, tax, total, customer_total,
			shipping_method_id, shipping_method_name, payment_method_id,
			shipping_address, billing_address, order_note, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		RETURNING id
	`,
		o.Number, o.Counter, o.OrderedBy, o.Status,
		o.Currency, o.ExchangeRate,
		o.Subtotal, o.Discount, o.ShippingTotal, o.Tax, o.Total, o.CustomerTotal,
		o.ShippingMethodID, o.ShippingMethodName, o.PaymentMethodID,
		shippingAddr, billingAddr, o.OrderNote, o.CreatedAt,
	).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (
				order_id, product_id, product_name, sku, variant_text,
				quantity, unit_price, subtotal, image_url
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
			RETURNING id
		`,
			item.OrderID, item.ProductID, item.ProductName, item.SKU, item.VariantText,
			item.Quantity, item.UnitPrice, item.Subtotal, item.ImageURL,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	return tx.Commit()
}

const orderColumns = `
	id, number, counter, ordered_by, status,
	currency, exchange_rate,
	subtotal, discount, shipping_total, tax, total, customer_total,
	shipping_method_id, shipping_method_name, payment_method_id,
	shipping_address, billing_address, order_note, paid_at, created_at, updated_at
`

func (r *repository) GetByID(ctx context.Context, id int64) (*Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1
	`, id)

	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}

	items, err := r.getItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return o, nil
}

func (r *repository) ListByCustomer(ctx context.Context, customerID int64) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE ordered_by = $1
		ORDER BY created_at DESC
	`, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = now() WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *repository) MarkProcessingIfPending(ctx context.Context, orderID int64, paidAt time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, paid_at = $2, updated_at = now()
		WHERE id = $3 AND status = $4
	`, StatusProcessing, paidAt, orderID, StatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to mark order processing: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *repository) getItems(ctx context.Context, orderID int64) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name, sku, variant_text,
		       quantity, unit_price, subtotal, image_url
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.SKU,
			&item.VariantText, &item.Quantity, &item.UnitPrice, &item.Subtotal, &item.ImageURL,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var o Order
	var shippingAddr, billingAddr []byte
	var updatedAt sql.NullTime

	err := row.Scan(
		&o.ID, &o.Number, &o.Counter, &o.OrderedBy, &o.Status,
		&o.Currency, &o.ExchangeRate,
		&o.Subtotal, &o.Discount, &o.ShippingTotal, &o.Tax, &o.Total, &o.CustomerTotal,
		&o.ShippingMethodID, &o.ShippingMethodName, &o.PaymentMethodID,
		&shippingAddr, &billingAddr, &o.OrderNote, &o.PaidAt, &o.CreatedAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	if err := json.Unmarshal(shippingAddr, &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("failed to decode shipping address: %w", err)
	}
	if err := json.Unmarshal(billingAddr, &o.BillingAddress); err != nil {
		return nil, fmt.Errorf("failed to decode billing address: %w", err)
	}
	if updatedAt.Valid {
		o.UpdatedAt = updatedAt.Time
	}

	return &o, nil
}
