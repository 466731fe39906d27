package payment

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type Repository interface {
	GetByOrder(ctx context.Context, orderID int64) (*Payment, error)
	Create(ctx context.Context, p *Payment) error
	Update(ctx context.Context, p *Payment) error

	GetMethod(ctx context.Context, id int64) (*Method, error)
	// GetMethodName exists for callers that only validate a referenced
	// payment method without needing the full row.
	GetMethodName(ctx context.Context, id int64) (string, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByOrder(ctx context.Context, orderID int64) (*Payment, error) {
	var p Payment
	var updatedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, `
		SELECT id, order_id, payment_method_id, amount, currency, base_amount, status,
		       gateway, transaction_id, raw_response, paid_at, created_at, updated_at
		FROM payments
		WHERE order_id = $1
	`, orderID).Scan(
		&p.ID, &p.OrderID, &p.PaymentMethodID, &p.Amount, &p.Currency, &p.BaseAmount, &p.Status,
		&p.Gateway, &p.TransactionID, &p.RawResponse, &p.PaidAt, &p.CreatedAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	// updated_at stays NULL until the first in-place update.
	p.UpdatedAt = updatedAt.Time
	return &p, nil
}

func (r *repository) Create(ctx context.Context, p *Payment) error {
	p.CreatedAt = time.Now()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO payments (order_id, payment_method_id, amount, currency, base_amount, status,
			gateway, transaction_id, raw_response, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`, p.OrderID, p.PaymentMethodID, p.Amount, p.Currency, p.BaseAmount, p.Status,
		p.Gateway, p.TransactionID, p.RawResponse, p.PaidAt, p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, p *Payment) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET payment_method_id = $1, amount = $2, currency = $3, base_amount = $4, status = $5,
		    gateway = $6, transaction_id = $7, raw_response = $8, paid_at = $9,
		    updated_at = now()
		WHERE id = $10
	`, p.PaymentMethodID, p.Amount, p.Currency, p.BaseAmount, p.Status,
		p.Gateway, p.TransactionID, p.RawResponse, p.PaidAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	return nil
}

func (r *repository) GetMethod(ctx context.Context, id int64) (*Method, error) {
	var m Method
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, gateway, active
		FROM payment_methods
		WHERE id = $1
	`, id).Scan(&m.ID, &m.Name, &m.Gateway, &m.Active)
	if err == sql.ErrNoRows {
		return nil, ErrMethodNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment method: %w", err)
	}
	return &m, nil
}

func (r *repository) GetMethodName(ctx context.Context, id int64) (string, error) {
	m, err := r.GetMethod(ctx, id)
	if err != nil {
		return "", err
	}
	if !m.Active {
		return "", ErrMethodNotFound
	}
	return m.Name, nil
}
