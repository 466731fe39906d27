package currency

import (
	"context"
	"database/sql"
	"fmt"
)

type Repository interface {
	GetChannelByCode(ctx context.Context, code string) (*SalesChannel, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetChannelByCode(ctx context.Context, code string) (*SalesChannel, error) {
	var ch SalesChannel
	err := r.db.QueryRowContext(ctx, `
		SELECT id, code, name
		FROM sales_channels
		WHERE code = $1
	`, code).Scan(&ch.ID, &ch.Code, &ch.Name)
	if err == sql.ErrNoRows {
		return nil, ErrChannelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sales channel: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, channel_id, code, symbol, rate, is_default
		FROM channel_currencies
		WHERE channel_id = $1
		ORDER BY id
	`, ch.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get channel currencies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cur ChannelCurrency
		if err := rows.Scan(&cur.ID, &cur.ChannelID, &cur.Code, &cur.Symbol, &cur.Rate, &cur.IsDefault); err != nil {
			return nil, fmt.Errorf("failed to scan channel currency: %w", err)
		}
		ch.Currencies = append(ch.Currencies, cur)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &ch, nil
}
