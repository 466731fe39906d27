package tax

import (
	"context"
	"database/sql"
	"fmt"
)

type Repository interface {
	GetByCountry(ctx context.Context, countryCode string) ([]*Rate, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByCountry(ctx context.Context, countryCode string) ([]*Rate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, country_code, name, percent
		FROM tax_rates
		WHERE country_code = $1
		ORDER BY id
	`, countryCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get tax rates: %w", err)
	}
	defer rows.Close()

	var rates []*Rate
	for rows.Next() {
		var rate Rate
		if err := rows.Scan(&rate.ID, &rate.CountryCode, &rate.Name, &rate.Percent); err != nil {
			return nil, fmt.Errorf("failed to scan tax rate: %w", err)
		}
		rates = append(rates, &rate)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rates, nil
}
