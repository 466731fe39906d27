package shipping

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var ErrMethodNotFound = errors.New("shipping method not found")

type Repository interface {
	GetActiveByCountry(ctx context.Context, countryCode string) ([]*Method, error)
	GetByID(ctx context.Context, id int64) (*Method, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const methodColumns = `
	id, name, country_code, country_name, cities, base_cost,
	free_threshold, taxable, tax_rate, min_days, max_days, active
`

func (r *repository) GetActiveByCountry(ctx context.Context, countryCode string) ([]*Method, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+methodColumns+`
		FROM shipping_methods
		WHERE country_code = $1 AND active = true
		ORDER BY base_cost
	`, countryCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get shipping methods: %w", err)
	}
	defer rows.Close()

	var methods []*Method
	for rows.Next() {
		m, err := scanMethod(rows)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return methods, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Method, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+methodColumns+`
		FROM shipping_methods
		WHERE id = $1
	`, id)

	m, err := scanMethod(row)
	if err == sql.ErrNoRows {
		return nil, ErrMethodNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMethod(row rowScanner) (*Method, error) {
	var m Method
	var cities pq.StringArray
	err := row.Scan(
		&m.ID, &m.Name, &m.CountryCode, &m.CountryName, &cities, &m.BaseCost,
		&m.FreeThreshold, &m.Taxable, &m.TaxRate, &m.MinDays, &m.MaxDays, &m.Active,
	)
	if err == sql.ErrNoRows {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan shipping method: %w", err)
	}
	m.Cities = cities
	return &m, nil
}
