package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var ErrProductNotFound = errors.New("product not found")

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*Product, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Product, error) {
	products, err := r.GetByIDs(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	p, ok := products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (r *repository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*Product, error) {
	if len(ids) == 0 {
		return map[int64]*Product{}, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, sku, price, image_url, published, stock_policy, stock_quantity, in_stock
		FROM products
		WHERE id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	defer rows.Close()

	products := make(map[int64]*Product, len(ids))
	for rows.Next() {
		var p Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.SKU, &p.Price, &p.ImageURL,
			&p.Published, &p.StockPolicy, &p.StockQuantity, &p.InStock,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products[p.ID] = &p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	optRows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, name, value, stock_quantity
		FROM product_options
		WHERE product_id = ANY($1)
		ORDER BY id
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get product options: %w", err)
	}
	defer optRows.Close()

	for optRows.Next() {
		var o Option
		if err := optRows.Scan(&o.ID, &o.ProductID, &o.Name, &o.Value, &o.StockQuantity); err != nil {
			return nil, fmt.Errorf("failed to scan product option: %w", err)
		}
		if p, ok := products[o.ProductID]; ok {
			p.Options = append(p.Options, o)
		}
	}
	if err := optRows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}
