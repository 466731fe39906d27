package customer

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	FindByID(ctx context.Context, id int64) (*Customer, error)
	Create(ctx context.Context, c *Customer) (*Customer, error)
	CreateWithAddress(ctx context.Context, c *Customer, addr *Address) (*Customer, error)
	GetAddress(ctx context.Context, addressID, customerID int64) (*Address, error)
	CreateAddress(ctx context.Context, addr *Address) (*Address, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const customerColumns = `id, email, password, first_name, last_name, role, is_guest, created_at`

func (r *repository) FindByEmail(ctx context.Context, email string) (*Customer, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE lower(email) = lower($1)
	`, email)
	return scanCustomer(row)
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Customer, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE id = $1
	`, id)
	return scanCustomer(row)
}

func scanCustomer(row *sql.Row) (*Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.Email, &c.Password, &c.FirstName, &c.LastName, &c.Role, &c.IsGuest, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &c, nil
}

func (r *repository) Create(ctx context.Context, c *Customer) (*Customer, error) {
	c.CreatedAt = time.Now()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO customers (email, password, first_name, last_name, role, is_guest, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, c.Email, c.Password, c.FirstName, c.LastName, c.Role, c.IsGuest, c.CreatedAt).Scan(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return c, nil
}

// CreateWithAddress inserts a customer and its first saved address in one
// transaction. Used by guest checkout.
func (r *repository) CreateWithAddress(ctx context.Context, c *Customer, addr *Address) (*Customer, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	c.CreatedAt = time.Now()
	err = tx.QueryRowContext(ctx, `
		INSERT INTO customers (email, password, first_name, last_name, role, is_guest, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, c.Email, c.Password, c.FirstName, c.LastName, c.Role, c.IsGuest, c.CreatedAt).Scan(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create guest customer: %w", err)
	}

	addr.CustomerID = c.ID
	addr.IsDefault = true
	err = tx.QueryRowContext(ctx, `
		INSERT INTO addresses (customer_id, name, phone, address1, address2, city, province, postal_code, country_code, country_name, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`, addr.CustomerID, addr.Name, addr.Phone, addr.Address1, addr.Address2,
		addr.City, addr.Province, addr.PostalCode, addr.CountryCode, addr.CountryName, addr.IsDefault,
	).Scan(&addr.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create guest address: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *repository) GetAddress(ctx context.Context, addressID, customerID int64) (*Address, error) {
	var a Address
	err := r.db.QueryRowContext(ctx, `
		SELECT id, customer_id, name, phone, address1, address2, city, province, postal_code, country_code, country_name, is_default
		FROM addresses
		WHERE id = $1 AND customer_id = $2
	`, addressID, customerID).Scan(
		&a.ID, &a.CustomerID, &a.Name, &a.Phone, &a.Address1, &a.Address2,
		&a.City, &a.Province, &a.PostalCode, &a.CountryCode, &a.CountryName, &a.IsDefault,
	)
	if err == sql.ErrNoRows {
		return nil, ErrAddressNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get address: %w", err)
	}
	return &a, nil
}

func (r *repository) CreateAddress(ctx context.Context, addr *Address) (*Address, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO addresses (customer_id, name, phone, address1, address2, city, province, postal_code, country_code, country_name, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`, addr.CustomerID, addr.Name, addr.Phone, addr.Address1, addr.Address2,
		addr.City, addr.Province, addr.PostalCode, addr.CountryCode, addr.CountryName, addr.IsDefault,
	).Scan(&addr.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}
	return addr, nil
}
