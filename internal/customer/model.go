package customer

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

type Customer struct {
	ID        int64
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      Role
	IsGuest   bool
	CreatedAt time.Time
}

// Address is a saved customer address. Orders snapshot the fields they need
// instead of referencing the row.
type Address struct {
	ID          int64
	CustomerID  int64
	Name        string
	Phone       string
	Address1    string
	Address2    *string
	City        string
	Province    string
	PostalCode  string
	CountryCode string
	CountryName string
	IsDefault   bool
}

type CreateGuestParams struct {
	Email     string
	FirstName string
	LastName  string
	Address   Address
}
