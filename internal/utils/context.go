package utils

import "context"

type contextKey string

const (
	CustomerIDKey    contextKey = "customer_id"
	CustomerEmailKey contextKey = "email"
	CustomerRoleKey  contextKey = "role"
	CurrencyCodeKey  contextKey = "currency_code"
	CartIDKey        contextKey = "cart_id"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

func WithCustomerID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, CustomerIDKey, id)
}

func GetCustomerIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(CustomerIDKey).(int64)
	return id, ok
}

func WithCustomerRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, CustomerRoleKey, role)
}

func IsAdminContext(ctx context.Context) bool {
	role, _ := ctx.Value(CustomerRoleKey).(string)
	return role == RoleAdmin
}

// WithCurrencyCode records the client-selected display currency for the
// request. The currency resolver falls back to the channel default when the
// value is absent or unknown.
func WithCurrencyCode(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, CurrencyCodeKey, code)
}

func GetCurrencyCodeFromContext(ctx context.Context) string {
	code, _ := ctx.Value(CurrencyCodeKey).(string)
	return code
}

func WithCartID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CartIDKey, id)
}

func GetCartIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(CartIDKey).(string)
	return id, ok && id != ""
}
