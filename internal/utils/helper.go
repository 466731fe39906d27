package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

func StrPtr(s string) *string {
	return &s
}

func PtrString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func Float64Ptr(f float64) *float64 {
	return &f
}

func ToInt64(id string) (int64, error) {
	return strconv.ParseInt(id, 10, 64)
}

// RoundMoney rounds a monetary amount to two decimal places using bankers-safe
// decimal arithmetic rather than float math.
func RoundMoney(amount float64) float64 {
	v, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return v
}

// MoneyEqualOneDecimal reports whether two amounts agree once both are rounded
// to a single decimal place. Used by the order total reconciliation check.
func MoneyEqualOneDecimal(a, b float64) bool {
	return decimal.NewFromFloat(a).Round(1).Equal(decimal.NewFromFloat(b).Round(1))
}

// RandomPassword returns a hex-encoded random secret. Guest customer accounts
// get one so the row passes the same not-null constraints as a registered
// customer without ever being logged into.
func RandomPassword() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	return hex.EncodeToString(buf)
}
