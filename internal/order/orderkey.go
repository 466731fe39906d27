package order

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Order keys let a client poll payment status for an order it just placed
// without a session. The key is a signed token carrying only the order id.

var ErrInvalidOrderKey = errors.New("invalid order key")

type orderKeyClaims struct {
	OrderID int64 `json:"order_id"`
	jwt.RegisteredClaims
}

func SignOrderKey(secret string, orderID int64) (string, error) {
	if secret == "" {
		return "", errors.New("JWT_SECRET is not set")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, orderKeyClaims{OrderID: orderID})
	return token.SignedString([]byte(secret))
}

func ParseOrderKey(secret, key string) (int64, error) {
	var claims orderKeyClaims
	token, err := jwt.ParseWithClaims(key, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidOrderKey
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid || claims.OrderID == 0 {
		return 0, ErrInvalidOrderKey
	}

	return claims.OrderID, nil
}
