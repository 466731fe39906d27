package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderKey(t *testing.T) {
	secret := "test-secret"

	t.Run("RoundTrip", func(t *testing.T) {
		key, err := SignOrderKey(secret, 55)
		require.NoError(t, err)
		require.NotEmpty(t, key)

		id, err := ParseOrderKey(secret, key)
		assert.NoError(t, err)
		assert.Equal(t, int64(55), id)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		key, err := SignOrderKey(secret, 55)
		require.NoError(t, err)

		_, err = ParseOrderKey("other-secret", key)
		assert.ErrorIs(t, err, ErrInvalidOrderKey)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := ParseOrderKey(secret, "not-a-token")
		assert.ErrorIs(t, err, ErrInvalidOrderKey)
	})

	t.Run("EmptySecret", func(t *testing.T) {
		_, err := SignOrderKey("", 55)
		assert.Error(t, err)
	})
}
