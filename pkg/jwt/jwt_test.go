package jwt

import (
	"testing"
	"time"

	"morse-mastery/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{
		Secret:     "unit-test-secret",
		ExpireTime: time.Hour,
		Issuer:     "morse-mastery",
	})

	t.Run("round_trip", func(t *testing.T) {
		token, err := svc.GenerateToken("42", map[string]interface{}{"username": "alice"})
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "42", claims.Subject)
		assert.Equal(t, "morse-mastery", claims.Issuer)
		assert.Equal(t, "alice", claims.Data["username"])
	})

	t.Run("wrong_secret_rejected", func(t *testing.T) {
		token, err := svc.GenerateToken("42", nil)
		require.NoError(t, err)

		other := NewJWTService(config.JWTConfig{
			Secret:     "different-secret",
			ExpireTime: time.Hour,
			Issuer:     "morse-mastery",
		})
		_, err = other.ValidateToken(token)
		require.Error(t, err)
	})

	t.Run("expired_token_rejected", func(t *testing.T) {
		shortLived := NewJWTService(config.JWTConfig{
			Secret:     "unit-test-secret",
			ExpireTime: -time.Minute,
			Issuer:     "morse-mastery",
		})
		token, err := shortLived.GenerateToken("42", nil)
		require.NoError(t, err)

		_, err = shortLived.ValidateToken(token)
		require.Error(t, err)
	})

	t.Run("garbage_token_rejected", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		require.Error(t, err)
	})
}
