package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager(t *testing.T) {
	mgr := NewJWTManager("test-secret-0123456789abcdef0123456789", 24*time.Hour, 8*time.Hour)
	partnerID := uuid.New()

	t.Run("round trip partner token", func(t *testing.T) {
		token, err := mgr.GenerateToken(RealmPartner, partnerID, "p@example.com", "partner")
		require.NoError(t, err)

		claims, err := mgr.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, partnerID.String(), claims.Subject)
		assert.Equal(t, RealmPartner, claims.Realm)
		assert.Equal(t, "p@example.com", claims.Email)
	})

	t.Run("realm mismatch rejected", func(t *testing.T) {
		token, err := mgr.GenerateToken(RealmPartner, partnerID, "p@example.com", "partner")
		require.NoError(t, err)

		_, err = mgr.ValidateTokenForRealm(token, RealmAdmin)
		require.Error(t, err)
	})

	t.Run("unknown realm rejected at generation", func(t *testing.T) {
		_, err := mgr.GenerateToken(Realm("vendor"), partnerID, "", "")
		require.Error(t, err)
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		token, err := mgr.GenerateToken(RealmAdmin, partnerID, "a@example.com", "admin")
		require.NoError(t, err)

		other := NewJWTManager("a-different-secret-value-entirely!", time.Hour, time.Hour)
		_, err = other.ValidateToken(token)
		require.Error(t, err)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		short := NewJWTManager("test-secret-0123456789abcdef0123456789", -time.Minute, -time.Minute)
		token, err := short.GenerateToken(RealmPartner, partnerID, "", "")
		require.NoError(t, err)

		_, err = short.ValidateToken(token)
		require.Error(t, err)
	})
}
