package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YamesYamerson/secure-multimedia-storage/identity"
	"github.com/YamesYamerson/secure-multimedia-storage/keybackend"
)

func newTestHMAC(issuer string) *identity.HMAC {
	secrets := keybackend.NewMapSecretStore(map[string]string{
		"dev-1": "first-shared-secret",
		"dev-2": "second-shared-secret",
	})
	return identity.NewHMAC(secrets, identity.HMACConfig{Issuer: issuer})
}

func TestHMAC_MintIdentify(t *testing.T) {
	provider := newTestHMAC("mediastore")
	now := time.Now().Truncate(time.Second)

	for _, kid := range []string{"dev-1", "dev-2"} {
		t.Run(kid, func(t *testing.T) {
			token, err := provider.Mint(identity.MintRequest{
				KeyID:    kid,
				Subject:  "user-1",
				Username: "alice",
				TTL:      time.Hour,
				Now:      now,
			})
			require.NoError(t, err)

			p, err := provider.Identify(context.Background(), token)
			require.NoError(t, err)
			assert.Equal(t, "user-1", p.OwnerID)
			assert.Equal(t, "alice", p.Username)
			assert.True(t, now.Add(time.Hour).Equal(p.ExpiresAt))
		})
	}
}

func TestHMAC_Identify(t *testing.T) {
	provider := newTestHMAC("mediastore")

	sign := func(t *testing.T, kid, secret string, claims jwt.MapClaims) string {
		t.Helper()
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		if kid != "" {
			token.Header["kid"] = kid
		}
		signed, err := token.SignedString([]byte(secret))
		require.NoError(t, err)
		return signed
	}

	valid := func() jwt.MapClaims {
		return jwt.MapClaims{
			"sub": "user-1",
			"iss": "mediastore",
			"exp": jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
	}

	t.Run("expired", func(t *testing.T) {
		token, err := provider.Mint(identity.MintRequest{
			KeyID:   "dev-1",
			Subject: "user-1",
			TTL:     time.Minute,
			Now:     time.Now().Add(-time.Hour),
		})
		require.NoError(t, err)

		_, err = provider.Identify(context.Background(), token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("unknown kid", func(t *testing.T) {
		_, err := provider.Identify(context.Background(), sign(t, "nope", "first-shared-secret", valid()))
		assert.ErrorIs(t, err, keybackend.ErrKeyNotFound)
	})

	t.Run("missing kid", func(t *testing.T) {
		_, err := provider.Identify(context.Background(), sign(t, "", "first-shared-secret", valid()))
		assert.ErrorIs(t, err, identity.ErrMissingKeyID)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := provider.Identify(context.Background(), sign(t, "dev-1", "second-shared-secret", valid()))
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := valid()
		claims["iss"] = "someone-else"

		_, err := provider.Identify(context.Background(), sign(t, "dev-1", "first-shared-secret", claims))
		assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
	})

	t.Run("missing subject", func(t *testing.T) {
		claims := valid()
		delete(claims, "sub")

		_, err := provider.Identify(context.Background(), sign(t, "dev-1", "first-shared-secret", claims))
		assert.ErrorIs(t, err, identity.ErrMissingSubject)
	})

	t.Run("missing expiry", func(t *testing.T) {
		claims := valid()
		delete(claims, "exp")

		_, err := provider.Identify(context.Background(), sign(t, "dev-1", "first-shared-secret", claims))
		assert.ErrorIs(t, err, jwt.ErrTokenRequiredClaimMissing)
	})
}

func TestHMAC_Mint(t *testing.T) {
	provider := newTestHMAC("")

	t.Run("unknown key", func(t *testing.T) {
		_, err := provider.Mint(identity.MintRequest{KeyID: "nope", Subject: "user-1", TTL: time.Hour})
		assert.ErrorIs(t, err, keybackend.ErrKeyNotFound)
	})

	t.Run("empty subject", func(t *testing.T) {
		_, err := provider.Mint(identity.MintRequest{KeyID: "dev-1", TTL: time.Hour})
		assert.ErrorIs(t, err, identity.ErrMissingSubject)
	})

	t.Run("non-positive ttl", func(t *testing.T) {
		_, err := provider.Mint(identity.MintRequest{KeyID: "dev-1", Subject: "user-1"})
		assert.Error(t, err)
	})

	t.Run("default now", func(t *testing.T) {
		token, err := provider.Mint(identity.MintRequest{KeyID: "dev-1", Subject: "user-1", TTL: time.Hour})
		require.NoError(t, err)

		p, err := provider.Identify(context.Background(), token)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(time.Hour), p.ExpiresAt, 5*time.Second)
	})
}
