package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YamesYamerson/secure-multimedia-storage/identity"
	"github.com/YamesYamerson/secure-multimedia-storage/keybackend"
)

func TestNew(t *testing.T) {
	hmacConfig := identity.HMACConfig{
		Keys: keybackend.KeysConfig{
			Inline: []keybackend.SigningKey{{KeyID: "dev-1", Secret: "s3cret"}},
		},
	}

	t.Run("hmac", func(t *testing.T) {
		provider, err := identity.New(context.Background(), identity.Config{Provider: "hmac", HMAC: hmacConfig})
		require.NoError(t, err)
		assert.IsType(t, &identity.HMAC{}, provider)

		token, err := provider.(*identity.HMAC).Mint(identity.MintRequest{KeyID: "dev-1", Subject: "user-1", TTL: time.Minute})
		require.NoError(t, err)

		p, err := provider.Identify(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", p.OwnerID)
	})

	t.Run("hmac with cache", func(t *testing.T) {
		provider, err := identity.New(context.Background(), identity.Config{
			Provider: "hmac",
			HMAC:     hmacConfig,
			Cache:    identity.CacheConfig{Size: 16, TTL: time.Minute},
		})
		require.NoError(t, err)
		assert.IsType(t, &identity.Cached{}, provider)
	})

	t.Run("hmac without keys", func(t *testing.T) {
		_, err := identity.New(context.Background(), identity.Config{Provider: "hmac"})
		assert.Error(t, err)
	})

	t.Run("jwks without url", func(t *testing.T) {
		_, err := identity.New(context.Background(), identity.Config{Provider: "jwks"})
		assert.Error(t, err)
	})

	t.Run("unsupported provider", func(t *testing.T) {
		_, err := identity.New(context.Background(), identity.Config{Provider: "ldap"})
		assert.ErrorContains(t, err, "unsupported provider")
	})
}
