// Package identity provides IdentityProvider implementations that verify
// bearer tokens.
//
// Two verifiers are available:
//   - JWKS: asymmetric tokens checked against a remote JSON Web Key Set
//   - HMAC: HS256 tokens checked against shared secrets looked up by kid
//
// Either can be wrapped in Cached to skip repeated verification of the same
// token until it expires.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	mediastore "github.com/YamesYamerson/secure-multimedia-storage"
	"github.com/YamesYamerson/secure-multimedia-storage/keybackend"
)

var (
	// ErrMissingSubject is returned for a valid token without a sub claim.
	ErrMissingSubject = errors.New("token has no subject")
	// ErrMissingKeyID is returned for an HMAC token without a kid header.
	ErrMissingKeyID = errors.New("token has no key id")
)

// Config selects and configures the identity provider.
type Config struct {
	// Provider is "jwks" or "hmac".
	Provider string      `mapstructure:"provider" validate:"required,oneof=jwks hmac"`
	JWKS     JWKSConfig  `mapstructure:"jwks"`
	HMAC     HMACConfig  `mapstructure:"hmac"`
	Cache    CacheConfig `mapstructure:"cache"`
}

// CacheConfig bounds the verified-token cache. A zero Size disables it.
type CacheConfig struct {
	Size int           `mapstructure:"size" validate:"gte=0"`
	TTL  time.Duration `mapstructure:"ttl"`
}

// New builds the configured provider, wrapped in a cache when enabled.
func New(ctx context.Context, cfg Config) (mediastore.IdentityProvider, error) {
	var provider mediastore.IdentityProvider

	switch cfg.Provider {
	case "jwks":
		p, err := NewJWKS(ctx, cfg.JWKS)
		if err != nil {
			return nil, err
		}
		provider = p
	case "hmac":
		secrets, err := keybackend.NewSecretStore(cfg.HMAC.Keys)
		if err != nil {
			return nil, fmt.Errorf("new identity provider: %w", err)
		}
		if len(secrets.KeyIDs()) == 0 {
			return nil, errors.New("new identity provider: hmac provider needs at least one signing key")
		}
		provider = NewHMAC(secrets, cfg.HMAC)
	default:
		return nil, fmt.Errorf("new identity provider: unsupported provider: %q", cfg.Provider)
	}

	if cfg.Cache.Size > 0 {
		provider = NewCached(provider, cfg.Cache.Size, cfg.Cache.TTL)
	}

	return provider, nil
}

// tokenClaims are the claims read from every accepted token.
type tokenClaims struct {
	jwt.RegisteredClaims
	PreferredUsername string `json:"preferred_username,omitempty"`
}

func (c *tokenClaims) principal() (mediastore.Principal, error) {
	if c.Subject == "" {
		return mediastore.Principal{}, ErrMissingSubject
	}

	p := mediastore.Principal{
		OwnerID:  c.Subject,
		Username: c.PreferredUsername,
	}
	if c.ExpiresAt != nil {
		p.ExpiresAt = c.ExpiresAt.UTC()
	}
	return p, nil
}

func parserOptions(methods []string, issuer, audience string, leeway time.Duration) []jwt.ParserOption {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods(methods),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(leeway),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}
	return opts
}
