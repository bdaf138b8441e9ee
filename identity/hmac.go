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

// HMACConfig configures verification of HS256 tokens.
type HMACConfig struct {
	Issuer string                `mapstructure:"issuer"`
	Leeway time.Duration         `mapstructure:"leeway"`
	Keys   keybackend.KeysConfig `mapstructure:"keys"`
}

// HMAC verifies HS256 tokens whose kid header names a secret in a
// SecretStore. It can also mint such tokens for development use.
type HMAC struct {
	secrets mediastore.SecretStore
	issuer  string
	opts    []jwt.ParserOption
}

func NewHMAC(secrets mediastore.SecretStore, cfg HMACConfig) *HMAC {
	return &HMAC{
		secrets: secrets,
		issuer:  cfg.Issuer,
		opts:    parserOptions([]string{"HS256"}, cfg.Issuer, "", cfg.Leeway),
	}
}

func (h *HMAC) Identify(_ context.Context, token string) (mediastore.Principal, error) {
	claims := &tokenClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, h.key, h.opts...); err != nil {
		return mediastore.Principal{}, fmt.Errorf("identify: %w", err)
	}

	p, err := claims.principal()
	if err != nil {
		return mediastore.Principal{}, fmt.Errorf("identify: %w", err)
	}
	return p, nil
}

func (h *HMAC) key(t *jwt.Token) (any, error) {
	kid, _ := t.Header["kid"].(string)
	if kid == "" {
		return nil, ErrMissingKeyID
	}

	secret, err := h.secrets.Lookup(kid)
	if err != nil {
		return nil, err
	}
	return []byte(secret), nil
}

// MintRequest describes a token to sign.
type MintRequest struct {
	KeyID    string
	Subject  string
	Username string
	TTL      time.Duration
	Now      time.Time
}

// Mint signs an HS256 token for req.Subject with the secret under req.KeyID.
func (h *HMAC) Mint(req MintRequest) (string, error) {
	if req.Subject == "" {
		return "", fmt.Errorf("mint: %w", ErrMissingSubject)
	}
	if req.TTL <= 0 {
		return "", errors.New("mint: ttl must be positive")
	}

	secret, err := h.secrets.Lookup(req.KeyID)
	if err != nil {
		return "", fmt.Errorf("mint: %w", err)
	}

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   req.Subject,
			Issuer:    h.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(req.TTL)),
		},
		PreferredUsername: req.Username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = req.KeyID

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("mint: %w", err)
	}
	return signed, nil
}
