package mediastore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// IdentityProvider verifies a bearer token and resolves the caller behind it.
//
// Implementations must reject expired, malformed or tampered tokens. Any error
// is treated as an authentication failure by AuthGate; the concrete cause is
// only logged.
type IdentityProvider interface {
	Identify(ctx context.Context, token string) (Principal, error)
}

// SecretStore looks up a shared signing secret by key id.
type SecretStore interface {
	Lookup(keyID string) (secret string, err error)
}

// ParseBearer extracts the token from an Authorization header value of the
// form "Bearer <token>". The scheme is matched case-insensitively.
func ParseBearer(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", fmt.Errorf("parse bearer: %w: malformed authorization header", ErrUnauthorized)
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("parse bearer: %w: empty token", ErrUnauthorized)
	}

	return token, nil
}

// AuthGate turns an Authorization header into a verified Principal.
type AuthGate struct {
	provider IdentityProvider
}

func NewAuthGate(provider IdentityProvider) *AuthGate {
	return &AuthGate{provider: provider}
}

// Verify parses the header and asks the identity provider to resolve it.
// Every failure is reported as ErrUnauthorized.
func (g *AuthGate) Verify(ctx context.Context, header string) (Principal, error) {
	token, err := ParseBearer(header)
	if err != nil {
		return Principal{}, err
	}

	p, err := g.provider.Identify(ctx, token)
	if err != nil {
		slog.DebugContext(ctx, "token rejected", "error", err)
		return Principal{}, fmt.Errorf("verify: %w", ErrUnauthorized)
	}

	if p.OwnerID == "" {
		return Principal{}, fmt.Errorf("verify: %w: token has no subject", ErrUnauthorized)
	}

	return p, nil
}
