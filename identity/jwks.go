package identity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	mediastore "github.com/YamesYamerson/secure-multimedia-storage"
)

// JWKSConfig configures verification against a remote key set.
type JWKSConfig struct {
	URL      string `mapstructure:"url" validate:"omitempty,url"`
	Issuer   string `mapstructure:"issuer"`
	Audience string `mapstructure:"audience"`
	// Leeway tolerates clock skew on exp and nbf.
	Leeway          time.Duration `mapstructure:"leeway"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// JWKS verifies RS256 and ES256 tokens with keys fetched from a JWKS
// endpoint and refreshed in the background.
type JWKS struct {
	keys keyfunc.Keyfunc
	opts []jwt.ParserOption
}

// NewJWKS starts a background-refreshed key set. The first fetch may fail;
// startup does not wait for the identity provider to come up.
func NewJWKS(ctx context.Context, cfg JWKSConfig) (*JWKS, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("new jwks provider: url is required")
	}

	refresh := cfg.RefreshInterval
	if refresh <= 0 {
		refresh = time.Hour
	}

	storage, err := jwkset.NewStorageFromHTTP(cfg.URL, jwkset.HTTPClientStorageOptions{
		Ctx:                       ctx,
		NoErrorReturnFirstHTTPReq: true,
		RefreshInterval:           refresh,
		RefreshErrorHandler: func(ctx context.Context, err error) {
			slog.ErrorContext(ctx, "jwks refresh failed", "url", cfg.URL, "error", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("new jwks provider: storage: %w", err)
	}

	kf, err := keyfunc.New(keyfunc.Options{Ctx: ctx, Storage: storage})
	if err != nil {
		return nil, fmt.Errorf("new jwks provider: keyfunc: %w", err)
	}

	return NewJWKSWithKeyfunc(kf, cfg), nil
}

// NewJWKSWithKeyfunc builds a provider around an existing key source.
func NewJWKSWithKeyfunc(kf keyfunc.Keyfunc, cfg JWKSConfig) *JWKS {
	return &JWKS{
		keys: kf,
		opts: parserOptions([]string{"RS256", "ES256"}, cfg.Issuer, cfg.Audience, cfg.Leeway),
	}
}

func (j *JWKS) Identify(ctx context.Context, token string) (mediastore.Principal, error) {
	claims := &tokenClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, j.keys.KeyfuncCtx(ctx), j.opts...); err != nil {
		return mediastore.Principal{}, fmt.Errorf("identify: %w", err)
	}

	p, err := claims.principal()
	if err != nil {
		return mediastore.Principal{}, fmt.Errorf("identify: %w", err)
	}
	return p, nil
}
