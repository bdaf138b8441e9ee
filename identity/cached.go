package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	mediastore "github.com/YamesYamerson/secure-multimedia-storage"
)

var (
	tokenCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mediastore_token_cache_hits_total",
		Help: "Bearer tokens resolved from the verified-token cache.",
	})
	tokenCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mediastore_token_cache_misses_total",
		Help: "Bearer tokens that had to be verified by the identity provider.",
	})
)

// Cached remembers successful verifications. An entry is served only while
// the token itself is unexpired, however long the cache TTL is. Failures are
// never cached.
type Cached struct {
	next  mediastore.IdentityProvider
	cache *expirable.LRU[string, mediastore.Principal]
	now   func() time.Time
}

// NewCached wraps next with an LRU of at most size entries. A ttl of zero or
// less defaults to five minutes.
func NewCached(next mediastore.IdentityProvider, size int, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cached{
		next:  next,
		cache: expirable.NewLRU[string, mediastore.Principal](size, nil, ttl),
		now:   time.Now,
	}
}

func (c *Cached) Identify(ctx context.Context, token string) (mediastore.Principal, error) {
	key := tokenKey(token)

	if p, ok := c.cache.Get(key); ok {
		if c.now().Before(p.ExpiresAt) {
			tokenCacheHits.Inc()
			return p, nil
		}
		c.cache.Remove(key)
	}
	tokenCacheMisses.Inc()

	p, err := c.next.Identify(ctx, token)
	if err != nil {
		return mediastore.Principal{}, err
	}

	if !p.ExpiresAt.IsZero() && c.now().Before(p.ExpiresAt) {
		c.cache.Add(key, p)
	}
	return p, nil
}

// Len reports the number of cached tokens.
func (c *Cached) Len() int {
	return c.cache.Len()
}

// tokenKey keeps raw tokens out of memory longer than one request.
func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
