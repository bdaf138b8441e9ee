package identity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	mediastore "github.com/YamesYamerson/secure-multimedia-storage"
	"github.com/YamesYamerson/secure-multimedia-storage/identity"
)

type SpyIdentityProvider struct {
	mock.Mock
}

func (s *SpyIdentityProvider) Identify(ctx context.Context, token string) (mediastore.Principal, error) {
	args := s.Called(ctx, token)
	return args.Get(0).(mediastore.Principal), args.Error(1)
}

func TestCached(t *testing.T) {
	ctx := context.Background()

	t.Run("serves repeated tokens from cache", func(t *testing.T) {
		spy := new(SpyIdentityProvider)
		want := mediastore.Principal{OwnerID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}
		spy.On("Identify", ctx, "token-a").Return(want, nil).Once()

		cached := identity.NewCached(spy, 10, time.Minute)

		for range 3 {
			p, err := cached.Identify(ctx, "token-a")
			require.NoError(t, err)
			assert.Equal(t, want, p)
		}

		spy.AssertNumberOfCalls(t, "Identify", 1)
		assert.Equal(t, 1, cached.Len())
	})

	t.Run("does not cache failures", func(t *testing.T) {
		spy := new(SpyIdentityProvider)
		spy.On("Identify", ctx, "bad").Return(mediastore.Principal{}, errors.New("bad signature"))

		cached := identity.NewCached(spy, 10, time.Minute)

		for range 2 {
			_, err := cached.Identify(ctx, "bad")
			assert.Error(t, err)
		}

		spy.AssertNumberOfCalls(t, "Identify", 2)
		assert.Equal(t, 0, cached.Len())
	})

	t.Run("does not cache expired or expiry-less principals", func(t *testing.T) {
		spy := new(SpyIdentityProvider)
		spy.On("Identify", ctx, "stale").Return(mediastore.Principal{OwnerID: "u", ExpiresAt: time.Now().Add(-time.Second)}, nil)
		spy.On("Identify", ctx, "forever").Return(mediastore.Principal{OwnerID: "u"}, nil)

		cached := identity.NewCached(spy, 10, time.Minute)

		for range 2 {
			_, err := cached.Identify(ctx, "stale")
			require.NoError(t, err)
			_, err = cached.Identify(ctx, "forever")
			require.NoError(t, err)
		}

		spy.AssertNumberOfCalls(t, "Identify", 4)
		assert.Equal(t, 0, cached.Len())
	})

	t.Run("evicts least recently used", func(t *testing.T) {
		spy := new(SpyIdentityProvider)
		exp := time.Now().Add(time.Hour)
		spy.On("Identify", ctx, mock.Anything).Return(mediastore.Principal{OwnerID: "u", ExpiresAt: exp}, nil)

		cached := identity.NewCached(spy, 2, time.Minute)
		for _, token := range []string{"a", "b", "c"} {
			_, err := cached.Identify(ctx, token)
			require.NoError(t, err)
		}

		assert.Equal(t, 2, cached.Len())

		_, err := cached.Identify(ctx, "a")
		require.NoError(t, err)
		spy.AssertNumberOfCalls(t, "Identify", 4)
	})
}
