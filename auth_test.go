package mediastore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	mediastore "github.com/YamesYamerson/secure-multimedia-storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type SpyIdentityProvider struct {
	mock.Mock
}

func (s *SpyIdentityProvider) Identify(ctx context.Context, token string) (mediastore.Principal, error) {
	args := s.Called(ctx, token)
	return args.Get(0).(mediastore.Principal), args.Error(1)
}

func TestParseBearer(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "standard", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer abc", want: "abc"},
		{name: "uppercase scheme", header: "BEARER abc", want: "abc"},
		{name: "extra spaces", header: "  Bearer   abc  ", want: "abc"},
		{name: "empty header", header: "", wantErr: true},
		{name: "scheme only", header: "Bearer", wantErr: true},
		{name: "scheme with blank token", header: "Bearer    ", wantErr: true},
		{name: "basic auth", header: "Basic dXNlcjpwYXNz", wantErr: true},
		{name: "token without scheme", header: "abc.def.ghi", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mediastore.ParseBearer(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, mediastore.ErrUnauthorized)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthGate_Verify(t *testing.T) {
	ctx := context.Background()
	principal := mediastore.Principal{
		OwnerID:   "user-1",
		Username:  "alice",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	t.Run("valid token", func(t *testing.T) {
		provider := new(SpyIdentityProvider)
		provider.On("Identify", ctx, "good").Return(principal, nil)

		got, err := mediastore.NewAuthGate(provider).Verify(ctx, "Bearer good")
		require.NoError(t, err)
		assert.Equal(t, principal, got)
		provider.AssertExpectations(t)
	})

	t.Run("malformed header never reaches provider", func(t *testing.T) {
		provider := new(SpyIdentityProvider)

		_, err := mediastore.NewAuthGate(provider).Verify(ctx, "Token good")
		assert.ErrorIs(t, err, mediastore.ErrUnauthorized)
		provider.AssertNotCalled(t, "Identify")
	})

	t.Run("provider failure maps to unauthorized", func(t *testing.T) {
		provider := new(SpyIdentityProvider)
		provider.On("Identify", ctx, "expired").Return(mediastore.Principal{}, errors.New("token is expired"))

		_, err := mediastore.NewAuthGate(provider).Verify(ctx, "Bearer expired")
		assert.ErrorIs(t, err, mediastore.ErrUnauthorized)
		assert.NotContains(t, err.Error(), "expired")
	})

	t.Run("principal without owner is rejected", func(t *testing.T) {
		provider := new(SpyIdentityProvider)
		provider.On("Identify", ctx, "anon").Return(mediastore.Principal{Username: "x"}, nil)

		_, err := mediastore.NewAuthGate(provider).Verify(ctx, "Bearer anon")
		assert.ErrorIs(t, err, mediastore.ErrUnauthorized)
	})
}
