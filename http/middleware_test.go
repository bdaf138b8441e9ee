package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	mediastore "github.com/YamesYamerson/secure-multimedia-storage"
	mediahttp "github.com/YamesYamerson/secure-multimedia-storage/http"
)

func TestAuthMiddleware_StoresPrincipal(t *testing.T) {
	verifier := staticVerifier{header: testToken, principal: mediastore.Principal{OwnerID: "user-7", Username: "bob"}}

	var got mediastore.Principal
	var found bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, found = mediahttp.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("POST", "/", nil)
	req.Header.Set("Authorization", testToken)
	rec := httptest.NewRecorder()

	mediahttp.AuthMiddleware(verifier)(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, found)
	assert.Equal(t, "user-7", got.OwnerID)
	assert.Equal(t, "bob", got.Username)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()

		mediahttp.AuthMiddleware(staticVerifier{header: testToken})(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "unauthorized")
	})

	t.Run("nil verifier", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", nil)
		req.Header.Set("Authorization", testToken)
		rec := httptest.NewRecorder()

		mediahttp.AuthMiddleware(nil)(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestPrincipalFromContext_Missing(t *testing.T) {
	_, ok := mediahttp.PrincipalFromContext(httptest.NewRequest("GET", "/", nil).Context())
	assert.False(t, ok)
}
