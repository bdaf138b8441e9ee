package http

import (
	"context"
	"net/http"

	mediastore "github.com/YamesYamerson/secure-multimedia-storage"
)

// Verifier resolves an Authorization header to a Principal.
// *mediastore.AuthGate satisfies it.
type Verifier interface {
	Verify(ctx context.Context, authorizationHeader string) (mediastore.Principal, error)
}

type principalKey struct{}

// AuthMiddleware rejects requests whose bearer token does not verify and
// stores the Principal in the request context. A nil verifier rejects every
// request.
func AuthMiddleware(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				HandleError(w, mediastore.ErrUnauthorized)
				return
			}

			principal, err := verifier.Verify(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				HandleError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey{}, principal)))
		})
	}
}

// PrincipalFromContext returns the Principal stored by AuthMiddleware.
func PrincipalFromContext(ctx context.Context) (mediastore.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(mediastore.Principal)
	return p, ok
}
