package generation

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/postkit/pkg/persona"
)

// Principal identifies the caller of a generation endpoint. The host
// application's authentication layer is expected to resolve it and place it
// on the request context before the module's handlers run.
type Principal struct {
	UserID uuid.UUID
	Role   persona.Role
}

type principalKey struct{}

// WithPrincipal returns a context carrying the caller's identity.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext retrieves the caller's identity. The second return
// value is false when no authentication layer populated the context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// HeaderAuth is a development middleware that reads the caller identity from
// X-User-ID and X-User-Role headers. It exists for local setups and tests;
// production hosts should install their own authentication middleware that
// calls WithPrincipal.
func HeaderAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(r.Header.Get("X-User-ID"))
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		role := persona.RoleMember
		if r.Header.Get("X-User-Role") == string(persona.RoleAdmin) {
			role = persona.RoleAdmin
		}

		ctx := WithPrincipal(r.Context(), Principal{UserID: userID, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
