package persona

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Resolver decides which persona configuration a request generates with.
type Resolver struct {
	catalog Catalog
}

// NewResolver creates a Resolver. Panics on nil catalog to fail fast during
// initialization.
func NewResolver(catalog Catalog) *Resolver {
	if catalog == nil {
		panic("persona: Catalog is required")
	}
	return &Resolver{catalog: catalog}
}

// Resolve returns the persona for a request.
//
// Admins naming a registered admin-scoped persona get that persona's stored
// configuration verbatim. A non-admin naming an admin-scoped persona id is
// denied with ErrForbiddenPersona. Every other case, including unknown or
// empty requested ids, resolves to the user's own default persona.
func (r *Resolver) Resolve(ctx context.Context, userID uuid.UUID, requestedID string, role Role) (Persona, error) {
	if requestedID != "" {
		requested, err := r.catalog.Persona(ctx, requestedID)
		switch {
		case err == nil && requested.AdminOnly:
			if !role.IsAdmin() {
				return Persona{}, ErrForbiddenPersona
			}
			return requested, nil
		case err != nil && !errors.Is(err, ErrPersonaNotFound):
			return Persona{}, err
		}
	}
	return r.catalog.DefaultFor(ctx, userID)
}
