package persona

import (
	"context"
	"maps"
	"sync"

	"github.com/google/uuid"
)

// Catalog provides persona lookups and per-user defaults.
type Catalog interface {
	// Persona returns the persona with the given id, or ErrPersonaNotFound.
	Persona(ctx context.Context, id string) (Persona, error)

	// DefaultFor returns the user's own default persona, falling back to the
	// catalog-wide default when the user has none assigned.
	DefaultFor(ctx context.Context, userID uuid.UUID) (Persona, error)
}

// MemoryCatalog is an in-memory Catalog. Personas and defaults are fixed at
// construction; use SetDefault to assign per-user defaults at runtime.
type MemoryCatalog struct {
	mu       sync.RWMutex
	personas map[string]Persona
	defaults map[uuid.UUID]string
	fallback string
}

// NewMemoryCatalog builds a catalog from the given personas. fallbackID
// names the catalog-wide default persona and must be one of the given ids;
// panics otherwise to fail fast during initialization.
func NewMemoryCatalog(personas []Persona, fallbackID string) *MemoryCatalog {
	byID := make(map[string]Persona, len(personas))
	for _, p := range personas {
		byID[p.ID] = p
	}
	if _, ok := byID[fallbackID]; !ok {
		panic("persona: fallback persona id is not in the catalog")
	}
	return &MemoryCatalog{
		personas: byID,
		defaults: make(map[uuid.UUID]string),
		fallback: fallbackID,
	}
}

func (c *MemoryCatalog) Persona(ctx context.Context, id string) (Persona, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.personas[id]
	if !ok {
		return Persona{}, ErrPersonaNotFound
	}
	return p, nil
}

func (c *MemoryCatalog) DefaultFor(ctx context.Context, userID uuid.UUID) (Persona, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if id, ok := c.defaults[userID]; ok {
		if p, ok := c.personas[id]; ok {
			return p, nil
		}
	}
	if p, ok := c.personas[c.fallback]; ok {
		return p, nil
	}
	return Persona{}, ErrNoDefaultPersona
}

// SetDefault assigns a user's default persona. Unknown persona ids are
// rejected with ErrPersonaNotFound.
func (c *MemoryCatalog) SetDefault(userID uuid.UUID, personaID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.personas[personaID]; !ok {
		return ErrPersonaNotFound
	}
	c.defaults[userID] = personaID
	return nil
}

// Personas returns a copy of the catalog's personas keyed by id.
func (c *MemoryCatalog) Personas() map[string]Persona {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.personas)
}
