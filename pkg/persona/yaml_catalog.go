package persona

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk shape of an ops-managed persona catalog:
//
//	fallback: creator_default
//	personas:
//	  - id: creator_default
//	    name: Default Creator
//	    audience: general
//	    tone: conversational
//	    identity: independent creator
//	  - id: persona_admin_kunal
//	    name: Kunal
//	    admin_only: true
//	defaults:
//	  4f9d...-uuid: creator_default
type catalogFile struct {
	Fallback string            `yaml:"fallback"`
	Personas []Persona         `yaml:"personas"`
	Defaults map[string]string `yaml:"defaults"`
}

// LoadYAMLCatalog reads a persona catalog from a YAML file into a
// MemoryCatalog.
func LoadYAMLCatalog(path string) (*MemoryCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("persona: read catalog file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("persona: parse catalog file: %w", err)
	}

	if len(file.Personas) == 0 {
		return nil, errors.New("persona: catalog file defines no personas")
	}
	if file.Fallback == "" {
		return nil, errors.New("persona: catalog file defines no fallback persona")
	}

	ids := make(map[string]struct{}, len(file.Personas))
	for _, p := range file.Personas {
		if p.ID == "" {
			return nil, errors.New("persona: catalog entry missing id")
		}
		if _, dup := ids[p.ID]; dup {
			return nil, fmt.Errorf("persona: duplicate persona id %q", p.ID)
		}
		ids[p.ID] = struct{}{}
	}
	if _, ok := ids[file.Fallback]; !ok {
		return nil, fmt.Errorf("persona: fallback %q is not a catalog persona", file.Fallback)
	}

	catalog := NewMemoryCatalog(file.Personas, file.Fallback)

	for rawID, personaID := range file.Defaults {
		userID, err := uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("persona: invalid user id %q in defaults: %w", rawID, err)
		}
		if err := catalog.SetDefault(userID, personaID); err != nil {
			return nil, fmt.Errorf("persona: default for %s: %w", rawID, err)
		}
	}

	return catalog, nil
}
