package generation

import (
	"context"

	"github.com/dmitrymomot/postkit/pkg/persona"
)

// Request carries everything the pipeline needs for one generation call.
type Request struct {
	Topic           string
	Persona         persona.Persona
	ProhibitedHooks []string // recent opening patterns the output must avoid
}

// Result is the pipeline's successful output.
type Result struct {
	Content       string // opaque to this engine
	ExtractedHook string // opening-line fingerprint, recorded on commit
}

// Pipeline is implemented by the external generation collaborator. Calls are
// slow; the eligibility gate holds no lock or transaction while one is in
// flight.
type Pipeline interface {
	Generate(ctx context.Context, req Request) (Result, error)
}

// PipelineFunc adapts a function to the Pipeline interface.
type PipelineFunc func(ctx context.Context, req Request) (Result, error)

func (f PipelineFunc) Generate(ctx context.Context, req Request) (Result, error) {
	return f(ctx, req)
}
