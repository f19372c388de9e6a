package generation

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/postkit/pkg/eligibility"
	"github.com/dmitrymomot/postkit/pkg/generation"
)

// Service wires the eligibility gate and the content pipeline into HTTP
// handlers for post creation and usage reporting.
type Service struct {
	gate     *eligibility.Gate
	pipeline generation.Pipeline
	log      *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the structured logger. Defaults to slog.Default.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.log = log
	}
}

// NewService composes the HTTP surface over gate and pipeline.
// Panics when either collaborator is nil.
func NewService(gate *eligibility.Gate, pipeline generation.Pipeline, opts ...ServiceOption) *Service {
	if gate == nil {
		panic("generation: gate is required")
	}
	if pipeline == nil {
		panic("generation: pipeline is required")
	}

	s := &Service{
		gate:     gate,
		pipeline: pipeline,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle returns the service's routes for mounting by the module router.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.Post("/posts", s.createPost)
	r.Post("/posts/rollback", s.rollbackPost)
	r.Get("/usage", s.usage)

	return r
}
