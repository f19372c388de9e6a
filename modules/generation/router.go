package generation

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/postkit/pkg/requestid"
)

type Mountable interface {
	Handle() http.Handler
}

// RouterOptions configures which services to mount in the generation module.
// Each service is optional and will only be mounted if provided.
type RouterOptions struct {
	Posts  Mountable
	Health Mountable
}

// Router creates a new generation module router with configurable services.
//
// Example:
//
//	svc := generation.NewService(gate, pipeline)
//
//	r := chi.NewRouter()
//	r.Mount("/api", generation.Router(generation.RouterOptions{
//	    Posts: svc,
//	}))
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)

	if opts.Health != nil {
		r.Mount("/health", opts.Health.Handle())
	}
	if opts.Posts != nil {
		r.Mount("/", opts.Posts.Handle())
	}

	return r
}
