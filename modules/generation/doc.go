// Package generation exposes the eligibility gate and content pipeline as a
// mountable HTTP module.
//
// The module owns the full request lifecycle for one post: eligibility check,
// pipeline call, then commit on success or rollback on failure. It renders
// JSON only; the host application decides where to mount it and how to
// authenticate callers.
//
// Example:
//
//	svc := generation.NewService(gate, pipeline)
//
//	r := chi.NewRouter()
//	r.Mount("/api", generation.Router(generation.RouterOptions{
//	    Posts:  svc,
//	    Health: generation.NewHealthService(map[string]generation.Probe{"postgres": pg.Healthcheck(pool)}),
//	}))
package generation
