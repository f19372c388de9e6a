package generation

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Probe checks one backing dependency. pkg/pg, pkg/redis, and pkg/mongo all
// export Healthcheck constructors with this shape.
type Probe func(ctx context.Context) error

// HealthService runs named dependency probes for readiness endpoints.
type HealthService struct {
	probes  map[string]Probe
	timeout time.Duration
}

// NewHealthService builds a health endpoint over the given probes. Probes run
// sequentially with a shared 5 second budget.
func NewHealthService(probes map[string]Probe) *HealthService {
	return &HealthService{
		probes:  probes,
		timeout: 5 * time.Second,
	}
}

// HealthResponse reports per-dependency status.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (s *HealthService) Handle() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.health)
	return r
}

func (s *HealthService) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	resp := HealthResponse{Status: "ok"}
	if len(s.probes) > 0 {
		resp.Checks = make(map[string]string, len(s.probes))
	}

	status := http.StatusOK
	for name, probe := range s.probes {
		if err := probe(ctx); err != nil {
			resp.Status = "degraded"
			resp.Checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	writeJSON(w, status, resp)
}
