package generation_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	genmodule "github.com/dmitrymomot/postkit/modules/generation"
)

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("all probes healthy", func(t *testing.T) {
		t.Parallel()

		svc := genmodule.NewHealthService(map[string]genmodule.Probe{
			"postgres": func(ctx context.Context) error { return nil },
			"redis":    func(ctx context.Context) error { return nil },
		})
		handler := genmodule.Router(genmodule.RouterOptions{Health: svc})

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var resp genmodule.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, "ok", resp.Checks["postgres"])
	})

	t.Run("failing probe degrades status", func(t *testing.T) {
		t.Parallel()

		svc := genmodule.NewHealthService(map[string]genmodule.Probe{
			"postgres": func(ctx context.Context) error { return nil },
			"mongo":    func(ctx context.Context) error { return errors.New("connection refused") },
		})
		handler := genmodule.Router(genmodule.RouterOptions{Health: svc})

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var resp genmodule.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "degraded", resp.Status)
		assert.Equal(t, "ok", resp.Checks["postgres"])
		assert.Contains(t, resp.Checks["mongo"], "connection refused")
	})
}
