package generation_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	genmodule "github.com/dmitrymomot/postkit/modules/generation"
	"github.com/dmitrymomot/postkit/pkg/eligibility"
	"github.com/dmitrymomot/postkit/pkg/generation"
	"github.com/dmitrymomot/postkit/pkg/persona"
	"github.com/dmitrymomot/postkit/pkg/state"
	"github.com/dmitrymomot/postkit/pkg/subscription"
)

type moduleFixture struct {
	handler http.Handler
	store   state.Store
	userID  uuid.UUID
}

func newModule(t *testing.T, status subscription.Status, plan subscription.Plan, pipeline generation.Pipeline) *moduleFixture {
	t.Helper()

	userID := uuid.New()
	subs := subscription.NewMemorySource(subscription.Subscription{
		UserID: userID,
		Plan:   plan,
		Status: status,
	})
	catalog := persona.NewMemoryCatalog([]persona.Persona{
		{ID: "creator_default", Name: "Default Creator"},
		{ID: "persona_admin_kunal", Name: "Kunal", AdminOnly: true},
	}, "creator_default")

	store := state.NewMemoryStore()
	gate := eligibility.NewGate(
		store,
		subscription.NewRegistry(subs),
		persona.NewResolver(catalog),
		subscription.Limits{
			subscription.PlanFree: 5,
			subscription.PlanPro:  10,
		},
	)

	svc := genmodule.NewService(gate, pipeline)
	return &moduleFixture{
		handler: genmodule.HeaderAuth(genmodule.Router(genmodule.RouterOptions{Posts: svc})),
		store:   store,
		userID:  userID,
	}
}

func staticPipeline(content, hook string) generation.Pipeline {
	return generation.PipelineFunc(func(ctx context.Context, req generation.Request) (generation.Result, error) {
		return generation.Result{Content: content, ExtractedHook: hook}, nil
	})
}

func (f *moduleFixture) do(t *testing.T, method, path, body string, asUser bool) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if asUser {
		req.Header.Set("X-User-ID", f.userID.String())
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestCreatePost(t *testing.T) {
	t.Parallel()

	t.Run("success commits quota and hook", func(t *testing.T) {
		t.Parallel()

		f := newModule(t, subscription.StatusActive, subscription.PlanPro,
			staticPipeline("full post body", "bold opening line"))

		rec := f.do(t, http.MethodPost, "/posts", `{"topic":"remote work"}`, true)
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp genmodule.CreatePostResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "full post body", resp.Content)
		assert.Equal(t, "bold opening line", resp.Hook)
		assert.Equal(t, "creator_default", resp.Persona)
		assert.Equal(t, int64(1), resp.Usage.Used)
		assert.Equal(t, int64(10), resp.Usage.Limit)

		qrec, err := f.store.GetQuota(context.Background(), f.userID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), qrec.PostsThisMonth)

		wrec, err := f.store.GetWindow(context.Background(), f.userID)
		require.NoError(t, err)
		assert.Equal(t, []string{"bold opening line"}, wrec.Hooks)
	})

	t.Run("pipeline receives recent hooks as prohibited", func(t *testing.T) {
		t.Parallel()

		var seen []string
		pipeline := generation.PipelineFunc(func(ctx context.Context, req generation.Request) (generation.Result, error) {
			seen = req.ProhibitedHooks
			return generation.Result{Content: "c", ExtractedHook: "hook-" + req.Topic}, nil
		})
		f := newModule(t, subscription.StatusActive, subscription.PlanPro, pipeline)

		for _, topic := range []string{"one", "two"} {
			rec := f.do(t, http.MethodPost, "/posts", `{"topic":"`+topic+`"}`, true)
			require.Equal(t, http.StatusCreated, rec.Code)
		}
		assert.Equal(t, []string{"hook-one"}, seen)
	})

	t.Run("missing identity is unauthorized", func(t *testing.T) {
		t.Parallel()

		f := newModule(t, subscription.StatusActive, subscription.PlanPro, staticPipeline("c", "h"))
		rec := f.do(t, http.MethodPost, "/posts", `{"topic":"x"}`, false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("blank topic is rejected", func(t *testing.T) {
		t.Parallel()

		f := newModule(t, subscription.StatusActive, subscription.PlanPro, staticPipeline("c", "h"))
		rec := f.do(t, http.MethodPost, "/posts", `{"topic":"  "}`, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("inactive subscription returns payment required", func(t *testing.T) {
		t.Parallel()

		f := newModule(t, subscription.StatusPastDue, subscription.PlanPro, staticPipeline("c", "h"))
		rec := f.do(t, http.MethodPost, "/posts", `{"topic":"x"}`, true)
		require.Equal(t, http.StatusPaymentRequired, rec.Code)

		var denial genmodule.DenialResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &denial))
		assert.False(t, denial.Allowed)
		assert.Equal(t, string(eligibility.ReasonSubscriptionInactive), denial.Reason)
	})

	t.Run("exhausted quota returns too many requests", func(t *testing.T) {
		t.Parallel()

		f := newModule(t, subscription.StatusActive, subscription.PlanFree, staticPipeline("c", "h"))
		for i := range 5 {
			rec := f.do(t, http.MethodPost, "/posts", `{"topic":"t`+string(rune('0'+i))+`"}`, true)
			require.Equal(t, http.StatusCreated, rec.Code)
		}

		rec := f.do(t, http.MethodPost, "/posts", `{"topic":"one too many"}`, true)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})

	t.Run("admin persona is forbidden for members", func(t *testing.T) {
		t.Parallel()

		f := newModule(t, subscription.StatusActive, subscription.PlanPro, staticPipeline("c", "h"))
		rec := f.do(t, http.MethodPost, "/posts", `{"topic":"x","persona_id":"persona_admin_kunal"}`, true)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("pipeline failure rolls back and reports bad gateway", func(t *testing.T) {
		t.Parallel()

		pipeline := generation.PipelineFunc(func(ctx context.Context, req generation.Request) (generation.Result, error) {
			return generation.Result{}, errors.New("model timeout")
		})
		f := newModule(t, subscription.StatusActive, subscription.PlanPro, pipeline)

		rec := f.do(t, http.MethodPost, "/posts", `{"topic":"x"}`, true)
		require.Equal(t, http.StatusBadGateway, rec.Code)

		qrec, err := f.store.GetQuota(context.Background(), f.userID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), qrec.PostsThisMonth, "failed generation must not consume quota")
	})

	t.Run("empty extracted hook rolls back", func(t *testing.T) {
		t.Parallel()

		f := newModule(t, subscription.StatusActive, subscription.PlanPro, staticPipeline("content", ""))
		rec := f.do(t, http.MethodPost, "/posts", `{"topic":"x"}`, true)
		require.Equal(t, http.StatusBadGateway, rec.Code)

		qrec, err := f.store.GetQuota(context.Background(), f.userID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), qrec.PostsThisMonth)
	})
}

func TestUsageEndpoint(t *testing.T) {
	t.Parallel()

	f := newModule(t, subscription.StatusActive, subscription.PlanPro, staticPipeline("c", "h"))

	rec := f.do(t, http.MethodGet, "/usage", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	var usage genmodule.UsageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &usage))
	assert.Equal(t, int64(0), usage.Used)
	assert.Equal(t, int64(10), usage.Limit)

	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/posts", `{"topic":"x"}`, true).Code)

	rec = f.do(t, http.MethodGet, "/usage", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &usage))
	assert.Equal(t, int64(1), usage.Used)
}

func TestRollbackEndpoint(t *testing.T) {
	t.Parallel()

	f := newModule(t, subscription.StatusActive, subscription.PlanPro, staticPipeline("c", "h"))

	rec := f.do(t, http.MethodPost, "/posts/rollback", "", true)
	assert.Equal(t, http.StatusOK, rec.Code, "rollback with nothing pending is a no-op")
}
