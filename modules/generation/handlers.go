package generation

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/postkit/pkg/generation"
)

// CreatePostRequest is the body of POST /posts.
type CreatePostRequest struct {
	Topic     string `json:"topic"`
	PersonaID string `json:"persona_id,omitempty"`
}

// CreatePostResponse is returned when a post was generated and committed.
type CreatePostResponse struct {
	RequestID uuid.UUID     `json:"request_id"`
	Content   string        `json:"content"`
	Hook      string        `json:"hook"`
	Persona   string        `json:"persona"`
	Usage     UsageResponse `json:"usage"`
}

// UsageResponse reports the caller's quota position.
type UsageResponse struct {
	Used     int64     `json:"used"`
	Limit    int64     `json:"limit"`
	ResetsAt time.Time `json:"resets_at"`
}

// DenialResponse is returned with a non-2xx status when the gate refuses a
// generation.
type DenialResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
}

func (s *Service) createPost(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "caller identity missing")
		return
	}

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "malformed JSON body")
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		writeError(w, http.StatusBadRequest, "invalid_body", "topic is required")
		return
	}

	ctx := r.Context()

	decision, err := s.gate.CheckEligibility(ctx, p.UserID, req.PersonaID, p.Role)
	if err != nil {
		writeGateError(w, err)
		return
	}
	if !decision.Allowed {
		writeJSON(w, denialStatus(decision.Reason), DenialResponse{
			Allowed: false,
			Reason:  string(decision.Reason),
		})
		return
	}

	result, err := s.pipeline.Generate(ctx, generation.Request{
		Topic:           req.Topic,
		Persona:         decision.Persona,
		ProhibitedHooks: decision.ProhibitedHooks,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "generation pipeline failed",
			"user_id", p.UserID,
			"request_id", decision.RequestID,
			"error", err,
		)
		if rbErr := s.gate.Rollback(ctx, p.UserID); rbErr != nil {
			s.log.ErrorContext(ctx, "rollback after pipeline failure failed", "user_id", p.UserID, "error", rbErr)
		}
		writeError(w, http.StatusBadGateway, "generation_failed", "content pipeline error")
		return
	}

	if err := s.gate.Commit(ctx, p.UserID, result.ExtractedHook); err != nil {
		// The post never reaches the caller on a failed commit, so the
		// request is rolled back rather than left to expire.
		if rbErr := s.gate.Rollback(ctx, p.UserID); rbErr != nil {
			s.log.ErrorContext(ctx, "rollback after commit failure failed", "user_id", p.UserID, "error", rbErr)
		}
		writeGateError(w, err)
		return
	}

	resp := CreatePostResponse{
		RequestID: decision.RequestID,
		Content:   result.Content,
		Hook:      result.ExtractedHook,
		Persona:   decision.Persona.ID,
	}
	if usage, err := s.gate.Usage(ctx, p.UserID); err == nil {
		resp.Usage = UsageResponse{Used: usage.Used, Limit: usage.Limit, ResetsAt: usage.ResetsAt}
	}

	writeJSON(w, http.StatusCreated, resp)
}

// rollbackPost releases the caller's oldest pending generation without
// recording anything. Hosts that run the pipeline out of process call it when
// generation fails on their side.
func (s *Service) rollbackPost(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "caller identity missing")
		return
	}

	if err := s.gate.Rollback(r.Context(), p.UserID); err != nil {
		writeGateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "rolled_back"})
}

func (s *Service) usage(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "caller identity missing")
		return
	}

	usage, err := s.gate.Usage(r.Context(), p.UserID)
	if err != nil {
		writeGateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, UsageResponse{
		Used:     usage.Used,
		Limit:    usage.Limit,
		ResetsAt: usage.ResetsAt,
	})
}
