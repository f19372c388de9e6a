package generation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/postkit/pkg/eligibility"
	"github.com/dmitrymomot/postkit/pkg/variety"
)

// errorResponse is the module's JSON error envelope.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}

// denialStatus maps a gate denial reason onto an HTTP status.
func denialStatus(reason eligibility.Reason) int {
	switch reason {
	case eligibility.ReasonSubscriptionInactive:
		return http.StatusPaymentRequired
	case eligibility.ReasonQuotaExceeded:
		return http.StatusTooManyRequests
	case eligibility.ReasonForbiddenPersona:
		return http.StatusForbidden
	default:
		return http.StatusForbidden
	}
}

// writeGateError maps gate infrastructure failures onto HTTP statuses.
func writeGateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, eligibility.ErrStorageUnavailable):
		writeError(w, http.StatusServiceUnavailable, "storage_unavailable", "try again shortly")
	case errors.Is(err, eligibility.ErrTransientConflict):
		writeError(w, http.StatusConflict, "transient_conflict", "concurrent update, retry the request")
	case errors.Is(err, eligibility.ErrNoPendingRequest):
		writeError(w, http.StatusConflict, "no_pending_request", "no generation awaits completion")
	case errors.Is(err, variety.ErrEmptyHook):
		writeError(w, http.StatusBadGateway, "generation_failed", "pipeline returned no hook")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "")
	}
}
