package requestid

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

// Header is the correlation header read from the request and echoed back on
// the response.
const Header = "X-Request-ID"

const maxIDLength = 128

// Client-supplied IDs are restricted to a safe alphabet; anything else is
// replaced rather than propagated into logs and response headers.
var validID = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Middleware attaches a request ID to every request: a valid incoming header
// value is reused, otherwise a fresh UUID is generated. The chosen ID is
// stored in the request context and set on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if !acceptable(id) {
			id = uuid.New().String()
		}

		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), id)))
	})
}

func acceptable(id string) bool {
	return id != "" && len(id) <= maxIDLength && validID.MatchString(id)
}
