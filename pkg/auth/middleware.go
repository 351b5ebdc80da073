package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lizouzt/TrendRadar/pkg/observability"
)

// RejectionMessage is the fixed message body sent on a failed gate check.
// It is identical for missing and wrong passwords and never contains the
// configured password or the supplied value.
const RejectionMessage = "Invalid or missing password. Please provide 'pwd' query parameter or 'X-MCP-Password' header."

// rejection is the JSON shape of a 403 response: exactly these two fields.
type rejection struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Middleware creates HTTP middleware from a Gate. It checks the bypass
// list, evaluates the gate, and either forwards the request untouched or
// ends it with a 403.
func Middleware(gate *Gate, bypassEndpoints []string) func(http.Handler) http.Handler {
	bypass := make(map[string]bool, len(bypassEndpoints))
	for _, ep := range bypassEndpoints {
		bypass[ep] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Serving infrastructure stays reachable without a password.
			if bypass[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			if gate.Authenticate(r) == Rejected {
				slog.Warn("authentication failed",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
				)
				observability.AuthRejectedTotal.Inc()
				writeRejection(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// writeRejection writes the fixed 403 response.
func writeRejection(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	json.NewEncoder(w).Encode(rejection{Error: "Forbidden", Message: RejectionMessage})
}

// DefaultBypassEndpoints lists endpoints that skip the gate.
var DefaultBypassEndpoints = []string{"/healthz", "/readyz", "/metrics"}
