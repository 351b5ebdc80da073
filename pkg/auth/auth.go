package auth

import (
	"crypto/subtle"
	"net/http"
)

// Credential carriers recognized by the gate. Header names are matched
// case-insensitively by net/http; the password value itself is
// case-sensitive.
const (
	// HeaderName is the preferred carrier for the client password.
	HeaderName = "X-MCP-Password"

	// QueryParam is the fallback carrier, checked only when the header
	// is absent or empty.
	QueryParam = "pwd"
)

// Outcome represents the two possible results of a gate check.
type Outcome int

const (
	// Allowed means the request may proceed to the protected handler.
	Allowed Outcome = iota

	// Rejected means the password was missing or wrong. The two cases are
	// deliberately indistinguishable to the caller.
	Rejected
)

// Gate validates the shared password on incoming requests.
//
// The password is fixed at construction. There is no mutation API: a
// process that wants a new password builds a new Gate and swaps the
// reference atomically. Changing MCP_SERVER_PASSWORD after startup has no
// effect until restart.
type Gate struct {
	password string
}

// NewGate creates a gate for the given password. An empty password
// disables the gate: Authenticate always returns Allowed.
func NewGate(password string) *Gate {
	return &Gate{password: password}
}

// Enabled reports whether the gate actually checks passwords.
func (g *Gate) Enabled() bool {
	return g.password != ""
}

// Authenticate evaluates a single request against the gate. It reads the
// credential carriers and compares in constant time; the request is never
// modified.
func (g *Gate) Authenticate(r *http.Request) Outcome {
	if g.password == "" {
		return Allowed
	}

	// An absent credential extracts as "" and can never match the
	// non-empty password.
	supplied := credential(r)
	if subtle.ConstantTimeCompare([]byte(supplied), []byte(g.password)) == 1 {
		return Allowed
	}
	return Rejected
}

// credential extracts the client password from the request. The
// X-MCP-Password header is preferred; an empty header value falls through
// to the pwd query parameter.
func credential(r *http.Request) string {
	if v := r.Header.Get(HeaderName); v != "" {
		return v
	}
	return r.URL.Query().Get(QueryParam)
}
