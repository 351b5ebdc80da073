package auth

import (
	"net/http/httptest"
	"testing"
)

func TestGate_Disabled_AllowsEverything(t *testing.T) {
	gate := NewGate("")

	for _, url := range []string{"/mcp", "/mcp?pwd=anything", "/mcp?pwd="} {
		req := httptest.NewRequest("POST", url, nil)
		if got := gate.Authenticate(req); got != Allowed {
			t.Errorf("disabled gate, url %q: outcome = %v, want Allowed", url, got)
		}
	}

	if gate.Enabled() {
		t.Error("Enabled() = true for empty password, want false")
	}
}

func TestGate_MissingPassword_Rejected(t *testing.T) {
	gate := NewGate("Secret123")

	req := httptest.NewRequest("POST", "/mcp", nil)
	if got := gate.Authenticate(req); got != Rejected {
		t.Errorf("outcome = %v, want Rejected", got)
	}
}

func TestGate_WrongPassword_Rejected(t *testing.T) {
	gate := NewGate("Secret123")

	req := httptest.NewRequest("POST", "/mcp", nil)
	req.Header.Set(HeaderName, "WrongPassword")
	if got := gate.Authenticate(req); got != Rejected {
		t.Errorf("outcome = %v, want Rejected", got)
	}
}

func TestGate_HeaderMatch_Allowed(t *testing.T) {
	gate := NewGate("Secret123")

	req := httptest.NewRequest("POST", "/mcp", nil)
	req.Header.Set(HeaderName, "Secret123")
	if got := gate.Authenticate(req); got != Allowed {
		t.Errorf("outcome = %v, want Allowed", got)
	}
}

func TestGate_QueryMatch_Allowed(t *testing.T) {
	gate := NewGate("Secret123")

	req := httptest.NewRequest("POST", "/mcp?pwd=Secret123", nil)
	if got := gate.Authenticate(req); got != Allowed {
		t.Errorf("outcome = %v, want Allowed", got)
	}
}

func TestGate_HeaderWinsOverQuery(t *testing.T) {
	gate := NewGate("Secret123")

	// Wrong header beats correct query parameter.
	req := httptest.NewRequest("POST", "/mcp?pwd=Secret123", nil)
	req.Header.Set(HeaderName, "WrongPassword")
	if got := gate.Authenticate(req); got != Rejected {
		t.Errorf("wrong header + correct query: outcome = %v, want Rejected", got)
	}

	// Correct header beats wrong query parameter.
	req = httptest.NewRequest("POST", "/mcp?pwd=WrongPassword", nil)
	req.Header.Set(HeaderName, "Secret123")
	if got := gate.Authenticate(req); got != Allowed {
		t.Errorf("correct header + wrong query: outcome = %v, want Allowed", got)
	}
}

func TestGate_EmptyHeaderFallsThroughToQuery(t *testing.T) {
	gate := NewGate("Secret123")

	req := httptest.NewRequest("POST", "/mcp?pwd=Secret123", nil)
	req.Header.Set(HeaderName, "")
	if got := gate.Authenticate(req); got != Allowed {
		t.Errorf("empty header + correct query: outcome = %v, want Allowed", got)
	}
}

func TestGate_PasswordCaseSensitive(t *testing.T) {
	gate := NewGate("Secret123")

	req := httptest.NewRequest("POST", "/mcp", nil)
	req.Header.Set(HeaderName, "secret123")
	if got := gate.Authenticate(req); got != Rejected {
		t.Errorf("case-folded password: outcome = %v, want Rejected", got)
	}
}

func TestGate_HeaderNameCaseInsensitive(t *testing.T) {
	gate := NewGate("Secret123")

	// net/http canonicalizes header names; any casing on the wire reaches
	// the same key.
	req := httptest.NewRequest("POST", "/mcp", nil)
	req.Header.Set("x-mcp-password", "Secret123")
	if got := gate.Authenticate(req); got != Allowed {
		t.Errorf("lowercased header name: outcome = %v, want Allowed", got)
	}
}

func TestGate_WhitespaceNotTrimmed(t *testing.T) {
	gate := NewGate("Secret123")

	req := httptest.NewRequest("POST", "/mcp", nil)
	req.Header.Set(HeaderName, "Secret123 ")
	if got := gate.Authenticate(req); got != Rejected {
		t.Errorf("trailing space: outcome = %v, want Rejected", got)
	}
}
