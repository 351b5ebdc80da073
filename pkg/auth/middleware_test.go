package auth

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func gatedHandler(t *testing.T, password string) http.Handler {
	t.Helper()
	mw := Middleware(NewGate(password), DefaultBypassEndpoints)
	return mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Backend", "reached")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{"result":"ok"}`)
	}))
}

func TestMiddleware_NoPassword_Rejects(t *testing.T) {
	handler := gatedHandler(t, "Secret123")

	req := httptest.NewRequest("POST", "/mcp", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if rec.Header().Get("X-Backend") != "" {
		t.Error("backend handler ran despite rejection")
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("rejection body is not JSON: %v", err)
	}
	if len(body) != 2 {
		t.Errorf("rejection body has %d fields, want exactly 2", len(body))
	}
	if body["error"] != "Forbidden" {
		t.Errorf("error = %q, want %q", body["error"], "Forbidden")
	}
	if body["message"] != RejectionMessage {
		t.Errorf("message = %q, want %q", body["message"], RejectionMessage)
	}
}

func TestMiddleware_WrongPassword_Rejects(t *testing.T) {
	handler := gatedHandler(t, "Secret123")

	req := httptest.NewRequest("POST", "/mcp", nil)
	req.Header.Set(HeaderName, "WrongPassword")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}

	// A wrong password and a missing password must be indistinguishable.
	missing := httptest.NewRecorder()
	handler.ServeHTTP(missing, httptest.NewRequest("POST", "/mcp", nil))
	if rec.Body.String() != missing.Body.String() {
		t.Errorf("wrong-password body %q differs from missing-password body %q",
			rec.Body.String(), missing.Body.String())
	}
	if strings.Contains(rec.Body.String(), "WrongPassword") || strings.Contains(rec.Body.String(), "Secret123") {
		t.Error("rejection body echoes a credential")
	}
}

func TestMiddleware_CorrectHeader_Passes(t *testing.T) {
	handler := gatedHandler(t, "Secret123")

	req := httptest.NewRequest("POST", "/mcp", nil)
	req.Header.Set(HeaderName, "Secret123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Backend") != "reached" {
		t.Error("backend response header missing; response was not passed through")
	}
	if rec.Body.String() != `{"result":"ok"}` {
		t.Errorf("body = %q, want backend body untouched", rec.Body.String())
	}
}

func TestMiddleware_CorrectQuery_Passes(t *testing.T) {
	handler := gatedHandler(t, "Secret123")

	req := httptest.NewRequest("POST", "/mcp?pwd=Secret123", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestMiddleware_HeaderWinsOverQuery(t *testing.T) {
	handler := gatedHandler(t, "Secret123")

	req := httptest.NewRequest("POST", "/mcp?pwd=Secret123", nil)
	req.Header.Set(HeaderName, "WrongPassword")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("wrong header + correct query: status = %d, want 403", rec.Code)
	}
}

func TestMiddleware_OpenMode_Passes(t *testing.T) {
	handler := gatedHandler(t, "")

	req := httptest.NewRequest("POST", "/mcp", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("open mode: status = %d, want 200", rec.Code)
	}
}

func TestMiddleware_RequestForwardedUnmodified(t *testing.T) {
	var gotHeader, gotQuery, gotBody string
	mw := Middleware(NewGate("Secret123"), DefaultBypassEndpoints)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get(HeaderName)
		gotQuery = r.URL.Query().Get(QueryParam)
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("POST", "/mcp?pwd=ignored", strings.NewReader(`{"jsonrpc":"2.0"}`))
	req.Header.Set(HeaderName, "Secret123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotHeader != "Secret123" {
		t.Errorf("downstream header = %q, want credential left in place", gotHeader)
	}
	if gotQuery != "ignored" {
		t.Errorf("downstream query = %q, want query left in place", gotQuery)
	}
	if gotBody != `{"jsonrpc":"2.0"}` {
		t.Errorf("downstream body = %q, want body left in place", gotBody)
	}
}

func TestMiddleware_BypassEndpoint(t *testing.T) {
	handler := gatedHandler(t, "Secret123")

	for _, path := range DefaultBypassEndpoints {
		req := httptest.NewRequest("GET", path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("bypass endpoint %s: status = %d, want 200", path, rec.Code)
		}
	}
}

func TestMiddleware_RepeatedRejections_Stateless(t *testing.T) {
	handler := gatedHandler(t, "Secret123")

	// No lockout: a correct password succeeds regardless of prior failures.
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("POST", "/mcp", nil)
		req.Header.Set(HeaderName, "WrongPassword")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("attempt %d: status = %d, want 403", i+1, rec.Code)
		}
	}

	req := httptest.NewRequest("POST", "/mcp", nil)
	req.Header.Set(HeaderName, "Secret123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("after failures: status = %d, want 200", rec.Code)
	}
}
