package middleware

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/oficina-digital/vistoria/internal/logx"
	"github.com/oficina-digital/vistoria/internal/models"
)

type stubVerifier map[string]models.Caller

func (s stubVerifier) VerifyToken(token string) (models.Caller, error) {
	caller, ok := s[token]
	if !ok {
		return models.Caller{}, errors.New("invalid")
	}
	return caller, nil
}

func TestAuth(t *testing.T) {
	verifier := stubVerifier{"good": {UserID: 9, Role: models.RoleAdmin}}
	var got models.Caller
	handler := Auth(verifier, func(w http.ResponseWriter, r *http.Request) {
		got, _ = CallerFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", want: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer bad", want: http.StatusForbidden},
		{name: "valid token", header: "bearer good", want: http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/checklist/itens", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			handler(w, req)
			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, w.Code)
			}
		})
	}
	if got.UserID != 9 {
		t.Fatalf("caller not propagated: %+v", got)
	}
}

func TestRequireSuperadmin(t *testing.T) {
	handler := RequireSuperadmin(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("admin denied", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/oficinas", nil)
		req = req.WithContext(WithCaller(req.Context(), models.Caller{UserID: 2, Role: models.RoleAdmin}))
		w := httptest.NewRecorder()
		handler(w, req)
		if w.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", w.Code)
		}
	})

	t.Run("superadmin allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/oficinas", nil)
		req = req.WithContext(WithCaller(req.Context(), models.Caller{UserID: 1, Role: models.RoleSuperadmin}))
		w := httptest.NewRecorder()
		handler(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}

func TestLoggingAndRecover(t *testing.T) {
	var buf bytes.Buffer
	logger := logx.New(log.New(&buf, "", 0), "INFO")

	handler := Logging(logger, Recover(logger, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if w.Header().Get(RequestIDHeader) == "" {
		t.Fatalf("expected a request id header")
	}
	out := buf.String()
	if !strings.Contains(out, "panic serving GET /api/ping: boom") {
		t.Fatalf("panic not logged: %q", out)
	}
	if !strings.Contains(out, "GET /api/ping -> 500") {
		t.Fatalf("request not logged: %q", out)
	}
}

func TestCORS(t *testing.T) {
	called := false
	handler := CORS("https://app.example.com", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/checklist/itens", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent || called {
		t.Fatalf("preflight must be answered by the middleware")
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "https://app.example.com" {
		t.Fatalf("unexpected origin header %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
}
