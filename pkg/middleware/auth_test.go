package middleware_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/JaimeStill/lawfinder/pkg/middleware"
)

type fakeVerifier struct {
	valid string
}

func (f fakeVerifier) Verify(_ context.Context, raw string) (*oidc.IDToken, error) {
	if raw != f.valid {
		return nil, errors.New("bad token")
	}
	return &oidc.IDToken{Subject: "analyst@example.gov"}, nil
}

func TestAuth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var subject string

	handler := middleware.Auth(fakeVerifier{valid: "good"}, []string{"/openapi.json"}, logger)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, _ = middleware.Subject(r.Context())
			w.WriteHeader(http.StatusOK)
		}),
	)

	tests := []struct {
		name       string
		method     string
		path       string
		header     string
		wantStatus int
		wantSub    string
	}{
		{"missing header", "POST", "/runs/analyze", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "POST", "/runs/analyze", "Basic good", http.StatusUnauthorized, ""},
		{"invalid token", "POST", "/runs/analyze", "Bearer nope", http.StatusUnauthorized, ""},
		{"valid token", "POST", "/runs/analyze", "Bearer good", http.StatusOK, "analyst@example.gov"},
		{"skip path", "GET", "/openapi.json", "", http.StatusOK, ""},
		{"preflight", "OPTIONS", "/runs", "", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject = ""
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
			if subject != tt.wantSub {
				t.Errorf("subject: got %q, want %q", subject, tt.wantSub)
			}
		})
	}
}

func TestAuthConfigFinalize(t *testing.T) {
	t.Setenv("TEST_AUTH_ISSUER", "https://login.example.gov")

	cfg := middleware.AuthConfig{}
	if err := cfg.Finalize(&middleware.AuthEnv{Issuer: "TEST_AUTH_ISSUER"}); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if !cfg.Enabled() {
		t.Error("Enabled: got false, want true")
	}

	bad := middleware.AuthConfig{Issuer: "login.example.gov"}
	if err := bad.Finalize(nil); err == nil {
		t.Error("Finalize: expected error for non-URL issuer")
	}
}
