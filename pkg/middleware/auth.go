package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/JaimeStill/lawfinder/pkg/settings"
)

// AuthConfig holds OIDC bearer-token verification settings.
// Authentication is disabled when Issuer is empty.
type AuthConfig struct {
	Issuer    string   `toml:"issuer"`
	Audience  string   `toml:"audience"`
	SkipPaths []string `toml:"skip_paths"`
}

// AuthEnv maps auth config fields to environment variable names for override injection.
type AuthEnv struct {
	Issuer   string
	Audience string
}

// Enabled reports whether an issuer is configured.
func (c *AuthConfig) Enabled() bool {
	return c.Issuer != ""
}

// Finalize applies environment variable overrides.
func (c *AuthConfig) Finalize(env *AuthEnv) error {
	if env != nil {
		settings.String(env.Issuer, &c.Issuer)
		settings.String(env.Audience, &c.Audience)
	}
	if c.Issuer != "" && !strings.HasPrefix(c.Issuer, "https://") && !strings.HasPrefix(c.Issuer, "http://") {
		return fmt.Errorf("issuer must be an http(s) URL: %s", c.Issuer)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *AuthConfig) Merge(overlay *AuthConfig) {
	settings.Overlay(&c.Issuer, overlay.Issuer)
	settings.Overlay(&c.Audience, overlay.Audience)
	settings.OverlaySlice(&c.SkipPaths, overlay.SkipPaths)
}

// TokenVerifier verifies a raw bearer token. *oidc.IDTokenVerifier satisfies it.
type TokenVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*oidc.IDToken, error)
}

// NewVerifier discovers the issuer's OIDC configuration and returns a verifier.
// The audience check is skipped when no audience is configured.
func NewVerifier(ctx context.Context, cfg *AuthConfig) (*oidc.IDTokenVerifier, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("discover oidc provider %s: %w", cfg.Issuer, err)
	}
	return provider.Verifier(&oidc.Config{
		ClientID:          cfg.Audience,
		SkipClientIDCheck: cfg.Audience == "",
	}), nil
}

type subjectKey struct{}

// Subject returns the verified token subject stored by Auth, if any.
func Subject(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(subjectKey{}).(string)
	return s, ok
}

// Auth returns middleware that requires a valid bearer token on every request
// except OPTIONS preflights and the configured skip paths.
func Auth(verifier TokenVerifier, skipPaths []string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || slices.Contains(skipPaths, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				unauthorized(w)
				return
			}

			token, err := verifier.Verify(r.Context(), strings.TrimSpace(raw))
			if err != nil {
				logger.WarnContext(r.Context(), "token verification failed", "error", err)
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey{}, token.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized"}`))
}
