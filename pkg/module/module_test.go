package module_test

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/JaimeStill/lawfinder/pkg/module"
)

func echoPath(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(r.URL.Path))
}

func TestNewRejectsBadPrefixes(t *testing.T) {
	for _, prefix := range []string{"", "api", "/api/v1"} {
		t.Run(prefix, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("New(%q): expected panic", prefix)
				}
			}()
			module.New(prefix, http.NewServeMux())
		})
	}
}

func TestServeStripsPrefix(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /indices/{id}", echoPath)
	mux.HandleFunc("GET /", echoPath)
	m := module.New("/api", mux)

	tests := []struct {
		path string
		want string
	}{
		{"/api/indices/utah-2024", "/indices/utah-2024"},
		{"/api", "/"},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", tt.path, nil)
		m.Serve(rec, req)

		if got := rec.Body.String(); got != tt.want {
			t.Errorf("%s: inner path %q, want %q", tt.path, got, tt.want)
		}
		if req.URL.Path != tt.path {
			t.Errorf("caller request mutated: %q", req.URL.Path)
		}
	}
}

func TestModuleMiddlewareRunsInOrder(t *testing.T) {
	var trail []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				trail = append(trail, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /discover", func(http.ResponseWriter, *http.Request) { trail = append(trail, "discover") })

	m := module.New("/api", mux)
	m.Use(mark("cors"))
	m.Use(mark("auth"))

	m.Serve(httptest.NewRecorder(), httptest.NewRequest("POST", "/api/discover", nil))
	m.Serve(httptest.NewRecorder(), httptest.NewRequest("POST", "/api/discover", nil))

	want := []string{"cors", "auth", "discover", "cors", "auth", "discover"}
	if !slices.Equal(trail, want) {
		t.Errorf("got %v, want %v", trail, want)
	}
}

func TestRouter(t *testing.T) {
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("GET /runs", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("runs")) })
	scalarMux := http.NewServeMux()
	scalarMux.HandleFunc("GET /", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("reference")) })

	router := module.NewRouter()
	router.Mount(module.New("/api", apiMux))
	router.Mount(module.New("/scalar", scalarMux))
	router.HandleNative("GET /healthz", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("ok")) })

	tests := []struct {
		name   string
		path   string
		status int
		body   string
	}{
		{"api module", "/api/runs", http.StatusOK, "runs"},
		{"trailing slash", "/api/runs/", http.StatusOK, "runs"},
		{"scalar module", "/scalar", http.StatusOK, "reference"},
		{"native fallback", "/healthz", http.StatusOK, "ok"},
		{"prefix lookalike", "/apiary", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.body != "" && rec.Body.String() != tt.body {
				t.Errorf("body: got %q, want %q", rec.Body.String(), tt.body)
			}
		})
	}

	if got := router.Prefixes(); !slices.Equal(got, []string{"/api", "/scalar"}) {
		t.Errorf("Prefixes: got %v", got)
	}
}

func TestRouterMountDuplicatePanics(t *testing.T) {
	router := module.NewRouter()
	router.Mount(module.New("/api", http.NewServeMux()))

	defer func() {
		if recover() == nil {
			t.Error("expected panic for duplicate prefix")
		}
	}()
	router.Mount(module.New("/api", http.NewServeMux()))
}
