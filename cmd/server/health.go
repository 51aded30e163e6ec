package main

import (
	"net/http"

	"github.com/JaimeStill/lawfinder/pkg/handlers"
	"github.com/JaimeStill/lawfinder/pkg/lifecycle"
)

type healthStatus struct {
	Status  string   `json:"status"`
	Version string   `json:"version,omitempty"`
	Pending []string `json:"pending,omitempty"`
}

func liveness(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, healthStatus{Status: "ok", Version: version})
	}
}

// readiness reports 503 with the names of the subsystems still starting,
// such as the database pool or the index container.
func readiness(lc *lifecycle.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !lc.Ready() {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, healthStatus{
				Status:  "starting",
				Pending: lc.Pending(),
			})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, healthStatus{Status: "ready"})
	}
}
