package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/crucial707/changelog-browser/internal/scheduler"
)

// StatusReporter exposes the last upstream probe result.
type StatusReporter interface {
	Status() scheduler.Status
}

// Health is the liveness check.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
}

// Ready reports 200 once the last upstream probe succeeded and 503 otherwise.
// A nil reporter is always ready.
func Ready(rep StatusReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if rep == nil {
			writeJSON(w, scheduler.Status{Up: true})
			return
		}
		st := rep.Status()
		w.Header().Set("Content-Type", "application/json")
		if !st.Up {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(st)
	}
}
