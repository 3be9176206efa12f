// Package reload implements the loopback admin reload hook (SPEC_FULL §4.M):
// a minimal chi router exposing POST /reload to re-run discovery and
// re-resolve the active group without restarting the process.
package reload

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agentmesh/mcpgw/pkg/gwlog"
)

// Router builds the admin HTTP handler. Intended to be bound to a loopback
// address only (spec §6 carries no auth on this endpoint).
func Router(reloader func() error) http.Handler {
	r := chi.NewRouter()
	r.Post("/reload", handleReload(reloader))
	return r
}

func handleReload(reloader func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if err := reloader(); err != nil {
			gwlog.Errorf("reload failed: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}
		gwlog.Info("reload completed")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
