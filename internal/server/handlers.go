package server

import (
	"net/http"

	"github.com/aristath/riskgauge/internal/api"
)

// Version is reported by the health endpoint; set with -ldflags at build time.
var Version = "dev"

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"version": Version,
		"service": "riskgauge",
	})
}
