package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/foliotrack/folio/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Ledger
	mux.HandleFunc("/api/events", s.handleEvents)
	mux.HandleFunc("/api/events/", s.routeEvents)

	// Reference data
	mux.HandleFunc("/api/instruments", s.handleInstruments)
	mux.HandleFunc("/api/prices", s.handlePrices)

	// Derived views
	mux.HandleFunc("/api/holdings", s.handleHoldings)
	mux.HandleFunc("/api/metrics", s.handleMetrics)
	mux.HandleFunc("/api/charts/allocation", s.handleAllocationChart)
}

// routeEvents dispatches /api/events/{id}/... subpaths.
func (s *Server) routeEvents(w http.ResponseWriter, r *http.Request) {
	if strings.HasSuffix(r.URL.Path, "/correction") {
		id := PathParam(r, "/api/events/", "/correction")
		if id == "" {
			WriteError(w, http.StatusBadRequest, "Event ID is required")
			return
		}
		s.handleEventCorrection(w, r, id)
		return
	}
	WriteError(w, http.StatusNotFound, "Not found")
}

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": common.GetVersion(),
		"uptime":  time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}

// handleVersion handles GET /api/version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}
