package server

import (
	"fmt"
	"net/http"

	"github.com/foliotrack/folio/internal/models"
)

// --- Ledger handlers ---

// handleEvents handles GET /api/events (list ledger) and POST /api/events
// (append a new event).
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		events, err := s.app.LedgerService.ListEvents(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error listing events: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"events": events,
			"count":  len(events),
		})

	case http.MethodPost:
		var event models.LedgerEvent
		if !DecodeJSON(w, r, &event) {
			return
		}
		created, err := s.app.LedgerService.AddEvent(r.Context(), event)
		if err != nil {
			WriteError(w, http.StatusBadRequest, fmt.Sprintf("Error recording event: %v", err))
			return
		}
		WriteJSON(w, http.StatusCreated, created)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleEventCorrection handles POST /api/events/{id}/correction.
func (s *Server) handleEventCorrection(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	offset, err := s.app.LedgerService.RecordCorrection(r.Context(), id)
	if err != nil {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("Error recording correction: %v", err))
		return
	}
	WriteJSON(w, http.StatusCreated, offset)
}

// --- Reference data handlers ---

// handleInstruments handles GET /api/instruments and PUT /api/instruments.
func (s *Server) handleInstruments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		instruments, err := s.app.LedgerService.ListInstruments(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error listing instruments: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"instruments": instruments,
		})

	case http.MethodPut:
		var instrument models.Instrument
		if !DecodeJSON(w, r, &instrument) {
			return
		}
		saved, err := s.app.LedgerService.UpsertInstrument(r.Context(), instrument)
		if err != nil {
			WriteError(w, http.StatusBadRequest, fmt.Sprintf("Error saving instrument: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, saved)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut)
	}
}

// handlePrices handles GET /api/prices and PUT /api/prices.
func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		prices, err := s.app.LedgerService.Prices(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error listing prices: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"prices": prices,
		})

	case http.MethodPut:
		var req struct {
			ISIN  string  `json:"isin"`
			Price float64 `json:"price"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		if err := s.app.LedgerService.SetPrice(r.Context(), req.ISIN, req.Price); err != nil {
			WriteError(w, http.StatusBadRequest, fmt.Sprintf("Error saving price: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"isin":  req.ISIN,
			"price": req.Price,
		})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut)
	}
}

// --- Derived view handlers ---

// handleHoldings handles GET /api/holdings.
func (s *Server) handleHoldings(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	holdings, err := s.app.PortfolioService.Holdings(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error deriving holdings: %v", err))
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"holdings": holdings,
		"count":    len(holdings),
	})
}

// handleMetrics handles GET /api/metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	metrics, err := s.app.PortfolioService.Metrics(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error deriving metrics: %v", err))
		return
	}
	WriteJSON(w, http.StatusOK, metrics)
}

// handleAllocationChart handles GET /api/charts/allocation, returning a PNG.
func (s *Server) handleAllocationChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	png, err := s.app.ReportService.AllocationChart(r.Context())
	if err != nil {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("Error rendering chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
