package server

import (
	"net/http"
	"strings"
	"time"
)

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Stocks
	mux.HandleFunc("/api/stocks", s.handleStockList)
	mux.HandleFunc("/api/stocks/", s.routeStocks)

	// Search
	mux.HandleFunc("/api/search/suggestions", s.handleSearchSuggestions)
}

// routeStocks dispatches /api/stocks/{symbol}/{action} requests.
func (s *Server) routeStocks(w http.ResponseWriter, r *http.Request) {
	symbol := PathParam(r, "/api/stocks/", "")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/stocks/"+symbol)
	action := strings.Trim(rest, "/")

	switch action {
	case "detail":
		s.handleStockDetail(w, r, symbol)
	case "financials":
		s.handleStockFinancials(w, r, symbol)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}
