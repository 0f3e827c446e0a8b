package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bistboard/bistboard/internal/common"
	"github.com/bistboard/bistboard/internal/models"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}

// handleVersion handles GET /api/version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleConfig handles GET /api/config. Returns the non-sensitive subset.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	cfg := s.app.Config
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment": cfg.Environment,
		"financials": map[string]interface{}{
			"period_count":     cfg.Financials.PeriodCount,
			"chunk_size":       cfg.Financials.ChunkSize,
			"max_age":          cfg.Financials.GetMaxAge().String(),
			"refresh_interval": cfg.Financials.GetRefreshInterval().String(),
		},
		"scan": map[string]interface{}{
			"enabled": cfg.Scan.Enabled,
			"workers": cfg.Scan.Workers,
		},
	})
}

// handleStockList handles GET /api/stocks.
// Query: symbols (comma-separated, optional), page, limit.
func (s *Server) handleStockList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	var requested []string
	if raw := r.URL.Query().Get("symbols"); raw != "" {
		requested = strings.Split(raw, ",")
	}

	page := queryInt(r, "page", 1)
	if page < 1 {
		WriteError(w, http.StatusBadRequest, "page must be a positive integer")
		return
	}
	limit := queryInt(r, "limit", defaultPageLimit)
	if limit < 1 || limit > maxPageLimit {
		WriteError(w, http.StatusBadRequest, "limit must be between 1 and 100")
		return
	}

	snapshots, hasMore, err := s.app.StockService.ListQuotes(r.Context(), requested, page, limit)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items":    snapshots,
		"page":     page,
		"limit":    limit,
		"count":    len(snapshots),
		"has_more": hasMore,
	})
}

// handleStockDetail handles GET /api/stocks/{symbol}/detail.
func (s *Server) handleStockDetail(w http.ResponseWriter, r *http.Request, symbol string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	detail, err := s.app.StockService.GetDetail(r.Context(), symbol)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, detail)
}

// handleStockFinancials handles GET /api/stocks/{symbol}/financials.
// Query: refresh=true forces a refetch regardless of cache age.
func (s *Server) handleStockFinancials(w http.ResponseWriter, r *http.Request, symbol string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	refresh := false
	if v := r.URL.Query().Get("refresh"); v != "" {
		refresh = v == "true" || v == "1"
	}

	record, err := s.app.FinancialService.GetFinancials(r.Context(), symbol, refresh)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, record)
}

// handleSearchSuggestions handles GET /api/search/suggestions?q=...
func (s *Server) handleSearchSuggestions(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))

	suggestions, err := s.app.StockService.Search(r.Context(), query)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"query":       query,
		"suggestions": suggestions,
	})
}

// writeServiceError maps service errors onto HTTP status codes.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case models.IsNotFound(err):
		WriteError(w, http.StatusNotFound, "No data available for symbol")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		WriteError(w, http.StatusGatewayTimeout, "Request cancelled or timed out")
	case isNetworkError(err):
		WriteError(w, http.StatusBadGateway, "Upstream provider unavailable")
	default:
		s.logger.Error().Err(err).Msg("Unhandled service error")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func isNetworkError(err error) bool {
	var fe *models.FetchError
	return errors.As(err, &fe) && fe.Kind == models.KindNetwork
}

// queryInt parses an integer query parameter with a default.
func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return n
}
