package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/crisisalpha/crisisalpha/internal/allocation"
	"github.com/crisisalpha/crisisalpha/internal/config"
	"github.com/crisisalpha/crisisalpha/internal/market"
	"github.com/crisisalpha/crisisalpha/internal/models"
	"github.com/crisisalpha/crisisalpha/internal/report"
)

// Version is the service version reported by /api/info.
const Version = "1.2.0"

// Allocator produces one allocation per request.
type Allocator interface {
	Allocate(ctx context.Context, params models.CrisisParameters) (*allocation.Response, error)
}

type Handler struct {
	allocator Allocator
	snapshots *market.SnapshotBuilder
	cfg       config.Config
	logger    *slog.Logger
	startTime time.Time
}

func NewHandler(allocator Allocator, snapshots *market.SnapshotBuilder, cfg config.Config, logger *slog.Logger) *Handler {
	return &Handler{
		allocator: allocator,
		snapshots: snapshots,
		cfg:       cfg,
		logger:    logger,
		startTime: time.Now(),
	}
}

// CreateAllocationHandler handles POST /api/allocations
func (h *Handler) CreateAllocationHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	params, ok := h.decodeParams(w, r)
	if !ok {
		return
	}

	resp, err := h.allocator.Allocate(r.Context(), params)
	if err != nil {
		h.writeAllocationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp, h.logger)
}

// CreateReportHandler handles POST /api/allocations/report
func (h *Handler) CreateReportHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	params, ok := h.decodeParams(w, r)
	if !ok {
		return
	}

	resp, err := h.allocator.Allocate(r.Context(), params)
	if err != nil {
		h.writeAllocationError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, report.Render(params, resp.Result, resp.Insights))
}

// GetQuotesHandler handles GET /api/quotes
func (h *Handler) GetQuotesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tickers := h.cfg.Market.Tickers
	if raw := r.URL.Query().Get("symbols"); raw != "" {
		tickers = nil
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				tickers = append(tickers, s)
			}
		}
	}
	if len(tickers) == 0 {
		http.Error(w, "No symbols requested", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.Market.Timeout)
	defer cancel()

	snapshot := h.snapshots.Build(ctx, tickers)

	writeJSON(w, http.StatusOK, QuotesResponse{Quotes: snapshot, Count: len(snapshot)}, h.logger)
}

// HealthHandler handles GET /healthz
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// InfoHandler handles GET /api/info
func (h *Handler) InfoHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	info := InfoResponse{
		Service:       "crisisalpha",
		Version:       Version,
		Model:         h.cfg.OpenAI.Model,
		Parser:        h.cfg.Allocation.ParserStrategy,
		Tickers:       h.cfg.Market.Tickers,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	}

	writeJSON(w, http.StatusOK, info, h.logger)
}

func (h *Handler) decodeParams(w http.ResponseWriter, r *http.Request) (models.CrisisParameters, bool) {
	var params models.CrisisParameters
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return params, false
	}
	if err := params.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return params, false
	}
	return params, true
}

// writeAllocationError maps pipeline failures to the HTTP surface. Provider
// outages are 503, responses we could not parse are 502, and allocations the
// model produced but that cannot be repaired are 422.
func (h *Handler) writeAllocationError(w http.ResponseWriter, err error) {
	var upstream *allocation.UpstreamUnavailableError
	var malformed *allocation.MalformedResponseError
	var degenerate *allocation.DegenerateAllocationError

	switch {
	case errors.As(err, &upstream):
		h.logger.Error("allocation provider unavailable", "error", err)
		http.Error(w, "Allocation provider unavailable", http.StatusServiceUnavailable)
	case errors.As(err, &malformed):
		h.logger.Error("allocation response malformed", "error", err)
		http.Error(w, "Allocation provider returned an unusable response", http.StatusBadGateway)
	case errors.As(err, &degenerate):
		h.logger.Warn("degenerate allocation", "sum", degenerate.Sum)
		http.Error(w, "Allocation could not be repaired", http.StatusUnprocessableEntity)
	default:
		h.logger.Error("allocation failed", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// QuotesResponse is the body returned by GET /api/quotes.
type QuotesResponse struct {
	Quotes models.MarketSnapshot `json:"quotes"`
	Count  int                   `json:"count"`
}

// InfoResponse is the body returned by GET /api/info.
type InfoResponse struct {
	Service       string   `json:"service"`
	Version       string   `json:"version"`
	Model         string   `json:"model"`
	Parser        string   `json:"parser"`
	Tickers       []string `json:"tickers"`
	UptimeSeconds int64    `json:"uptime_seconds"`
}
