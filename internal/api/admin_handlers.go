package api

import (
	"net/http"
	"strconv"

	"log/slog"

	"github.com/crisisalpha/crisisalpha/internal/audit"
)

const (
	defaultInferenceLimit = 50
	maxInferenceLimit     = 500
)

// AdminHandler exposes the inference audit log to authenticated operators.
type AdminHandler struct {
	recorder audit.Recorder
	logger   *slog.Logger
}

func NewAdminHandler(recorder audit.Recorder, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{recorder: recorder, logger: logger}
}

// InferenceLogResponse is the body returned by GET /api/admin/inference.
type InferenceLogResponse struct {
	Entries []audit.Entry `json:"entries"`
	Count   int           `json:"count"`
}

// GetInferenceLogHandler handles GET /api/admin/inference
func (h *AdminHandler) GetInferenceLogHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := defaultInferenceLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
		if n > maxInferenceLimit {
			n = maxInferenceLimit
		}
		limit = n
	}

	entries, err := h.recorder.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to read inference log", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}

	writeJSON(w, http.StatusOK, InferenceLogResponse{Entries: entries, Count: len(entries)}, h.logger)
}
