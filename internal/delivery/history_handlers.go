package delivery

import (
	"encoding/json"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"

	"github.com/Vovarama1992/channel_adapter/internal/ports"
)

type HistoryHandler struct {
	historyService ports.HistoryService
	log            *logger.ZapLogger
}

func NewHistoryHandler(historyService ports.HistoryService, log *logger.ZapLogger) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
		log:            log,
	}
}

func (h *HistoryHandler) GetBySession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	if sessionID == "" {
		http.Error(w, "missing session_id", http.StatusBadRequest)
		return
	}

	conversions, err := h.historyService.ListBySession(r.Context(), sessionID)
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "db error", Error: err})
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(conversions)
}

func (h *HistoryHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.historyService.DeleteAll(r.Context()); err != nil {
		http.Error(w, "failed to delete history: "+err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]any{"success": true})
}
