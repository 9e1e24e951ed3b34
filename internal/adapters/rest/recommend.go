package rest

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ewilliams-labs/moodtune/internal/core/domain"
	"github.com/ewilliams-labs/moodtune/internal/core/services"
	"github.com/ewilliams-labs/moodtune/internal/logger"
)

type recommendationsResponse struct {
	Emotion string         `json:"emotion"`
	Songs   []songResponse `json:"songs"`
	Source  domain.Source  `json:"source"`
	Reason  string         `json:"reason,omitempty"`
}

type historyResponse struct {
	Entries []domain.HistoryEntry `json:"entries"`
}

// Recommendations handles GET /recommendations/{emotion}
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	emotion := strings.TrimSpace(chi.URLParam(r, "emotion"))
	if emotion == "" {
		writeError(w, http.StatusBadRequest, "emotion is required")
		return
	}
	limit, ok := parseLimit(r, h.opts.DefaultLimit, h.opts.MaxLimit)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("limit must be an integer between 1 and %d", h.opts.MaxLimit))
		return
	}

	res := h.svc.Recommend(r.Context(), emotion, limit)
	writeJSON(w, http.StatusOK, recommendationsResponse{
		Emotion: emotion,
		Songs:   toSongResponses(res.Songs),
		Source:  res.Source,
		Reason:  res.Reason,
	})
}

// Genres handles GET /genres
func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Genres().Entries())
}

// History handles GET /history
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(r, services.DefaultHistoryLimit, services.MaxHistoryLimit)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("limit must be an integer between 1 and %d", services.MaxHistoryLimit))
		return
	}

	entries, err := h.svc.History(r.Context(), limit)
	if err != nil {
		logger.FromContextOr(r.Context(), h.logger).Error("rest: load history failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{Entries: entries})
}
