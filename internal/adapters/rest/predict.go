package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/ewilliams-labs/moodtune/internal/core/domain"
	"github.com/ewilliams-labs/moodtune/internal/logger"
)

const emptyTextMessage = "Please enter some text to analyze."

type predictRequest struct {
	Tweet string `json:"tweet" validate:"max=10000"`
	Text  string `json:"text" validate:"max=10000"`
}

func (p predictRequest) input() string {
	if strings.TrimSpace(p.Tweet) != "" {
		return p.Tweet
	}
	return p.Text
}

type predictResponse struct {
	Emotion    string             `json:"emotion"`
	Confidence float64            `json:"confidence"`
	Scores     map[string]float64 `json:"scores"`
	Songs      []songResponse     `json:"songs"`
	Source     domain.Source      `json:"source"`
}

// Predict handles POST /predict
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(r, h.opts.DefaultLimit, h.opts.MaxLimit)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("limit must be an integer between 1 and %d", h.opts.MaxLimit))
		return
	}

	var req predictRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "text is too long")
		return
	}

	analysis, err := h.svc.Analyze(r.Context(), req.input(), limit)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyText) {
			writeError(w, http.StatusBadRequest, emptyTextMessage)
			return
		}
		logger.FromContextOr(r.Context(), h.logger).Error("rest: predict failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	pred := analysis.Prediction
	scores := make(map[string]float64, len(pred.Scores))
	for label, v := range pred.Scores {
		scores[label] = domain.RoundPercent(v)
	}
	writeJSON(w, http.StatusOK, predictResponse{
		Emotion:    pred.Label,
		Confidence: domain.RoundPercent(pred.Confidence),
		Scores:     scores,
		Songs:      toSongResponses(analysis.Songs),
		Source:     analysis.Source,
	})
}
