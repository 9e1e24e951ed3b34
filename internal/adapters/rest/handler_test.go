package rest

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/ewilliams-labs/moodtune/internal/core/domain"
	"github.com/ewilliams-labs/moodtune/internal/core/services"
)

// --- Mocks ---

type mockService struct {
	analysis   domain.Analysis
	analyzeErr error
	resolution services.Resolution
	history    []domain.HistoryEntry
	historyErr error
	panicOn    bool

	gotText    string
	gotLimit   int
	gotEmotion string
}

func (m *mockService) Analyze(ctx context.Context, text string, limit int) (domain.Analysis, error) {
	if m.panicOn {
		panic("boom")
	}
	m.gotText = text
	m.gotLimit = limit
	if strings.TrimSpace(text) == "" {
		return domain.Analysis{}, domain.ErrEmptyText
	}
	if m.analyzeErr != nil {
		return domain.Analysis{}, m.analyzeErr
	}
	return m.analysis, nil
}

func (m *mockService) Recommend(ctx context.Context, emotion string, limit int) services.Resolution {
	m.gotEmotion = emotion
	m.gotLimit = limit
	return m.resolution
}

func (m *mockService) Genres() domain.GenreMap {
	return domain.DefaultGenreMap()
}

func (m *mockService) History(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	m.gotLimit = limit
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	return m.history, nil
}

func joyAnalysis() domain.Analysis {
	return domain.Analysis{
		Prediction: domain.EmotionPrediction{
			Label:      "joy",
			Confidence: 87.654321,
			Scores:     map[string]float64{"joy": 87.654321, "sadness": 12.345679},
		},
		Songs: []domain.Song{
			{Title: "Happy", Artist: "Pharrell Williams", Genre: "pop", URL: "https://open.spotify.com/track/1"},
		},
		Source: domain.SourceFallback,
	}
}

// --- Tests ---

func TestHandler_Predict(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		query          string
		analyzeErr     error
		expectedStatus int
		expectedBody   string
		expectedLimit  int
	}{
		{
			name:           "Success: tweet field returns prediction and songs",
			body:           `{"tweet":"I am so happy today"}`,
			expectedStatus: http.StatusOK,
			expectedBody:   `"spotify_url":"https://open.spotify.com/track/1"`,
			expectedLimit:  5,
		},
		{
			name:           "Success: text alias and explicit limit",
			body:           `{"text":"I am so happy today"}`,
			query:          "?limit=3",
			expectedStatus: http.StatusOK,
			expectedBody:   `"emotion":"joy"`,
			expectedLimit:  3,
		},
		{
			name:           "Bad Request: blank text",
			body:           `{"tweet":"   "}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   emptyTextMessage,
		},
		{
			name:           "Bad Request: missing text",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   emptyTextMessage,
		},
		{
			name:           "Bad Request: malformed JSON",
			body:           `{"tweet":`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "invalid request body",
		},
		{
			name:           "Bad Request: limit out of range",
			body:           `{"tweet":"hello"}`,
			query:          "?limit=51",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "limit must be an integer between 1 and 50",
		},
		{
			name:           "Bad Request: limit not a number",
			body:           `{"tweet":"hello"}`,
			query:          "?limit=five",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "limit must be an integer",
		},
		{
			name:           "Internal Error: details are not leaked",
			body:           `{"tweet":"hello"}`,
			analyzeErr:     errors.New("service: classify: model exploded"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{analysis: joyAnalysis(), analyzeErr: tt.analyzeErr}
			h := NewHandler(svc, nil, Options{})

			req := httptest.NewRequest(http.MethodPost, "/predict"+tt.query, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d, body: %s", tt.expectedStatus, rec.Code, strings.TrimSpace(rec.Body.String()))
			}
			if tt.expectedBody != "" && !strings.Contains(rec.Body.String(), tt.expectedBody) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedBody, rec.Body.String())
			}
			if strings.Contains(rec.Body.String(), "model exploded") {
				t.Errorf("internal error leaked: %s", rec.Body.String())
			}
			if tt.expectedLimit != 0 && svc.gotLimit != tt.expectedLimit {
				t.Errorf("expected limit %d, got %d", tt.expectedLimit, svc.gotLimit)
			}
		})
	}
}

func TestHandler_PredictResponseShape(t *testing.T) {
	h := NewHandler(&mockService{analysis: joyAnalysis()}, nil, Options{})

	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(`{"tweet":"yay"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q", ct)
	}

	var resp predictResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Emotion != "joy" {
		t.Errorf("emotion: got %q", resp.Emotion)
	}
	if resp.Confidence != 87.65 {
		t.Errorf("confidence: got %v, want 87.65", resp.Confidence)
	}
	if resp.Scores["sadness"] != 12.35 {
		t.Errorf("sadness score: got %v, want 12.35", resp.Scores["sadness"])
	}
	if resp.Source != domain.SourceFallback {
		t.Errorf("source: got %q", resp.Source)
	}
	if len(resp.Songs) != 1 || resp.Songs[0].Genre != "pop" || resp.Songs[0].Artist != "Pharrell Williams" {
		t.Errorf("songs: got %+v", resp.Songs)
	}
}

func TestHandler_PredictEmptySongsEncodesArray(t *testing.T) {
	a := joyAnalysis()
	a.Songs = nil
	a.Source = domain.SourceNone
	h := NewHandler(&mockService{analysis: a}, nil, Options{})

	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(`{"tweet":"yay"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), `"songs":[]`) {
		t.Errorf("expected empty songs array, got %s", rec.Body.String())
	}
}

func TestHandler_Recommendations(t *testing.T) {
	svc := &mockService{resolution: services.Resolution{
		Source: domain.SourceFallback,
		Songs:  []domain.Song{{Title: "Rage", Artist: "Band", Genre: "anger"}},
		Reason: services.ReasonRemoteDisabled,
	}}
	h := NewHandler(svc, nil, Options{})

	req := httptest.NewRequest(http.MethodGet, "/recommendations/anger?limit=2", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	if svc.gotEmotion != "anger" || svc.gotLimit != 2 {
		t.Errorf("service called with %q/%d", svc.gotEmotion, svc.gotLimit)
	}
	for _, want := range []string{`"source":"fallback"`, `"reason":"remote_disabled"`, `"title":"Rage"`} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("expected body to contain %s, got %s", want, rec.Body.String())
		}
	}
}

func TestHandler_Genres(t *testing.T) {
	h := NewHandler(&mockService{}, nil, Options{})

	req := httptest.NewRequest(http.MethodGet, "/genres", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var entries []domain.EmotionGenres
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode: %v, body %s", err, rec.Body.String())
	}
	if len(entries) != 6 {
		t.Fatalf("expected 6 emotions, got %d", len(entries))
	}
	if entries[0].Emotion != domain.EmotionJoy {
		t.Errorf("first emotion: got %q", entries[0].Emotion)
	}
}

func TestHandler_History(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name           string
		query          string
		historyErr     error
		expectedStatus int
		expectedLimit  int
		expectedBody   string
	}{
		{name: "default limit", expectedStatus: http.StatusOK, expectedLimit: services.DefaultHistoryLimit, expectedBody: `"id":"h1"`},
		{name: "explicit limit", query: "?limit=7", expectedStatus: http.StatusOK, expectedLimit: 7},
		{name: "limit too large", query: "?limit=101", expectedStatus: http.StatusBadRequest},
		{name: "repository failure", historyErr: errors.New("disk on fire"), expectedStatus: http.StatusInternalServerError, expectedBody: internalErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{
				history:    []domain.HistoryEntry{{ID: "h1", Text: "hi", Emotion: "joy", CreatedAt: created}},
				historyErr: tt.historyErr,
			}
			h := NewHandler(svc, nil, Options{})

			req := httptest.NewRequest(http.MethodGet, "/history"+tt.query, nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("status: got %d, want %d, body %s", rec.Code, tt.expectedStatus, rec.Body.String())
			}
			if tt.expectedLimit != 0 && svc.gotLimit != tt.expectedLimit {
				t.Errorf("limit: got %d, want %d", svc.gotLimit, tt.expectedLimit)
			}
			if tt.expectedBody != "" && !strings.Contains(rec.Body.String(), tt.expectedBody) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedBody, rec.Body.String())
			}
		})
	}
}

func TestHandler_HealthAndMetrics(t *testing.T) {
	h := NewHandler(&mockService{}, nil, Options{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("health: got %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "moodtune_http_requests_total") {
		t.Errorf("metrics: got %d", rec.Code)
	}
}

func TestHandler_RequestID(t *testing.T) {
	h := NewHandler(&mockService{}, nil, Options{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if _, err := uuid.Parse(rec.Header().Get(requestIDHeader)); err != nil {
		t.Errorf("expected generated uuid request id, got %q", rec.Header().Get(requestIDHeader))
	}

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, id)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(requestIDHeader); got != id {
		t.Errorf("expected request id %q to be echoed, got %q", id, got)
	}
}

func TestHandler_RecoversPanics(t *testing.T) {
	h := NewHandler(&mockService{panicOn: true}, nil, Options{})

	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(`{"tweet":"hello"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), internalErrorMessage) {
		t.Errorf("body: got %s", rec.Body.String())
	}
}

func TestHandler_RateLimit(t *testing.T) {
	h := NewHandler(&mockService{}, nil, Options{RateLimitRequests: 1, RateLimitWindow: time.Minute})

	send := func() int {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "192.0.2.10:4321"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send(); code != http.StatusOK {
		t.Fatalf("first request: got %d", code)
	}
	if code := send(); code != http.StatusTooManyRequests {
		t.Fatalf("second request: got %d, want 429", code)
	}
}

func TestHandler_NotFound(t *testing.T) {
	h := NewHandler(&mockService{}, nil, Options{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/playlists", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d", rec.Code)
	}
}
