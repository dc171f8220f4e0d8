package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/DeafMist/livewise-insights/internal/cache"
	"github.com/DeafMist/livewise-insights/internal/config"
	"github.com/DeafMist/livewise-insights/internal/elasticsearch"
	"github.com/DeafMist/livewise-insights/internal/events"
	"github.com/DeafMist/livewise-insights/internal/mockdata"
	"github.com/DeafMist/livewise-insights/internal/models"
	"github.com/DeafMist/livewise-insights/internal/processing"
	"github.com/DeafMist/livewise-insights/internal/ratelimit"
)

// isoMillis is the millisecond UTC timestamp format clients already parse.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

var snapshotOptions = processing.SnapshotOptions{KeywordLimit: 8, KeywordMinLength: 4}

type snapshotStore interface {
	IndexSnapshot(ctx context.Context, snap models.InsightSnapshot) error
	SearchSnapshots(ctx context.Context, params elasticsearch.SearchParams) (*elasticsearch.SearchResult, error)
	Health(ctx context.Context) error
}

type eventPublisher interface {
	Publish(ctx context.Context, event models.SnapshotEvent) error
}

type server struct {
	log        *slog.Logger
	cfg        *config.API
	snapshots  snapshotStore
	publisher  eventPublisher
	cache      cache.Cache
	normalizer *processing.Normalizer
	limiter    *ratelimit.Limiter
	now        func() time.Time
	started    time.Time
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(cors)
	r.Use(s.recoverer)

	r.NotFound(handleNotFound)
	r.MethodNotAllowed(handleNotFound)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.limiter.Middleware)

		r.Post("/livewise-insights", s.handleLivewiseInsights)
		r.Get("/cards", s.handleCards)
		r.Get("/weather", s.handleWeather)
		r.Get("/insights/{location}", s.handleLocationInsights)
		r.Post("/search", s.handleCitySearch)
		r.Post("/insights", s.handleSaveInsights)
		r.Get("/snapshots", s.handleSearchSnapshots)
	})

	return r
}

type livewiseRequest struct {
	Location string `json:"location"`
}

func (s *server) handleLivewiseInsights(w http.ResponseWriter, r *http.Request) {
	var req livewiseRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	location := strings.TrimSpace(req.Location)
	if location == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error:   "Location is required",
			Message: "Please provide a location in the request body",
		})
		return
	}

	s.log.Info("fetching livewise insights", slog.String("location", location))

	s.serveGenerated(w, r, "livewise", location, s.cfg.InsightsDelay, func() (any, error) {
		data, err := json.Marshal(mockdata.Livewise(location, s.now()))
		if err != nil {
			return nil, err
		}
		return models.InsightsEnvelope{
			Success:    true,
			Location:   location,
			Data:       data,
			Timestamp:  s.now().UTC().Format(isoMillis),
			DataSource: mockdata.DataSourceLivewise,
		}, nil
	})
}

func (s *server) handleCards(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, mockdata.Cards())
}

type weatherResponse struct {
	WeatherText string `json:"weather_resultText"`
	TrafficText string `json:"traffic_resultText"`
	Location    string `json:"location"`
	Timestamp   string `json:"timestamp"`
}

func (s *server) handleWeather(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	s.serveGenerated(w, r, "weather", q, s.cfg.WeatherDelay, func() (any, error) {
		return weatherResponse{
			WeatherText: "Weather data for " + q + ": " + mockdata.WeatherSummary(),
			TrafficText: "Traffic data for " + q + ": " + mockdata.TransportSummary(),
			Location:    q,
			Timestamp:   s.now().UTC().Format(isoMillis),
		}, nil
	})
}

type locationInsights struct {
	models.MockData
	Location   string `json:"location"`
	Timestamp  string `json:"timestamp"`
	DataSource string `json:"dataSource"`
}

func (s *server) handleLocationInsights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, locationInsights{
		MockData:   mockdata.Cards(),
		Location:   chi.URLParam(r, "location"),
		Timestamp:  s.now().UTC().Format(isoMillis),
		DataSource: mockdata.DataSourceMock,
	})
}

type citySearchRequest struct {
	City string `json:"city"`
}

type citySearchResponse struct {
	Success    bool            `json:"success"`
	City       string          `json:"city"`
	Data       models.MockData `json:"data"`
	Timestamp  string          `json:"timestamp"`
	DataSource string          `json:"dataSource"`
}

func (s *server) handleCitySearch(w http.ResponseWriter, r *http.Request) {
	var req citySearchRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	city := strings.TrimSpace(req.City)
	if city == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error:   "City name is required",
			Message: "Please provide a city name in the request body",
		})
		return
	}

	s.serveGenerated(w, r, "search", city, s.cfg.SearchDelay, func() (any, error) {
		return citySearchResponse{
			Success:    true,
			City:       city,
			Data:       mockdata.ForCity(city),
			Timestamp:  s.now().UTC().Format(isoMillis),
			DataSource: mockdata.DataSourceMock,
		}, nil
	})
}

type saveRequest struct {
	Location string          `json:"location"`
	Data     json.RawMessage `json:"data"`
}

type saveResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
}

func (s *server) handleSaveInsights(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body", Message: err.Error()})
		return
	}

	savedAt := s.now()
	// Validate up front so both paths reject the same input.
	snap, err := s.normalizer.BuildSnapshot(req.Location, req.Data, savedAt, snapshotOptions)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error:   "Location and data are required",
			Message: err.Error(),
		})
		return
	}

	id := snap.ID
	if s.publisher != nil {
		event := events.NewEvent(snap.Location, json.RawMessage(snap.Payload), savedAt)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.log.Error("publish snapshot", slog.String("location", snap.Location), slog.Any("err", err))
			writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Failed to save data", Message: err.Error()})
			return
		}
	} else if err := s.snapshots.IndexSnapshot(ctx, snap); err != nil {
		s.log.Error("index snapshot", slog.String("location", snap.Location), slog.Any("err", err))
		writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Failed to save data", Message: err.Error()})
		return
	}

	s.log.Info("snapshot saved", slog.String("location", snap.Location), slog.String("id", id))
	writeJSON(w, http.StatusOK, saveResponse{
		Success:   true,
		Message:   "Data saved for " + snap.Location,
		ID:        id,
		Timestamp: savedAt.UTC().Format(isoMillis),
	})
}

func (s *server) handleSearchSnapshots(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	q := r.URL.Query()
	params := elasticsearch.SearchParams{
		Query:    strings.TrimSpace(q.Get("q")),
		Location: strings.TrimSpace(q.Get("location")),
		Keywords: parseCSV(q.Get("keywords")),
		From:     clampInt(q.Get("from"), 0, 10_000),
		Size:     clampInt(q.Get("size"), s.cfg.DefaultPage, s.cfg.MaxPage),
		Sort:     strings.TrimSpace(q.Get("sort")),
		Start:    parseTime(q.Get("start")),
		End:      parseTime(q.Get("end")),
	}

	result, err := s.snapshots.SearchSnapshots(ctx, params)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Snapshot search failed", Message: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type healthResponse struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
	Storage   string  `json:"storage"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	storage := "ok"
	if err := s.snapshots.Health(ctx); err != nil {
		storage = "unavailable"
		s.log.Warn("storage health check failed", slog.Any("err", err))
	}

	now := s.now()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "OK",
		Timestamp: now.UTC().Format(isoMillis),
		Uptime:    now.Sub(s.started).Seconds(),
		Storage:   storage,
	})
}

// serveGenerated answers from the payload cache, or waits out the simulated
// provider delay and caches the freshly built payload.
func (s *server) serveGenerated(w http.ResponseWriter, r *http.Request, endpoint, location string, delay time.Duration, build func() (any, error)) {
	key := cache.Key(endpoint, location)
	if body, ok := s.cache.Get(r.Context(), key); ok {
		writeRaw(w, http.StatusOK, body)
		return
	}

	if err := sleep(r.Context(), delay); err != nil {
		s.log.Debug("client went away during simulated delay", slog.String("endpoint", endpoint))
		return
	}

	body, err := encode(build)
	if err != nil {
		s.log.Error("build payload", slog.String("endpoint", endpoint), slog.String("location", location), slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Something went wrong!",
			Message: "Failed to build " + endpoint + " response",
		})
		return
	}

	if err := s.cache.Set(r.Context(), key, body, s.cfg.CacheTTL); err != nil {
		s.log.Warn("cache set failed", slog.String("key", key), slog.Any("err", err))
	}
	writeRaw(w, http.StatusOK, body)
}

func encode(build func() (any, error)) ([]byte, error) {
	payload, err := build()
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return body, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// parseTime accepts RFC 3339 timestamps and bare dates.
func parseTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return &ts
		}
	}
	return nil
}

func parseCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func clampInt(raw string, fallback, max int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	if value > max {
		return max
	}
	return value
}
