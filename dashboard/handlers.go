package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/DeafMist/livewise-insights/internal/dashboard"
	"github.com/DeafMist/livewise-insights/internal/models"
	"github.com/DeafMist/livewise-insights/internal/processing"
	"github.com/DeafMist/livewise-insights/internal/provider"
)

const sessionCookie = "livewise_session"

const (
	msgEmptyQuery   = "Please enter a search term"
	msgInvalidCity  = "Please enter a valid city name"
	msgCityNotFound = `City not found. Try "New York", "London", or "Tokyo"`
	msgSearchFailed = "Search failed. Please try again."
)

type server struct {
	log        *slog.Logger
	fetcher    dashboard.Fetcher
	sessions   *dashboard.Sessions
	sessionTTL time.Duration
}

func newServer(log *slog.Logger, fetcher dashboard.Fetcher, sessionTTL time.Duration, newSession func() *dashboard.Service) *server {
	return &server{
		log:        log,
		fetcher:    fetcher,
		sessions:   dashboard.NewSessions(sessionTTL, newSession),
		sessionTTL: sessionTTL,
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/search", s.handleLandingSearch)

	r.Route(processing.DashboardPath, func(r chi.Router) {
		r.Get("/", s.handleDashboard)
		r.Post("/search", s.handleDashboardSearch)
		r.Get("/state", s.handleState)
	})

	return r
}

type searchRequest struct {
	Query string `json:"query"`
}

type redirectResponse struct {
	Redirect string `json:"redirect"`
}

// handleLandingSearch validates the landing page query, asks the provider
// and hands the browser a dashboard URL carrying the result.
func (s *server) handleLandingSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	query := strings.TrimSpace(req.Query)
	if query == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: msgEmptyQuery})
		return
	}

	res, err := s.fetcher.FetchInsights(r.Context(), query)
	if err != nil {
		status, msg := landingError(err)
		s.log.Warn("landing search failed", slog.String("query", query), slog.Int("status", status), slog.Any("err", err))
		writeJSON(w, status, models.ErrorResponse{Error: msg})
		return
	}

	var data []byte
	if len(res.Data) > 0 {
		data = res.Data
	}
	writeJSON(w, http.StatusOK, redirectResponse{Redirect: processing.DashboardURL(query, data)})
}

func landingError(err error) (int, string) {
	switch provider.StatusCode(err) {
	case http.StatusBadRequest:
		return http.StatusBadRequest, msgInvalidCity
	case http.StatusNotFound:
		return http.StatusNotFound, msgCityNotFound
	default:
		return http.StatusBadGateway, msgSearchFailed
	}
}

type stateResponse struct {
	dashboard.State
	Error string `json:"error,omitempty"`
}

func (s *server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	svc := s.session(w, r)
	q := r.URL.Query()

	st, err := svc.Navigate(r.Context(), q.Get("q"), q.Get("data"))
	resp := stateResponse{State: st}
	if err != nil && !errors.Is(err, dashboard.ErrSuperseded) {
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleDashboardSearch(w http.ResponseWriter, r *http.Request) {
	svc := s.session(w, r)

	var req searchRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	st, err := svc.Search(r.Context(), req.Query)
	switch {
	case errors.Is(err, dashboard.ErrEmptySearchTerm):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: msgEmptyQuery})
		return
	case err != nil && !errors.Is(err, dashboard.ErrSuperseded):
		writeJSON(w, http.StatusOK, stateResponse{State: st, Error: msgSearchFailed})
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{State: st})
}

func (s *server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stateResponse{State: s.session(w, r).State()})
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.sessions.Len()})
}

// session resolves the caller's dashboard session, issuing a cookie for new ones.
func (s *server) session(w http.ResponseWriter, r *http.Request) *dashboard.Service {
	var id string
	if c, err := r.Cookie(sessionCookie); err == nil {
		id = c.Value
	}

	svc, sessionID, created := s.sessions.Get(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sessionID,
			Path:     "/",
			MaxAge:   int(s.sessionTTL.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return svc
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
