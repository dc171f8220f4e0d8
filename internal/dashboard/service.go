package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/DeafMist/livewise-insights/internal/processing"
	"github.com/DeafMist/livewise-insights/internal/provider"
)

var (
	// ErrEmptySearchTerm is returned for blank searches; nothing is requested and the state is untouched.
	ErrEmptySearchTerm = errors.New("search term is empty")
	// ErrSuperseded is returned when a newer search finished first and this result was dropped.
	ErrSuperseded = errors.New("search superseded by a newer one")
)

// Fetcher retrieves a raw insights document for a location.
type Fetcher interface {
	FetchInsights(ctx context.Context, location string) (*provider.Result, error)
}

// Service drives one session's Store from searches and dashboard navigation.
type Service struct {
	store           *Store
	fetcher         Fetcher
	log             *slog.Logger
	defaultLocation string
}

// NewService wires a store to a fetcher. An empty defaultLocation disables
// the initial search for fresh sessions.
func NewService(store *Store, fetcher Fetcher, defaultLocation string, log *slog.Logger) *Service {
	return &Service{
		store:           store,
		fetcher:         fetcher,
		log:             log,
		defaultLocation: strings.TrimSpace(defaultLocation),
	}
}

// State returns the current dashboard state.
func (s *Service) State() State {
	return s.store.Snapshot()
}

// Search fetches insights for term and applies the outcome. The returned
// state is the store's state after the search, even when err is a fetch error.
func (s *Service) Search(ctx context.Context, term string) (State, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.store.Snapshot(), ErrEmptySearchTerm
	}

	ticket := s.store.BeginSearch(term)

	res, err := s.fetcher.FetchInsights(ctx, term)
	if err != nil {
		s.log.Warn("insights fetch failed",
			slog.String("term", term),
			slog.Int("status", provider.StatusCode(err)),
			slog.Any("err", err),
		)
		if !s.store.ApplyFetchError(ticket, term) {
			return s.store.Snapshot(), ErrSuperseded
		}
		return s.store.Snapshot(), err
	}

	if !s.store.ApplyInsights(ticket, res.Insights, term) {
		s.log.Debug("dropping superseded result", slog.String("term", term), slog.Uint64("seq", ticket.Seq))
		return s.store.Snapshot(), ErrSuperseded
	}
	return s.store.Snapshot(), nil
}

// Navigate applies the dashboard's q and data parameters. A data payload is
// rendered without a fetch; q alone triggers a search; a fresh session with
// neither searches the default location.
func (s *Service) Navigate(ctx context.Context, q, data string) (State, error) {
	q = strings.TrimSpace(q)

	if data != "" {
		term := q
		if term == "" {
			term = UnknownLocation
		}
		ticket := s.store.BeginSearch(term)

		raw, err := processing.DecodeNavigationData(data)
		if err != nil {
			s.log.Warn("navigation data unreadable", slog.String("term", term), slog.Any("err", err))
			if !s.store.ApplyDecodeError(ticket, term) {
				return s.store.Snapshot(), ErrSuperseded
			}
			return s.store.Snapshot(), err
		}
		if !s.store.ApplyInsights(ticket, raw, term) {
			s.log.Debug("dropping superseded navigation", slog.String("term", term), slog.Uint64("seq", ticket.Seq))
			return s.store.Snapshot(), ErrSuperseded
		}
		return s.store.Snapshot(), nil
	}

	if q != "" {
		return s.Search(ctx, q)
	}

	if st := s.store.Snapshot(); st.Phase == PhaseIdle && s.defaultLocation != "" {
		return s.Search(ctx, s.defaultLocation)
	}
	return s.store.Snapshot(), nil
}
