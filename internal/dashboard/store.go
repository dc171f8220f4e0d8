// Package dashboard owns the per-session view state and the search flow that feeds it.
package dashboard

import (
	"fmt"
	"strings"
	"sync"

	"github.com/DeafMist/livewise-insights/internal/models"
	"github.com/DeafMist/livewise-insights/internal/processing"
)

const (
	IdleTitle          = "Waiting on Insights..."
	SearchFailedText   = "Search failed"
	UnknownLocation    = "Unknown Location"
	searchingPrefix    = "Searching: "
	populatedPrefix    = "Insights for: "
	failedPrefix       = "Search failed for: "
	loadingErrorPrefix = "Error loading data for: "
)

// Phase is the display-title state.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseSearching Phase = "searching"
	PhasePopulated Phase = "populated"
	PhaseFailed    Phase = "failed"
)

// ErrorScope selects which cards a failed fetch flags.
type ErrorScope int

const (
	// ErrorScopeWeather flags only the weather card; the other cards keep their previous content.
	ErrorScopeWeather ErrorScope = iota
	// ErrorScopeAll flags every card.
	ErrorScopeAll
)

// ParseErrorScope accepts "weather" and "all"; empty means weather.
func ParseErrorScope(raw string) (ErrorScope, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "weather":
		return ErrorScopeWeather, nil
	case "all":
		return ErrorScopeAll, nil
	default:
		return ErrorScopeWeather, fmt.Errorf("unknown error scope %q", raw)
	}
}

// Ticket identifies one search. Only the most recently issued ticket may
// change card content.
type Ticket struct {
	Seq  uint64
	Term string
}

// State is what the presentation layer renders.
type State struct {
	SearchTerm string              `json:"searchTerm"`
	Title      string              `json:"title"`
	Phase      Phase               `json:"phase"`
	Seq        uint64              `json:"seq"`
	Cards      processing.Insights `json:"cards"`
}

// Store holds one dashboard session's State. Every mutation goes through
// BeginSearch and the Apply methods.
type Store struct {
	mu         sync.Mutex
	state      State
	normalizer *processing.Normalizer
	errorScope ErrorScope
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithNormalizer replaces the default normalizer, e.g. to pin its clock.
func WithNormalizer(n *processing.Normalizer) StoreOption {
	return func(s *Store) {
		if n != nil {
			s.normalizer = n
		}
	}
}

// WithErrorScope sets which cards a failed fetch flags.
func WithErrorScope(scope ErrorScope) StoreOption {
	return func(s *Store) { s.errorScope = scope }
}

// NewStore returns a Store in the idle state.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		state: State{
			Title: IdleTitle,
			Phase: PhaseIdle,
			Cards: processing.EmptyInsights(),
		},
		normalizer: processing.NewNormalizer(),
		errorScope: ErrorScopeWeather,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BeginSearch starts a new search cycle from any state. Existing card
// content stays visible until replaced.
func (s *Store) BeginSearch(term string) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Seq++
	s.state.SearchTerm = term
	s.state.Title = searchingPrefix + term
	s.state.Phase = PhaseSearching
	return Ticket{Seq: s.state.Seq, Term: term}
}

// ApplyInsights replaces every card with the normalized document. It returns
// false and changes nothing when t has been superseded.
func (s *Store) ApplyInsights(t Ticket, raw *models.RawInsights, term string) bool {
	insights := s.normalizer.Normalize(raw)

	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Seq != s.state.Seq {
		return false
	}
	s.state.Cards = insights
	s.state.Title = populatedPrefix + term
	s.state.Phase = PhasePopulated
	return true
}

// ApplyFetchError flags the failed fetch on the cards selected by the error
// scope. Superseded tickets are ignored.
func (s *Store) ApplyFetchError(t Ticket, term string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Seq != s.state.Seq {
		return false
	}

	cards := &s.state.Cards
	flag(&cards.Weather)
	if s.errorScope == ErrorScopeAll {
		flag(&cards.Crime)
		flag(&cards.Transport)
		flag(&cards.Amenities)
		flag(&cards.News.Card)
	}
	s.state.Title = failedPrefix + term
	s.state.Phase = PhaseFailed
	return true
}

// ApplyDecodeError reports an unreadable navigation payload without touching the cards.
func (s *Store) ApplyDecodeError(t Ticket, term string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Seq != s.state.Seq {
		return false
	}
	s.state.Title = loadingErrorPrefix + term
	s.state.Phase = PhaseFailed
	return true
}

// Snapshot returns a copy of the current state safe to hand to renderers.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.state
	out.Cards.News.Items = append([]processing.NewsItem(nil), s.state.Cards.News.Items...)
	out.Cards.Details.Amenities = append([]processing.Amenity(nil), s.state.Cards.Details.Amenities...)
	return out
}

func flag(c *processing.Card) {
	c.Content = SearchFailedText
	c.Status = processing.StatusError
}
