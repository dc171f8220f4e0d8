package dashboard_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DeafMist/livewise-insights/internal/dashboard"
	"github.com/DeafMist/livewise-insights/internal/mockdata"
	"github.com/DeafMist/livewise-insights/internal/models"
	"github.com/DeafMist/livewise-insights/internal/processing"
)

var fixedNow = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func newStore(opts ...dashboard.StoreOption) *dashboard.Store {
	n := processing.NewNormalizer(processing.WithClock(func() time.Time { return fixedNow }))
	return dashboard.NewStore(append([]dashboard.StoreOption{dashboard.WithNormalizer(n)}, opts...)...)
}

func kingston(t *testing.T) *models.RawInsights {
	t.Helper()
	data, err := json.Marshal(mockdata.Livewise("Kingston", fixedNow))
	require.NoError(t, err)
	raw, err := models.DecodeRawInsights(data)
	require.NoError(t, err)
	return raw
}

func TestNewStoreIsIdle(t *testing.T) {
	st := newStore().Snapshot()
	require.Equal(t, dashboard.IdleTitle, st.Title)
	require.Equal(t, dashboard.PhaseIdle, st.Phase)
	require.Equal(t, processing.StatusEmpty, st.Cards.Weather.Status)
	require.Empty(t, st.Cards.Weather.Icon)
	require.Empty(t, st.Cards.News.Items)
}

func TestBeginSearchKeepsCards(t *testing.T) {
	s := newStore()
	tk := s.BeginSearch("Kingston")
	require.True(t, s.ApplyInsights(tk, kingston(t), "Kingston"))
	before := s.Snapshot().Cards

	s.BeginSearch("London")
	st := s.Snapshot()
	require.Equal(t, "Searching: London", st.Title)
	require.Equal(t, dashboard.PhaseSearching, st.Phase)
	require.Equal(t, before, st.Cards)
}

func TestApplyInsightsKingston(t *testing.T) {
	s := newStore()
	tk := s.BeginSearch("Kingston")
	require.True(t, s.ApplyInsights(tk, kingston(t), "Kingston"))

	st := s.Snapshot()
	require.Equal(t, "Insights for: Kingston", st.Title)
	require.Equal(t, dashboard.PhasePopulated, st.Phase)
	require.Equal(t, "overcast clouds", st.Cards.Weather.Content)
	require.NotContains(t, st.Cards.Crime.Content, "Minor Theft & Vandalism")
	require.Contains(t, st.Cards.Crime.Content, "Low crime rate area")
	require.Equal(t, "Minor Theft & Vandalism", st.Cards.Details.Crime.CrimeType)
	require.Equal(t, "Kingston to Downtown Kingston", st.Cards.Transport.Content)
	require.Equal(t, "5 amenities found", st.Cards.Amenities.Content)
	require.Len(t, st.Cards.News.Items, 6)
	for i, item := range st.Cards.News.Items {
		require.Equal(t, i+1, item.ID)
	}
}

func TestApplyFetchErrorWeatherOnly(t *testing.T) {
	s := newStore()
	tk := s.BeginSearch("Kingston")
	require.True(t, s.ApplyInsights(tk, kingston(t), "Kingston"))
	before := s.Snapshot().Cards

	tk = s.BeginSearch("Atlantis")
	require.True(t, s.ApplyFetchError(tk, "Atlantis"))

	st := s.Snapshot()
	require.Equal(t, "Search failed for: Atlantis", st.Title)
	require.Equal(t, dashboard.PhaseFailed, st.Phase)
	require.Equal(t, processing.StatusError, st.Cards.Weather.Status)
	require.Equal(t, dashboard.SearchFailedText, st.Cards.Weather.Content)
	require.Equal(t, before.Crime, st.Cards.Crime)
	require.Equal(t, before.Transport, st.Cards.Transport)
	require.Equal(t, before.Amenities, st.Cards.Amenities)
	require.Equal(t, before.News, st.Cards.News)
}

func TestApplyFetchErrorAllScope(t *testing.T) {
	s := newStore(dashboard.WithErrorScope(dashboard.ErrorScopeAll))
	tk := s.BeginSearch("Atlantis")
	require.True(t, s.ApplyFetchError(tk, "Atlantis"))

	cards := s.Snapshot().Cards
	for _, c := range []processing.Card{cards.Weather, cards.Crime, cards.Transport, cards.Amenities, cards.News.Card} {
		require.Equal(t, processing.StatusError, c.Status, c.Title)
		require.Equal(t, dashboard.SearchFailedText, c.Content, c.Title)
	}
}

func TestApplyDecodeErrorLeavesCards(t *testing.T) {
	s := newStore()
	tk := s.BeginSearch("Kingston")
	require.True(t, s.ApplyInsights(tk, kingston(t), "Kingston"))
	before := s.Snapshot().Cards

	tk = s.BeginSearch("Kingston")
	require.True(t, s.ApplyDecodeError(tk, "Kingston"))

	st := s.Snapshot()
	require.Equal(t, "Error loading data for: Kingston", st.Title)
	require.Equal(t, before, st.Cards)
}

func TestApplyInsightsIdempotent(t *testing.T) {
	raw := kingston(t)

	s := newStore()
	tk := s.BeginSearch("Kingston")
	require.True(t, s.ApplyInsights(tk, raw, "Kingston"))
	first := s.Snapshot()

	require.True(t, s.ApplyInsights(tk, raw, "Kingston"))
	require.Equal(t, first, s.Snapshot())
}

func TestSupersededTicketIsDropped(t *testing.T) {
	s := newStore()
	older := s.BeginSearch("London")
	newer := s.BeginSearch("Kingston")

	require.True(t, s.ApplyInsights(newer, kingston(t), "Kingston"))
	require.False(t, s.ApplyInsights(older, &models.RawInsights{}, "London"))
	require.False(t, s.ApplyFetchError(older, "London"))
	require.False(t, s.ApplyDecodeError(older, "London"))

	st := s.Snapshot()
	require.Equal(t, "Insights for: Kingston", st.Title)
	require.Equal(t, "overcast clouds", st.Cards.Weather.Content)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := newStore()
	tk := s.BeginSearch("Kingston")
	require.True(t, s.ApplyInsights(tk, kingston(t), "Kingston"))

	st := s.Snapshot()
	st.Cards.News.Items[0].Title = "mutated"
	require.NotEqual(t, "mutated", s.Snapshot().Cards.News.Items[0].Title)
}

func TestParseErrorScope(t *testing.T) {
	for in, want := range map[string]dashboard.ErrorScope{
		"":        dashboard.ErrorScopeWeather,
		"weather": dashboard.ErrorScopeWeather,
		" ALL ":   dashboard.ErrorScopeAll,
	} {
		got, err := dashboard.ParseErrorScope(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := dashboard.ParseErrorScope("crime")
	require.Error(t, err)
}
