package processing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DeafMist/livewise-insights/internal/models"
	"github.com/DeafMist/livewise-insights/internal/processing"
)

var clock = time.Date(2024, 3, 1, 23, 45, 0, 0, time.UTC)

func normalizer() *processing.Normalizer {
	return processing.NewNormalizer(processing.WithClock(func() time.Time { return clock }))
}

func decode(t *testing.T, doc string) *models.RawInsights {
	t.Helper()
	raw, err := models.DecodeRawInsights([]byte(doc))
	require.NoError(t, err)
	return raw
}

func TestNormalizeMissingCategoriesUseFallbacks(t *testing.T) {
	for _, raw := range []*models.RawInsights{nil, {}} {
		got := normalizer().Normalize(raw)

		cases := []struct {
			card    processing.Card
			content string
			icon    string
		}{
			{got.Weather, processing.FallbackWeather, processing.IconWeather},
			{got.Crime, processing.FallbackCrime, processing.IconCrime},
			{got.Transport, processing.FallbackTransport, processing.IconTransport},
			{got.Amenities, processing.FallbackAmenities, processing.IconAmenities},
			{got.News.Card, processing.FallbackNews, processing.IconNews},
		}
		for _, c := range cases {
			require.Equal(t, c.content, c.card.Content, c.card.Title)
			require.Equal(t, c.icon, c.card.Icon, c.card.Title)
			require.Equal(t, processing.StatusUpdated, c.card.Status, c.card.Title)
		}
		require.Empty(t, got.News.Items)
		require.Equal(t, processing.WeatherSunny, got.WeatherType)
	}
}

func TestNormalizeMalformedSectionsUseFallbacks(t *testing.T) {
	raw := decode(t, `{"weather":"sunny","crime":42,"transport":null,"amenities":{"amenities":"lots"},"news":{"items":{}}}`)
	got := normalizer().Normalize(raw)

	require.Equal(t, processing.FallbackWeather, got.Weather.Content)
	require.Equal(t, processing.FallbackCrime, got.Crime.Content)
	require.Equal(t, processing.FallbackTransport, got.Transport.Content)
	require.Equal(t, processing.FallbackAmenities, got.Amenities.Content)
	require.Equal(t, processing.FallbackNews, got.News.Content)
}

func TestNormalizeUnifiedShape(t *testing.T) {
	raw := decode(t, `{
		"weather": {"temp": 293.96, "humidity": 98, "main": "Clouds", "description": "overcast clouds"},
		"crime": {"crime_type": "Burglary", "description": "Quiet street."},
		"transport": {"origin_name": "Half Way Tree", "dest_name": "Downtown", "fare": "J$150"},
		"amenities": {"amenities": [{"name": "Plaza", "type_of_place": "Mall"}, {"name": "Clinic"}]}
	}`)
	got := normalizer().Normalize(raw)

	require.Equal(t, "overcast clouds", got.Weather.Content)
	require.Equal(t, processing.IconWeather, got.Weather.Icon)
	require.Equal(t, "Quiet street.", got.Crime.Content)
	require.Equal(t, "Half Way Tree to Downtown", got.Transport.Content)
	require.Equal(t, "2 amenities found", got.Amenities.Content)

	require.NotNil(t, got.Details.Weather)
	require.InDelta(t, 293.96, *got.Details.Weather.Temp, 1e-9)
	require.Nil(t, got.Details.Weather.FeelsLike)
	require.Equal(t, "Burglary", got.Details.Crime.CrimeType)
	require.Equal(t, "J$150", got.Details.Transport.Fare)
	require.Equal(t, []processing.Amenity{{Name: "Plaza", TypeOfPlace: "Mall"}, {Name: "Clinic"}}, got.Details.Amenities)
}

func TestNormalizeLegacyShape(t *testing.T) {
	raw := decode(t, `{
		"weather": {"description": "Clear skies.", "icon": "☀️", "type": "cloudy", "temperature": 24},
		"crime": {"summary": "Very safe area.", "icon": "🚨"},
		"transport": {"summary": "5 bus routes.", "icon": "🚇"},
		"amenities": {"summary": "Lots of parks."}
	}`)
	got := normalizer().Normalize(raw)

	require.Equal(t, "Clear skies.", got.Weather.Content)
	require.Equal(t, "☀️", got.Weather.Icon)
	require.Equal(t, processing.WeatherCloudy, got.WeatherType)
	require.Equal(t, "Very safe area.", got.Crime.Content)
	require.Equal(t, "🚨", got.Crime.Icon)
	require.Equal(t, "5 bus routes.", got.Transport.Content)
	require.Equal(t, "🚇", got.Transport.Icon)
	require.Equal(t, "Lots of parks.", got.Amenities.Content)
	require.Equal(t, processing.IconAmenities, got.Amenities.Icon)
}

func TestNormalizeTransportNeedsBothEnds(t *testing.T) {
	got := normalizer().Normalize(decode(t, `{"transport":{"origin_name":"Kingston","summary":"Buses run hourly."}}`))
	require.Equal(t, "Buses run hourly.", got.Transport.Content)

	got = normalizer().Normalize(decode(t, `{"transport":{"dest_name":"Downtown"}}`))
	require.Equal(t, processing.FallbackTransport, got.Transport.Content)
}

func TestNormalizeEmptyAmenityList(t *testing.T) {
	got := normalizer().Normalize(decode(t, `{"amenities":{"amenities":[],"summary":"ignored"}}`))
	require.Equal(t, "0 amenities found", got.Amenities.Content)
}

func TestNormalizeNewsOrderAndIDs(t *testing.T) {
	raw := decode(t, `{"news":{"items":[
		{"id": 10, "title": "First"},
		{"title": "Second"},
		{"id": 0, "title": "Third"},
		{"id": 7, "title": "Fourth"}
	]}}`)
	got := normalizer().Normalize(raw)

	require.Len(t, got.News.Items, 4)
	require.Equal(t, "4 news items", got.News.Content)

	titles := make([]string, 0, 4)
	ids := make([]int, 0, 4)
	for _, item := range got.News.Items {
		titles = append(titles, item.Title)
		ids = append(ids, item.ID)
	}
	require.Equal(t, []string{"First", "Second", "Third", "Fourth"}, titles)
	require.Equal(t, []int{10, 2, 3, 7}, ids)
}

func TestNormalizeNonObjectListEntriesStillCount(t *testing.T) {
	raw := decode(t, `{
		"news":{"items":[{"title":"a"},"junk",null,{"title":"c"}]},
		"amenities":{"amenities":[{"name":"x"},5]}
	}`)
	got := normalizer().Normalize(raw)

	require.Equal(t, "4 news items", got.News.Content)
	require.Len(t, got.News.Items, 4)
	require.Equal(t, "a", got.News.Items[0].Title)
	require.Equal(t, "News Update", got.News.Items[1].Title)
	require.Equal(t, 2, got.News.Items[1].ID)
	require.Equal(t, processing.PriorityMedium, got.News.Items[2].Priority)
	require.Equal(t, "c", got.News.Items[3].Title)

	require.Equal(t, "2 amenities found", got.Amenities.Content)
	require.Equal(t, []processing.Amenity{{Name: "x"}, {}}, got.Details.Amenities)
}

func TestNormalizeNewsDefaults(t *testing.T) {
	got := normalizer().Normalize(decode(t, `{"news":{"items":[{"priority":"urgent"}]}}`))

	require.Equal(t, "1 news item", got.News.Content)
	require.Equal(t, []processing.NewsItem{{
		ID:        1,
		Title:     "News Update",
		Content:   "No content available",
		Category:  "General",
		Priority:  processing.PriorityMedium,
		Date:      "2024-03-01",
		Timestamp: clock.Local().Format("1/2/2006, 3:04:05 PM"),
	}}, got.News.Items)
}

func TestNormalizeNewsKeepsProvidedFields(t *testing.T) {
	got := normalizer().Normalize(decode(t, `{"news":{"icon":"🗞️","items":[
		{"id":3,"title":"Road works","content":"Lane closed.","category":"Traffic","priority":"high","date":"2024-01-15","timestamp":"2024-01-15 10:30:00"}
	]}}`))

	require.Equal(t, "🗞️", got.News.Icon)
	require.Equal(t, processing.NewsItem{
		ID:        3,
		Title:     "Road works",
		Content:   "Lane closed.",
		Category:  "Traffic",
		Priority:  processing.PriorityHigh,
		Date:      "2024-01-15",
		Timestamp: "2024-01-15 10:30:00",
	}, got.News.Items[0])
}

func TestNormalizeIsDeterministic(t *testing.T) {
	raw := decode(t, `{"weather":{"description":"rain","type":"rainy"},"news":{"items":[{"title":"a"},{"title":"b"}]}}`)
	n := normalizer()
	require.Equal(t, n.Normalize(raw), n.Normalize(raw))
}

func TestEmptyInsights(t *testing.T) {
	got := processing.EmptyInsights()
	for _, c := range []processing.Card{got.Weather, got.Crime, got.Transport, got.Amenities, got.News.Card} {
		require.Equal(t, processing.StatusEmpty, c.Status)
		require.Empty(t, c.Content)
		require.Empty(t, c.Icon)
	}
}

func TestCategories(t *testing.T) {
	require.Nil(t, processing.Categories(nil))
	raw := decode(t, `{"news":{},"weather":{},"crime":"bad"}`)
	require.Equal(t, []string{"weather", "news"}, processing.Categories(raw))
}
