package processing

import (
	"fmt"
	"time"

	"github.com/DeafMist/livewise-insights/internal/models"
)

// Status is the lifecycle flag of a card.
type Status string

const (
	StatusEmpty   Status = "empty"
	StatusUpdated Status = "updated"
	StatusError   Status = "error"
)

// Priority of a news item.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

const (
	TitleWeather   = "Weather"
	TitleCrime     = "Crime"
	TitleTransport = "Transport"
	TitleAmenities = "Amenities"
	TitleNews      = "Recent News"
)

const (
	IconWeather   = "🌤️"
	IconCrime     = "🛡️"
	IconTransport = "🚌"
	IconAmenities = "🏪"
	IconNews      = "📰"
)

const (
	FallbackWeather   = "No weather data available"
	FallbackCrime     = "No crime data available"
	FallbackTransport = "No transport data available"
	FallbackAmenities = "No amenities data available"
	FallbackNews      = "No news data available"
)

const (
	defaultNewsTitle    = "News Update"
	defaultNewsContent  = "No content available"
	defaultNewsCategory = "General"

	isoDateLayout    = "2006-01-02"
	localStampLayout = "1/2/2006, 3:04:05 PM"
)

// Card is the display-ready view-model of one insight category.
type Card struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Status  Status `json:"status"`
	Icon    string `json:"icon"`
}

// NewsItem is a fully defaulted news entry.
type NewsItem struct {
	ID        int      `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Category  string   `json:"category"`
	Priority  Priority `json:"priority"`
	Date      string   `json:"date,omitempty"`
	Timestamp string   `json:"timestamp,omitempty"`
}

// NewsCard holds the ordered news items next to the card fields.
type NewsCard struct {
	Card
	Items []NewsItem `json:"items"`
}

// WeatherDetails passes the provider's raw readings through; temperatures stay Kelvin.
type WeatherDetails struct {
	Temp        *float64 `json:"temp,omitempty"`
	FeelsLike   *float64 `json:"feels_like,omitempty"`
	TempMin     *float64 `json:"temp_min,omitempty"`
	TempMax     *float64 `json:"temp_max,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
	Main        string   `json:"main,omitempty"`
	Description string   `json:"description,omitempty"`
}

type CrimeDetails struct {
	CrimeType   string `json:"crime_type,omitempty"`
	Description string `json:"description,omitempty"`
}

type TransportDetails struct {
	OriginName  string `json:"origin_name,omitempty"`
	DestName    string `json:"dest_name,omitempty"`
	Fare        string `json:"fare,omitempty"`
	TypicalTime string `json:"typical_time,omitempty"`
}

type Amenity struct {
	Name        string `json:"name"`
	TypeOfPlace string `json:"type_of_place"`
}

// Details are the per-category readings the presentation layer draws from.
// A nil entry means the provider sent no such section.
type Details struct {
	Weather   *WeatherDetails   `json:"weather,omitempty"`
	Crime     *CrimeDetails     `json:"crime,omitempty"`
	Transport *TransportDetails `json:"transport,omitempty"`
	Amenities []Amenity         `json:"amenities,omitempty"`
}

// Insights is the normalized projection of one provider document.
type Insights struct {
	Weather     Card        `json:"weather"`
	Crime       Card        `json:"crime"`
	Transport   Card        `json:"transport"`
	Amenities   Card        `json:"amenities"`
	News        NewsCard    `json:"recentNews"`
	WeatherType WeatherType `json:"weatherType"`
	Details     Details     `json:"details"`
}

// EmptyInsights is the pre-fetch state: every card empty, no icons.
func EmptyInsights() Insights {
	return Insights{
		Weather:     Card{Title: TitleWeather, Status: StatusEmpty},
		Crime:       Card{Title: TitleCrime, Status: StatusEmpty},
		Transport:   Card{Title: TitleTransport, Status: StatusEmpty},
		Amenities:   Card{Title: TitleAmenities, Status: StatusEmpty},
		News:        NewsCard{Card: Card{Title: TitleNews, Status: StatusEmpty}, Items: []NewsItem{}},
		WeatherType: WeatherSunny,
	}
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithClock overrides the clock used for defaulted news dates.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) {
		if now != nil {
			n.now = now
		}
	}
}

// Normalizer projects raw provider documents onto card view-models.
type Normalizer struct {
	now func() time.Time
}

func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{now: time.Now}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize never fails: absent or malformed fields produce the category fallback.
func (n *Normalizer) Normalize(raw *models.RawInsights) Insights {
	if raw == nil {
		raw = &models.RawInsights{}
	}

	weather, _ := raw.Weather.Get()
	crime, _ := raw.Crime.Get()
	transport, _ := raw.Transport.Get()
	amenities, _ := raw.Amenities.Get()
	news, _ := raw.News.Get()

	items := n.newsItems(news)

	return Insights{
		Weather: updated(TitleWeather,
			firstText(FallbackWeather, weather.Description),
			iconOr(weather.Icon, IconWeather)),
		Crime: updated(TitleCrime,
			firstText(FallbackCrime, crime.Summary, crime.Description),
			iconOr(crime.Icon, IconCrime)),
		Transport: updated(TitleTransport,
			transportContent(transport),
			iconOr(transport.Icon, IconTransport)),
		Amenities: updated(TitleAmenities,
			amenitiesContent(amenities),
			iconOr(amenities.Icon, IconAmenities)),
		News: NewsCard{
			Card:  updated(TitleNews, newsContent(items), iconOr(news.Icon, IconNews)),
			Items: items,
		},
		WeatherType: ParseWeatherType(weather.Type.Value()),
		Details:     details(raw),
	}
}

func updated(title, content, icon string) Card {
	return Card{Title: title, Content: content, Status: StatusUpdated, Icon: icon}
}

func firstText(fallback string, candidates ...models.Optional[string]) string {
	for _, c := range candidates {
		if v, ok := models.Text(c); ok {
			return v
		}
	}
	return fallback
}

func iconOr(icon models.Optional[string], fallback string) string {
	if v, ok := models.Text(icon); ok {
		return v
	}
	return fallback
}

func transportContent(t models.RawTransport) string {
	origin, okOrigin := models.Text(t.OriginName)
	dest, okDest := models.Text(t.DestName)
	if okOrigin && okDest {
		return origin + " to " + dest
	}
	return firstText(FallbackTransport, t.Summary)
}

func amenitiesContent(a models.RawAmenities) string {
	if list, ok := a.Amenities.Get(); ok {
		return fmt.Sprintf("%d amenities found", len(list))
	}
	return firstText(FallbackAmenities, a.Summary)
}

func newsContent(items []NewsItem) string {
	switch len(items) {
	case 0:
		return FallbackNews
	case 1:
		return "1 news item"
	default:
		return fmt.Sprintf("%d news items", len(items))
	}
}

func (n *Normalizer) newsItems(news models.RawNews) []NewsItem {
	raw, _ := news.Items.Get()
	items := make([]NewsItem, 0, len(raw))
	if len(raw) == 0 {
		return items
	}

	now := n.now()
	for i, item := range raw {
		id, ok := item.ID.Get()
		if !ok || id == 0 {
			id = i + 1
		}
		items = append(items, NewsItem{
			ID:        id,
			Title:     firstText(defaultNewsTitle, item.Title),
			Content:   firstText(defaultNewsContent, item.Content),
			Category:  firstText(defaultNewsCategory, item.Category),
			Priority:  parsePriority(item.Priority.Value()),
			Date:      firstText(now.UTC().Format(isoDateLayout), item.Date),
			Timestamp: firstText(now.Local().Format(localStampLayout), item.Timestamp),
		})
	}
	return items
}

func parsePriority(raw string) Priority {
	switch Priority(raw) {
	case PriorityHigh, PriorityLow:
		return Priority(raw)
	default:
		return PriorityMedium
	}
}

func details(raw *models.RawInsights) Details {
	var d Details

	if w, ok := raw.Weather.Get(); ok {
		d.Weather = &WeatherDetails{
			Temp:        floatPtr(w.Temp),
			FeelsLike:   floatPtr(w.FeelsLike),
			TempMin:     floatPtr(w.TempMin),
			TempMax:     floatPtr(w.TempMax),
			Humidity:    floatPtr(w.Humidity),
			Main:        w.Main.Value(),
			Description: w.Description.Value(),
		}
	}

	if c, ok := raw.Crime.Get(); ok {
		d.Crime = &CrimeDetails{
			CrimeType:   c.CrimeType.Value(),
			Description: firstText("", c.Description, c.Summary),
		}
	}

	if t, ok := raw.Transport.Get(); ok {
		d.Transport = &TransportDetails{
			OriginName:  t.OriginName.Value(),
			DestName:    t.DestName.Value(),
			Fare:        t.Fare.Value(),
			TypicalTime: t.TypicalTime.Value(),
		}
	}

	if a, ok := raw.Amenities.Get(); ok {
		for _, item := range a.Amenities.Value() {
			d.Amenities = append(d.Amenities, Amenity{
				Name:        item.Name.Value(),
				TypeOfPlace: item.TypeOfPlace.Value(),
			})
		}
	}

	return d
}

func floatPtr(o models.Optional[float64]) *float64 {
	v, ok := o.Get()
	if !ok {
		return nil
	}
	return &v
}

// Categories lists the top-level sections present in raw, in card order.
func Categories(raw *models.RawInsights) []string {
	if raw == nil {
		return nil
	}
	var out []string
	if raw.Weather.Present() {
		out = append(out, "weather")
	}
	if raw.Crime.Present() {
		out = append(out, "crime")
	}
	if raw.Transport.Present() {
		out = append(out, "transport")
	}
	if raw.Amenities.Present() {
		out = append(out, "amenities")
	}
	if raw.News.Present() {
		out = append(out, "news")
	}
	return out
}
