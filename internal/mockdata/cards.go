package mockdata

import "github.com/DeafMist/livewise-insights/internal/models"

// DataSourceMock labels responses of the legacy endpoints.
const DataSourceMock = "mock-api"

const (
	clearSkies     = "Clear skies with moderate temperature."
	crimeSummary   = "Very safe area with crime rate 15% below city average. Only 3 minor incidents reported this month. Recent incidents include 1 theft and 2 vandalism cases."
	transitSummary = "Excellent connectivity: 5 bus routes, 2 subway stations within 500m. Average commute time: 22 minutes. Real-time updates available."
)

// Cards returns the static legacy card document.
func Cards() models.MockData {
	return models.MockData{
		Weather:   legacyWeather(clearSkies),
		Crime:     legacyCrime(crimeSummary),
		Transport: legacyTransport(transitSummary),
		Amenities: amenities(),
		News: models.NewsFeed{Items: []models.NewsItem{
			newsItem(1, "Infrastructure Development Update", infraContent, "Infrastructure", "medium", "2024-01-15", "10:30:00"),
			newsItem(2, "Community Safety Initiative", safetyContent, "Safety", "high", "2024-01-14", "14:20:00"),
			newsItem(3, "Cultural Festival Announcement", festivalContent, "Events", "low", "2024-01-13", "09:15:00"),
			newsItem(4, "Weather Alert", weatherAlertContent, "Weather", "high", "2024-01-12", "16:45:00"),
		}},
	}
}

// ForCity returns the legacy document with city-specific summaries and headlines.
func ForCity(city string) models.MockData {
	return models.MockData{
		Weather:   legacyWeather(" " + clearSkies),
		Crime:     legacyCrime("Safety report for " + city + ": " + crimeSummary),
		Transport: legacyTransport("Transportation in " + city + ": " + transitSummary),
		Amenities: amenities(),
		News: models.NewsFeed{Items: []models.NewsItem{
			newsItem(1, city+" Infrastructure Development", infraContent, "Infrastructure", "medium", "2024-01-15", "10:30:00"),
			newsItem(2, "Community Safety Initiative in "+city, safetyContent, "Safety", "high", "2024-01-14", "14:20:00"),
			newsItem(3, city+" Cultural Festival", festivalContent, "Events", "low", "2024-01-13", "09:15:00"),
			newsItem(4, "Weather Alert: "+city, weatherAlertContent, "Weather", "high", "2024-01-12", "16:45:00"),
		}},
	}
}

// WeatherSummary is the description used by the quick weather lookup.
func WeatherSummary() string { return clearSkies }

// TransportSummary is the summary used by the quick weather lookup.
func TransportSummary() string { return transitSummary }

const (
	infraContent        = "Major infrastructure upgrade announced including new bike lanes, improved street lighting, and expanded public transport routes."
	safetyContent       = "New neighborhood watch program launched with increased police patrols and community safety workshops."
	festivalContent     = "Annual cultural festival returns with food vendors, live music, and family activities. Free admission for all residents."
	weatherAlertContent = "Severe weather warning issued. Heavy rainfall and strong winds expected. Residents advised to stay indoors."
)

func newsItem(id int, title, content, category, priority, date, clock string) models.NewsItem {
	return models.NewsItem{
		ID:        id,
		Title:     title,
		Content:   content,
		Category:  category,
		Priority:  priority,
		Date:      date,
		Timestamp: date + " " + clock,
	}
}

func legacyWeather(description string) models.LegacyWeather {
	return models.LegacyWeather{
		Description:   description,
		Icon:          "☀️",
		Type:          "sunny",
		Temperature:   24,
		Humidity:      65,
		WindSpeed:     12,
		WindDirection: "west",
	}
}

func legacyCrime(summary string) models.LegacyCrime {
	return models.LegacyCrime{
		Summary:            summary,
		Icon:               "🛡️",
		SafetyRating:       "High",
		IncidentsThisMonth: 3,
		CrimeRate:          "15% below average",
	}
}

func legacyTransport(summary string) models.LegacyTransport {
	return models.LegacyTransport{
		Summary:         summary,
		Icon:            "🚌",
		BusRoutes:       5,
		SubwayStations:  2,
		AverageCommute:  "22 minutes",
		RealTimeUpdates: true,
	}
}
