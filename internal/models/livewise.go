package models

// LivewiseData is the unified document the simulated LiveWise functions produce.
type LivewiseData struct {
	Weather   WeatherReport  `json:"weather"`
	Crime     CrimeReport    `json:"crime"`
	Transport TransportRoute `json:"transport"`
	Amenities AmenityList    `json:"amenities"`
	News      NewsFeed       `json:"news"`
}

// WeatherReport temperatures are Kelvin.
type WeatherReport struct {
	Temp        float64 `json:"temp"`
	FeelsLike   float64 `json:"feels_like"`
	TempMin     float64 `json:"temp_min"`
	TempMax     float64 `json:"temp_max"`
	Humidity    int     `json:"humidity"`
	Main        string  `json:"main"`
	Description string  `json:"description"`
}

type CrimeReport struct {
	CrimeType   string `json:"crime_type"`
	Description string `json:"description"`
}

type TransportRoute struct {
	OriginName  string `json:"origin_name"`
	DestName    string `json:"dest_name"`
	Fare        string `json:"fare"`
	TypicalTime string `json:"typical_time"`
}

type AmenityList struct {
	Amenities []Amenity `json:"amenities"`
}

type Amenity struct {
	Name        string `json:"name"`
	TypeOfPlace string `json:"type_of_place"`
}

type NewsFeed struct {
	Items []NewsItem `json:"items"`
}

// NewsItem is a single local-news entry as served by the provider.
type NewsItem struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Category  string `json:"category"`
	Priority  string `json:"priority"`
	Date      string `json:"date,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// MockData is the legacy card document served by the secondary endpoints.
type MockData struct {
	Weather   LegacyWeather   `json:"weather"`
	Crime     LegacyCrime     `json:"crime"`
	Transport LegacyTransport `json:"transport"`
	Amenities AmenityList     `json:"amenities"`
	News      NewsFeed        `json:"news"`
}

// LegacyWeather Temperature is Celsius.
type LegacyWeather struct {
	Description   string `json:"description"`
	Icon          string `json:"icon"`
	Type          string `json:"type"`
	Temperature   int    `json:"temperature"`
	Humidity      int    `json:"humidity"`
	WindSpeed     int    `json:"windSpeed"`
	WindDirection string `json:"windDirection"`
}

type LegacyCrime struct {
	Summary            string `json:"summary"`
	Icon               string `json:"icon"`
	SafetyRating       string `json:"safetyRating"`
	IncidentsThisMonth int    `json:"incidentsThisMonth"`
	CrimeRate          string `json:"crimeRate"`
}

type LegacyTransport struct {
	Summary         string `json:"summary"`
	Icon            string `json:"icon"`
	BusRoutes       int    `json:"busRoutes"`
	SubwayStations  int    `json:"subwayStations"`
	AverageCommute  string `json:"averageCommute"`
	RealTimeUpdates bool   `json:"realTimeUpdates"`
}
