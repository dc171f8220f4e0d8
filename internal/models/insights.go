package models

import "encoding/json"

// RawInsights is the loosely-typed document returned by the insights provider.
// Both the unified LiveWise shape and the legacy summary/icon shape decode into it.
type RawInsights struct {
	Weather   Optional[RawWeather]   `json:"weather"`
	Crime     Optional[RawCrime]     `json:"crime"`
	Transport Optional[RawTransport] `json:"transport"`
	Amenities Optional[RawAmenities] `json:"amenities"`
	News      Optional[RawNews]      `json:"news"`
}

// RawWeather carries Kelvin temperatures in the unified shape and Celsius
// Temperature in the legacy one.
type RawWeather struct {
	Temp          Optional[float64] `json:"temp"`
	FeelsLike     Optional[float64] `json:"feels_like"`
	TempMin       Optional[float64] `json:"temp_min"`
	TempMax       Optional[float64] `json:"temp_max"`
	Humidity      Optional[float64] `json:"humidity"`
	Main          Optional[string]  `json:"main"`
	Description   Optional[string]  `json:"description"`
	Icon          Optional[string]  `json:"icon"`
	Type          Optional[string]  `json:"type"`
	Temperature   Optional[float64] `json:"temperature"`
	WindSpeed     Optional[float64] `json:"windSpeed"`
	WindDirection Optional[string]  `json:"windDirection"`
}

type RawCrime struct {
	CrimeType          Optional[string] `json:"crime_type"`
	Description        Optional[string] `json:"description"`
	Summary            Optional[string] `json:"summary"`
	Icon               Optional[string] `json:"icon"`
	SafetyRating       Optional[string] `json:"safetyRating"`
	IncidentsThisMonth Optional[int]    `json:"incidentsThisMonth"`
	CrimeRate          Optional[string] `json:"crimeRate"`
}

type RawTransport struct {
	OriginName      Optional[string] `json:"origin_name"`
	DestName        Optional[string] `json:"dest_name"`
	Fare            Optional[string] `json:"fare"`
	TypicalTime     Optional[string] `json:"typical_time"`
	Summary         Optional[string] `json:"summary"`
	Icon            Optional[string] `json:"icon"`
	BusRoutes       Optional[int]    `json:"busRoutes"`
	SubwayStations  Optional[int]    `json:"subwayStations"`
	AverageCommute  Optional[string] `json:"averageCommute"`
	RealTimeUpdates Optional[bool]   `json:"realTimeUpdates"`
}

type RawAmenities struct {
	Amenities Optional[[]RawAmenity] `json:"amenities"`
	Summary   Optional[string]       `json:"summary"`
	Icon      Optional[string]       `json:"icon"`
}

type RawAmenity struct {
	Name        Optional[string] `json:"name"`
	TypeOfPlace Optional[string] `json:"type_of_place"`
}

// UnmarshalJSON keeps a non-object list entry as an empty amenity so it still counts.
func (a *RawAmenity) UnmarshalJSON(data []byte) error {
	type plain RawAmenity
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		p = plain{}
	}
	*a = RawAmenity(p)
	return nil
}

type RawNews struct {
	Items Optional[[]RawNewsItem] `json:"items"`
	Icon  Optional[string]        `json:"icon"`
}

type RawNewsItem struct {
	ID        Optional[int]    `json:"id"`
	Title     Optional[string] `json:"title"`
	Content   Optional[string] `json:"content"`
	Category  Optional[string] `json:"category"`
	Priority  Optional[string] `json:"priority"`
	Date      Optional[string] `json:"date"`
	Timestamp Optional[string] `json:"timestamp"`
}

// UnmarshalJSON keeps a non-object list entry as an item with every field
// absent, so the normalizer defaults it in place.
func (n *RawNewsItem) UnmarshalJSON(data []byte) error {
	type plain RawNewsItem
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		p = plain{}
	}
	*n = RawNewsItem(p)
	return nil
}

// DecodeRawInsights parses a provider document. It fails only when data is
// not a JSON object; missing or malformed fields are left Absent.
func DecodeRawInsights(data []byte) (*RawInsights, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return &RawInsights{}, nil
	}

	var raw RawInsights
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return &raw, nil
}

// InsightsEnvelope is the success body of POST /api/livewise-insights.
type InsightsEnvelope struct {
	Success    bool            `json:"success"`
	Location   string          `json:"location"`
	Data       json.RawMessage `json:"data"`
	Timestamp  string          `json:"timestamp"`
	DataSource string          `json:"dataSource"`
}

// ErrorResponse is the JSON error body shared by every endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
