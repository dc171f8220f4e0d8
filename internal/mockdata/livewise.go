// Package mockdata generates the simulated provider payloads.
package mockdata

import (
	"time"

	"github.com/DeafMist/livewise-insights/internal/models"
)

// DataSourceLivewise labels responses of the unified endpoint.
const DataSourceLivewise = "livewise-simulation"

const (
	isoDateLayout    = "2006-01-02"
	localStampLayout = "1/2/2006, 3:04:05 PM"
)

// DefaultWeather is the reading shown before any search completes.
var DefaultWeather = models.WeatherReport{
	Temp:        293.96,
	FeelsLike:   294.66,
	TempMin:     293.96,
	TempMax:     293.96,
	Humidity:    98,
	Main:        "Clouds",
	Description: "overcast clouds",
}

func amenities() models.AmenityList {
	return models.AmenityList{Amenities: []models.Amenity{
		{Name: "Downtown Plaza", TypeOfPlace: "Shopping Center"},
		{Name: "Kingston General Hospital", TypeOfPlace: "Hospital"},
		{Name: "Central Park Gym", TypeOfPlace: "Gym"},
		{Name: "Island Restaurant", TypeOfPlace: "Restaurant"},
		{Name: "Kingston High School", TypeOfPlace: "School"},
	}}
}

// Livewise simulates the combined output of the weather, crime, transport,
// amenities and news functions for location.
func Livewise(location string, now time.Time) models.LivewiseData {
	date := now.UTC().Format(isoDateLayout)
	stamp := now.Local().Format(localStampLayout)

	news := []models.NewsItem{
		{
			ID:       1,
			Title:    location + " Community Center Opens New Youth Programs",
			Content:  "Local community center launches after-school programs for teenagers, focusing on technology and sports.",
			Category: "Community",
			Priority: "medium",
		},
		{
			ID:       2,
			Title:    "Traffic Improvements Planned for Main Street",
			Content:  "City council approves $2M budget for road widening and traffic light upgrades in downtown area.",
			Category: "Infrastructure",
			Priority: "high",
		},
		{
			ID:       3,
			Title:    "New Restaurant Opens in Business District",
			Content:  "Popular chef opens Caribbean fusion restaurant, creating 25 new jobs for local residents.",
			Category: "Business",
			Priority: "low",
		},
		{
			ID:       4,
			Title:    "Local School Receives Technology Grant",
			Content:  "Elementary school awarded $50K grant for computer lab upgrades and digital learning tools.",
			Category: "Education",
			Priority: "medium",
		},
		{
			ID:       5,
			Title:    "Weather Alert: Heavy Rain Expected",
			Content:  "Met Office issues weather warning for heavy rainfall and potential flooding in low-lying areas.",
			Category: "Weather",
			Priority: "high",
		},
		{
			ID:       6,
			Title:    "Local Sports Team Wins Regional Championship",
			Content:  "High school basketball team brings home regional trophy after defeating rivals in overtime.",
			Category: "Sports",
			Priority: "low",
		},
	}
	for i := range news {
		news[i].Date = date
		news[i].Timestamp = stamp
	}

	return models.LivewiseData{
		Weather: DefaultWeather,
		Crime: models.CrimeReport{
			CrimeType:   "Minor Theft & Vandalism",
			Description: "Low crime rate area with strong police presence. Recent incidents include minor thefts and vandalism cases. Overall safety rating is high with decreasing crime trend.",
		},
		Transport: models.TransportRoute{
			OriginName:  location,
			DestName:    "Downtown Kingston",
			Fare:        "J$150",
			TypicalTime: "45 minutes",
		},
		Amenities: amenities(),
		News:      models.NewsFeed{Items: news},
	}
}
