package processing

import "math"

const kelvinOffset = 273.15

// WeatherType selects the dashboard background theme.
type WeatherType string

const (
	WeatherSunny  WeatherType = "sunny"
	WeatherCloudy WeatherType = "cloudy"
	WeatherRainy  WeatherType = "rainy"
)

// ParseWeatherType maps anything outside sunny/cloudy/rainy to sunny.
func ParseWeatherType(raw string) WeatherType {
	switch WeatherType(raw) {
	case WeatherCloudy, WeatherRainy:
		return WeatherType(raw)
	default:
		return WeatherSunny
	}
}

// Celsius rounds half away from zero.
func Celsius(kelvin float64) int {
	return int(math.Round(kelvin - kelvinOffset))
}

func Fahrenheit(kelvin float64) int {
	return int(math.Round((kelvin-kelvinOffset)*9/5 + 32))
}
