// Package render draws normalized insights as plain-text cards for terminals.
package render

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/DeafMist/livewise-insights/internal/processing"
)

// ConditionGlyph picks an emoji for an OpenWeather-style main condition.
func ConditionGlyph(main string) string {
	switch strings.ToLower(strings.TrimSpace(main)) {
	case "clear":
		return "☀️"
	case "clouds":
		return "☁️"
	case "rain", "drizzle":
		return "🌧️"
	case "snow":
		return "❄️"
	case "thunderstorm":
		return "⛈️"
	case "mist", "fog", "haze":
		return "🌫️"
	default:
		return "🌤️"
	}
}

// TitleCase capitalises each word of a provider description. Casers keep
// state, so each call builds its own.
func TitleCase(s string) string {
	return cases.Title(language.English).String(s)
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

// Insights writes a heading followed by the five cards.
func Insights(w io.Writer, heading string, in processing.Insights) error {
	p := &printer{w: w}

	p.line("%s", heading)
	p.line("Theme: %s", in.WeatherType)

	weather(p, in)
	crime(p, in)
	transport(p, in)
	amenities(p, in)
	news(p, in.News)

	return p.err
}

func header(p *printer, c processing.Card) {
	p.line("")
	if c.Status == processing.StatusError {
		p.line("%s %s [error]", c.Icon, c.Title)
	} else {
		p.line("%s %s", c.Icon, c.Title)
	}
}

func weather(p *printer, in processing.Insights) {
	header(p, in.Weather)
	d := in.Details.Weather
	if d == nil || in.Weather.Status == processing.StatusError {
		p.line("  %s", in.Weather.Content)
		return
	}

	p.line("  %s %s", ConditionGlyph(d.Main), TitleCase(in.Weather.Content))
	if d.Temp != nil {
		temp := fmt.Sprintf("  %s", degrees(*d.Temp))
		if d.FeelsLike != nil {
			temp += fmt.Sprintf(" (feels like %s)", degrees(*d.FeelsLike))
		}
		p.line("%s", temp)
	}

	var extra []string
	if d.TempMin != nil {
		extra = append(extra, "Min "+degrees(*d.TempMin))
	}
	if d.TempMax != nil {
		extra = append(extra, "Max "+degrees(*d.TempMax))
	}
	if d.Humidity != nil {
		extra = append(extra, fmt.Sprintf("Humidity %.0f%%", *d.Humidity))
	}
	if len(extra) > 0 {
		p.line("  %s", strings.Join(extra, "  "))
	}
}

func degrees(kelvin float64) string {
	return fmt.Sprintf("%d°C / %d°F", processing.Celsius(kelvin), processing.Fahrenheit(kelvin))
}

func crime(p *printer, in processing.Insights) {
	header(p, in.Crime)
	if d := in.Details.Crime; d != nil && d.CrimeType != "" && in.Crime.Status != processing.StatusError {
		p.line("  Type: %s", d.CrimeType)
	}
	p.line("  %s", in.Crime.Content)
}

func transport(p *printer, in processing.Insights) {
	header(p, in.Transport)
	p.line("  %s", in.Transport.Content)

	d := in.Details.Transport
	if d == nil || in.Transport.Status == processing.StatusError {
		return
	}
	var extra []string
	if d.Fare != "" {
		extra = append(extra, "Fare "+d.Fare)
	}
	if d.TypicalTime != "" {
		extra = append(extra, d.TypicalTime)
	}
	if len(extra) > 0 {
		p.line("  %s", strings.Join(extra, " · "))
	}
}

func amenities(p *printer, in processing.Insights) {
	header(p, in.Amenities)
	p.line("  %s", in.Amenities.Content)
	if in.Amenities.Status == processing.StatusError {
		return
	}
	for _, a := range in.Details.Amenities {
		if a.TypeOfPlace != "" {
			p.line("  - %s (%s)", a.Name, a.TypeOfPlace)
		} else {
			p.line("  - %s", a.Name)
		}
	}
}

func news(p *printer, n processing.NewsCard) {
	header(p, n.Card)
	p.line("  %s", n.Content)
	if n.Status == processing.StatusError {
		return
	}
	for _, item := range n.Items {
		p.line("  %s %s (%s, %s)", priorityMarker(item.Priority), item.Title, item.Category, item.Date)
		p.line("      %s", item.Content)
	}
}

func priorityMarker(pr processing.Priority) string {
	switch pr {
	case processing.PriorityHigh:
		return "[!!]"
	case processing.PriorityLow:
		return "[ .]"
	default:
		return "[ !]"
	}
}
