package processing

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/DeafMist/livewise-insights/internal/models"
)

// DashboardPath is where the landing search sends the browser.
const DashboardPath = "/dashboard"

var categoryKeys = []string{"weather", "crime", "transport", "amenities", "news"}

// DecodeNavigationData parses the dashboard's data query parameter. The value
// is unescaped once more, falling back to the raw string when that fails, and
// may hold either the insights document itself or a provider envelope around it.
func DecodeNavigationData(param string) (*models.RawInsights, error) {
	decoded, err := url.PathUnescape(param)
	if err != nil {
		decoded = param
	}

	payload := []byte(strings.TrimSpace(decoded))

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(payload, &obj); err != nil {
		return nil, fmt.Errorf("parse navigation data: %w", err)
	}
	if inner, ok := obj["data"]; ok && !hasCategory(obj) {
		payload = inner
	}

	raw, err := models.DecodeRawInsights(payload)
	if err != nil {
		return nil, fmt.Errorf("decode navigation data: %w", err)
	}
	return raw, nil
}

func hasCategory(obj map[string]json.RawMessage) bool {
	for _, key := range categoryKeys {
		if _, ok := obj[key]; ok {
			return true
		}
	}
	return false
}

// DashboardURL builds the navigation target for a search term and its data.
// A nil data omits the data parameter.
func DashboardURL(query string, data []byte) string {
	values := url.Values{}
	values.Set("q", query)
	if data != nil {
		values.Set("data", string(data))
	}
	return DashboardPath + "?" + values.Encode()
}
