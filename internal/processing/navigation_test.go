package processing_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DeafMist/livewise-insights/internal/processing"
)

func TestDecodeNavigationData(t *testing.T) {
	doc := `{"weather":{"description":"overcast clouds"}}`

	tests := []struct {
		name  string
		param string
	}{
		{name: "plain", param: doc},
		{name: "escaped", param: url.PathEscape(doc)},
		{name: "envelope", param: `{"success":true,"location":"Kingston","data":` + doc + `}`},
		{name: "bad escape falls back to raw", param: `{"weather":{"description":"overcast clouds","note":"100%"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := processing.DecodeNavigationData(tt.param)
			require.NoError(t, err)
			w, ok := raw.Weather.Get()
			require.True(t, ok)
			require.Equal(t, "overcast clouds", w.Description.Value())
		})
	}
}

func TestDecodeNavigationDataRejectsGarbage(t *testing.T) {
	for _, param := range []string{"not json", "%7Bbroken", `["weather"]`, `"text"`} {
		_, err := processing.DecodeNavigationData(param)
		require.Error(t, err, param)
	}
}

func TestDashboardURL(t *testing.T) {
	got := processing.DashboardURL("New York", []byte(`{"a":1}`))
	u, err := url.Parse(got)
	require.NoError(t, err)
	require.Equal(t, processing.DashboardPath, u.Path)
	require.Equal(t, "New York", u.Query().Get("q"))
	require.Equal(t, `{"a":1}`, u.Query().Get("data"))

	require.Equal(t, "/dashboard?q=Kingston", processing.DashboardURL("Kingston", nil))
}
