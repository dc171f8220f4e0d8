package processing

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DeafMist/livewise-insights/internal/models"
)

var (
	ErrEmptyLocation = errors.New("empty location")
	ErrEmptyPayload  = errors.New("empty payload")
)

// BuildSnapshotID hashes the location and compacted payload so repeated saves
// of the same document map to the same ID.
func BuildSnapshotID(location string, payload []byte) string {
	s := sha1.Sum([]byte(strings.ToLower(strings.TrimSpace(location)) + "|" + string(payload)))
	return hex.EncodeToString(s[:])
}

// SnapshotOptions tune keyword extraction for stored snapshots.
type SnapshotOptions struct {
	KeywordLimit     int
	KeywordMinLength int
}

// BuildSnapshot validates a saved document and projects it into its stored form.
func (n *Normalizer) BuildSnapshot(location string, data []byte, savedAt time.Time, opts SnapshotOptions) (models.InsightSnapshot, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return models.InsightSnapshot{}, ErrEmptyLocation
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, bytes.TrimSpace(data)); err != nil {
		if len(bytes.TrimSpace(data)) == 0 {
			return models.InsightSnapshot{}, ErrEmptyPayload
		}
		return models.InsightSnapshot{}, fmt.Errorf("compact payload: %w", err)
	}
	if compact.String() == "null" {
		return models.InsightSnapshot{}, ErrEmptyPayload
	}

	raw, err := models.DecodeRawInsights(compact.Bytes())
	if err != nil {
		return models.InsightSnapshot{}, fmt.Errorf("decode payload: %w", err)
	}

	insights := n.Normalize(raw)
	summary := strings.Join([]string{
		insights.Weather.Content,
		insights.Crime.Content,
		insights.Transport.Content,
		insights.Amenities.Content,
	}, " | ")

	var corpus strings.Builder
	corpus.WriteString(summary)
	for _, item := range insights.News.Items {
		corpus.WriteString(" ")
		corpus.WriteString(item.Title)
	}

	if savedAt.IsZero() {
		savedAt = n.now()
	}

	return models.InsightSnapshot{
		ID:         BuildSnapshotID(location, compact.Bytes()),
		Location:   location,
		Summary:    summary,
		Categories: Categories(raw),
		Keywords:   ExtractKeywords(corpus.String(), opts.KeywordLimit, opts.KeywordMinLength),
		Payload:    compact.String(),
		SavedAt:    savedAt.UTC(),
	}, nil
}
