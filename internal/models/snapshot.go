package models

import (
	"encoding/json"
	"time"
)

// SnapshotEvent is published to Kafka when a client saves an insights document.
type SnapshotEvent struct {
	EventID  string          `json:"event_id"`
	Location string          `json:"location"`
	Data     json.RawMessage `json:"data"`
	SavedAt  string          `json:"saved_at"`
}

// InsightSnapshot represents the canonical structure stored in Elasticsearch.
// Payload keeps the original document as a string so that differently shaped
// provider payloads never clash in the index mapping.
type InsightSnapshot struct {
	ID         string    `json:"id"`
	Location   string    `json:"location"`
	Summary    string    `json:"summary"`
	Categories []string  `json:"categories"`
	Keywords   []string  `json:"keywords"`
	Payload    string    `json:"payload"`
	SavedAt    time.Time `json:"saved_at"`
}
