// Package events carries saved insight snapshots from the api to the worker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/DeafMist/livewise-insights/internal/models"
)

// NewEvent stamps a snapshot event with a fresh ID and the save time.
func NewEvent(location string, data json.RawMessage, savedAt time.Time) models.SnapshotEvent {
	return models.SnapshotEvent{
		EventID:  uuid.NewString(),
		Location: location,
		Data:     data,
		SavedAt:  savedAt.UTC().Format(time.RFC3339Nano),
	}
}

// Publisher writes snapshot events to Kafka keyed by location, so saves for one
// location stay ordered within a partition.
type Publisher struct {
	writer *kafka.Writer
	log    *slog.Logger
}

// NewPublisher builds a Kafka-backed publisher for topic.
func NewPublisher(brokers []string, topic string, log *slog.Logger) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			MaxAttempts:  3,
			RequiredAcks: kafka.RequireOne,
		},
		log: log,
	}
}

// Publish sends one event.
func (p *Publisher) Publish(ctx context.Context, event models.SnapshotEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strings.ToLower(event.Location)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.EventID)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write event: %w", err)
	}

	p.log.Debug("snapshot event published", slog.String("event_id", event.EventID), slog.String("location", event.Location))
	return nil
}

// Close flushes pending writes.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
