package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/DeafMist/livewise-insights/internal/dedupe"
	"github.com/DeafMist/livewise-insights/internal/events"
	"github.com/DeafMist/livewise-insights/internal/logger"
	"github.com/DeafMist/livewise-insights/internal/models"
	"github.com/DeafMist/livewise-insights/internal/processing"
)

type stubIndexer struct {
	snaps []models.InsightSnapshot
	err   error
}

func (s *stubIndexer) IndexSnapshot(_ context.Context, snap models.InsightSnapshot) error {
	if s.err != nil {
		return s.err
	}
	s.snaps = append(s.snaps, snap)
	return nil
}

type flakyWriter struct {
	failures int
	written  []kafka.Message
}

func (w *flakyWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.failures > 0 {
		w.failures--
		return errors.New("broker unavailable")
	}
	w.written = append(w.written, msgs...)
	return nil
}

func newProcessor(idx snapshotIndexer) *processor {
	return &processor{
		log:        logger.Discard(),
		indexer:    idx,
		seen:       dedupe.NewCache(100, time.Hour),
		normalizer: processing.NewNormalizer(),
		opts:       processing.SnapshotOptions{KeywordLimit: 5, KeywordMinLength: 4},
	}
}

func eventMessage(t *testing.T, location, data string, savedAt time.Time) kafka.Message {
	t.Helper()
	value, err := json.Marshal(events.NewEvent(location, json.RawMessage(data), savedAt))
	require.NoError(t, err)
	return kafka.Message{Value: value}
}

func TestProcessIndexesSnapshot(t *testing.T) {
	idx := &stubIndexer{}
	p := newProcessor(idx)
	savedAt := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	msg := eventMessage(t, "Kingston", `{"weather":{"description":"overcast clouds"},"amenities":{"amenities":[{"name":"Plaza"}]}}`, savedAt)
	require.NoError(t, p.process(context.Background(), msg))

	require.Len(t, idx.snaps, 1)
	snap := idx.snaps[0]
	require.Equal(t, "Kingston", snap.Location)
	require.Equal(t, savedAt, snap.SavedAt)
	require.Equal(t, []string{"weather", "amenities"}, snap.Categories)
	require.Contains(t, snap.Summary, "overcast clouds")
	require.Contains(t, snap.Summary, "1 amenities found")
	require.NotEmpty(t, snap.Keywords)
}

func TestProcessSkipsReplays(t *testing.T) {
	idx := &stubIndexer{}
	p := newProcessor(idx)

	// Distinct events carrying the same document collapse to one snapshot.
	first := eventMessage(t, "Kingston", `{"crime":{"description":"Quiet"}}`, time.Now())
	second := eventMessage(t, "kingston", `{ "crime": { "description": "Quiet" } }`, time.Now())

	require.NoError(t, p.process(context.Background(), first))
	require.NoError(t, p.process(context.Background(), second))
	require.Len(t, idx.snaps, 1)
}

func TestProcessRejectsBadEvents(t *testing.T) {
	p := newProcessor(&stubIndexer{})

	require.Error(t, p.process(context.Background(), kafka.Message{Value: []byte("not json")}))
	require.ErrorIs(t, p.process(context.Background(), eventMessage(t, "", `{}`, time.Now())), processing.ErrEmptyLocation)
	require.ErrorIs(t, p.process(context.Background(), kafka.Message{Value: []byte(`{"location":"Kingston"}`)}), processing.ErrEmptyPayload)
}

func TestProcessIndexFailureIsRetried(t *testing.T) {
	idx := &stubIndexer{err: errors.New("es down")}
	p := newProcessor(idx)
	msg := eventMessage(t, "Kingston", `{}`, time.Now())

	require.Error(t, p.process(context.Background(), msg))

	// A failed index must not mark the snapshot as seen.
	idx.err = nil
	require.NoError(t, p.process(context.Background(), msg))
	require.Len(t, idx.snaps, 1)
}

func TestSendToDLQRetries(t *testing.T) {
	w := &flakyWriter{failures: 2}
	msg := kafka.Message{Partition: 3, Offset: 42, Value: []byte("payload"), Headers: []kafka.Header{{Key: "event_id", Value: []byte("e1")}}}

	require.True(t, sendToDLQ(context.Background(), logger.Discard(), w, msg, errors.New("boom"), time.Millisecond))
	require.Len(t, w.written, 1)

	headers := map[string]string{}
	for _, h := range w.written[0].Headers {
		headers[h.Key] = string(h.Value)
	}
	require.Equal(t, "e1", headers["event_id"])
	require.Equal(t, "3", headers["original_partition"])
	require.Equal(t, "42", headers["original_offset"])
	require.Equal(t, "boom", headers["error"])
	require.Len(t, msg.Headers, 1)
}

func TestSendToDLQGivesUp(t *testing.T) {
	w := &flakyWriter{failures: dlqAttempts}
	require.False(t, sendToDLQ(context.Background(), logger.Discard(), w, kafka.Message{}, errors.New("boom"), time.Microsecond))
	require.Empty(t, w.written)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.False(t, sendToDLQ(ctx, logger.Discard(), &flakyWriter{failures: 1}, kafka.Message{}, errors.New("boom"), time.Hour))
}

func TestParseTimestamp(t *testing.T) {
	ts := parseTimestamp("2024-02-03T04:05:06.789Z")
	require.False(t, ts.IsZero())
	require.Equal(t, time.UTC, ts.Location())
	require.Equal(t, 2024, ts.Year())
	require.Equal(t, 789*time.Millisecond, time.Duration(ts.Nanosecond()))

	legacy := parseTimestamp("2024-02-03 04:05:06")
	require.False(t, legacy.IsZero())
	require.Equal(t, 4, legacy.Hour())

	require.True(t, parseTimestamp("invalid").IsZero())
	require.True(t, parseTimestamp("").IsZero())
}
