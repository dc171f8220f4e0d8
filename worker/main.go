package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/DeafMist/livewise-insights/internal/config"
	"github.com/DeafMist/livewise-insights/internal/dedupe"
	"github.com/DeafMist/livewise-insights/internal/elasticsearch"
	"github.com/DeafMist/livewise-insights/internal/logger"
	"github.com/DeafMist/livewise-insights/internal/models"
	"github.com/DeafMist/livewise-insights/internal/processing"
)

const dlqAttempts = 5

type snapshotIndexer interface {
	IndexSnapshot(ctx context.Context, snap models.InsightSnapshot) error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type processor struct {
	log        *slog.Logger
	indexer    snapshotIndexer
	seen       *dedupe.Cache
	normalizer *processing.Normalizer
	opts       processing.SnapshotOptions
}

func main() {
	log := logger.New("worker")
	cfg, err := config.LoadWorker()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	esClient, err := elasticsearch.New(cfg.ElasticsearchAddr, cfg.ElasticsearchIndex, log)
	if err != nil {
		log.Error("init elasticsearch", slog.Any("err", err))
		os.Exit(1)
	}

	p := &processor{
		log:        log,
		indexer:    esClient,
		seen:       dedupe.NewCache(cfg.DedupeCapacity, cfg.DedupeTTL),
		normalizer: processing.NewNormalizer(),
		opts: processing.SnapshotOptions{
			KeywordLimit:     cfg.KeywordLimit,
			KeywordMinLength: cfg.KeywordMinLength,
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// a missing index must not be auto-created with dynamic mappings on the first save
	if err := esClient.EnsureIndex(ctx); err != nil {
		log.Warn("ensure snapshot index", slog.Any("err", err))
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.KafkaBrokers,
		Topic:          cfg.KafkaTopic,
		GroupID:        cfg.KafkaConsumer,
		QueueCapacity:  cfg.BatchSize,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // manual commit only
	})
	defer reader.Close()

	dlqTopic := cfg.KafkaTopic + "_dlq"
	dlqWriter := &kafka.Writer{
		Addr:        kafka.TCP(cfg.KafkaBrokers...),
		Topic:       dlqTopic,
		MaxAttempts: 3,
	}
	defer dlqWriter.Close()

	log.Info("worker started",
		slog.String("topic", cfg.KafkaTopic),
		slog.String("group", cfg.KafkaConsumer),
		slog.String("dlq_topic", dlqTopic),
	)

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				log.Info("context canceled, stopping")
				return
			}
			log.Error("fetch message", slog.Any("err", err))
			continue
		}

		if err := p.process(ctx, msg); err != nil {
			log.Warn("process message failed, sending to DLQ",
				slog.Any("err", err),
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
			)

			if !sendToDLQ(ctx, log, dlqWriter, msg, err, time.Second) {
				if ctx.Err() != nil {
					return
				}
				// Leave uncommitted so the message is redelivered after a restart.
				log.Error("DLQ write exhausted retries",
					slog.Int("partition", msg.Partition),
					slog.Int64("offset", msg.Offset),
				)
				continue
			}
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message", slog.Any("err", err))
		}
	}
}

// process turns one saved-snapshot event into an indexed document. Replays of
// an already indexed snapshot are acknowledged without touching Elasticsearch.
func (p *processor) process(ctx context.Context, msg kafka.Message) error {
	var event models.SnapshotEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}

	snap, err := p.normalizer.BuildSnapshot(event.Location, event.Data, parseTimestamp(event.SavedAt), p.opts)
	if err != nil {
		return fmt.Errorf("build snapshot: %w", err)
	}

	if p.seen.IsSeen(snap.ID) {
		p.log.Debug("duplicate snapshot", slog.String("id", snap.ID), slog.String("event_id", event.EventID))
		return nil
	}

	if err := p.indexer.IndexSnapshot(ctx, snap); err != nil {
		return err
	}

	p.seen.MarkSeen(snap.ID)
	p.log.Info("indexed snapshot",
		slog.String("id", snap.ID),
		slog.String("location", snap.Location),
		slog.Any("categories", snap.Categories),
	)
	return nil
}

// sendToDLQ copies msg to the dead-letter topic with the failure attached,
// retrying with exponential backoff. It reports whether the write succeeded.
func sendToDLQ(ctx context.Context, log *slog.Logger, w messageWriter, msg kafka.Message, cause error, baseBackoff time.Duration) bool {
	dlqMsg := kafka.Message{
		Key:   msg.Key,
		Value: msg.Value,
		Headers: append(append([]kafka.Header(nil), msg.Headers...),
			kafka.Header{Key: "original_partition", Value: []byte(fmt.Sprintf("%d", msg.Partition))},
			kafka.Header{Key: "original_offset", Value: []byte(fmt.Sprintf("%d", msg.Offset))},
			kafka.Header{Key: "error", Value: []byte(cause.Error())},
			kafka.Header{Key: "timestamp", Value: []byte(time.Now().UTC().Format(time.RFC3339))},
		),
	}

	for attempt := 0; attempt < dlqAttempts; attempt++ {
		dlqErr := w.WriteMessages(ctx, dlqMsg)
		if dlqErr == nil {
			log.Info("message sent to DLQ",
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
				slog.Int("attempt", attempt+1),
			)
			return true
		}

		backoff := baseBackoff << uint(attempt)
		log.Warn("DLQ write failed, retrying",
			slog.Any("err", dlqErr),
			slog.Int("attempt", attempt+1),
			slog.Duration("backoff", backoff),
		)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			log.Info("context canceled during DLQ retry")
			return false
		}
	}
	return false
}

func parseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}

	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}

	for _, f := range formats {
		if ts, err := time.Parse(f, raw); err == nil {
			return ts
		}
	}

	return time.Time{}
}
