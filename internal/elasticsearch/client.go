// Package elasticsearch stores saved insight snapshots.
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/DeafMist/livewise-insights/internal/logger"
)

// Client wraps go-elasticsearch with the snapshot operations this project needs.
type Client struct {
	es    *elasticsearch.Client
	index string
	log   *slog.Logger
}

// New builds a client for one index. No request is made until first use.
func New(addr, index string, log *slog.Logger) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{addr}})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Client{es: es, index: index, log: log}, nil
}

// Ping checks if Elasticsearch is reachable.
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("ping elasticsearch: %w", err)
	}
	defer res.Body.Close()
	return responseError("ping", res)
}

// Health reports cluster health.
func (c *Client) Health(ctx context.Context) error {
	res, err := c.es.Cluster.Health(c.es.Cluster.Health.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("cluster health: %w", err)
	}
	defer res.Body.Close()
	return responseError("cluster health", res)
}

// snapshotMapping keeps payload out of the inverted index and gives location
// a keyword subfield for sorting and exact filters.
var snapshotMapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"id": map[string]any{"type": "keyword"},
			"location": map[string]any{
				"type":   "text",
				"fields": map[string]any{"raw": map[string]any{"type": "keyword", "ignore_above": 256}},
			},
			"summary":    map[string]any{"type": "text"},
			"categories": map[string]any{"type": "keyword"},
			"keywords":   map[string]any{"type": "keyword"},
			"payload":    map[string]any{"type": "text", "index": false},
			savedAtField: map[string]any{"type": "date"},
		},
	},
}

// EnsureIndex creates the snapshot index with its mapping when it does not exist yet.
func (c *Client) EnsureIndex(ctx context.Context) error {
	exists, err := c.es.Indices.Exists([]string{c.index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	exists.Body.Close()
	if exists.StatusCode == http.StatusOK {
		return nil
	}

	body, err := json.Marshal(snapshotMapping)
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}
	res, err := c.es.Indices.Create(c.index,
		c.es.Indices.Create.WithContext(ctx),
		c.es.Indices.Create.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer res.Body.Close()

	// another replica may have won the race
	if res.StatusCode == http.StatusBadRequest {
		return nil
	}
	if err := responseError("create index", res); err != nil {
		return err
	}
	c.log.Info("snapshot index created", slog.String("index", c.index))
	return nil
}

func responseError(op string, res *esapi.Response) error {
	if !res.IsError() {
		return nil
	}
	data, _ := io.ReadAll(res.Body)
	return fmt.Errorf("%s failed: %s: %s", op, res.Status(), strings.TrimSpace(string(data)))
}
