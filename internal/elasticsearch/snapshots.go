package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/DeafMist/livewise-insights/internal/models"
)

const (
	savedAtField = "saved_at"

	defaultPageSize = 20
	maxPageSize     = 200
)

// sortFields maps the public sort keys to indexed fields.
var sortFields = map[string]string{
	"saved_at": savedAtField,
	"location": "location.raw",
}

// SearchParams narrow a snapshot search.
type SearchParams struct {
	Query    string
	Location string
	Keywords []string
	From     int
	Size     int
	// Sort is "field" or "field:order"; unknown fields fall back to saved_at.
	Sort  string
	Start *time.Time
	End   *time.Time
}

// SearchResult bundles hits and total count.
type SearchResult struct {
	Total int64                    `json:"total"`
	Items []models.InsightSnapshot `json:"items"`
}

// IndexSnapshot writes a snapshot under its deterministic ID, so re-saves overwrite.
func (c *Client) IndexSnapshot(ctx context.Context, snap models.InsightSnapshot) error {
	doc, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	res, err := esapi.IndexRequest{
		Index:      c.index,
		DocumentID: snap.ID,
		Body:       bytes.NewReader(doc),
	}.Do(ctx, c.es)
	if err != nil {
		return fmt.Errorf("index snapshot %s: %w", snap.ID, err)
	}
	defer res.Body.Close()
	if err := responseError("index snapshot", res); err != nil {
		return err
	}

	c.log.Debug("snapshot indexed", slog.String("id", snap.ID), slog.String("location", snap.Location))
	return nil
}

// SearchSnapshots runs a paged bool query over saved snapshots.
func (c *Client) SearchSnapshots(ctx context.Context, params SearchParams) (*SearchResult, error) {
	body, err := json.Marshal(buildSearchBody(params))
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("search snapshots: %w", err)
	}
	defer res.Body.Close()
	if err := responseError("search snapshots", res); err != nil {
		return nil, err
	}

	var resp struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.InsightSnapshot `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := &SearchResult{Total: resp.Hits.Total.Value, Items: make([]models.InsightSnapshot, len(resp.Hits.Hits))}
	for i, hit := range resp.Hits.Hits {
		out.Items[i] = hit.Source
	}
	return out, nil
}

func buildSearchBody(p SearchParams) map[string]any {
	size := p.Size
	switch {
	case size <= 0:
		size = defaultPageSize
	case size > maxPageSize:
		size = maxPageSize
	}

	boolQuery := map[string]any{}
	if p.Query != "" {
		boolQuery["must"] = []map[string]any{{
			"multi_match": map[string]any{
				"query":  p.Query,
				"fields": []string{"location^3", "keywords^2", "summary"},
			},
		}}
	}
	if filters := searchFilters(p); len(filters) > 0 {
		boolQuery["filter"] = filters
	}
	if len(boolQuery) == 0 {
		boolQuery["must"] = []map[string]any{{"match_all": map[string]any{}}}
	}

	field, order := sortClause(p.Sort)
	return map[string]any{
		"from":             max(p.From, 0),
		"size":             size,
		"track_total_hits": true,
		"query":            map[string]any{"bool": boolQuery},
		"sort":             []map[string]any{{field: map[string]any{"order": order}}},
	}
}

func searchFilters(p SearchParams) []map[string]any {
	var filters []map[string]any
	if p.Location != "" {
		filters = append(filters, map[string]any{"match_phrase": map[string]any{"location": p.Location}})
	}
	if len(p.Keywords) > 0 {
		filters = append(filters, map[string]any{"terms": map[string]any{"keywords": p.Keywords}})
	}
	if window := savedWindow(p.Start, p.End); window != nil {
		filters = append(filters, map[string]any{"range": map[string]any{savedAtField: window}})
	}
	return filters
}

func savedWindow(start, end *time.Time) map[string]any {
	if start == nil && end == nil {
		return nil
	}
	window := map[string]any{}
	if start != nil {
		window["gte"] = start.UTC().Format(time.RFC3339)
	}
	if end != nil {
		window["lte"] = end.UTC().Format(time.RFC3339)
	}
	return window
}

func sortClause(raw string) (field, order string) {
	key, dir, _ := strings.Cut(raw, ":")
	field, ok := sortFields[strings.TrimSpace(key)]
	if !ok {
		field = savedAtField
	}
	order = "desc"
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		order = "asc"
	}
	return field, order
}
