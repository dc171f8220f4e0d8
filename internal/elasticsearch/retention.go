package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const defaultDeleteBatch = 1000

// DeleteOlderThan removes snapshots saved before now-maxAge in batches of
// batchSize, stopping once a batch comes back short.
func (c *Client) DeleteOlderThan(ctx context.Context, maxAge time.Duration, batchSize int) (int64, error) {
	if batchSize <= 0 {
		batchSize = defaultDeleteBatch
	}

	query, err := json.Marshal(olderThanQuery(time.Now().Add(-maxAge)))
	if err != nil {
		return 0, fmt.Errorf("marshal delete body: %w", err)
	}

	var total int64
	for {
		n, err := c.deleteBatch(ctx, query, batchSize)
		total += n
		if err != nil || n < int64(batchSize) {
			return total, err
		}
	}
}

func olderThanQuery(cutoff time.Time) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"range": map[string]any{savedAtField: map[string]any{"lt": cutoff.UTC().Format(time.RFC3339)}},
		},
	}
}

func (c *Client) deleteBatch(ctx context.Context, query []byte, batchSize int) (int64, error) {
	dbq := c.es.DeleteByQuery
	res, err := dbq([]string{c.index}, bytes.NewReader(query),
		dbq.WithContext(ctx),
		dbq.WithConflicts("proceed"),
		dbq.WithWaitForCompletion(true),
		dbq.WithMaxDocs(batchSize),
		dbq.WithScrollSize(batchSize),
	)
	if err != nil {
		return 0, fmt.Errorf("delete by query: %w", err)
	}
	defer res.Body.Close()
	if err := responseError("delete by query", res); err != nil {
		return 0, err
	}

	var resp struct {
		Deleted int64 `json:"deleted"`
	}
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return 0, fmt.Errorf("decode delete response: %w", err)
	}
	return resp.Deleted, nil
}
