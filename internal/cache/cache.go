// Package cache stores generated provider payloads per location.
package cache

import (
	"context"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Cache defines the interface for response caching.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Key builds a cache key for endpoint and location. Locations are
// case-insensitive and compared in Unicode NFC, so "Montréal" typed with a
// combining accent shares an entry with the precomposed form.
func Key(endpoint, location string) string {
	return "livewise:v1:" + endpoint + ":" + norm.NFC.String(strings.ToLower(strings.TrimSpace(location)))
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Nop) Delete(context.Context, string) error { return nil }

var _ Cache = Nop{}
