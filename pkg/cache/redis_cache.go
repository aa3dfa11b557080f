// Package cache implements an exact-match Redis cache for normalized model
// responses. A cached entry is an already-extracted answer keyed by a digest
// of the full request (model, prompt, attachments), so identical requests
// skip the invoke call entirely. The gateway itself stays stateless; cache
// loss only costs latency.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abdhe/bedrock-chat-gateway/pkg/content"
)

// Entry is a cached normalized response.
type Entry struct {
	Text  string `json:"text"`
	Shape string `json:"shape"`
}

// ResponseCache wraps a Redis client for storing and retrieving normalized
// responses.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponseCache creates a new Redis-backed response cache.
func NewResponseCache(addr, password string, db int, ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl: ttl,
	}
}

// Get retrieves a cached entry by key.
// Returns the entry and true if found, or zero value and false if not.
func (r *ResponseCache) Get(ctx context.Context, key string) (Entry, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("cache: get: %w", err)
	}

	var e Entry
	if err := json.Unmarshal([]byte(val), &e); err != nil {
		return Entry{}, false, fmt.Errorf("cache: unmarshal: %w", err)
	}

	return e, true, nil
}

// Set stores an entry in the cache with the configured TTL.
func (r *ResponseCache) Set(ctx context.Context, key string, e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("cache: marshal: %w", err)
	}

	if err := r.client.Set(ctx, key, string(data), r.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set: %w", err)
	}

	return nil
}

// Ping checks the Redis connection.
func (r *ResponseCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (r *ResponseCache) Close() error {
	return r.client.Close()
}

// Key derives a deterministic cache key from everything that shapes the
// model's answer. Attachment payloads are hashed individually so large
// bodies are digested exactly once.
func Key(modelID, prompt string, files []content.Attachment) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00", modelID, prompt)
	for _, f := range files {
		data := sha256.Sum256([]byte(f.Data))
		fmt.Fprintf(h, "%s\x00%s\x00%x\x00", f.Kind, f.MediaType, data)
	}
	return fmt.Sprintf("chat_cache:%x", h.Sum(nil)[:16])
}
