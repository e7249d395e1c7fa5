package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// SessionHistory keeps the most recent answers per user session in a
// bounded, TTL'd redis list. It is best-effort observability state: errors
// surface to the admin endpoint that reads it, but the query path only ever
// appends and ignores failures.
type SessionHistory[V any] struct {
	client     *redisv9.Client
	ttl        time.Duration
	maxEntries int
}

func NewSessionHistory[V any](client *redisv9.Client, ttl time.Duration, maxEntries int) *SessionHistory[V] {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if maxEntries <= 0 {
		maxEntries = 20
	}
	return &SessionHistory[V]{client: client, ttl: ttl, maxEntries: maxEntries}
}

func (h *SessionHistory[V]) Append(ctx context.Context, sessionID string, entry V) error {
	if sessionID == "" {
		return nil
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal session history entry failed: %w", err)
	}
	key := h.key(sessionID)
	pipe := h.client.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, int64(h.maxEntries-1))
	pipe.Expire(ctx, key, h.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis append session history failed: %w", err)
	}
	return nil
}

func (h *SessionHistory[V]) List(ctx context.Context, sessionID string) ([]V, error) {
	raw, err := h.client.LRange(ctx, h.key(sessionID), 0, int64(h.maxEntries-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis read session history failed: %w", err)
	}
	entries := make([]V, 0, len(raw))
	for _, item := range raw {
		var entry V
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			continue // corrupt entry, skip rather than fail the read
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (h *SessionHistory[V]) key(sessionID string) string {
	return "query:history:" + sessionID
}
