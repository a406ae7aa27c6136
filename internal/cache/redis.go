// Package cache mirrors the latest health evaluations into Redis so other
// dashboard services can read them without hitting this process.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/opsdash/platform-pulse/internal/health"
)

const snapshotTTL = time.Hour

// Mirror publishes health snapshots to Redis. It is an optional sidecar:
// callers treat publish errors as warnings, never as evaluation failures.
type Mirror struct {
	client *redis.Client
}

// NewMirror connects to Redis and verifies the connection.
func NewMirror(addr string) (*Mirror, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DB:           0,
		PoolSize:     20,
		MinIdleConns: 2,
		MaxRetries:   3,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &Mirror{client: client}, nil
}

// Publish stores one platform's current health under a per-platform key and
// tracks the platform id in a set for discovery.
func (m *Mirror) Publish(ctx context.Context, h health.PlatformHealth, evaluatedAt time.Time) error {
	data, err := json.Marshal(struct {
		health.PlatformHealth
		EvaluatedAt time.Time `json:"evaluated_at"`
	}{h, evaluatedAt})
	if err != nil {
		return fmt.Errorf("failed to marshal health snapshot: %w", err)
	}

	key := fmt.Sprintf("pulse:health:%s", h.ID)
	if err := m.client.Set(ctx, key, data, snapshotTTL).Err(); err != nil {
		return fmt.Errorf("failed to publish health snapshot: %w", err)
	}

	if err := m.client.SAdd(ctx, "pulse:platforms", h.ID).Err(); err != nil {
		return fmt.Errorf("failed to track platform id: %w", err)
	}
	return nil
}

// Latest reads back one platform's mirrored snapshot. A missing key returns
// nil without error.
func (m *Mirror) Latest(ctx context.Context, platformID string) (*health.PlatformHealth, error) {
	data, err := m.client.Get(ctx, fmt.Sprintf("pulse:health:%s", platformID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read health snapshot: %w", err)
	}

	var h health.PlatformHealth
	if err := json.Unmarshal([]byte(data), &h); err != nil {
		return nil, fmt.Errorf("failed to decode health snapshot: %w", err)
	}
	return &h, nil
}

func (m *Mirror) Close() error {
	return m.client.Close()
}
