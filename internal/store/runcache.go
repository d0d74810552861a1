package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"funnel-engine/internal/common/database"
	"funnel-engine/internal/common/logger"
	"funnel-engine/internal/funnel/engine"
)

// RunCache keeps the navigable run state in Redis so resumes and go-backs do
// not rebuild position from the answer log. A cache miss is never an error;
// callers fall back to reconstructing from the session row.
type RunCache struct {
	client *database.RedisClient
	ttl    time.Duration
	log    logger.Logger
}

// NewRunCache creates a run-state cache with the given entry TTL.
func NewRunCache(client *database.RedisClient, ttl time.Duration, log logger.Logger) *RunCache {
	return &RunCache{client: client, ttl: ttl, log: log}
}

func runKey(sessionID string) string {
	return fmt.Sprintf("funnel:run:%s", sessionID)
}

// Save stores the run state, refreshing its TTL.
func (c *RunCache) Save(ctx context.Context, state *engine.RunState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, runKey(state.SessionID), raw, c.ttl)
}

// Load returns the cached run state, or (nil, nil) on a miss.
func (c *RunCache) Load(ctx context.Context, sessionID string) (*engine.RunState, error) {
	raw, err := c.client.Get(ctx, runKey(sessionID))
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var state engine.RunState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		// A corrupt entry behaves like a miss; the caller rebuilds.
		c.log.Warn("Dropping corrupt run-state cache entry", map[string]interface{}{
			"sessionId": sessionID,
			"error":     err.Error(),
		})
		_ = c.client.Del(ctx, runKey(sessionID))
		return nil, nil
	}
	return &state, nil
}

// Drop removes the cached run state, typically after the run ends.
func (c *RunCache) Drop(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, runKey(sessionID))
}
