package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fradegh/ai-sales-sub002/internal/model"
)

// SettingsCache is the read-only per-tenant settings view used by the
// engine. TTL-bound so settings edits propagate within minutes without
// any process-wide mutable state.
type SettingsCache interface {
	Get(ctx context.Context, tenantID string) (*model.DecisionSettings, error)
	Set(ctx context.Context, settings *model.DecisionSettings) error
	Invalidate(ctx context.Context, tenantID string) error
}

type settingsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSettingsCache(client *redis.Client) SettingsCache {
	return &settingsCache{
		client: client,
		ttl:    5 * time.Minute,
	}
}

func (c *settingsCache) key(tenantID string) string {
	return "tenant:" + tenantID + ":settings"
}

func (c *settingsCache) Get(ctx context.Context, tenantID string) (*model.DecisionSettings, error) {
	data, err := c.client.Get(ctx, c.key(tenantID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var settings model.DecisionSettings
	if err := json.Unmarshal([]byte(data), &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (c *settingsCache) Set(ctx context.Context, settings *model.DecisionSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(settings.TenantID), data, c.ttl).Err()
}

func (c *settingsCache) Invalidate(ctx context.Context, tenantID string) error {
	return c.client.Del(ctx, c.key(tenantID)).Err()
}
