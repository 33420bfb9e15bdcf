package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// FlagAIAutosendEnabled is the global autosend kill-switch checked by
// the triple-lock gate.
const FlagAIAutosendEnabled = "ai_autosend_enabled"

// FlagStore reads feature flags. A missing or unreadable flag counts as
// disabled so an outage of the flag store fails closed.
type FlagStore interface {
	IsEnabled(ctx context.Context, name string) bool
	Set(ctx context.Context, name string, enabled bool) error
}

type flagStore struct {
	client *redis.Client
}

func NewFlagStore(client *redis.Client) FlagStore {
	return &flagStore{client: client}
}

func (f *flagStore) key(name string) string {
	return "flag:" + name
}

func (f *flagStore) IsEnabled(ctx context.Context, name string) bool {
	val, err := f.client.Get(ctx, f.key(name)).Result()
	if err != nil {
		return false
	}
	return val == "1" || val == "true"
}

func (f *flagStore) Set(ctx context.Context, name string, enabled bool) error {
	val := "0"
	if enabled {
		val = "1"
	}
	return f.client.Set(ctx, f.key(name), val, 0).Err()
}
