package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fradegh/ai-sales-sub002/config"
	"github.com/fradegh/ai-sales-sub002/internal/cache"
	"github.com/fradegh/ai-sales-sub002/internal/model"
	"github.com/fradegh/ai-sales-sub002/internal/repository"
)

// Seeds a demo tenant for local development: a readiness score above the
// autosend threshold, settings with autosend on for safe intents, and
// the global autosend flag.
func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	tenantID := "demo-tenant"
	db := client.Database(cfg.MongoDB)

	// Readiness is normally produced by the offline quality workflow;
	// the demo tenant gets a passing score so autosend can be enabled
	_, err = db.Collection("tenant_readiness").UpdateOne(ctx,
		bson.M{"_id": tenantID},
		bson.M{"$set": bson.M{"score": 0.9, "updatedAt": time.Now()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		log.Fatalf("Failed to seed readiness score: %v", err)
	}

	settingsRepo := repository.NewSettingsRepo(client, cfg.MongoDB)
	settings := &model.DecisionSettings{
		TenantID:               tenantID,
		TAuto:                  0.85,
		TEscalate:              0.5,
		AutosendAllowed:        true,
		IntentsAutosendAllowed: []string{"shipping", "faq", "working_hours"},
		IntentsForceHandoff:    []string{"complaint", "refund"},
		SelfCheckEnabled:       true,
	}
	if err := settingsRepo.Update(ctx, settings); err != nil {
		log.Fatalf("Failed to seed decision settings: %v", err)
	}

	flags := cache.NewFlagStore(rdb)
	if err := flags.Set(ctx, cache.FlagAIAutosendEnabled, true); err != nil {
		log.Fatalf("Failed to enable autosend flag: %v", err)
	}

	fmt.Printf("Seeded tenant '%s' with autosend enabled for %v\n", tenantID, settings.IntentsAutosendAllowed)
}
