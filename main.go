package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fradegh/ai-sales-sub002/config"
	"github.com/fradegh/ai-sales-sub002/internal/cache"
	aiconfig "github.com/fradegh/ai-sales-sub002/internal/config"
	"github.com/fradegh/ai-sales-sub002/internal/repository"
	"github.com/fradegh/ai-sales-sub002/internal/service"
	"github.com/fradegh/ai-sales-sub002/internal/transport/rest"
	"github.com/fradegh/ai-sales-sub002/internal/transport/ws"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// MongoDB connection
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal(err)
	}

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal(err)
	}

	log.Println("Connected to MongoDB and Redis")

	// Repositories
	suggestionRepo := repository.NewSuggestionRepo(client, cfg.MongoDB)
	settingsRepo := repository.NewSettingsRepo(client, cfg.MongoDB)
	learningRepo := repository.NewLearningRepo(client, cfg.MongoDB)

	// The unique pending-per-conversation index must exist before any
	// evaluation runs
	if err := suggestionRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal(err)
	}

	// Caches
	settingsCache := cache.NewSettingsCache(rdb)
	flags := cache.NewFlagStore(rdb)

	// Services
	authSvc := service.NewAuthService(cfg.JWTSecret)
	detector := service.NewSourceDetector(cfg.StaleDataThreshold)
	retriever := service.NewHTTPRetriever(cfg.RetrievalBaseURL, cfg.RetrievalTimeout)
	selfCheck := service.NewSelfCheckService(aiconfig.DefaultAIConfig())
	gate := service.NewAutosendGate(flags)
	learning := service.NewLearningService(suggestionRepo, learningRepo)
	engine := service.NewEngine(detector, retriever, selfCheck, gate, learning, suggestionRepo, settingsRepo, settingsCache)

	// WebSocket hub
	hub := ws.NewHub()
	engine.SetBroadcaster(hub)

	// Router
	router := rest.NewRouter(&rest.Container{
		AuthService:    authSvc,
		Engine:         engine,
		SuggestionRepo: suggestionRepo,
		SettingsRepo:   settingsRepo,
		LearningRepo:   learningRepo,
		SettingsCache:  settingsCache,
		WSHub:          hub,
	})

	log.Printf("Server starting on :%s\n", cfg.HTTPPort)
	log.Fatal(http.ListenAndServe(":"+cfg.HTTPPort, router))
}
