package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/fradegh/ai-sales-sub002/internal/cache"
	"github.com/fradegh/ai-sales-sub002/internal/repository"
	"github.com/fradegh/ai-sales-sub002/internal/service"
	"github.com/fradegh/ai-sales-sub002/internal/transport/rest/handler"
	"github.com/fradegh/ai-sales-sub002/internal/transport/rest/middleware"
	"github.com/fradegh/ai-sales-sub002/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService    *service.AuthService
	Engine         *service.Engine
	SuggestionRepo repository.SuggestionRepo
	SettingsRepo   repository.SettingsRepo
	LearningRepo   repository.LearningRepo
	SettingsCache  cache.SettingsCache
	WSHub          *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	suggestionHandler := handler.NewSuggestionHandler(c.Engine, c.SuggestionRepo)
	settingsHandler := handler.NewSettingsHandler(c.SettingsRepo, c.SettingsCache)
	learningHandler := handler.NewLearningHandler(c.LearningRepo)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Channel adapters deliver inbound messages here; they authenticate
	// upstream at the gateway, not with operator tokens
	v1.HandleFunc("/webhooks/messages", suggestionHandler.Webhook).Methods("POST", "OPTIONS")

	// WebSocket route (token in query param)
	v1.HandleFunc("/ws/tenants/{tenantId}/operator", wsHandler.OperatorWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Operator routes (require operator auth)
	operatorRoutes := v1.NewRoute().Subrouter()
	operatorRoutes.Use(authMW.RequireOperator)

	operatorRoutes.HandleFunc("/conversations/{id}/suggestion", suggestionHandler.GetPending).Methods("GET", "OPTIONS")
	operatorRoutes.HandleFunc("/suggestions/{id}/outcome", suggestionHandler.Outcome).Methods("POST", "OPTIONS")
	operatorRoutes.HandleFunc("/tenants/{tenantId}/settings", settingsHandler.Get).Methods("GET", "OPTIONS")
	operatorRoutes.HandleFunc("/tenants/{tenantId}/settings", settingsHandler.Update).Methods("PUT", "OPTIONS")
	operatorRoutes.HandleFunc("/learning-queue", learningHandler.List).Methods("GET", "OPTIONS")
	operatorRoutes.HandleFunc("/learning-queue/{conversationId}/reviewed", learningHandler.MarkReviewed).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
