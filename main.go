package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/username/comprasync/backend/src/config"
	"github.com/username/comprasync/backend/src/database"
	"github.com/username/comprasync/backend/src/handlers"
	"github.com/username/comprasync/backend/src/logger"
	"github.com/username/comprasync/backend/src/model"
	"github.com/username/comprasync/backend/src/monday"
	"github.com/username/comprasync/backend/src/services"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded", "path", r.URL.Path)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("CompraSync backend server starting...")

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	database.RunMigrations(config.Cfg.DatabasePath)

	mondayClient := monday.NewClient(config.Cfg.MondayAPIKey).
		WithEndpoint(config.Cfg.MondayAPIURL).
		WithHTTPClient(&http.Client{Timeout: config.Cfg.MondayHTTPTimeout})

	purchaseStore := model.NewPurchaseStore(database.DB)
	summaryCache := cache.New(services.SummaryCacheExpiration, services.SummaryCacheCleanupInterval)

	syncService := services.NewSyncService(
		purchaseStore,
		mondayClient,
		config.Cfg.MondayBoardID,
		config.Cfg.SyncWindowDays,
		summaryCache,
	)

	syncHandler := handlers.NewSyncHandler(syncService)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(rateLimitMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "CompraSync Backend is running"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/sync/recent-purchases", syncHandler.HandleSyncRecentPurchases)
		r.Get("/sync/status", syncHandler.HandleGetSyncStatus)
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:        serverAddr,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// A batch of tens of records with one remote round trip each can run
		// well past a normal response window.
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
