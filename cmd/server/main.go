package main

import (
	"context"  // context package is needed for Redis operations
	"errors"   // Error matching for server shutdown
	"net/http" // HTTP server with timeouts
	"time"     // Server timeouts

	"hospital_insights/internal/api"    // Custom package for API handlers
	"hospital_insights/internal/config" // Custom package for configuration
	"hospital_insights/internal/db"     // Custom package for the relational store

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	} else {
		logrus.Warnf("unknown LOG_LEVEL %q, using info", cfg.LogLevel)
	}

	// Connect to the relational store and make sure the schema exists
	gdb, err := db.Open(cfg.DatabaseURL, logrus.IsLevelEnabled(logrus.DebugLevel))
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("failed to migrate DB: %v", err)
	}

	// Setup Redis client; connections are leased per request
	redisClient := redis.NewClient(&redis.Options{
		Addr:        cfg.RedisAddr,       // Redis server address
		Password:    cfg.RedisPass,       // Redis password
		DB:          cfg.RedisDB,         // Redis database number
		DialTimeout: cfg.DocStoreTimeout, // Server selection timeout
	})
	defer redisClient.Close()

	// Test Redis connection; the app still serves auth and analytics without it
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DocStoreTimeout)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logrus.WithError(err).Warn("Document store unreachable, patient records and activity will be unavailable")
	}
	cancel()

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r, err := api.NewRouter(cfg, gdb, redisClient)
	if err != nil {
		logrus.Fatalf("failed to set up router: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second, // Uploads
		WriteTimeout:      60 * time.Second, // Chart rendering
	}

	logrus.WithFields(logrus.Fields{"port": cfg.AppPort, "dataset": cfg.StrokeDataPath}).Info("Server running") // Log server start
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.Fatalf("server stopped: %v", err)
	}
}
