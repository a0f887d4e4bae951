/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the bookkeeping backend server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse command-line flags
  2. Build the zap logger
  3. Initialize SQLite store
  4. Pick the document storage backend (S3 when configured, local otherwise)
  5. Create API handler with dependencies
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: bookkeeping.db)
           Use ":memory:" for an in-memory database
  -docs    Local document directory when S3 is not configured
  -stage   Deployment stage: development or production
  -level   Log level: debug, info, warn, error

ENVIRONMENT:
  JWT_SECRET       Required. HMAC secret for access tokens.
  JWT_TTL          Token lifetime (Go duration, default 24h).
  S3_BUCKET        If set, documents go to S3 instead of local disk.
  S3_REGION        AWS region for the bucket.
  S3_ENDPOINT      Optional custom endpoint (MinIO, localstack).
  S3_ACCESS_KEY    Optional static credential pair. When unset the
  S3_SECRET_KEY    default AWS credential chain is used.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Local development, documents on disk
  JWT_SECRET=dev-secret ./server -db=./data/bookkeeping.db -docs=./data/documents

  # Production with S3
  JWT_SECRET=... S3_BUCKET=client-documents S3_REGION=ap-southeast-1 ./server -stage=production

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
  - docstore/: Document storage backends
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/razellllll/bookkeeping-backend/api"
	"github.com/razellllll/bookkeeping-backend/auth"
	"github.com/razellllll/bookkeeping-backend/docstore"
	"github.com/razellllll/bookkeeping-backend/logging"
	"github.com/razellllll/bookkeeping-backend/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "bookkeeping.db", "SQLite database path")
	docsDir := flag.String("docs", "documents", "local document directory (used when S3_BUCKET is unset)")
	stage := flag.String("stage", "development", "deployment stage: development or production")
	level := flag.String("level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	// .env is a convenience for local runs; absence is fine.
	_ = godotenv.Load()

	log := logging.New(*stage, *level)
	defer log.Sync()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	ttl := 24 * time.Hour
	if v := os.Getenv("JWT_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Fatal("invalid JWT_TTL", zap.String("value", v), zap.Error(err))
		}
		ttl = d
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer store.Close()

	// Document storage: S3 when a bucket is configured, local disk otherwise.
	var docs docstore.Storage
	if bucket := os.Getenv("S3_BUCKET"); bucket != "" {
		docs, err = docstore.NewS3(context.Background(), docstore.S3Config{
			Bucket:    bucket,
			Region:    os.Getenv("S3_REGION"),
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
		})
		if err != nil {
			log.Fatal("failed to initialize S3 storage", zap.Error(err))
		}
		log.Info("document storage: s3", zap.String("bucket", bucket))
	} else {
		docs, err = docstore.NewLocal(*docsDir)
		if err != nil {
			log.Fatal("failed to initialize local storage", zap.Error(err))
		}
		log.Info("document storage: local", zap.String("dir", *docsDir))
	}

	handler := api.NewHandler(store, docs, auth.NewTokenIssuer(secret, ttl), log)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server starting", zap.Int("port", *port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
