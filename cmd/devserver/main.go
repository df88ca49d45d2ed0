package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/gebeyahub/profile-engine/internal/config"
	"github.com/gebeyahub/profile-engine/internal/db"
	"github.com/gebeyahub/profile-engine/internal/devserver"
	"github.com/gebeyahub/profile-engine/internal/logger"
	"github.com/gebeyahub/profile-engine/internal/models"
)

func main() {
	// Context for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: could not load configuration: %v", err)
	}

	logLevel := cfg.LogLevel
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Postgres when configured, otherwise an in-memory store with a
	// seeded demo account.
	var store devserver.Store
	if cfg.DatabaseURL != "" {
		dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("main: could not connect to the database: %v", err)
		}
		defer func() {
			if err := dbConn.Close(); err != nil {
				logger.Log.WithError(err).Warn("closing database connection")
			}
		}()

		pgStore := devserver.NewPostgresStore(dbConn)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			log.Fatalf("main: could not prepare the schema: %v", err)
		}
		store = pgStore
	} else {
		memStore := devserver.NewMemoryStore()
		seedDemoUser(ctx, memStore)
		store = memStore
	}

	tokens := devserver.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	handler := devserver.NewHandler(store, tokens, models.DefaultCatalog(), logger.Log.WithField("app", "devserver"), cfg.MaxUploadSizeMB)
	router := devserver.SetupRouter(cfg, handler, tokens)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.WithField("port", cfg.HTTPPort).Info("devserver listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("devserver stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Warn("shutdown was not clean")
	}
}

// seedDemoUser creates a contractor account for local experimenting.
func seedDemoUser(ctx context.Context, store *devserver.MemoryStore) {
	hash, err := bcrypt.GenerateFromPassword([]byte("ChangeMe123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("main: could not seed the demo user: %v", err)
	}

	user := &devserver.User{
		Email:        "demo@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleContractor,
	}
	if err := store.CreateUser(ctx, user); err != nil {
		log.Fatalf("main: could not seed the demo user: %v", err)
	}

	logger.Log.WithField("email", user.Email).Info("seeded demo user (password: ChangeMe123)")
}
