// main.go - Entry point for the course catalog REST API server

package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"course-api/config"   // Environment configuration
	"course-api/database" // SQLite store
	"course-api/handlers" // HTTP handlers and routes
	"course-api/logging"  // Structured logger
	"course-api/models"   // Seed user model
	"course-api/mqtt"     // Course event publishing

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	// STEP 1: Load configuration and build the logger
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.New(cfg.LogLevel, os.Stderr)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// STEP 2: Open the database and seed the optional account
	store, err := database.Open(cfg.DBPath, logger)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("database ready", "path", cfg.DBPath)

	if cfg.Seed.Enabled() {
		if err := seed(ctx, store, cfg.Seed, logger); err != nil {
			return err
		}
	}

	// STEP 3: Connect to the MQTT broker, if one is configured
	var events mqtt.Publisher = mqtt.Noop{}
	if cfg.MQTTBroker != "" {
		client, err := mqtt.Connect(cfg.MQTTBroker, cfg.MQTTClientID)
		if err != nil {
			return err
		}
		defer client.Close()
		events = client
		logger.Info("publishing course events", "broker", cfg.MQTTBroker, "prefix", cfg.MQTTTopicPrefix)
	}

	// STEP 4: Build the router and serve until a signal arrives
	gin.SetMode(cfg.GinMode)
	router := handlers.NewRouter(handlers.New(store, events, cfg.MQTTTopicPrefix, logger))
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// seed creates the configured account unless it already exists.
func seed(ctx context.Context, store *database.Store, s config.SeedUser, logger *slog.Logger) error {
	user := &models.User{
		FirstName:    s.FirstName,
		LastName:     s.LastName,
		EmailAddress: s.EmailAddress,
		Password:     s.Password,
	}
	if err := models.Validate(user); err != nil {
		return err
	}
	if err := user.SetPassword(s.Password); err != nil {
		return err
	}
	created, err := store.SeedUser(ctx, user)
	if err != nil {
		return err
	}
	if created {
		logger.Info("seed user created", "email", s.EmailAddress)
	}
	return nil
}
