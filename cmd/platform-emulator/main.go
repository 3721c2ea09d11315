package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"model-platform-sdk/internal/adapters/primary/http/handlers"
	"model-platform-sdk/internal/adapters/primary/http/middleware"
	"model-platform-sdk/internal/adapters/secondary/kserve"
	"model-platform-sdk/internal/adapters/secondary/postgres"
	"model-platform-sdk/internal/config"
	ports "model-platform-sdk/internal/core/ports/output"
	"model-platform-sdk/internal/emulator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	config.InitLogger(cfg.Logger)

	// Record store
	var store ports.RecordStore
	switch cfg.Emulator.Store {
	case config.EmulatorStorePostgres:
		pool, err := postgres.NewPool(context.Background(), &cfg.Database)
		if err != nil {
			log.Fatalf("create db pool: %v", err)
		}
		defer pool.Close()
		log.Info("database connection established")

		if err := postgres.EnsureSchema(context.Background(), pool); err != nil {
			log.Fatalf("ensure schema: %v", err)
		}
		store = postgres.NewRecordStore(pool)
	default:
		store = emulator.NewMemoryStore()
		log.Info("using in-memory record store")
	}

	// KServe mirror (optional - based on config)
	var mirror ports.ServingMirror
	if cfg.Kubernetes.Enabled {
		m, err := kserve.NewServingMirror(&cfg.Kubernetes)
		if err != nil {
			log.Warnf("KServe mirror init failed (continuing without K8s integration): %v", err)
		} else {
			mirror = m
			log.Info("KServe mirror initialized")
		}
	} else {
		log.Info("KServe integration disabled")
	}

	registry := emulator.NewRegistry(store, emulator.Options{
		ServerID:   cfg.Emulator.ServerID,
		User:       cfg.Emulator.User,
		Password:   cfg.Emulator.Password,
		StorageDir: cfg.Emulator.StorageDir,
		Mirror:     mirror,
	})

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())
	handlers.New(registry).RegisterRoutes(router)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.WithFields(log.Fields{
			"server_id": cfg.Emulator.ServerID,
			"store":     cfg.Emulator.Store,
		}).Infof("starting platform emulator on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}
