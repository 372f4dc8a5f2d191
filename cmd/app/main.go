package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osse101/ArcaneTable_Go/internal/catalog"
	"github.com/osse101/ArcaneTable_Go/internal/config"
	"github.com/osse101/ArcaneTable_Go/internal/database"
	"github.com/osse101/ArcaneTable_Go/internal/database/postgres"
	"github.com/osse101/ArcaneTable_Go/internal/dice"
	"github.com/osse101/ArcaneTable_Go/internal/logger"
	"github.com/osse101/ArcaneTable_Go/internal/server"
	"github.com/osse101/ArcaneTable_Go/internal/session"
)

const (
	dbMaxConns       = 10
	dbMaxIdle        = 5 * time.Minute
	dbMaxLife        = 30 * time.Minute
	shutdownDeadline = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	initLogger(cfg)

	pool, err := database.NewPool(cfg.GetDBConnString(), dbMaxConns, dbMaxIdle, dbMaxLife)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.Migrate(context.Background(), pool); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	cat, err := catalog.New(cfg.ItemDBPath)
	if err != nil {
		log.Fatalf("Failed to load item catalog: %v", err)
	}
	logger.Info("Item catalog loaded", "path", cfg.ItemDBPath, "items", cat.Len())

	store := postgres.NewRoomRepository(pool)
	registry := session.NewRegistry(store, cfg.DefaultMapURL)
	svc := session.NewService(registry, store, cat, dice.NewRoller(nil), nil)

	srv := server.NewServer(cfg.Port, pool, svc)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatalf("Server failed: %v", err)
	case sig := <-stop:
		logger.Info("Shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), shutdownDeadline)
		defer cancel()
		if err := srv.Stop(ctx); err != nil {
			logger.Error("Graceful shutdown failed", "error", err)
		}
	}
}
