// Package main provides the trackboard server entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang/glog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/solaius/trackboard/pkg/tracker"
)

func main() {
	cfg := tracker.ConfigFromEnv()

	flag.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "Address to listen on")
	flag.StringVar(&cfg.DatabaseType, "db-type", cfg.DatabaseType, "Database type (sqlite, postgres, or mysql)")
	flag.StringVar(&cfg.DatabaseDSN, "db-dsn", cfg.DatabaseDSN, "Database connection string")
	flag.BoolVar(&cfg.CreateDefaults, "create-defaults", cfg.CreateDefaults, "Seed the default board and statuses on startup")
	flag.IntVar(&cfg.HistoryRetentionDays, "history-retention-days", cfg.HistoryRetentionDays, "Delete history older than this many days (0 keeps forever)")
	flag.Parse()

	_ = flag.Set("logtostderr", "true")

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting trackboard server",
		"listen", cfg.ListenAddr,
		"dbType", cfg.DatabaseType,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	db, err := setupDatabase(cfg.DatabaseType, cfg.DatabaseDSN)
	if err != nil {
		glog.Fatalf("Failed to connect to database: %v", err)
	}

	if err := tracker.AutoMigrate(db); err != nil {
		glog.Fatalf("Failed to migrate schema: %v", err)
	}

	if err := tracker.Bootstrap(db, cfg, logger); err != nil {
		glog.Fatalf("Failed to seed defaults: %v", err)
	}

	api := tracker.NewAPI(db, logger)

	retention := tracker.NewRetentionWorker(api.History(), cfg.HistoryRetentionDays, logger)
	go retention.Run(ctx)

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: api.Router(),
	}

	go func() {
		logger.Info("trackboard server ready", "listen", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			glog.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("trackboard server stopped")
}

// setupDatabase opens a gorm handle for the configured driver.
func setupDatabase(dbType, dsn string) (*gorm.DB, error) {
	switch dbType {
	case "postgres":
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	case "mysql":
		return gorm.Open(mysql.Open(dsn), &gorm.Config{})
	case "sqlite":
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported database type %q (expected sqlite, postgres, or mysql)", dbType)
	}
}
