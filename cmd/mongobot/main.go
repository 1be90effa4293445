package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/telebackup/mongobot/internal/config"
	"github.com/telebackup/mongobot/internal/dump"
	"github.com/telebackup/mongobot/internal/job"
	"github.com/telebackup/mongobot/internal/mongoadmin"
	"github.com/telebackup/mongobot/internal/ops"
	"github.com/telebackup/mongobot/internal/tgbot"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)

	if err := os.MkdirAll(cfg.BackupDir, 0o755); err != nil {
		log.Error("failed to create backup directory", "dir", cfg.BackupDir, "error", err)
		os.Exit(1)
	}

	jobs := job.NewRegistry()
	runner := &dump.Runner{Dir: cfg.BackupDir, Log: log}
	admin := &mongoadmin.Admin{Timeout: cfg.MongoTimeout(), Log: log}

	service, err := tgbot.New(cfg, jobs, admin, runner, log)
	if err != nil {
		log.Error("failed to start bot", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Operational endpoints for probes and monitoring.
	opsServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: ops.NewHandler(jobs).Router(),
	}
	go func() {
		log.Info("ops server listening", "addr", cfg.ListenAddr)
		if err := opsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("ops server failed", "error", err)
		}
	}()

	service.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("ops server shutdown", "error", err)
	}
	log.Info("shutdown complete", "activeJobs", jobs.Count())
}
