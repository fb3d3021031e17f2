package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/pimpoyo/internal/config"
	"github.com/JonMunkholm/pimpoyo/internal/core"
	_ "github.com/JonMunkholm/pimpoyo/internal/core/tables" // Register all tables
	"github.com/JonMunkholm/pimpoyo/internal/export"
	"github.com/JonMunkholm/pimpoyo/internal/export/postgres"
	"github.com/JonMunkholm/pimpoyo/internal/export/sqlite"
	"github.com/JonMunkholm/pimpoyo/internal/logging"
	"github.com/JonMunkholm/pimpoyo/internal/web"
)

func main() {
	// Overload so .env wins over stale shell exports
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"schema", cfg.Dump.Schema,
		"encoding", cfg.Dump.Encoding,
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"export_enabled", cfg.Export.Enabled(),
	)

	service, err := core.NewService(core.ServiceConfig{
		Schema:        cfg.Dump.Schema,
		Encoding:      cfg.Dump.Encoding,
		MaxBytes:      cfg.Dump.MaxFileSize,
		MaxConcurrent: cfg.Upload.MaxConcurrent,
		MaxWait:       cfg.Upload.MaxWaitTime,
		Timeout:       cfg.Upload.Timeout,
		HistorySize:   cfg.Dump.HistorySize,
	})
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}

	slog.Info("tables registered",
		"count", core.TableCount(),
		"groups", len(core.Groups()),
	)
	for _, group := range core.Groups() {
		slog.Debug("table group", "group", group, "tables", len(core.ByGroup(group)))
	}

	ctx := context.Background()

	if cfg.Dump.Path != "" {
		if _, err := service.LoadFile(ctx, cfg.Dump.Path); err != nil {
			// Keep serving; a later upload or reload can still provide data
			slog.Error("failed to load startup dump", "path", cfg.Dump.Path, "error", err)
		}
	}

	exporters := []export.Exporter{sqlite.New(cfg.Export.SQLitePath)}
	if cfg.Export.Enabled() {
		pg, err := postgres.Connect(ctx, postgres.Config{
			URL:         cfg.Export.DatabaseURL,
			MaxConns:    int32(cfg.Export.MaxConns),
			MinConns:    int32(cfg.Export.MinConns),
			Schema:      cfg.Export.TargetSchema,
			Parallelism: cfg.Export.Parallelism,
		})
		if err != nil {
			slog.Error("failed to connect to export database", "error", err)
			os.Exit(1)
		}
		defer pg.Close()

		if u, err := url.Parse(cfg.Export.DatabaseURL); err == nil {
			slog.Info("connected to export database", "name", strings.TrimPrefix(u.Path, "/"))
		} else {
			slog.Info("connected to export database")
		}
		exporters = append(exporters, pg)
	}

	server := web.NewServer(service, cfg, exporters...)

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	if cfg.Dump.ReloadInterval > 0 {
		go service.StartReloadScheduler(jobCtx, core.ReloadConfig{
			Path:          cfg.Dump.Path,
			CheckInterval: cfg.Dump.ReloadInterval,
		})
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := service.LimiterStatus(); status.Active > 0 {
			slog.Info("waiting for parses to complete", "active", status.Active)
			if err := service.WaitForParses(shutdownCtx); err != nil {
				slog.Warn("parses did not complete in time", "error", err)
			} else {
				slog.Info("all parses completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
