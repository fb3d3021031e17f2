package core

// scheduler.go re-parses the startup dump when it changes on disk.
//
// Deployments typically refresh DUMP_PATH with a nightly pg_dump. The reload
// scheduler polls the file and loads it again when its size or modification
// time moves. Reload failures are logged and the previous dataset stays
// active.

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// ReloadConfig configures the reload scheduler.
type ReloadConfig struct {
	Path          string
	CheckInterval time.Duration // default: 1m
}

type fileStamp struct {
	size    int64
	modTime time.Time
}

func statFile(path string) (fileStamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}, err
	}
	return fileStamp{size: info.Size(), modTime: info.ModTime()}, nil
}

// StartReloadScheduler polls cfg.Path until ctx is cancelled. The file is
// assumed to be loaded already; only later changes trigger a reload.
func (s *Service) StartReloadScheduler(ctx context.Context, cfg ReloadConfig) {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = time.Minute
	}
	slog.Info("reload scheduler started",
		"path", cfg.Path,
		"interval", cfg.CheckInterval.String(),
	)

	last, err := statFile(cfg.Path)
	if err != nil {
		slog.Warn("dump not readable", "path", cfg.Path, "error", err)
	}

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("reload scheduler stopped")
			return
		case <-ticker.C:
			last = s.reloadIfChanged(ctx, cfg.Path, last)
		}
	}
}

// reloadIfChanged loads path when its stamp differs from last and returns
// the stamp to compare against next time.
func (s *Service) reloadIfChanged(ctx context.Context, path string, last fileStamp) fileStamp {
	stamp, err := statFile(path)
	if err != nil {
		slog.Warn("dump not readable", "path", path, "error", err)
		return last
	}
	if stamp.size == last.size && stamp.modTime.Equal(last.modTime) {
		return last
	}

	slog.Debug("dump changed, reloading", "path", path)
	if _, err := s.LoadFile(ctx, path); err != nil {
		slog.Error("reload failed", "path", path, "error", err)
		// Retry on the next tick
		return last
	}
	return stamp
}
