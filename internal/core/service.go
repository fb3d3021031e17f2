package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNoDataset is returned before the first successful parse.
var ErrNoDataset = errors.New("no dataset loaded")

// ErrEmptyDump is returned when the input has no bytes at all.
var ErrEmptyDump = errors.New("empty dump")

// DefaultParseTimeout bounds a single Load call.
const DefaultParseTimeout = 5 * time.Minute

// DefaultHistorySize is how many parse runs Runs keeps.
const DefaultHistorySize = 20

// ServiceConfig configures a Service. Zero values use the defaults.
type ServiceConfig struct {
	Schema        string
	Encoding      string
	MaxBytes      int64
	MaxConcurrent int
	MaxWait       time.Duration
	Timeout       time.Duration
	HistorySize   int
}

// Service owns the current Dataset and the history of parse runs.
// A successful Load replaces the dataset atomically; readers holding the
// previous *Dataset keep a consistent snapshot.
type Service struct {
	opts        Options
	limiter     *ParseLimiter
	timeout     time.Duration
	historySize int

	mu      sync.RWMutex
	current *Dataset
	runs    []ParseRun // newest last
}

// NewService creates a Service with no dataset loaded.
func NewService(cfg ServiceConfig) (*Service, error) {
	enc, err := NormalizeEncoding(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultParseTimeout
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = DefaultHistorySize
	}

	return &Service{
		opts: Options{
			Schema:   cfg.Schema,
			Encoding: enc,
			MaxBytes: cfg.MaxBytes,
		},
		limiter:     NewParseLimiter(cfg.MaxConcurrent, cfg.MaxWait),
		timeout:     cfg.Timeout,
		historySize: cfg.HistorySize,
	}, nil
}

// ListTables returns information about all registered tables.
func (s *Service) ListTables() []TableInfo {
	defs := All()
	infos := make([]TableInfo, len(defs))
	for i, def := range defs {
		infos[i] = def.Info
	}
	return infos
}

// ListTablesByGroup returns tables organized by group.
func (s *Service) ListTablesByGroup() map[string][]TableInfo {
	result := make(map[string][]TableInfo)
	for _, group := range Groups() {
		for _, def := range ByGroup(group) {
			result[group] = append(result[group], def.Info)
		}
	}
	return result
}

// Load parses r and makes the result the current dataset.
// source is a label for the run history (file name, "upload", ...).
func (s *Service) Load(ctx context.Context, source string, r io.Reader) (ParseRun, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return ParseRun{}, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	opts := s.opts
	opts.Logger = slog.Default().With("source", source)

	ds, n, err := ParseReader(ctx, r, opts)
	if err != nil {
		return ParseRun{}, fmt.Errorf("parse %s: %w", source, err)
	}
	if n == 0 {
		return ParseRun{}, fmt.Errorf("parse %s: %w", source, ErrEmptyDump)
	}

	run := ParseRun{
		ID:          uuid.New().String(),
		Source:      source,
		StartedAt:   started,
		Duration:    time.Since(started),
		Bytes:       n,
		Fingerprint: ds.Fingerprint(),
		Stats:       ds.Stats(),
	}

	s.mu.Lock()
	s.current = ds
	s.runs = append(s.runs, run)
	if len(s.runs) > s.historySize {
		s.runs = s.runs[len(s.runs)-s.historySize:]
	}
	s.mu.Unlock()

	slog.Info("dump loaded",
		"run_id", run.ID,
		"source", source,
		"bytes", n,
		"rows", run.Stats.DataRows,
		"tables", len(run.Stats.RowsByTable),
		"duration_ms", run.Duration.Milliseconds(),
	)
	return run, nil
}

// LoadFile opens path and loads it. The run source is the file's base name.
func (s *Service) LoadFile(ctx context.Context, path string) (ParseRun, error) {
	f, err := os.Open(path)
	if err != nil {
		return ParseRun{}, fmt.Errorf("open dump: %w", err)
	}
	defer f.Close()
	return s.Load(ctx, filepath.Base(path), f)
}

// LoadText loads an in-memory dump.
func (s *Service) LoadText(ctx context.Context, source, text string) (ParseRun, error) {
	return s.Load(ctx, source, strings.NewReader(text))
}

// Current returns the active dataset or ErrNoDataset.
func (s *Service) Current() (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNoDataset
	}
	return s.current, nil
}

// LastRun returns the most recent successful run.
func (s *Service) LastRun() (ParseRun, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.runs) == 0 {
		return ParseRun{}, false
	}
	return s.runs[len(s.runs)-1], true
}

// Runs returns the retained parse runs, newest first.
func (s *Service) Runs() []ParseRun {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ParseRun, len(s.runs))
	for i, r := range s.runs {
		out[len(s.runs)-1-i] = r
	}
	return out
}

// Rows returns a page of rows of the current dataset.
// A negative limit means all remaining rows.
func (s *Service) Rows(table string, offset, limit int) ([]Row, int, error) {
	ds, err := s.Current()
	if err != nil {
		return nil, 0, err
	}
	if !ds.Has(table) {
		return nil, 0, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	total := ds.Len(table)
	if offset < 0 {
		offset = 0
	}
	end := total
	if limit >= 0 && limit < total-offset {
		end = offset + limit
	}

	page := make([]Row, 0, max(end-offset, 0))
	ds.Each(table, func(i int, row Row) bool {
		if i >= end {
			return false
		}
		if i >= offset {
			page = append(page, row.clone())
		}
		return true
	})
	return page, total, nil
}

// Aggregate runs Aggregate against the current dataset.
func (s *Service) Aggregate(table string) (Aggregations, error) {
	ds, err := s.Current()
	if err != nil {
		return nil, err
	}
	return Aggregate(ds, table)
}

// CountBy runs CountBy against the current dataset.
func (s *Service) CountBy(table, column string) ([]CategoryCount, error) {
	ds, err := s.Current()
	if err != nil {
		return nil, err
	}
	return CountBy(ds, table, column)
}

// LimiterStatus reports parse slot usage.
func (s *Service) LimiterStatus() ParseLimiterStatus {
	return s.limiter.Status()
}

// WaitForParses blocks until in-flight parses finish or ctx ends.
// Call during shutdown.
func (s *Service) WaitForParses(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
