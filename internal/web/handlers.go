package web

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/pimpoyo/internal/core"
	"github.com/JonMunkholm/pimpoyo/internal/web/templates"
)

// DefaultPageSize is the row limit when the request has none.
const DefaultPageSize = 100

// MaxPageSize caps the limit query parameter.
const MaxPageSize = 10000

// multipartMemory is the in-memory part of a multipart upload; the rest spills to disk.
const multipartMemory = 32 << 20

// RowsResponse is one page of table rows.
type RowsResponse struct {
	Table  string     `json:"table"`
	Total  int        `json:"total"`
	Offset int        `json:"offset"`
	Limit  int        `json:"limit"`
	Rows   []core.Row `json:"rows"`
}

// HealthResponse reports liveness and parse capacity.
type HealthResponse struct {
	Status        string                  `json:"status"`
	DatasetLoaded bool                    `json:"dataset_loaded"`
	Parses        core.ParseLimiterStatus `json:"parses"`
}

// parseIntParam parses a non-negative integer query parameter.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return defaultVal
	}
	return i
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	view := templates.DashboardView{
		Groups: core.Groups(),
		Tables: s.service.ListTablesByGroup(),
	}
	if run, ok := s.service.LastRun(); ok {
		view.Run = &run
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Dashboard(view).Render(r.Context(), w); err != nil {
		respondError(w, r, fmt.Errorf("render dashboard: %w", err), http.StatusInternalServerError)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_, err := s.service.Current()
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		DatasetLoaded: err == nil,
		Parses:        s.service.LimiterStatus(),
	})
}

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.ListTables())
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Runs())
}

// handleDataset returns the whole dataset. The fingerprint doubles as ETag.
func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	ds, err := s.service.Current()
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	etag := `"` + ds.Fingerprint() + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

func (s *Server) handleTableRows(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	offset := parseIntParam(r, "offset", 0)
	limit := min(parseIntParam(r, "limit", DefaultPageSize), MaxPageSize)

	rows, total, err := s.service.Rows(table, offset, limit)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, RowsResponse{
		Table:  table,
		Total:  total,
		Offset: offset,
		Limit:  limit,
		Rows:   rows,
	})
}

func (s *Server) handleAggregates(w http.ResponseWriter, r *http.Request) {
	aggs, err := s.service.Aggregate(chi.URLParam(r, "table"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, aggs)
}

func (s *Server) handleCountBy(w http.ResponseWriter, r *http.Request) {
	counts, err := s.service.CountBy(chi.URLParam(r, "table"), chi.URLParam(r, "column"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

// handleParse replaces the current dataset with the request's dump. The body
// is either the raw dump or a multipart form with a "file" part.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	if limit := s.cfg.Dump.MaxFileSize; limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit+multipartMemory)
	}

	src, source, err := dumpSource(r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	defer func() { _ = src.Close() }()

	run, err := s.service.Load(r.Context(), source, src)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusCreated, run)
}

// dumpSource returns the dump reader and a source label for the run history.
func dumpSource(r *http.Request) (io.ReadCloser, string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		source := r.URL.Query().Get("name")
		if source == "" {
			source = "request body"
		}
		return r.Body, source, nil
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, "", fmt.Errorf("read multipart form: %w", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", errNoFile, err)
	}
	return file, header.Filename, nil
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, "target")
	exp, ok := s.exporters[target]
	if !ok {
		err := fmt.Errorf("%w: no %q exporter", errExportNotConfigured, target)
		respondError(w, r, err, statusFor(err))
		return
	}

	ds, err := s.service.Current()
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	ctx := r.Context()
	if s.cfg.Export.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Export.Timeout)
		defer cancel()
	}

	result, err := exp.Export(ctx, ds)
	if err != nil {
		respondError(w, r, fmt.Errorf("export %s: %w", target, err), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}
