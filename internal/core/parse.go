package core

// parse.go drives the scanner and assembler over a whole dump.
//
// Parsing is synchronous, single-pass and total: every input produces a
// (possibly degraded) Dataset. The only errors come from reading an
// io.Reader in ParseReader, before the parse body starts.

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/zeebo/xxh3"
)

// Options configures a parse call.
type Options struct {
	// Schema is the dump schema whose COPY blocks are collected.
	Schema string

	// Encoding of the input for ParseReader: "utf-8" (default) or "latin1".
	Encoding string

	// MaxBytes caps how much ParseReader reads. 0 means unlimited.
	MaxBytes int64

	// Logger receives the parse summary. Defaults to slog.Default().
	Logger *slog.Logger
}

// Parse converts dump text into a Dataset using the default schema.
//
// Column layouts come from the registry, which is filled by importing
// internal/core/tables (usually as a blank import). Without it every table
// is unregistered and its rows carry no columns.
func Parse(text string) *Dataset {
	return ParseWithOptions(text, Options{})
}

// ParseWithOptions converts dump text into a Dataset.
func ParseWithOptions(text string, opts Options) *Dataset {
	sc := NewScanner(ScannerOptions{Schema: opts.Schema})
	asm := NewAssembler()
	stats := &asm.ds.stats

	for _, raw := range Lines(text) {
		line := sc.Feed(raw)
		stats.Lines++

		switch line.Kind {
		case LineBlank, LineComment, LineKeyword:
			stats.SkippedLines++
		case LineBlockStart:
			stats.Blocks++
		case LineData:
			asm.Append(line.Table, line.Fields)
		case LineBlockEnd:
			// state already reset by the scanner
		case LineInsert:
			// Recognized only. Single-row INSERT decoding is not implemented.
			stats.InsertStatements++
		case LineIgnored:
			stats.IgnoredLines++
		}
	}

	stats.Unterminated = sc.OpenTable()

	ds := asm.Finalize()
	ds.fingerprint = Fingerprint([]byte(text))

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if ds.stats.Unterminated != "" {
		logger.Warn("dump ended inside a COPY block",
			"table", ds.stats.Unterminated,
		)
	}
	logger.Debug("dump parsed",
		"lines", ds.stats.Lines,
		"blocks", ds.stats.Blocks,
		"rows", ds.stats.DataRows,
		"unknown_tables", len(ds.stats.UnknownTables),
		"nan_fields", ds.stats.NaNFields,
		"json_fallbacks", ds.stats.JSONFallbacks,
		"inserts", ds.stats.InsertStatements,
	)

	return ds
}

// ParseReader reads the whole input, normalizes it (BOM, encoding, invalid
// UTF-8) and parses it. Errors are I/O errors only.
func ParseReader(ctx context.Context, r io.Reader, opts Options) (*Dataset, int64, error) {
	wrapped, err := WrapForParsing(ctx, r, opts.Encoding, opts.MaxBytes)
	if err != nil {
		return nil, 0, err
	}

	data, err := io.ReadAll(wrapped)
	if err != nil {
		return nil, wrapped.BytesRead, fmt.Errorf("read dump: %w", err)
	}

	return ParseWithOptions(string(data), opts), wrapped.BytesRead, nil
}

// Fingerprint hashes dump content for change detection and HTTP ETags.
func Fingerprint(data []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(data))
}
