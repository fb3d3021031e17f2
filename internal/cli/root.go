// Package cli provides the pimpoyo command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/pimpoyo/internal/config"
	"github.com/JonMunkholm/pimpoyo/internal/core"
	"github.com/JonMunkholm/pimpoyo/internal/logging"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// options are shared by every subcommand. Flags override the environment.
type options struct {
	cfg      *config.Config
	schema   string
	encoding string
	logLevel string
	logger   *slog.Logger
}

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "pimpoyo",
		Short: "Parse Pimpoyo PostgreSQL dumps",
		Long: `pimpoyo reads a pg_dump text file of the pimpoyo schema and turns its
COPY blocks into typed tables. It can summarize a dump, print rows and copy
the parsed tables into PostgreSQL or SQLite.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			return opts.load(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	root.PersistentFlags().StringVar(&opts.schema, "schema", "", "dump schema to collect (default: DUMP_SCHEMA or pimpoyo)")
	root.PersistentFlags().StringVar(&opts.encoding, "encoding", "", "dump encoding: utf-8 or latin1 (default: DUMP_ENCODING)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (default: LOG_LEVEL)")

	root.AddCommand(newVersionCommand())
	root.AddCommand(newTablesCommand(opts))
	root.AddCommand(newSummaryCommand(opts))
	root.AddCommand(newRowsCommand(opts))
	root.AddCommand(newExportCommand(opts))

	return root
}

// load reads the environment configuration and applies flag overrides.
// Logs go to stderr so stdout stays machine-readable.
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if o.schema != "" {
		cfg.Dump.Schema = o.schema
	}
	if o.encoding != "" {
		enc, err := core.NormalizeEncoding(o.encoding)
		if err != nil {
			return err
		}
		cfg.Dump.Encoding = enc
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}

	o.cfg = cfg
	o.logger = logging.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(o.logger)
	return nil
}

// parseDump reads and parses path; "-" reads the command's stdin.
func (o *options) parseDump(cmd *cobra.Command, path string) (*core.Dataset, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open dump: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	ds, n, err := core.ParseReader(ctx, r, core.Options{
		Schema:   o.cfg.Dump.Schema,
		Encoding: o.cfg.Dump.Encoding,
		MaxBytes: o.cfg.Dump.MaxFileSize,
		Logger:   o.logger,
	})
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, core.ErrEmptyDump
	}
	return ds, nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the pimpoyo version and the commit it was built from.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "pimpoyo v%s (%s)\n", Version, GitCommit)
		},
	}
}
