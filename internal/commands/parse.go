package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bfxledger/internal/config"
	"github.com/cleared-dev/bfxledger/internal/diag"
	"github.com/cleared-dev/bfxledger/internal/encoding"
	"github.com/cleared-dev/bfxledger/internal/ledger"
	"github.com/cleared-dev/bfxledger/internal/logging"
	"github.com/cleared-dev/bfxledger/internal/model"
)

// stdio names standard input or output in place of a path.
const stdio = "-"

type parseFlags struct {
	outFile      string
	format       string
	formatAlias  string
	logLevel     string
	noColor      bool
	unmatchedOut string
}

func newParseCommand(configPath *string) *cobra.Command {
	var f parseFlags

	cmd := &cobra.Command{
		Use:   "bfxledger <source>",
		Short: "Classify a Bitfinex ledger export",
		Long: "Reads a Bitfinex ledger CSV export (\"-\" for stdin), classifies every row by its\n" +
			"description and writes the records as one YAML or JSON list. Rows no pattern\n" +
			"matches are reported on stderr and left out of the document.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			applyParseFlags(cmd, cfg, f)
			return runParse(cmd, cfg, args[0], f.outFile)
		},
	}

	cmd.Flags().StringVarP(&f.outFile, "out-file", "o", stdio, "output file")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format: json or yaml (default yaml)")
	cmd.Flags().StringVarP(&f.formatAlias, "to", "t", "", "alias for --format")
	_ = cmd.Flags().MarkHidden("to")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error (default warn)")
	cmd.Flags().BoolVar(&f.noColor, "no-color", false, "disable colored diagnostics")
	cmd.Flags().StringVar(&f.unmatchedOut, "unmatched-out", "", "also append unmatched rows to this CSV file")

	return cmd
}

// applyParseFlags overrides config values with the flags given on the command line.
func applyParseFlags(cmd *cobra.Command, cfg *config.Config, f parseFlags) {
	flags := cmd.Flags()
	if flags.Changed("to") {
		cfg.Format = f.formatAlias
	}
	if flags.Changed("format") {
		cfg.Format = f.format
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if flags.Changed("no-color") {
		cfg.Color = !f.noColor
	}
	if flags.Changed("unmatched-out") {
		cfg.UnmatchedOut = f.unmatchedOut
	}
}

func runParse(cmd *cobra.Command, cfg *config.Config, source, outFile string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, _ := logging.ParseLevel(cfg.LogLevel)
	logging.Init(cmd.ErrOrStderr(), level)

	cat, err := cfg.Catalog()
	if err != nil {
		return fmt.Errorf("building catalog: %w", err)
	}
	slog.Debug("catalog ready", "entries", cat.Len())

	codec, err := encoding.DefaultRegistry().Lookup(cfg.Format)
	if err != nil {
		return err
	}

	// Open both ends before reading a single row.
	in, closeIn, err := openSource(cmd, source)
	if err != nil {
		return err
	}
	defer closeIn()

	out, closeOut, err := openOutput(cmd, outFile)
	if err != nil {
		return err
	}

	var reportOpts []diag.Option
	if !cfg.Color {
		reportOpts = append(reportOpts, diag.WithColor(false))
	}
	var sink *diag.CSVSink
	if cfg.UnmatchedOut != "" {
		sink, err = diag.OpenCSV(cfg.UnmatchedOut)
		if err != nil {
			closeOut()
			return err
		}
		reportOpts = append(reportOpts, diag.WithCSV(sink))
	}
	reporter := diag.NewReporter(cmd.ErrOrStderr(), reportOpts...)

	cur := ledger.Load(in, cat, ledger.WithUnmatched(reporter.Report))
	var src encoding.Source = cur
	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		src = tracedSource{cur}
	}
	n, encErr := codec.Encode(out, src)

	if err := closeOut(); err != nil && encErr == nil {
		encErr = fmt.Errorf("closing output: %w", err)
	}
	if sink != nil {
		if err := sink.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		}
	}
	if err := reporter.Err(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
	if encErr != nil {
		return fmt.Errorf("classifying %s: %w", source, encErr)
	}

	st := cur.Stats()
	slog.Info("classified ledger", "source", source, "rows", st.Rows, "written", n, "unmatched", st.Unmatched)
	return nil
}

// tracedSource logs each record on its way to the encoder.
type tracedSource struct {
	*ledger.Cursor
}

func (s tracedSource) Record() model.Classified {
	rec := s.Cursor.Record()
	attrs := []any{"type", rec.Type}
	if ts, err := rec.Time(); err == nil {
		attrs = append(attrs, "date", ts)
	}
	if amount, err := rec.Meta.Decimal("amount"); err == nil {
		attrs = append(attrs, "amount", amount)
	}
	slog.Debug("classified record", attrs...)
	return rec
}

func openSource(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == stdio {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening source: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == stdio {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening output: %w", err)
	}
	return f, f.Close, nil
}
