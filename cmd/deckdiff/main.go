package main

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"deckdiff/internal/config"
	"deckdiff/internal/deck"
	"deckdiff/internal/report"
)

const version = "1.0.0"

// configFile is the optional per-directory configuration file.
const configFile = ".deckdiff.yaml"

var (
	// Flags
	output       string
	contextLines int
	separators   bool
	showTime     bool
	noBrowser    bool
	verbose      bool

	// Logger
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "deckdiff [file1] [file2]",
	Short: "Compare two NASTRAN input decks",
	Long: `deckdiff compares two NASTRAN input decks and writes an HTML report.

It understands multi-file decks that use the INCLUDE directive. The
executive and case control sections are compared line by line; the bulk
data section is compared record by record, so re-ordered records and
different continuation-line splittings of the same record do not show up
as differences.`,
	Args:    cobra.ExactArgs(2),
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runDiff,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "HTML output path (default: diff-<timestamp>.html)")
	rootCmd.Flags().IntVarP(&contextLines, "context", "C", -1, "Lines of context in the section diffs (negative: full display)")
	rootCmd.Flags().BoolVarP(&separators, "separators", "s", false, "Draw field separators in the bulk data diff")
	rootCmd.Flags().BoolVar(&showTime, "time", false, "Print the wall time taken by the diff")
	rootCmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Don't open the report in the system browser")
}

func runDiff(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	outPath := cfg.Output
	if outPath == "" {
		outPath = fmt.Sprintf("diff-%s.html", time.Now().Format("20060102150405"))
	}

	start := time.Now()
	d, err := deck.DiffDecks(args[0], args[1], nil, logger)
	if err != nil {
		return err
	}
	for _, diag := range d.Diags {
		logger.Warn("parse diagnostic", zap.String("diagnostic", diag.String()))
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	opts := report.Options{Separators: cfg.Separators, Context: cfg.ContextLines()}
	if err := report.Write(out, d, opts); err != nil {
		out.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := out.Close(); err != nil {
		return err
	}

	if showTime {
		fmt.Fprintf(cmd.OutOrStdout(), "Elapsed time: %v\n", time.Since(start))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", outPath)

	if cfg.LaunchBrowser {
		return launchBrowser(outPath)
	}
	return nil
}

// applyFlags lets explicitly set flags override the file/env configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("output") {
		cfg.Output = output
	}
	if cmd.Flags().Changed("context") {
		cfg.Context = contextLines
	}
	if cmd.Flags().Changed("separators") {
		cfg.Separators = separators
	}
	if noBrowser {
		cfg.LaunchBrowser = false
	}
}

func launchBrowser(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	logger.Info("launching system browser", zap.String("url", u.String()))
	return browser.OpenURL(u.String())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
