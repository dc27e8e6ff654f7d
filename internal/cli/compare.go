package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sdejongh/filecompare/pkg/config"
	"github.com/sdejongh/filecompare/pkg/engine"
	"github.com/sdejongh/filecompare/pkg/logging"
	"github.com/sdejongh/filecompare/pkg/models"
	"github.com/sdejongh/filecompare/pkg/progress"
	"github.com/sdejongh/filecompare/pkg/report"
)

// exit codes per the command-line contract.
const (
	exitNoDifferences = 0
	exitDifferences   = 1
	exitAborted       = 2
	exitInvalidArgs   = 3
)

type compareFlags struct {
	mode             string
	pairing          string
	topK             int
	maxPairs         int
	keyColumns       []string
	numericTolerance float64
	similarity       string
	exclude          []string
	ignoreColumns    []string
	ignoreRegex      string
	ignoreEOL        bool
	ignoreTrailingWS bool
	ignoreAllWS      bool
	ignoreCase       bool
	skipEmptyLines   bool
	maxDiffBytes     int64
	outJSONL         string
	outCSV           string
	outDir           string
	resultsBase      string
	configPath       string
}

// NewCompareCommand builds the `compare <path_a> <path_b>` subcommand.
func NewCompareCommand() *cobra.Command {
	var f compareFlags

	cmd := &cobra.Command{
		Use:   "compare <path_a> <path_b>",
		Short: "Compare two directory trees or files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, args, &f)
		},
		SilenceUsage: true,
	}

	flags := cmd.Flags()
	flags.StringVar(&f.mode, "mode", string(models.ModeAuto), "auto, force-text, or force-structured")
	flags.StringVar(&f.pairing, "pairing", string(models.PairingAllVsAll), "same-path, same-name, or all-vs-all")
	flags.IntVar(&f.topK, "topk", 3, "top-K candidates retained per left-side entry")
	flags.IntVar(&f.maxPairs, "max-pairs", 0, "global cap on generated pairs (0 = unbounded)")
	flags.StringSliceVar(&f.keyColumns, "key", nil, "composite key columns for structured comparison")
	flags.Float64Var(&f.numericTolerance, "numeric-tol", 0.0001, "numeric equality tolerance")
	flags.StringVar(&f.similarity, "similarity", string(models.AlgoLineDiff), "text similarity algorithm")
	flags.StringSliceVar(&f.exclude, "exclude", nil, "glob exclude patterns")
	flags.StringSliceVar(&f.ignoreColumns, "ignore-columns", nil, "columns excluded from structured comparison")
	flags.StringVar(&f.ignoreRegex, "ignore-regex", "", "regex whose matches are elided before text comparison")
	flags.BoolVar(&f.ignoreEOL, "ignore-eol", false, "ignore end-of-line differences")
	flags.BoolVar(&f.ignoreTrailingWS, "ignore-trailing-ws", false, "ignore trailing whitespace")
	flags.BoolVar(&f.ignoreAllWS, "ignore-all-ws", false, "collapse all whitespace runs")
	flags.BoolVar(&f.ignoreCase, "ignore-case", false, "case-insensitive text comparison")
	flags.BoolVar(&f.skipEmptyLines, "skip-empty-lines", false, "skip blank lines")
	flags.Int64Var(&f.maxDiffBytes, "max-diff-bytes", 1<<20, "cap on a unified-diff payload")
	flags.StringVar(&f.outJSONL, "out-jsonl", "", "write results.jsonl to this path")
	flags.StringVar(&f.outCSV, "out-csv", "", "write summary.csv to this path")
	flags.StringVar(&f.outDir, "out-dir", "", "write the full persisted result layout to this directory")
	flags.StringVar(&f.resultsBase, "results-base", "", "base directory under which a run-scoped subdirectory is created")
	flags.StringVar(&f.configPath, "config", "", "YAML configuration file (defaults to ~/.config/filecompare/config.yaml if present)")

	return cmd
}

func runCompare(cmd *cobra.Command, args []string, f *compareFlags) error {
	fileCfg, err := loadFileConfig(f.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid arguments: %v\n", err)
		os.Exit(exitInvalidArgs)
		return nil
	}

	cfg, err := buildCompareConfig(cmd, f, fileCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid arguments: %v\n", err)
		os.Exit(exitInvalidArgs)
		return nil
	}

	logger := loggerFromConfig(&fileCfg.Logging)

	var observer models.ProgressObserver = models.NoopObserver{}
	if global.Verbose || (fileCfg.Output.Progress && !fileCfg.Output.Quiet) {
		if fileCfg.Output.Format == "json" {
			observer = progress.NewJSONObserver(os.Stderr)
		} else {
			observer = progress.NewHumanObserver(os.Stderr)
		}
	}

	eng := engine.New(cfg, logger)
	eng.ResultsBase = f.resultsBase
	if f.resultsBase == "" {
		eng.ResultsBase = fileCfg.Output.ResultsDir
	}
	if fileCfg.Performance.FingerprintWorkers > 0 {
		eng.FingerprintWorkers = fileCfg.Performance.FingerprintWorkers
	}
	if fileCfg.Performance.MatchWorkers > 0 {
		eng.MatchWorkers = fileCfg.Performance.MatchWorkers
	}
	if fileCfg.Performance.CompareWorkers > 0 {
		eng.CompareWorkers = fileCfg.Performance.CompareWorkers
	}
	if fileCfg.Performance.MaxFingerprintSize > 0 {
		cfg.MaxFingerprintSize = fileCfg.Performance.MaxFingerprintSize
	}

	result, err := eng.Run(context.Background(), args[0], args[1], observer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "comparison aborted: %v\n", err)
		os.Exit(exitAborted)
		return nil
	}

	if err := writeOutputs(f, result); err != nil {
		fmt.Fprintf(os.Stderr, "comparison aborted: %v\n", err)
		os.Exit(exitAborted)
		return nil
	}

	printSummary(&result.Summary)

	if result.Summary.Different > 0 || result.Summary.Errors > 0 {
		os.Exit(exitDifferences)
	}
	os.Exit(exitNoDifferences)
	return nil
}

// loadFileConfig loads the ambient config.Config for the run: an
// explicit --config path if given, otherwise the default location if
// one exists, otherwise the documented defaults. Its Compare section
// seeds buildCompareConfig; flags the caller actually typed still win.
func loadFileConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.LoadDefault()
}

// loggerFromConfig builds the run logger per the loaded configuration's
// logging section. A file path enables a rotating file logger; without
// one, structured logging has nowhere safe to write (stdout/stderr are
// reserved for progress and the summary) so it falls back to a no-op.
func loggerFromConfig(lc *config.LoggingConfig) logging.Logger {
	if lc == nil || !lc.Enabled || lc.File == "" {
		return logging.NewNullLogger()
	}
	format := logging.FormatJSON
	if lc.Format == "text" {
		format = logging.FormatText
	}
	fl, err := logging.NewFileLogger(logging.FileLoggerConfig{
		Path:       lc.File,
		Format:     format,
		Level:      logging.ParseLevel(lc.Level),
		MaxSize:    logging.DefaultMaxSize,
		MaxBackups: logging.DefaultMaxBackups,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v\n", lc.File, err)
		return logging.NewNullLogger()
	}
	return fl
}

// buildCompareConfig starts from the loaded file/default configuration
// and layers on only the flags the invocation explicitly set, so an
// unset flag never clobbers a value from --config.
func buildCompareConfig(cmd *cobra.Command, f *compareFlags, fileCfg *config.Config) (*models.CompareConfig, error) {
	cfg := fileCfg.Compare
	changed := cmd.Flags().Changed

	if changed("mode") {
		mode := models.CompareMode(f.mode)
		switch mode {
		case models.ModeAuto, models.ModeForceText, models.ModeForceStructured:
			cfg.Mode = mode
		default:
			return nil, fmt.Errorf("unrecognized --mode %q", f.mode)
		}
	}

	if changed("pairing") {
		pairing := models.PairingStrategy(f.pairing)
		switch pairing {
		case models.PairingSamePath, models.PairingSameName, models.PairingAllVsAll:
			cfg.Pairing = pairing
		default:
			return nil, fmt.Errorf("unrecognized --pairing %q", f.pairing)
		}
	}

	if changed("topk") {
		cfg.TopK = f.topK
	}
	if changed("max-pairs") {
		cfg.MaxPairs = f.maxPairs
	}
	if changed("key") {
		cfg.KeyColumns = f.keyColumns
	}
	if changed("numeric-tol") {
		cfg.NumericTolerance = f.numericTolerance
	}
	if changed("similarity") {
		cfg.SimilarityAlgorithm = models.SimilarityAlgorithm(f.similarity)
	}
	if changed("exclude") {
		cfg.ExcludePatterns = f.exclude
	}
	if changed("ignore-columns") {
		cfg.IgnoreColumns = f.ignoreColumns
	}
	if changed("ignore-regex") {
		cfg.IgnoreRegex = f.ignoreRegex
	}
	if changed("max-diff-bytes") {
		cfg.MaxDiffBytes = f.maxDiffBytes
	}
	if changed("ignore-eol") {
		cfg.TextNormalization.IgnoreEOL = f.ignoreEOL
	}
	if changed("ignore-trailing-ws") {
		cfg.TextNormalization.IgnoreTrailingWS = f.ignoreTrailingWS
	}
	if changed("ignore-all-ws") {
		cfg.TextNormalization.IgnoreAllWS = f.ignoreAllWS
	}
	if changed("ignore-case") {
		cfg.TextNormalization.IgnoreCase = f.ignoreCase
	}
	if changed("skip-empty-lines") {
		cfg.TextNormalization.SkipEmptyLines = f.skipEmptyLines
	}

	return &cfg, nil
}

func writeOutputs(f *compareFlags, result *engine.RunResult) error {
	if f.outDir != "" {
		if err := report.New(f.outDir).WriteAll(result.Results); err != nil {
			return err
		}
	}
	if result.ResultsDir != "" {
		if err := report.New(result.ResultsDir).WriteAll(result.Results); err != nil {
			return err
		}
	}
	if f.outJSONL != "" {
		if err := report.WriteJSONL(f.outJSONL, result.Results); err != nil {
			return err
		}
	}
	if f.outCSV != "" {
		if err := report.WriteSummaryCSV(f.outCSV, result.Results); err != nil {
			return err
		}
	}
	return nil
}

func printSummary(s *models.Summary) {
	bold := color.New(color.Bold)
	bold.Println("Comparison summary")
	fmt.Printf("  entries:     %d vs %d\n", s.TotalA, s.TotalB)
	fmt.Printf("  pairs:       %d\n", s.PairsCompared)
	fmt.Printf("  identical:   %d\n", s.Identical)
	fmt.Printf("  different:   %d\n", s.Different)
	fmt.Printf("  errors:      %d\n", s.Errors)
	fmt.Printf("  similarity:  avg %.4f, min %.4f, max %.4f\n", s.AvgSimilarity, s.MinSimilarity, s.MaxSimilarity)
	fmt.Printf("  elapsed:     %s\n", s.Elapsed)
}
