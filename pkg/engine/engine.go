// Package engine orchestrates the full Index -> Fingerprint -> Pair ->
// Compare pipeline across two roots and produces a run summary plus the
// per-pair comparison stream.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/sdejongh/filecompare/pkg/compare"
	"github.com/sdejongh/filecompare/pkg/fingerprint"
	"github.com/sdejongh/filecompare/pkg/index"
	"github.com/sdejongh/filecompare/pkg/logging"
	"github.com/sdejongh/filecompare/pkg/match"
	"github.com/sdejongh/filecompare/pkg/models"
	"github.com/sdejongh/filecompare/pkg/storage"
)

// defaultFingerprintRAMFraction and defaultFingerprintCap set the
// dynamic max_fingerprint_size default when the configuration leaves it
// unset: 5% of total system RAM, capped at 2 GiB.
const (
	defaultFingerprintRAMFraction = 0.05
	defaultFingerprintCap         = 2 << 30
)

// Engine wires the four pipeline stages together with the worker counts
// and results-directory policy of one run.
type Engine struct {
	Config *models.CompareConfig
	Logger logging.Logger

	FingerprintWorkers int
	MatchWorkers       int
	CompareWorkers     int

	// ResultsBase, when non-empty, causes Run to create a UUID-named
	// subdirectory under it and return its path for report export.
	ResultsBase string
}

// New builds an Engine with sane worker-count defaults.
func New(cfg *models.CompareConfig, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Engine{
		Config:             cfg,
		Logger:             logger,
		FingerprintWorkers: 8,
		MatchWorkers:       8,
		CompareWorkers:     8,
	}
}

// RunResult is everything Run produces for one invocation.
type RunResult struct {
	Summary    models.Summary
	Results    []models.ComparisonResult
	ResultsDir string // empty when ResultsBase is unset
	RunID      string
}

// Run executes the full pipeline for two roots, streaming progress to
// observer (a models.NoopObserver{} is substituted when nil).
func (e *Engine) Run(ctx context.Context, rootA, rootB string, observer models.ProgressObserver) (*RunResult, error) {
	if observer == nil {
		observer = models.NoopObserver{}
	}
	start := time.Now()

	runID := uuid.NewString()
	e.Logger = logging.ForRun(e.Logger, runID)
	resultsDir := ""
	if e.ResultsBase != "" {
		resultsDir = filepath.Join(e.ResultsBase, runID)
		if err := os.MkdirAll(resultsDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating results directory: %w", err)
		}
	}

	if e.Config.MaxFingerprintSize == 0 {
		e.Config.MaxFingerprintSize = dynamicFingerprintCap(e.Logger)
	}

	sideA, err := e.indexAndFingerprint(ctx, rootA, observer)
	if err != nil {
		return nil, fmt.Errorf("indexing %s: %w", rootA, err)
	}
	sideB, err := e.indexAndFingerprint(ctx, rootB, observer)
	if err != nil {
		return nil, fmt.Errorf("indexing %s: %w", rootB, err)
	}

	generator := match.New(e.Config, e.MatchWorkers, observer)
	pairs := generator.Generate(sideA, sideB)

	results := e.compareAll(ctx, pairs, observer)

	var summary models.Summary
	summary.TotalA = len(sideA)
	summary.TotalB = len(sideB)
	for i := range results {
		summary.Accumulate(&results[i])
		summary.BytesProcessed += pairs[i].A.Size + pairs[i].B.Size
	}
	summary.Finalize()
	summary.Elapsed = time.Since(start)
	summary.PeakRSSBytes = peakRSS()

	sort.Slice(results, func(i, j int) bool { return results[i].LinkID < results[j].LinkID })

	return &RunResult{Summary: summary, Results: results, ResultsDir: resultsDir, RunID: runID}, nil
}

// indexAndFingerprint runs the Indexer then the Fingerprinter for one
// root, wiring both through the same storage.Backend when root is a
// directory (a single-file root has no backend and falls back to a
// direct-open read inside the fingerprinter).
func (e *Engine) indexAndFingerprint(ctx context.Context, root string, observer models.ProgressObserver) ([]models.FileEntry, error) {
	ix := index.New(e.Config.ExcludePatterns, logging.ForStage(e.Logger, string(models.StageIndexing)), observer)
	entries, err := ix.Index(ctx, root)
	if err != nil {
		return nil, err
	}

	fp := fingerprint.New(e.Config.TextNormalization, e.Config.MaxFingerprintSize, e.FingerprintWorkers, logging.ForStage(e.Logger, string(models.StageFingerprinting)), observer)
	if backend, err := storage.NewLocal(root); err == nil {
		fp.Backend = backend
		defer backend.Close()
	}

	return fp.Fingerprint(ctx, entries), nil
}

// compareAll dispatches every pair to the comparator selected by its
// resolved mode, bounding concurrency with a semaphore.
func (e *Engine) compareAll(ctx context.Context, pairs []models.Pair, observer models.ProgressObserver) []models.ComparisonResult {
	dispatcher := compare.NewDispatcher(e.Config, logging.ForStage(e.Logger, string(models.StageComparing)))

	results := make([]models.ComparisonResult, len(pairs))
	sem := make(chan struct{}, e.CompareWorkers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var done int64

	for i, p := range pairs {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, pair models.Pair) {
			defer wg.Done()
			defer func() { <-sem }()

			results[idx] = dispatcher.Compare(ctx, pair)

			mu.Lock()
			done++
			n := done
			mu.Unlock()
			observer.Observe(models.NewProgressEvent(models.StageComparing, pair.LinkID, n, int64(len(pairs))))
		}(i, p)
	}
	wg.Wait()

	return results
}

// dynamicFingerprintCap computes 5% of total system RAM, capped at 2
// GiB, falling back to the cap itself when RAM cannot be read.
func dynamicFingerprintCap(logger logging.Logger) int64 {
	vm, err := mem.VirtualMemory()
	if err != nil {
		logger.Warn(context.Background(), "failed to read system memory, using fixed fingerprint cap", logging.Fields{"error": err.Error()})
		return defaultFingerprintCap
	}
	limit := int64(float64(vm.Total) * defaultFingerprintRAMFraction)
	if limit <= 0 || limit > defaultFingerprintCap {
		return defaultFingerprintCap
	}
	return limit
}

// peakRSS reports the current process's resident set size, best-effort.
func peakRSS() uint64 {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0
	}
	info, err := proc.MemoryInfo()
	if err != nil || info == nil {
		return 0
	}
	return info.RSS
}
