package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sdejongh/filecompare/pkg/logging"
	"github.com/sdejongh/filecompare/pkg/models"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", name, err)
	}
}

type collectingObserver struct {
	events []models.ProgressEvent
}

func (c *collectingObserver) Observe(e models.ProgressEvent) {
	c.events = append(c.events, e)
}

func TestEngineRunProducesResultsForIdenticalRoots(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	writeFile(t, rootA, "report.txt", "line one\nline two\nline three\n")
	writeFile(t, rootB, "report.txt", "line one\nline two\nline three\n")

	cfg := models.DefaultCompareConfig()
	cfg.Pairing = models.PairingSamePath
	e := New(cfg, logging.NewNullLogger())
	obs := &collectingObserver{}

	res, err := e.Run(context.Background(), rootA, rootB, obs)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Summary.TotalA != 1 || res.Summary.TotalB != 1 {
		t.Errorf("TotalA/TotalB = %d/%d, want 1/1", res.Summary.TotalA, res.Summary.TotalB)
	}
	if res.Summary.PairsCompared != 1 {
		t.Fatalf("PairsCompared = %d, want 1", res.Summary.PairsCompared)
	}
	if res.Summary.Identical != 1 {
		t.Errorf("Identical = %d, want 1 for byte-identical files", res.Summary.Identical)
	}
	if len(res.Results) != 1 {
		t.Fatalf("len(Results) = %d, want 1", len(res.Results))
	}
	if len(obs.events) == 0 {
		t.Error("expected progress events to have been emitted across the pipeline")
	}
	if res.RunID == "" {
		t.Error("expected a non-empty RunID")
	}
}

func TestEngineRunDetectsDifferences(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	writeFile(t, rootA, "report.txt", "line one\nline two\n")
	writeFile(t, rootB, "report.txt", "line one\nline CHANGED\n")

	cfg := models.DefaultCompareConfig()
	cfg.Pairing = models.PairingSamePath
	e := New(cfg, logging.NewNullLogger())

	res, err := e.Run(context.Background(), rootA, rootB, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Summary.Different != 1 {
		t.Errorf("Different = %d, want 1", res.Summary.Different)
	}
	if res.Results[0].Kind != models.KindText {
		t.Fatalf("Kind = %v, want KindText", res.Results[0].Kind)
	}
	if res.Results[0].Text.Identical {
		t.Error("expected Text.Identical = false for a changed line")
	}
}

func TestEngineRunWritesResultsUnderResultsBase(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	writeFile(t, rootA, "a.txt", "hello\n")
	writeFile(t, rootB, "a.txt", "hello\n")

	base := t.TempDir()
	cfg := models.DefaultCompareConfig()
	cfg.Pairing = models.PairingSamePath
	e := New(cfg, logging.NewNullLogger())
	e.ResultsBase = base

	res, err := e.Run(context.Background(), rootA, rootB, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.ResultsDir == "" {
		t.Fatal("expected a non-empty ResultsDir when ResultsBase is set")
	}
	if info, err := os.Stat(res.ResultsDir); err != nil || !info.IsDir() {
		t.Errorf("ResultsDir %q was not created as a directory: %v", res.ResultsDir, err)
	}
}

func TestEngineRunMissingRootIsFatal(t *testing.T) {
	rootA := filepath.Join(t.TempDir(), "does-not-exist")
	rootB := t.TempDir()

	e := New(models.DefaultCompareConfig(), logging.NewNullLogger())
	if _, err := e.Run(context.Background(), rootA, rootB, nil); err == nil {
		t.Error("expected an error when the first root does not exist")
	}
}
