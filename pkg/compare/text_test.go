package compare

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sdejongh/filecompare/pkg/models"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func makePair(t *testing.T, dir, nameA, contentA, nameB, contentB string) models.Pair {
	t.Helper()
	pathA := writeTemp(t, dir, nameA, contentA)
	pathB := writeTemp(t, dir, nameB, contentB)
	a := &models.FileEntry{AbsolutePath: pathA, RelativePath: nameA, Type: models.Text}
	b := &models.FileEntry{AbsolutePath: pathB, RelativePath: nameB, Type: models.Text}
	return models.NewPair(a, b, 1.0)
}

// Scenario 1: identical text folders.
func TestTextComparatorIdenticalFiles(t *testing.T) {
	dir := t.TempDir()
	pair := makePair(t, dir, "a.txt", "x\ny\n", "b.txt", "x\ny\n")

	cfg := models.DefaultCompareConfig()
	c := NewTextComparator(cfg, nil)
	result := c.Compare(context.Background(), pair)

	if result.Kind != models.KindText {
		t.Fatalf("Kind = %v, want KindText", result.Kind)
	}
	tr := result.Text
	if tr.LinesA != 2 || tr.LinesB != 2 {
		t.Errorf("LinesA/LinesB = %d/%d, want 2/2", tr.LinesA, tr.LinesB)
	}
	if tr.Common != 2 || tr.OnlyA != 0 || tr.OnlyB != 0 {
		t.Errorf("Common/OnlyA/OnlyB = %d/%d/%d, want 2/0/0", tr.Common, tr.OnlyA, tr.OnlyB)
	}
	if !tr.Identical {
		t.Error("expected Identical = true")
	}
	if tr.Similarity != 1.0 {
		t.Errorf("Similarity = %v, want 1.0", tr.Similarity)
	}
}

// Scenario 6: regex-elided timestamps.
func TestTextComparatorIgnoreRegexElidesDifferences(t *testing.T) {
	dir := t.TempDir()
	pair := makePair(t, dir,
		"a.log", "2024-01-01T00:00:00Z started\n2024-01-01T00:00:01Z finished\n",
		"b.log", "2024-06-15T09:30:00Z started\n2024-06-15T09:30:01Z finished\n",
	)

	cfg := models.DefaultCompareConfig()
	cfg.IgnoreRegex = `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z`
	c := NewTextComparator(cfg, nil)
	result := c.Compare(context.Background(), pair)

	if !result.Text.Identical {
		t.Error("expected Identical = true once timestamps are elided")
	}
}

func TestTextComparatorInvalidRegexDegradesGracefully(t *testing.T) {
	dir := t.TempDir()
	pair := makePair(t, dir, "a.txt", "hello\n", "b.txt", "hello\n")

	cfg := models.DefaultCompareConfig()
	cfg.IgnoreRegex = `(unterminated[`
	c := NewTextComparator(cfg, nil)

	if !c.regexDegraded {
		t.Fatal("expected regexDegraded = true for an invalid pattern")
	}
	result := c.Compare(context.Background(), pair)
	if result.Kind != models.KindText {
		t.Errorf("Kind = %v, want KindText even with a degraded regex", result.Kind)
	}
}

func TestTextComparatorReportsAlgorithmUsed(t *testing.T) {
	dir := t.TempDir()
	pair := makePair(t, dir, "a.txt", "one\ntwo\n", "b.txt", "one\nthree\n")

	cfg := models.DefaultCompareConfig()
	cfg.SimilarityAlgorithm = models.AlgoJaccardTokens
	c := NewTextComparator(cfg, nil)
	result := c.Compare(context.Background(), pair)

	if result.Text.AlgorithmUsed != string(models.AlgoJaccardTokens) {
		t.Errorf("AlgorithmUsed = %q, want %q", result.Text.AlgorithmUsed, models.AlgoJaccardTokens)
	}
}

func TestTextComparatorMissingFileProducesErrorResult(t *testing.T) {
	dir := t.TempDir()
	pathB := writeTemp(t, dir, "b.txt", "hello\n")
	a := &models.FileEntry{AbsolutePath: filepath.Join(dir, "missing.txt"), RelativePath: "missing.txt", Type: models.Text}
	b := &models.FileEntry{AbsolutePath: pathB, RelativePath: "b.txt", Type: models.Text}
	pair := models.NewPair(a, b, 0)

	c := NewTextComparator(models.DefaultCompareConfig(), nil)
	result := c.Compare(context.Background(), pair)

	if result.Kind != models.KindError {
		t.Fatalf("Kind = %v, want KindError for a missing file", result.Kind)
	}
	if result.Error.Kind != models.ErrorKindIo {
		t.Errorf("Error.Kind = %v, want ErrorKindIo", result.Error.Kind)
	}
}

func TestTextComparatorCapsDiffPayload(t *testing.T) {
	dir := t.TempDir()
	pair := makePair(t, dir, "a.txt", "one\n", "b.txt", "two\n")

	cfg := models.DefaultCompareConfig()
	cfg.MaxDiffBytes = 3
	c := NewTextComparator(cfg, nil)
	result := c.Compare(context.Background(), pair)

	if !result.Text.DiffTruncated {
		t.Error("expected DiffTruncated = true when the payload exceeds max_diff_bytes")
	}
	if len(result.Text.DetailedDiff) != 3 {
		t.Errorf("len(DetailedDiff) = %d, want 3", len(result.Text.DetailedDiff))
	}
}
