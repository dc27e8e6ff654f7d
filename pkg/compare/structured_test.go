package compare

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sdejongh/filecompare/pkg/models"
)

func structuredPair(t *testing.T, dir, nameA, contentA, nameB, contentB string) models.Pair {
	t.Helper()
	pathA := writeTemp(t, dir, nameA, contentA)
	pathB := writeTemp(t, dir, nameB, contentB)
	a := &models.FileEntry{AbsolutePath: pathA, RelativePath: nameA, Type: models.Structured, Delimiter: models.Comma}
	b := &models.FileEntry{AbsolutePath: pathB, RelativePath: nameB, Type: models.Structured, Delimiter: models.Comma}
	return models.NewPair(a, b, 1.0)
}

// Scenario 2: reordered CSV.
func TestStructuredComparatorReorderedRowsMatchByKey(t *testing.T) {
	dir := t.TempDir()
	pair := structuredPair(t, dir,
		"a.csv", "id,name\n1,alice\n2,bob\n",
		"b.csv", "id,name\n2,bob\n1,alice\n",
	)

	cfg := models.DefaultCompareConfig()
	cfg.KeyColumns = []string{"id"}
	c := NewStructuredComparator(cfg)
	result := c.Compare(context.Background(), pair)

	sr := result.Structured
	if sr.Common != 2 || sr.OnlyA != 0 || sr.OnlyB != 0 {
		t.Errorf("Common/OnlyA/OnlyB = %d/%d/%d, want 2/0/0", sr.Common, sr.OnlyA, sr.OnlyB)
	}
	if len(sr.FieldMismatches) != 0 {
		t.Errorf("expected no field mismatches, got %d", len(sr.FieldMismatches))
	}
	if !sr.Identical {
		t.Error("expected Identical = true for reordered but content-equal rows")
	}
}

// Scenario 3: numeric drift within tolerance.
func TestStructuredComparatorNumericToleranceSuppressesMismatch(t *testing.T) {
	dir := t.TempDir()
	pair := structuredPair(t, dir,
		"a.csv", "id,price\n1,1.000\n",
		"b.csv", "id,price\n1,0.9999\n",
	)

	cfg := models.DefaultCompareConfig()
	cfg.KeyColumns = []string{"id"}
	cfg.NumericTolerance = 0.001
	c := NewStructuredComparator(cfg)
	result := c.Compare(context.Background(), pair)

	if len(result.Structured.FieldMismatches) != 0 {
		t.Errorf("expected no field mismatches within tolerance, got %d", len(result.Structured.FieldMismatches))
	}
	if !result.Structured.Identical {
		t.Error("expected Identical = true within numeric tolerance")
	}
}

func TestStructuredComparatorOutsideToleranceRecordsMismatch(t *testing.T) {
	dir := t.TempDir()
	pair := structuredPair(t, dir,
		"a.csv", "id,price\n1,1.000\n",
		"b.csv", "id,price\n1,5.000\n",
	)

	cfg := models.DefaultCompareConfig()
	cfg.KeyColumns = []string{"id"}
	cfg.NumericTolerance = 0.001
	c := NewStructuredComparator(cfg)
	result := c.Compare(context.Background(), pair)

	if len(result.Structured.FieldMismatches) != 1 {
		t.Fatalf("expected one field mismatch, got %d", len(result.Structured.FieldMismatches))
	}
	if result.Structured.FieldMismatches[0].Column != "price" {
		t.Errorf("mismatch column = %q, want price", result.Structured.FieldMismatches[0].Column)
	}
	if result.Structured.Identical {
		t.Error("expected Identical = false outside tolerance")
	}
}

func TestStructuredComparatorMissingKeyColumnIsSchemaError(t *testing.T) {
	dir := t.TempDir()
	pair := structuredPair(t, dir,
		"a.csv", "id,name\n1,alice\n",
		"b.csv", "id,name\n1,alice\n",
	)

	cfg := models.DefaultCompareConfig()
	cfg.KeyColumns = []string{"nonexistent"}
	c := NewStructuredComparator(cfg)
	result := c.Compare(context.Background(), pair)

	if result.Kind != models.KindError {
		t.Fatalf("Kind = %v, want KindError", result.Kind)
	}
	if result.Error.Kind != models.ErrorKindSchema {
		t.Errorf("Error.Kind = %v, want ErrorKindSchema", result.Error.Kind)
	}
}

func TestStructuredComparatorRowOnlyOnOneSide(t *testing.T) {
	dir := t.TempDir()
	pair := structuredPair(t, dir,
		"a.csv", "id,name\n1,alice\n2,bob\n",
		"b.csv", "id,name\n1,alice\n",
	)

	cfg := models.DefaultCompareConfig()
	cfg.KeyColumns = []string{"id"}
	c := NewStructuredComparator(cfg)
	result := c.Compare(context.Background(), pair)

	sr := result.Structured
	if sr.Common != 1 || sr.OnlyA != 1 || sr.OnlyB != 0 {
		t.Errorf("Common/OnlyA/OnlyB = %d/%d/%d, want 1/1/0", sr.Common, sr.OnlyA, sr.OnlyB)
	}
	if sr.Identical {
		t.Error("expected Identical = false when a row is missing on one side")
	}
}

func TestStructuredComparatorIgnoresConfiguredColumns(t *testing.T) {
	dir := t.TempDir()
	pair := structuredPair(t, dir,
		"a.csv", "id,name,updated_at\n1,alice,2024-01-01\n",
		"b.csv", "id,name,updated_at\n1,alice,2024-06-01\n",
	)

	cfg := models.DefaultCompareConfig()
	cfg.KeyColumns = []string{"id"}
	cfg.IgnoreColumns = []string{"updated_at"}
	c := NewStructuredComparator(cfg)
	result := c.Compare(context.Background(), pair)

	if len(result.Structured.FieldMismatches) != 0 {
		t.Errorf("expected ignored column to suppress the mismatch, got %d", len(result.Structured.FieldMismatches))
	}
}

func TestStructuredComparatorMissingFileProducesIoError(t *testing.T) {
	dir := t.TempDir()
	pathB := writeTemp(t, dir, "b.csv", "id,name\n1,alice\n")
	a := &models.FileEntry{AbsolutePath: filepath.Join(dir, "missing.csv"), RelativePath: "missing.csv", Type: models.Structured}
	b := &models.FileEntry{AbsolutePath: pathB, RelativePath: "b.csv", Type: models.Structured}
	pair := models.NewPair(a, b, 0)

	c := NewStructuredComparator(models.DefaultCompareConfig())
	result := c.Compare(context.Background(), pair)

	if result.Kind != models.KindError || result.Error.Kind != models.ErrorKindIo {
		t.Fatalf("expected an io error result, got Kind=%v", result.Kind)
	}
}

func TestCellsEqualNaNNeverEqual(t *testing.T) {
	if cellsEqual("NaN", "NaN", 0.001) {
		t.Error("NaN should never be considered equal to NaN")
	}
}

func TestCellsEqualRelativeTolerance(t *testing.T) {
	if !cellsEqual("1000000", "1000001", 0.001) {
		t.Error("expected large numbers within relative tolerance to be equal")
	}
}
