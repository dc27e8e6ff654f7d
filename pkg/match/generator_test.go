package match

import (
	"errors"
	"testing"

	"github.com/sdejongh/filecompare/pkg/models"
)

func entry(rel string, size int64, ft models.FileType, hash string) models.FileEntry {
	return models.FileEntry{
		AbsolutePath: "/root/" + rel,
		RelativePath: rel,
		Size:         size,
		Type:         ft,
		ContentHash:  []byte(hash),
	}
}

func TestGenerateSamePathStrategy(t *testing.T) {
	cfg := &models.CompareConfig{Pairing: models.PairingSamePath, TopK: 3}
	left := []models.FileEntry{entry("a.txt", 10, models.Text, "hhhhhhhh"), entry("only_left.txt", 10, models.Text, "zzzzzzzz")}
	right := []models.FileEntry{entry("a.txt", 10, models.Text, "hhhhhhhh"), entry("only_right.txt", 10, models.Text, "yyyyyyyy")}

	g := New(cfg, 2, nil)
	pairs := g.Generate(left, right)

	if len(pairs) != 1 {
		t.Fatalf("len(pairs) = %d, want 1", len(pairs))
	}
	if pairs[0].A.RelativePath != "a.txt" || pairs[0].B.RelativePath != "a.txt" {
		t.Errorf("unexpected pair: %+v", pairs[0])
	}
}

func TestGenerateSameNameStrategyAcrossDirectories(t *testing.T) {
	cfg := &models.CompareConfig{Pairing: models.PairingSameName, TopK: 3}
	left := []models.FileEntry{entry("dirA/report.txt", 10, models.Text, "hhhhhhhh")}
	right := []models.FileEntry{entry("dirB/report.txt", 10, models.Text, "hhhhhhhh")}

	g := New(cfg, 2, nil)
	pairs := g.Generate(left, right)

	if len(pairs) != 1 {
		t.Fatalf("len(pairs) = %d, want 1", len(pairs))
	}
}

func TestGenerateAllVsAllExactHashShortCircuits(t *testing.T) {
	cfg := &models.CompareConfig{Pairing: models.PairingAllVsAll, TopK: 3}
	left := []models.FileEntry{entry("foo.txt", 10, models.Text, "samehash")}
	right := []models.FileEntry{entry("bar.txt", 10, models.Text, "samehash")}

	g := New(cfg, 2, nil)
	pairs := g.Generate(left, right)

	if len(pairs) != 1 {
		t.Fatalf("len(pairs) = %d, want 1", len(pairs))
	}
	if pairs[0].EstimatedSimilarity != 1.0 {
		t.Errorf("exact-hash pair EstimatedSimilarity = %v, want 1.0", pairs[0].EstimatedSimilarity)
	}
}

func TestGenerateIsDeterministicAcrossRuns(t *testing.T) {
	cfg := &models.CompareConfig{Pairing: models.PairingAllVsAll, TopK: 3}
	left := []models.FileEntry{
		entry("a.txt", 100, models.Text, "aaaaaaaa"),
		entry("b.txt", 110, models.Text, "bbbbbbbb"),
	}
	right := []models.FileEntry{
		entry("c.txt", 105, models.Text, "cccccccc"),
		entry("d.txt", 95, models.Text, "dddddddd"),
	}

	g := New(cfg, 2, nil)
	first := g.Generate(left, right)
	second := g.Generate(left, right)

	if len(first) != len(second) {
		t.Fatalf("non-deterministic pair count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].A.RelativePath != second[i].A.RelativePath || first[i].B.RelativePath != second[i].B.RelativePath {
			t.Fatalf("non-deterministic ordering at index %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestGenerateSkipsEntriesWithFingerprintErr(t *testing.T) {
	cfg := &models.CompareConfig{Pairing: models.PairingSamePath, TopK: 3}
	bad := entry("broken.txt", 10, models.Text, "hhhhhhhh")
	bad.FingerprintErr = errors.New("fingerprint failed")

	left := []models.FileEntry{bad}
	right := []models.FileEntry{entry("broken.txt", 10, models.Text, "hhhhhhhh")}

	g := New(cfg, 2, nil)
	pairs := g.Generate(left, right)
	if len(pairs) != 0 {
		t.Errorf("expected entries with FingerprintErr to be excluded, got %d pairs", len(pairs))
	}
}

func TestGenerateRespectsMaxPairsCap(t *testing.T) {
	cfg := &models.CompareConfig{Pairing: models.PairingAllVsAll, TopK: 3, MaxPairs: 1}
	left := []models.FileEntry{
		entry("a.txt", 100, models.Text, "aaaaaaaa"),
		entry("b.txt", 100, models.Text, "bbbbbbbb"),
	}
	right := []models.FileEntry{
		entry("c.txt", 100, models.Text, "cccccccc"),
		entry("d.txt", 100, models.Text, "dddddddd"),
	}

	g := New(cfg, 2, nil)
	pairs := g.Generate(left, right)
	if len(pairs) > 1 {
		t.Errorf("len(pairs) = %d, want at most 1 (max_pairs cap)", len(pairs))
	}
}
