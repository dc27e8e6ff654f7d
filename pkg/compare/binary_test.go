package compare

import (
	"context"
	"testing"

	"github.com/sdejongh/filecompare/pkg/models"
)

// Scenario 5: binary mismatch.
func TestBinaryComparatorDifferentSizesAreNotIdentical(t *testing.T) {
	a := &models.FileEntry{RelativePath: "a.bin", Type: models.Binary, Size: 100, ContentHash: []byte{1, 2, 3}}
	b := &models.FileEntry{RelativePath: "b.bin", Type: models.Binary, Size: 200, ContentHash: []byte{4, 5, 6}}
	pair := models.NewPair(a, b, 0)

	c := NewBinaryComparator()
	result := c.Compare(context.Background(), pair)

	if result.Kind != models.KindHashOnly {
		t.Fatalf("Kind = %v, want KindHashOnly", result.Kind)
	}
	if result.HashOnly.Identical {
		t.Error("expected Identical = false for differently sized binaries")
	}
}

func TestBinaryComparatorSameHashIsIdentical(t *testing.T) {
	hash := []byte{0xde, 0xad, 0xbe, 0xef}
	a := &models.FileEntry{RelativePath: "a.bin", Type: models.Binary, Size: 100, ContentHash: hash}
	b := &models.FileEntry{RelativePath: "b.bin", Type: models.Binary, Size: 100, ContentHash: hash}
	pair := models.NewPair(a, b, 0)

	c := NewBinaryComparator()
	result := c.Compare(context.Background(), pair)

	if !result.HashOnly.Identical {
		t.Error("expected Identical = true for equal size and hash")
	}
}

func TestBinaryComparatorUnfingerprintedNeverIdentical(t *testing.T) {
	a := &models.FileEntry{RelativePath: "a.bin", Type: models.Binary, Size: 100}
	b := &models.FileEntry{RelativePath: "b.bin", Type: models.Binary, Size: 100}
	pair := models.NewPair(a, b, 0)

	c := NewBinaryComparator()
	result := c.Compare(context.Background(), pair)

	if result.HashOnly.Identical {
		t.Error("expected Identical = false when content hashes are unavailable")
	}
}
