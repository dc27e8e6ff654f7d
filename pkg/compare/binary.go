package compare

import (
	"context"

	"github.com/sdejongh/filecompare/pkg/models"
)

// BinaryComparator handles pairs where neither side is text-like:
// equality is decided purely from the content hashes computed during
// fingerprinting, with no byte-level diff produced.
type BinaryComparator struct{}

func NewBinaryComparator() *BinaryComparator {
	return &BinaryComparator{}
}

func (c *BinaryComparator) Compare(ctx context.Context, pair models.Pair) models.ComparisonResult {
	identical := pair.A.Size == pair.B.Size &&
		len(pair.A.ContentHash) > 0 &&
		pair.A.HashHex() == pair.B.HashHex()

	return models.ComparisonResult{
		Kind:   models.KindHashOnly,
		LinkID: pair.LinkID,
		PathA:  pair.A.RelativePath,
		PathB:  pair.B.RelativePath,
		HashOnly: &models.HashOnlyResult{
			SizeA:     pair.A.Size,
			SizeB:     pair.B.Size,
			Identical: identical,
		},
	}
}
