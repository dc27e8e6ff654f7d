package match

import (
	"github.com/sdejongh/filecompare/pkg/fingerprint"
	"github.com/sdejongh/filecompare/pkg/models"
)

// lowConfidenceFactor scales the size-ratio fallback estimate so that
// signature-bearing pairs always dominate ranking.
const lowConfidenceFactor = 0.3

// estimateSimilarity ranks a candidate pair for top-K selection. It is
// never the final reported similarity, only a cheap ordering heuristic.
func estimateSimilarity(l, r *models.FileEntry) float64 {
	if l.HasSimHash && r.HasSimHash {
		return fingerprint.SimHashSimilarity(l.SimHash, r.SimHash)
	}
	if l.Size == 0 && r.Size == 0 {
		return lowConfidenceFactor
	}
	if l.Size == 0 || r.Size == 0 {
		return 0.0
	}
	minSize, maxSize := l.Size, r.Size
	if minSize > maxSize {
		minSize, maxSize = maxSize, minSize
	}
	return (float64(minSize) / float64(maxSize)) * lowConfidenceFactor
}
