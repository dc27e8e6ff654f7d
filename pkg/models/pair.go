package models

// Pair is a candidate comparison unit produced by the pair generator and
// consumed exactly once by the compare stage.
type Pair struct {
	A      *FileEntry
	B      *FileEntry
	LinkID string

	// EstimatedSimilarity is used only for ranking during candidate
	// selection; it is not the final similarity carried by the result.
	EstimatedSimilarity float64
}

// LinkID derives the stable link identifier for a pair of entries:
// the first 8 hex characters of each side's content hash, joined by ":".
func LinkID(a, b *FileEntry) string {
	return a.HashHex8() + ":" + b.HashHex8()
}

// NewPair builds a Pair with its link_id assigned.
func NewPair(a, b *FileEntry, estimatedSimilarity float64) Pair {
	return Pair{A: a, B: b, LinkID: LinkID(a, b), EstimatedSimilarity: estimatedSimilarity}
}
