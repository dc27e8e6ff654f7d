package fingerprint

import (
	"math/bits"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/sdejongh/filecompare/pkg/models"
)

const shingleN = 3

// SimHash computes a 64-bit locality-sensitive signature (Charikar's
// algorithm) over shingles derived from normalized lines. Shingles are
// the union of word-level and line-level n-grams (n=3).
func SimHash(lines []string) uint64 {
	shingles := generateShingles(lines, shingleN)

	var acc [64]int32
	for _, shingle := range shingles {
		h := xxhash.Sum64String(shingle)
		for bit := 0; bit < 64; bit++ {
			if (h>>uint(bit))&1 == 1 {
				acc[bit]++
			} else {
				acc[bit]--
			}
		}
	}

	var result uint64
	for bit := 0; bit < 64; bit++ {
		if acc[bit] > 0 {
			result |= 1 << uint(bit)
		}
	}
	return result
}

// generateShingles produces word-level n-grams across all lines plus
// line-level n-grams, mirroring the reference "union of word and line
// shingles" fingerprinting strategy.
func generateShingles(lines []string, n int) []string {
	var shingles []string

	var words []string
	for _, line := range lines {
		words = append(words, strings.Fields(line)...)
	}

	if len(words) >= n {
		for i := 0; i+n <= len(words); i++ {
			shingles = append(shingles, strings.Join(words[i:i+n], " "))
		}
	} else if len(words) > 0 {
		shingles = append(shingles, strings.Join(words, " "))
	}

	if len(lines) >= n {
		for i := 0; i+n <= len(lines); i++ {
			shingles = append(shingles, strings.Join(lines[i:i+n], "\n"))
		}
	}

	return shingles
}

// HammingDistance returns the number of differing bits (0-64) between
// two 64-bit signatures.
func HammingDistance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// SimHashSimilarity converts a Hamming distance between two signatures
// into a 0.0-1.0 similarity score.
func SimHashSimilarity(a, b uint64) float64 {
	return 1.0 - float64(HammingDistance(a, b))/64.0
}

// NormalizeLines applies CompareConfig.TextNormalization to raw lines,
// used both for text comparison and for Simhash shingle extraction.
func NormalizeLines(rawLines []string, opts models.TextNormalization) []string {
	out := make([]string, 0, len(rawLines))
	for _, line := range rawLines {
		s := line
		if opts.IgnoreTrailingWS {
			s = strings.TrimRight(s, " \t\r")
		}
		if opts.IgnoreAllWS {
			s = strings.Join(strings.Fields(s), " ")
		}
		if opts.IgnoreCase {
			s = strings.ToLower(s)
		}
		if opts.SkipEmptyLines && strings.TrimSpace(s) == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
