package models

// CompareMode overrides per-pair type resolution.
type CompareMode string

const (
	ModeAuto           CompareMode = "auto"
	ModeForceText      CompareMode = "force-text"
	ModeForceStructured CompareMode = "force-structured"
)

// PairingStrategy selects how candidate pairs are generated.
type PairingStrategy string

const (
	PairingSamePath  PairingStrategy = "same-path"
	PairingSameName  PairingStrategy = "same-name"
	PairingAllVsAll  PairingStrategy = "all-vs-all"
)

// SimilarityAlgorithm names a text-comparison scorer (§4.4).
type SimilarityAlgorithm string

const (
	AlgoLineDiff         SimilarityAlgorithm = "line-diff"
	AlgoHammingLines     SimilarityAlgorithm = "hamming-lines"
	AlgoLCS              SimilarityAlgorithm = "longest-common-subsequence"
	AlgoJaccardTokens    SimilarityAlgorithm = "jaccard-tokens"
	AlgoSorensenDice     SimilarityAlgorithm = "sorensen-dice-bigrams"
	AlgoCosineTermFreq   SimilarityAlgorithm = "cosine-termfreq"
	AlgoTfidfCosine      SimilarityAlgorithm = "tfidf-cosine"
	AlgoRatcliffObershelp SimilarityAlgorithm = "ratcliff-obershelp"
	AlgoNgramTrigram     SimilarityAlgorithm = "ngram-trigram"
	AlgoLevenshtein      SimilarityAlgorithm = "levenshtein"
	AlgoDamerauLevenshtein SimilarityAlgorithm = "damerau-levenshtein"
	AlgoSmithWaterman    SimilarityAlgorithm = "smith-waterman"
	AlgoJaroWinkler      SimilarityAlgorithm = "jaro-winkler"
)

// TextNormalization is the set of normalization flags applied before
// text comparison and before Simhash shingle extraction.
type TextNormalization struct {
	// IgnoreEOL folds CRLF and LF line endings to the same boundary
	// before comparison. With it off, a trailing "\r" is kept as line
	// content, so a CRLF file differs from an otherwise-identical LF one.
	IgnoreEOL             bool `yaml:"ignore_eol"`
	IgnoreTrailingWS      bool `yaml:"ignore_trailing_whitespace"`
	IgnoreAllWS           bool `yaml:"ignore_all_whitespace"`
	IgnoreCase            bool `yaml:"ignore_case"`
	SkipEmptyLines        bool `yaml:"skip_empty_lines"`
}

// CompareConfig is process-wide, read-only configuration shared by
// reference across all tasks of a run.
type CompareConfig struct {
	Mode    CompareMode     `yaml:"mode"`
	Pairing PairingStrategy `yaml:"pairing"`

	TopK     int  `yaml:"top_k"`
	MaxPairs int  `yaml:"max_pairs"` // 0 means unbounded

	KeyColumns    []string `yaml:"key_columns"`
	IgnoreColumns []string `yaml:"ignore_columns"`

	NumericTolerance float64 `yaml:"numeric_tolerance"`

	SimilarityAlgorithm SimilarityAlgorithm `yaml:"similarity_algorithm"`
	TextNormalization   TextNormalization   `yaml:"text_normalization"`

	IgnoreRegex string `yaml:"ignore_regex"`

	ExcludePatterns []string `yaml:"exclude_patterns"`

	MaxDiffBytes        int64 `yaml:"max_diff_bytes"`
	MaxFingerprintSize  int64 `yaml:"max_fingerprint_size"` // 0 means use engine default
}

// TopKClamp is the hard ceiling applied to a configured TopK.
const TopKClamp = 100

// DefaultCompareConfig returns the documented defaults.
func DefaultCompareConfig() *CompareConfig {
	return &CompareConfig{
		Mode:                ModeAuto,
		Pairing:             PairingAllVsAll,
		TopK:                3,
		MaxPairs:            0,
		NumericTolerance:    0.0001,
		SimilarityAlgorithm: AlgoLineDiff,
		MaxDiffBytes:        1 << 20,
		MaxFingerprintSize:  0,
	}
}

// ClampedTopK returns TopK bounded to [1, TopKClamp].
func (c *CompareConfig) ClampedTopK() int {
	k := c.TopK
	if k <= 0 {
		k = 3
	}
	if k > TopKClamp {
		k = TopKClamp
	}
	return k
}
