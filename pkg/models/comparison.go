package models

// ResultKind tags the variant carried by a ComparisonResult.
type ResultKind string

const (
	KindText     ResultKind = "text"
	KindStruct   ResultKind = "structured"
	KindHashOnly ResultKind = "hash_only"
	KindError    ResultKind = "error"
)

// FieldMismatchSample is one sampled cell disagreement for a column.
type FieldMismatchSample struct {
	Key     string `json:"key"`
	ValueA  string `json:"value_a"`
	ValueB  string `json:"value_b"`
}

// ColumnMismatch aggregates cell disagreements for a single column.
type ColumnMismatch struct {
	Column  string                 `json:"column"`
	Count   int                    `json:"count"`
	Samples []FieldMismatchSample  `json:"samples"`
}

// MaxMismatchSamples caps the number of retained samples per column.
const MaxMismatchSamples = 5

// TextResult is the Text variant of ComparisonResult.
type TextResult struct {
	LinesA   int  `json:"lines_a"`
	LinesB   int  `json:"lines_b"`
	Common   int  `json:"common"`
	OnlyA    int  `json:"only_a"`
	OnlyB    int  `json:"only_b"`
	Similarity float64 `json:"similarity"`
	Identical  bool    `json:"identical"`

	// DetailedDiff is the unified-diff payload, capped by max_diff_bytes.
	DetailedDiff   string `json:"detailed_diff,omitempty"`
	DiffTruncated  bool   `json:"diff_truncated"`

	// AlgorithmUsed is the similarity algorithm actually applied; may
	// differ from the configured one when a size-based fallback fired.
	AlgorithmUsed    string `json:"algorithm_used"`
	AlgorithmFellBack bool  `json:"algorithm_fallback"`
}

// StructuredResult is the Structured variant of ComparisonResult.
type StructuredResult struct {
	RowsA          int              `json:"rows_a"`
	RowsB          int              `json:"rows_b"`
	Common         int              `json:"common"`
	OnlyA          int              `json:"only_a"`
	OnlyB          int              `json:"only_b"`
	Similarity     float64          `json:"similarity"`
	Identical      bool             `json:"identical"`
	FieldMismatches []ColumnMismatch `json:"field_mismatches"`
}

// HashOnlyResult is the HashOnly variant of ComparisonResult.
type HashOnlyResult struct {
	SizeA     int64 `json:"size_a"`
	SizeB     int64 `json:"size_b"`
	Identical bool  `json:"identical"`
}

// ErrorKind enumerates the error taxonomy of the error-handling design.
type ErrorKind string

const (
	ErrorKindSchema ErrorKind = "schema"
	ErrorKindIo     ErrorKind = "io"
)

// ErrorResult is the Error variant of ComparisonResult.
type ErrorResult struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// ComparisonResult is a tagged variant over Text/Structured/HashOnly/Error,
// exposed as a sum type with exhaustive matching on Kind rather than a
// base-class hierarchy.
type ComparisonResult struct {
	Kind   ResultKind `json:"kind"`
	LinkID string     `json:"link_id"`
	PathA  string     `json:"path_a"`
	PathB  string     `json:"path_b"`

	Text       *TextResult       `json:"text,omitempty"`
	Structured *StructuredResult `json:"structured,omitempty"`
	HashOnly   *HashOnlyResult   `json:"hash_only,omitempty"`
	Error      *ErrorResult      `json:"error,omitempty"`
}

// IsIdentical reports the identical flag of whichever variant is set.
// Error results are never identical.
func (r *ComparisonResult) IsIdentical() bool {
	switch r.Kind {
	case KindText:
		return r.Text != nil && r.Text.Identical
	case KindStruct:
		return r.Structured != nil && r.Structured.Identical
	case KindHashOnly:
		return r.HashOnly != nil && r.HashOnly.Identical
	default:
		return false
	}
}

// Similarity reports the similarity score of whichever variant is set.
// HashOnly results report 1.0 or 0.0; Error results report 0.0.
func (r *ComparisonResult) Similarity() float64 {
	switch r.Kind {
	case KindText:
		if r.Text != nil {
			return r.Text.Similarity
		}
	case KindStruct:
		if r.Structured != nil {
			return r.Structured.Similarity
		}
	case KindHashOnly:
		if r.HashOnly != nil && r.HashOnly.Identical {
			return 1.0
		}
	}
	return 0.0
}
