package models

import "fmt"

// FileType classifies a file discovered during indexing. It is derived
// once during indexing and never re-derived downstream.
type FileType int

const (
	// Unknown means the content could not be classified; treated as
	// Binary by every downstream component.
	Unknown FileType = iota
	// Text is UTF-8-decodable content with no structured delimiter.
	Text
	// Structured is a delimited tabular file (CSV/TSV).
	Structured
	// Spreadsheet is a workbook format readable as rows of string cells.
	Spreadsheet
	// Binary is content containing a NUL byte in its header window.
	Binary
)

func (t FileType) String() string {
	switch t {
	case Text:
		return "text"
	case Structured:
		return "structured"
	case Spreadsheet:
		return "spreadsheet"
	case Binary:
		return "binary"
	default:
		return "unknown"
	}
}

// IsTextLike reports whether the type belongs to the text-like category
// used by the pair generator's file-type-compatibility blocking rule.
func (t FileType) IsTextLike() bool {
	return t == Text || t == Structured || t == Spreadsheet
}

// IsTabular reports whether the type carries column headers.
func (t FileType) IsTabular() bool {
	return t == Structured || t == Spreadsheet
}

// Delimiter identifies the field separator of a Structured file.
type Delimiter int

const (
	// NoDelimiter is used for non-Structured entries.
	NoDelimiter Delimiter = iota
	Comma
	Tab
)

func (d Delimiter) Rune() rune {
	if d == Tab {
		return '\t'
	}
	return ','
}

func (d Delimiter) String() string {
	if d == Tab {
		return "tab"
	}
	return "comma"
}

// FileEntry is one record per discovered file, produced by the indexer
// and enriched in place by the fingerprinter.
type FileEntry struct {
	AbsolutePath string
	RelativePath string
	Size         int64
	Type         FileType
	Delimiter    Delimiter

	// Headers holds the detected column names for Structured/Spreadsheet
	// entries, in file order. Nil for non-tabular entries.
	Headers []string

	// ContentHash is the 32-byte cryptographic digest, present once
	// fingerprinted. Nil before fingerprinting.
	ContentHash []byte

	// SimHash is the 64-bit locality-sensitive signature. HasSimHash is
	// false when the entry is not text-like or exceeds max_fingerprint_size.
	SimHash    uint64
	HasSimHash bool

	// SchemaSignature is the digest of the normalized header list for
	// Structured/Spreadsheet entries. Empty when not computed.
	SchemaSignature string

	// FingerprintErr records a non-fatal per-file I/O failure during
	// fingerprinting (the FingerprintIo error kind). Pair generation
	// skips entries carrying one.
	FingerprintErr error
}

// HashHex returns the lowercase hex encoding of ContentHash, or the
// empty string if the entry has not been fingerprinted.
func (e *FileEntry) HashHex() string {
	if len(e.ContentHash) == 0 {
		return ""
	}
	return fmt.Sprintf("%x", e.ContentHash)
}

// HashHex8 returns the first 8 hex characters of the content hash, used
// to build a Pair's link_id.
func (e *FileEntry) HashHex8() string {
	h := e.HashHex()
	if len(h) < 8 {
		return h
	}
	return h[:8]
}

// EffectiveCategory returns the coarse type-compatibility bucket used by
// the pair generator's blocking rules: text-like or binary.
func (e *FileEntry) EffectiveCategory() string {
	if e.Type.IsTextLike() {
		return "text-like"
	}
	return "binary"
}
