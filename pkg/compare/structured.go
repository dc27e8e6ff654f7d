package compare

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/sdejongh/filecompare/pkg/models"
)

// StructuredComparator compares two delimited or spreadsheet files by
// composite key: rows are sorted by key and walked with a linear
// merge-scan, mirroring a sort-and-merge join rather than a hash join.
// Both files are read fully into memory before sorting.
type StructuredComparator struct {
	Config *models.CompareConfig
}

func NewStructuredComparator(cfg *models.CompareConfig) *StructuredComparator {
	return &StructuredComparator{Config: cfg}
}

type keyedRow struct {
	key    string
	values []string
}

func (c *StructuredComparator) Compare(ctx context.Context, pair models.Pair) models.ComparisonResult {
	headersA, rowsA, err := readTabular(pair.A)
	if err != nil {
		return errorResult(pair, models.ErrorKindIo, fmt.Sprintf("reading %s: %v", pair.A.RelativePath, err))
	}
	headersB, rowsB, err := readTabular(pair.B)
	if err != nil {
		return errorResult(pair, models.ErrorKindIo, fmt.Sprintf("reading %s: %v", pair.B.RelativePath, err))
	}

	keyIdxA, err := resolveKeyColumns(headersA, c.Config.KeyColumns)
	if err != nil {
		return errorResult(pair, models.ErrorKindSchema, fmt.Sprintf("%s: %v", pair.A.RelativePath, err))
	}
	keyIdxB, err := resolveKeyColumns(headersB, c.Config.KeyColumns)
	if err != nil {
		return errorResult(pair, models.ErrorKindSchema, fmt.Sprintf("%s: %v", pair.B.RelativePath, err))
	}

	keyedA := buildKeyedRows(rowsA, keyIdxA)
	keyedB := buildKeyedRows(rowsB, keyIdxB)
	// Stable: duplicate keys within a side must retain input order so
	// they pair positionally against the same-key duplicates on the
	// other side, per §4.5's duplicate-key rule.
	sort.SliceStable(keyedA, func(i, j int) bool { return keyedA[i].key < keyedA[j].key })
	sort.SliceStable(keyedB, func(i, j int) bool { return keyedB[i].key < keyedB[j].key })

	ignored := toSetSlice(c.Config.IgnoreColumns)
	keyCols := toSetSlice(c.Config.KeyColumns)
	if len(keyCols) == 0 && len(headersA) > 0 {
		keyCols = map[string]bool{headersA[0]: true}
	}

	commonColumns := commonColumnNames(headersA, headersB, ignored)
	colIdxA := indexOf(headersA)
	colIdxB := indexOf(headersB)

	mismatches := make(map[string]*models.ColumnMismatch)

	var common, onlyA, onlyB int
	i, j := 0, 0
	for i < len(keyedA) && j < len(keyedB) {
		switch {
		case keyedA[i].key == keyedB[j].key:
			common++
			for _, col := range commonColumns {
				if keyCols[col] {
					continue
				}
				va := fieldValue(keyedA[i].values, colIdxA, col)
				vb := fieldValue(keyedB[j].values, colIdxB, col)
				if !cellsEqual(va, vb, c.Config.NumericTolerance) {
					recordMismatch(mismatches, col, keyedA[i].key, va, vb)
				}
			}
			i++
			j++
		case keyedA[i].key < keyedB[j].key:
			onlyA++
			i++
		default:
			onlyB++
			j++
		}
	}
	onlyA += len(keyedA) - i
	onlyB += len(keyedB) - j

	columnMismatches := make([]models.ColumnMismatch, 0, len(mismatches))
	for _, col := range commonColumns {
		if m, ok := mismatches[col]; ok {
			columnMismatches = append(columnMismatches, *m)
		}
	}

	totalUnique := len(keyedA) + len(keyedB) - common
	similarity := 1.0
	if totalUnique > 0 {
		similarity = float64(common) / float64(totalUnique)
	}

	identical := onlyA == 0 && onlyB == 0 && len(columnMismatches) == 0

	return models.ComparisonResult{
		Kind:   models.KindStruct,
		LinkID: pair.LinkID,
		PathA:  pair.A.RelativePath,
		PathB:  pair.B.RelativePath,
		Structured: &models.StructuredResult{
			RowsA:           len(keyedA),
			RowsB:           len(keyedB),
			Common:          common,
			OnlyA:           onlyA,
			OnlyB:           onlyB,
			Similarity:      similarity,
			Identical:       identical,
			FieldMismatches: columnMismatches,
		},
	}
}

func readTabular(e *models.FileEntry) ([]string, [][]string, error) {
	if e.Type == models.Spreadsheet {
		return readSpreadsheet(e.AbsolutePath)
	}
	return readDelimited(e.AbsolutePath, e.Delimiter.Rune())
}

func readDelimited(path string, delim rune) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, nil
	}
	headers := all[0]
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}
	rows := make([][]string, 0, len(all)-1)
	for _, raw := range all[1:] {
		row := make([]string, len(headers))
		copy(row, raw)
		rows = append(rows, row)
	}
	return headers, rows, nil
}

// resolveKeyColumns errors with an ErrorKindSchema-flavored message when
// a configured key column is absent from the header, per the design's
// hard-fail-on-missing-key-column rule. Absent config falls back to the
// first column.
func resolveKeyColumns(headers []string, keyColumns []string) ([]int, error) {
	if len(keyColumns) == 0 {
		if len(headers) == 0 {
			return nil, fmt.Errorf("file has no header row")
		}
		return []int{0}, nil
	}
	idx := indexOf(headers)
	out := make([]int, 0, len(keyColumns))
	for _, k := range keyColumns {
		i, ok := idx[k]
		if !ok {
			return nil, fmt.Errorf("key column %q not found in header", k)
		}
		out = append(out, i)
	}
	return out, nil
}

func indexOf(headers []string) map[string]int {
	m := make(map[string]int, len(headers))
	for i, h := range headers {
		m[h] = i
	}
	return m
}

func buildKeyedRows(rows [][]string, keyIdx []int) []keyedRow {
	out := make([]keyedRow, 0, len(rows))
	for _, r := range rows {
		parts := make([]string, 0, len(keyIdx))
		for _, idx := range keyIdx {
			if idx < len(r) {
				parts = append(parts, r[idx])
			} else {
				parts = append(parts, "")
			}
		}
		out = append(out, keyedRow{key: strings.Join(parts, "|"), values: r})
	}
	return out
}

func toSetSlice(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, i := range items {
		set[i] = true
	}
	return set
}

func commonColumnNames(headersA, headersB []string, ignored map[string]bool) []string {
	setB := toSetSlice(headersB)
	var out []string
	seen := make(map[string]bool)
	for _, h := range headersA {
		if ignored[h] || seen[h] || !setB[h] {
			continue
		}
		seen[h] = true
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

func fieldValue(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func recordMismatch(mismatches map[string]*models.ColumnMismatch, col, key, va, vb string) {
	m, ok := mismatches[col]
	if !ok {
		m = &models.ColumnMismatch{Column: col}
		mismatches[col] = m
	}
	m.Count++
	if len(m.Samples) < models.MaxMismatchSamples {
		m.Samples = append(m.Samples, models.FieldMismatchSample{Key: key, ValueA: va, ValueB: vb})
	}
}

// cellsEqual compares two cell strings: exact match after trimming,
// then numeric equality within tolerance (absolute or relative, never
// treating NaN as equal to anything including itself).
func cellsEqual(a, b string, tolerance float64) bool {
	ta, tb := strings.TrimSpace(a), strings.TrimSpace(b)
	if ta == tb {
		if n, err := strconv.ParseFloat(ta, 64); err == nil && math.IsNaN(n) {
			return false
		}
		return true
	}

	na, errA := strconv.ParseFloat(ta, 64)
	nb, errB := strconv.ParseFloat(tb, 64)
	if errA != nil || errB != nil {
		return false
	}
	if math.IsNaN(na) || math.IsNaN(nb) {
		return false
	}

	diff := math.Abs(na - nb)
	if diff <= tolerance {
		return true
	}
	maxAbs := math.Max(math.Abs(na), math.Abs(nb))
	return maxAbs > 0 && diff/maxAbs <= tolerance
}
