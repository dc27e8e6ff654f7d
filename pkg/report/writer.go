// Package report persists a run's results to disk in the layout the
// CLI's --out-dir/--results-base flags produce: a JSON-lines stream of
// every result, a flattened CSV summary, per-pair unified-diff patches,
// and per-pair structured mismatch payloads.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sdejongh/filecompare/pkg/models"
)

// Writer persists a comparison run's results under a single directory.
type Writer struct {
	Dir string
}

func New(dir string) *Writer {
	return &Writer{Dir: dir}
}

// WriteAll writes results.jsonl, summary.csv, and the patches/ and
// mismatches/ subdirectories, in that order, stopping at the first
// error.
func (w *Writer) WriteAll(results []models.ComparisonResult) error {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return fmt.Errorf("creating results directory: %w", err)
	}
	if err := WriteJSONL(filepath.Join(w.Dir, "results.jsonl"), results); err != nil {
		return err
	}
	if err := WriteSummaryCSV(filepath.Join(w.Dir, "summary.csv"), results); err != nil {
		return err
	}
	if err := w.writePatches(results); err != nil {
		return err
	}
	if err := w.writeMismatches(results); err != nil {
		return err
	}
	return nil
}

// WriteJSONL writes one ComparisonResult per line to path.
func WriteJSONL(path string, results []models.ComparisonResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

// WriteSummaryCSV writes the flattened per-pair summary table to path.
func WriteSummaryCSV(path string, results []models.ComparisonResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if err := cw.Write([]string{"link_id", "path_a", "path_b", "type", "similarity", "identical", "common", "only_a", "only_b"}); err != nil {
		return err
	}

	for _, r := range results {
		common, onlyA, onlyB := summaryCounts(&r)
		row := []string{
			r.LinkID,
			r.PathA,
			r.PathB,
			string(r.Kind),
			strconv.FormatFloat(r.Similarity(), 'f', 6, 64),
			strconv.FormatBool(r.IsIdentical()),
			strconv.Itoa(common),
			strconv.Itoa(onlyA),
			strconv.Itoa(onlyB),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing summary.csv: %w", err)
		}
	}
	return nil
}

func summaryCounts(r *models.ComparisonResult) (common, onlyA, onlyB int) {
	switch r.Kind {
	case models.KindText:
		if r.Text != nil {
			return r.Text.Common, r.Text.OnlyA, r.Text.OnlyB
		}
	case models.KindStruct:
		if r.Structured != nil {
			return r.Structured.Common, r.Structured.OnlyA, r.Structured.OnlyB
		}
	}
	return 0, 0, 0
}

func (w *Writer) writePatches(results []models.ComparisonResult) error {
	dir := filepath.Join(w.Dir, "patches")
	var created bool
	for _, r := range results {
		if r.Kind != models.KindText || r.Text == nil || r.Text.DetailedDiff == "" {
			continue
		}
		if !created {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating patches directory: %w", err)
			}
			created = true
		}
		path := filepath.Join(dir, sanitizeLinkID(r.LinkID)+".diff")
		if err := os.WriteFile(path, []byte(r.Text.DetailedDiff), 0o644); err != nil {
			return fmt.Errorf("writing patch %s: %w", path, err)
		}
	}
	return nil
}

func (w *Writer) writeMismatches(results []models.ComparisonResult) error {
	dir := filepath.Join(w.Dir, "mismatches")
	var created bool
	for _, r := range results {
		if r.Kind != models.KindStruct || r.Structured == nil || len(r.Structured.FieldMismatches) == 0 {
			continue
		}
		if !created {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating mismatches directory: %w", err)
			}
			created = true
		}
		path := filepath.Join(dir, sanitizeLinkID(r.LinkID)+".json")
		data, err := json.MarshalIndent(r.Structured.FieldMismatches, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling mismatches for %s: %w", r.LinkID, err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing mismatches %s: %w", path, err)
		}
	}
	return nil
}

// sanitizeLinkID replaces the ":" in a link_id ("hexa:hexb") with "_"
// so it is a valid filename on every platform, including Windows.
func sanitizeLinkID(linkID string) string {
	out := make([]byte, len(linkID))
	for i := 0; i < len(linkID); i++ {
		if linkID[i] == ':' {
			out[i] = '_'
		} else {
			out[i] = linkID[i]
		}
	}
	return string(out)
}
