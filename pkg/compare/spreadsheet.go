package compare

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// readSpreadsheet dispatches on extension to the OOXML (.xlsx) or
// OpenDocument (.ods) reader. Both formats are ZIP containers, matching
// no third-party workbook library appearing anywhere in the retrieved
// examples; stdlib archive/zip plus encoding/xml stand in for it.
func readSpreadsheet(path string) (headers []string, rows [][]string, err error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ods":
		return readODS(path)
	default:
		return readXLSX(path)
	}
}

// --- OOXML (.xlsx) ---

type xlsxSST struct {
	XMLName xml.Name    `xml:"sst"`
	Items   []xlsxSSTSI `xml:"si"`
}

type xlsxSSTSI struct {
	T     string      `xml:"t"`
	Runs  []xlsxSSTRun `xml:"r"`
}

type xlsxSSTRun struct {
	T string `xml:"t"`
}

func (si xlsxSSTSI) text() string {
	if si.T != "" || len(si.Runs) == 0 {
		return si.T
	}
	var b strings.Builder
	for _, r := range si.Runs {
		b.WriteString(r.T)
	}
	return b.String()
}

type xlsxSheetData struct {
	XMLName xml.Name  `xml:"worksheet"`
	Rows    []xlsxRow `xml:"sheetData>row"`
}

type xlsxRow struct {
	Cells []xlsxCell `xml:"c"`
}

type xlsxCell struct {
	Ref string `xml:"r,attr"`
	T   string `xml:"t,attr"`
	V   string `xml:"v"`
	Is  struct {
		T string `xml:"t"`
	} `xml:"is"`
}

func readXLSX(path string) ([]string, [][]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer zr.Close()

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	var shared []string
	if f, ok := files["xl/sharedStrings.xml"]; ok {
		shared, err = readSharedStrings(f)
		if err != nil {
			return nil, nil, err
		}
	}

	sheetName := firstWorksheetName(files)
	if sheetName == "" {
		return nil, nil, fmt.Errorf("no worksheet found in %s", path)
	}
	sheetFile := files[sheetName]

	rc, err := sheetFile.Open()
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()

	var sheet xlsxSheetData
	if err := xml.NewDecoder(rc).Decode(&sheet); err != nil {
		return nil, nil, fmt.Errorf("decoding worksheet: %w", err)
	}

	var grid [][]string
	for _, row := range sheet.Rows {
		grid = append(grid, decodeRow(row, shared))
	}

	headers, rows := splitHeaderRow(grid)
	return headers, rows, nil
}

// firstWorksheetName picks the alphabetically first sheetN.xml; only
// one worksheet per workbook is compared.
func firstWorksheetName(files map[string]*zip.File) string {
	var names []string
	for name := range files {
		if strings.HasPrefix(name, "xl/worksheets/sheet") && strings.HasSuffix(name, ".xml") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

func readSharedStrings(f *zip.File) ([]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var sst xlsxSST
	if err := xml.NewDecoder(rc).Decode(&sst); err != nil {
		return nil, fmt.Errorf("decoding shared strings: %w", err)
	}
	out := make([]string, len(sst.Items))
	for i, si := range sst.Items {
		out[i] = si.text()
	}
	return out, nil
}

func decodeRow(row xlsxRow, shared []string) []string {
	var maxCol int
	type indexed struct {
		col int
		val string
	}
	var cells []indexed

	for _, c := range row.Cells {
		col := columnFromRef(c.Ref)
		if col+1 > maxCol {
			maxCol = col + 1
		}
		cells = append(cells, indexed{col: col, val: cellValue(c, shared)})
	}

	out := make([]string, maxCol)
	for _, c := range cells {
		out[c.col] = c.val
	}
	return out
}

// cellValue does not special-case date-formatted numeric cells: a date
// serial renders as its raw number rather than an ISO 8601 string,
// since distinguishing a date cell from a plain number requires
// reading the workbook's numFmt/styles.xml, which this reader does not
// parse.
func cellValue(c xlsxCell, shared []string) string {
	switch c.T {
	case "s":
		idx, err := strconv.Atoi(strings.TrimSpace(c.V))
		if err != nil || idx < 0 || idx >= len(shared) {
			return ""
		}
		return shared[idx]
	case "inlineStr":
		return c.Is.T
	case "b":
		if strings.TrimSpace(c.V) == "1" {
			return "true"
		}
		return "false"
	default:
		return formatNumericCell(c.V)
	}
}

// formatNumericCell trims a trailing ".0" so integral values compare
// equal to CSV-sourced values written without a fractional part.
func formatNumericCell(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return v
	}
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// columnFromRef converts a cell reference like "AB12" to a zero-based
// column index.
func columnFromRef(ref string) int {
	col := 0
	for _, r := range ref {
		if r < 'A' || r > 'Z' {
			break
		}
		col = col*26 + int(r-'A'+1)
	}
	if col == 0 {
		return 0
	}
	return col - 1
}

// --- OpenDocument (.ods) ---

type odsSpreadsheet struct {
	XMLName xml.Name `xml:"document-content"`
	Tables  []odsTable `xml:"body>spreadsheet>table"`
}

type odsTable struct {
	Rows []odsRow `xml:"table-row"`
}

type odsRow struct {
	Cells []odsCell `xml:"table-cell"`
}

type odsCell struct {
	Repeated string   `xml:"number-columns-repeated,attr"`
	ValueType string  `xml:"value-type,attr"`
	Value     string  `xml:"value,attr"`
	Paragraphs []string `xml:"p"`
}

// text renders a cell's display value. Like cellValue, a date cell
// (value-type="date") falls through to its text paragraphs rather than
// being coerced to ISO 8601.
func (c odsCell) text() string {
	if c.ValueType == "boolean" {
		if c.Value == "true" {
			return "true"
		}
		return "false"
	}
	if c.Value != "" {
		return formatNumericCell(c.Value)
	}
	return strings.Join(c.Paragraphs, "\n")
}

func (c odsCell) repeatCount() int {
	if c.Repeated == "" {
		return 1
	}
	n, err := strconv.Atoi(c.Repeated)
	if err != nil || n <= 0 {
		return 1
	}
	return n
}

func readODS(path string) ([]string, [][]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer zr.Close()

	var content *zip.File
	for _, f := range zr.File {
		if f.Name == "content.xml" {
			content = f
			break
		}
	}
	if content == nil {
		return nil, nil, fmt.Errorf("content.xml not found in %s", path)
	}

	rc, err := content.Open()
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()

	var doc odsSpreadsheet
	if err := xml.NewDecoder(rc).Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("decoding content.xml: %w", err)
	}
	if len(doc.Tables) == 0 {
		return nil, nil, nil
	}

	var grid [][]string
	for _, row := range doc.Tables[0].Rows {
		var line []string
		for _, c := range row.Cells {
			v := c.text()
			for i := 0; i < c.repeatCount(); i++ {
				line = append(line, v)
			}
		}
		grid = append(grid, line)
	}

	headers, rows := splitHeaderRow(grid)
	return headers, rows, nil
}

// splitHeaderRow splits a raw cell grid into a trimmed header row plus
// data rows, padding/truncating each data row to the header width.
func splitHeaderRow(grid [][]string) ([]string, [][]string) {
	if len(grid) == 0 {
		return nil, nil
	}
	headers := make([]string, len(grid[0]))
	for i, h := range grid[0] {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([][]string, 0, len(grid)-1)
	for _, raw := range grid[1:] {
		row := make([]string, len(headers))
		copy(row, raw)
		rows = append(rows, row)
	}
	return headers, rows
}
