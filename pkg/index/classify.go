package index

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/sdejongh/filecompare/internal/platform"
	"github.com/sdejongh/filecompare/pkg/models"
)

// headerWindow is the number of bytes read from the start of a file to
// classify its type.
const headerWindow = 8 * 1024

var spreadsheetExtensions = map[string]bool{
	".xlsx": true,
	".ods":  true,
}

// spreadsheet magic bytes: both .xlsx and .ods are ZIP containers,
// identified by the ZIP local-file-header signature "PK\x03\x04".
var zipMagic = []byte{0x50, 0x4b, 0x03, 0x04}

// classification is the result of inspecting a file's header window.
type classification struct {
	fileType  models.FileType
	delimiter models.Delimiter
	headers   []string
}

// classify reads up to headerWindow bytes from r and determines the
// file's type. The extension is consulted for spreadsheet detection
// before content is inspected, since workbook formats are ZIP
// containers and would otherwise be misidentified as Binary by the
// NUL-byte check.
func classify(r io.Reader, path string) (classification, error) {
	buf := make([]byte, headerWindow)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return classification{}, err
	}
	buf = buf[:n]

	ext := strings.ToLower(platform.Ext(path))
	if spreadsheetExtensions[ext] || bytes.HasPrefix(buf, zipMagic) {
		return classification{fileType: models.Spreadsheet}, nil
	}

	if bytes.IndexByte(buf, 0) >= 0 {
		return classification{fileType: models.Binary}, nil
	}

	if !utf8.Valid(buf) {
		return classification{fileType: models.Unknown}, nil
	}

	firstLine := firstLineOf(buf)
	if firstLine != "" {
		if delim, headers, ok := detectDelimited(firstLine); ok {
			return classification{fileType: models.Structured, delimiter: delim, headers: headers}, nil
		}
	}

	return classification{fileType: models.Text}, nil
}

func firstLineOf(buf []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(buf))
	scanner.Buffer(make([]byte, headerWindow), headerWindow)
	if scanner.Scan() {
		return scanner.Text()
	}
	return ""
}

// detectDelimited applies the "at least two fields, comma or tab,
// whichever yields more, tie to comma" heuristic.
func detectDelimited(line string) (models.Delimiter, []string, bool) {
	commaFields := strings.Split(line, ",")
	tabFields := strings.Split(line, "\t")

	delim := models.Comma
	fields := commaFields
	if len(tabFields) > len(commaFields) {
		delim = models.Tab
		fields = tabFields
	}

	if len(fields) < 2 {
		return models.NoDelimiter, nil, false
	}

	headers := make([]string, len(fields))
	for i, f := range fields {
		headers[i] = strings.TrimSpace(f)
	}
	return delim, headers, true
}
