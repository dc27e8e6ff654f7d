// Package lineutil reads file content into line vectors without
// concatenating them into a single string, so downstream algorithms
// operate on slices and bound peak memory on very large files.
package lineutil

import (
	"bufio"
	"bytes"
	"io"
)

const maxLineBuffer = 1 << 20 // 1 MiB per line

// ReadLines reads r into a slice of lines. When foldEOL is true (the
// ignore_eol setting), "\r\n" and "\n" are folded into the same line
// boundary and any trailing "\r" is stripped. When false, the "\r" is
// kept as part of the line content, so a CRLF-terminated line differs
// from an otherwise identical LF-terminated one.
func ReadLines(r io.Reader, foldEOL bool) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBuffer)
	if foldEOL {
		scanner.Split(bufio.ScanLines)
	} else {
		scanner.Split(scanLinesKeepCR)
	}

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// scanLinesKeepCR is bufio.ScanLines without its trailing-CR trim, so a
// caller that wants EOL style preserved can still observe it.
func scanLinesKeepCR(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[0:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
