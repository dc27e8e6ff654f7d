package compare

import (
	"fmt"
	"strings"
)

const contextRadius = 3

// unifiedDiff renders an edit script as a unified-diff-style payload,
// grouping changes into hunks with contextRadius lines of context on
// each side. The result is truncated to maxBytes if necessary.
func unifiedDiff(ops []diffOp, pathA, pathB string, maxBytes int64) (payload string, truncated bool) {
	type hunk struct {
		lines []string
	}

	var hunks []hunk
	var current []diffOp
	var gapEqual int

	flush := func() {
		if len(current) == 0 {
			return
		}
		hunks = append(hunks, hunk{lines: renderHunk(current)})
		current = nil
	}

	for i, op := range ops {
		if op.kind == opEqual {
			gapEqual++
			// Keep trailing context inside the current hunk.
			if len(current) > 0 && gapEqual <= contextRadius {
				current = append(current, op)
			}
			// A long run of equal lines splits hunks; start leading
			// context for the next one from the tail of this run.
			if gapEqual == contextRadius+1 {
				flush()
			}
			continue
		}

		if len(current) == 0 {
			// Pull up to contextRadius lines of leading context.
			start := i - contextRadius
			if start < 0 {
				start = 0
			}
			for j := start; j < i; j++ {
				if ops[j].kind == opEqual {
					current = append(current, ops[j])
				}
			}
		}
		gapEqual = 0
		current = append(current, op)
	}
	flush()

	if len(hunks) == 0 {
		return "", false
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- %s\n+++ %s\n", pathA, pathB)
	for _, h := range hunks {
		for _, line := range h.lines {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}

	out := b.String()
	if maxBytes > 0 && int64(len(out)) > maxBytes {
		out = out[:maxBytes]
		truncated = true
	}
	return out, truncated
}

func renderHunk(ops []diffOp) []string {
	lines := make([]string, 0, len(ops))
	for _, op := range ops {
		switch op.kind {
		case opEqual:
			lines = append(lines, " "+op.a)
		case opDelete:
			lines = append(lines, "-"+op.a)
		case opInsert:
			lines = append(lines, "+"+op.b)
		}
	}
	return lines
}
