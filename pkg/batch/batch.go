// Package batch splits SQL scripts into GO-separated batches and USE-tagged
// chunks so downstream consumers can resolve scope and route execution against
// the correct database with accurate line numbers.
package batch

import (
	"strings"

	"github.com/mikevskater/sqlsense/pkg/scan"
)

// Batch is one GO-separated unit of a script.
type Batch struct {
	SQL       string
	StartLine int // 1-based line of the batch's first line in the original buffer
}

// Chunk is a contiguous span of SQL within a batch sharing one active database.
// A chunk with empty SQL and non-empty UseText is a database-switch marker.
type Chunk struct {
	SQL        string
	Database   string // active database; empty means the ambient connection database
	BatchIndex int    // 0-based index of the owning batch
	StartLine  int    // 1-based absolute line in the original buffer
	HadUse     bool   // a USE statement precedes this chunk within its batch
	UseText    string // raw USE statement text consumed at this boundary (markers only)
}

// IsMarker reports whether the chunk is a zero-length database-switch marker.
func (c Chunk) IsMarker() bool {
	return c.SQL == "" && c.UseText != ""
}

// SplitByGo splits a script into batches at standalone GO separator lines.
// A separator line is one whose trimmed content equals "GO" case-insensitively
// with nothing else on the line. Blank lines are preserved inside batches so
// line numbers stay accurate. Input with no separator yields one batch
// starting at line 1.
func SplitByGo(text string) []Batch {
	lines := scan.Lines(text)

	var batches []Batch
	start := 0 // index into lines of the current batch's first line
	for i, line := range lines {
		if !isSeparatorLine(line) {
			continue
		}
		batches = append(batches, Batch{
			SQL:       strings.Join(lines[start:i], "\n"),
			StartLine: start + 1,
		})
		start = i + 1
	}
	batches = append(batches, Batch{
		SQL:       strings.Join(lines[start:], "\n"),
		StartLine: start + 1,
	})
	return batches
}

// isSeparatorLine reports whether a line is a standalone GO separator.
func isSeparatorLine(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), "GO")
}

// Span is a byte range within the original buffer.
type Span struct {
	Start, End int
}

// Spans returns the byte range of each batch in text, aligned with the
// batches returned by SplitByGo. Separator lines fall in the gap between
// consecutive spans.
func Spans(text string) []Span {
	var spans []Span
	offset := 0 // byte offset of the current line
	start := 0  // byte offset of the current batch's first line
	prevEnd := 0
	for {
		nl := strings.IndexByte(text[offset:], '\n')
		var line string
		if nl < 0 {
			line = text[offset:]
		} else {
			line = text[offset : offset+nl]
		}
		if isSeparatorLine(line) {
			end := prevEnd
			if end < start {
				end = start
			}
			spans = append(spans, Span{Start: start, End: end})
			start = offset + len(line) + 1
			if start > len(text) {
				start = len(text)
			}
		} else {
			prevEnd = offset + len(line)
		}
		if nl < 0 {
			break
		}
		offset += nl + 1
	}
	if prevEnd < start {
		prevEnd = start
	}
	spans = append(spans, Span{Start: start, End: prevEnd})
	return spans
}

// BatchAt returns the batch containing the given 1-based line, along with its
// 0-based index. Lines on a GO separator itself resolve to the following
// batch. Returns the last batch for lines past the end.
func BatchAt(batches []Batch, line int) (Batch, int) {
	for i, b := range batches {
		end := b.StartLine + scan.CountLines(b.SQL)
		if line <= end {
			return b, i
		}
	}
	last := len(batches) - 1
	return batches[last], last
}

// Join reassembles chunk SQL (re-inserting consumed USE text) back into the
// original batch text. Used to verify round-trip fidelity.
func Join(chunks []Chunk) string {
	var b strings.Builder
	for _, c := range chunks {
		if c.IsMarker() {
			b.WriteString(c.UseText)
		} else {
			b.WriteString(c.SQL)
		}
	}
	return b.String()
}
