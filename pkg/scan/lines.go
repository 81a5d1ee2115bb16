package scan

import "strings"

// Lines splits text into lines without dropping empty ones. The trailing
// newline, if any, yields a final empty line, matching editor buffer rows.
func Lines(text string) []string {
	return strings.Split(text, "\n")
}

// CountLines returns the number of newline characters in text.
func CountLines(text string) int {
	return strings.Count(text, "\n")
}

// Offset converts a 1-based (line, column) position into a byte offset.
// Out-of-range positions clamp to the nearest valid offset; a negative line
// or column returns -1.
func Offset(text string, line, col int) int {
	if line < 1 || col < 1 {
		return -1
	}
	off := 0
	cur := 1
	for cur < line {
		nl := strings.IndexByte(text[off:], '\n')
		if nl < 0 {
			return len(text)
		}
		off += nl + 1
		cur++
	}
	lineEnd := strings.IndexByte(text[off:], '\n')
	if lineEnd < 0 {
		lineEnd = len(text) - off
	}
	if col-1 > lineEnd {
		return off + lineEnd
	}
	return off + col - 1
}

// Point converts a byte offset into a 1-based (line, column) position.
func Point(text string, offset int) (line, col int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	line = 1 + strings.Count(text[:offset], "\n")
	lastNL := strings.LastIndexByte(text[:offset], '\n')
	col = offset - lastNL // lastNL is -1 on the first line
	return line, col
}
