package scan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mikevskater/sqlsense/pkg/scan"
)

func TestOffset(t *testing.T) {
	text := "SELECT 1\nFROM t\n"
	tests := []struct {
		name      string
		line, col int
		want      int
	}{
		{"start", 1, 1, 0},
		{"mid first line", 1, 8, 7},
		{"start of second line", 2, 1, 9},
		{"end of second line", 2, 7, 15},
		{"column past line end clamps", 1, 99, 8},
		{"line past end clamps", 99, 1, len(text)},
		{"negative", 0, 1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scan.Offset(text, tt.line, tt.col))
		})
	}
}

func TestPoint_RoundTrip(t *testing.T) {
	text := "abc\ndef\n\nghi"
	for off := 0; off <= len(text); off++ {
		line, col := scan.Point(text, off)
		if off < len(text) && text[off] == '\n' {
			// Newlines sit one past their line's last column.
			continue
		}
		assert.Equal(t, off, scan.Offset(text, line, col), "offset %d", off)
	}
}

func TestLines(t *testing.T) {
	assert.Equal(t, []string{""}, scan.Lines(""))
	assert.Equal(t, []string{"a", "b", ""}, scan.Lines("a\nb\n"))
	assert.Equal(t, 2, scan.CountLines("a\nb\n"))
}
