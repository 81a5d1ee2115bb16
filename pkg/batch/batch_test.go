package batch_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikevskater/sqlsense/pkg/batch"
)

func TestSplitByGo_NoSeparator(t *testing.T) {
	text := "SELECT 1\nSELECT 2"
	batches := batch.SplitByGo(text)
	require.Len(t, batches, 1)
	assert.Equal(t, text, batches[0].SQL)
	assert.Equal(t, 1, batches[0].StartLine)
}

func TestSplitByGo_SeparatorCount(t *testing.T) {
	// N separator lines always yield N+1 batches, even when some are empty.
	tests := []struct {
		name    string
		text    string
		batches int
	}{
		{"one separator", "SELECT 1\nGO\nSELECT 2", 2},
		{"two separators", "a\nGO\nb\nGO\nc", 3},
		{"leading separator", "GO\nSELECT 1", 2},
		{"consecutive separators", "a\nGO\nGO\nb", 3},
		{"only separators", "GO\nGO", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, batch.SplitByGo(tt.text), tt.batches)
		})
	}
}

func TestSplitByGo_SeparatorRecognition(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		separator bool
	}{
		{"bare", "GO", true},
		{"lowercase", "go", true},
		{"mixed case", "Go", true},
		{"surrounding whitespace", "  go  \t", true},
		{"with semicolon", "GO;", false},
		{"with count", "GO 5", false},
		{"goto", "GOTO label", false},
		{"mid statement", "SELECT go", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := batch.SplitByGo("before\n" + tt.line + "\nafter")
			if tt.separator {
				require.Len(t, got, 2)
				assert.Equal(t, "before", got[0].SQL)
				assert.Equal(t, "after", got[1].SQL)
			} else {
				require.Len(t, got, 1)
			}
		})
	}
}

func TestSplitByGo_StartLines(t *testing.T) {
	text := "SELECT 1\n\nGO\nSELECT 2\nFROM t\nGO\n\nSELECT 3"
	batches := batch.SplitByGo(text)
	require.Len(t, batches, 3)
	assert.Equal(t, 1, batches[0].StartLine)
	assert.Equal(t, 4, batches[1].StartLine)
	assert.Equal(t, 7, batches[2].StartLine)
}

func TestSplitByGo_Reassembly(t *testing.T) {
	// Canonical separators let the original text be rebuilt exactly.
	text := "SELECT 1\nGO\nSELECT 2\nGO\nSELECT 3"
	batches := batch.SplitByGo(text)
	parts := make([]string, len(batches))
	for i, b := range batches {
		parts[i] = b.SQL
	}
	assert.Equal(t, text, strings.Join(parts, "\nGO\n"))
}

func TestBatchAt(t *testing.T) {
	batches := batch.SplitByGo("SELECT 1\nFROM t\nGO\nSELECT 2")
	tests := []struct {
		name  string
		line  int
		index int
	}{
		{"first line", 1, 0},
		{"last line of first batch", 2, 0},
		{"separator line resolves forward", 3, 1},
		{"second batch", 4, 1},
		{"past the end", 99, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, idx := batch.BatchAt(batches, tt.line)
			assert.Equal(t, tt.index, idx)
			assert.Equal(t, batches[idx].SQL, b.SQL)
		})
	}
}

func TestSpans_AlignWithBatches(t *testing.T) {
	tests := []string{
		"SELECT 1\nGO\nSELECT 2",
		"a\nGO\nb\nGO\nc\n",
		"GO\nGO",
		"no separators at all",
		"",
	}
	for _, text := range tests {
		batches := batch.SplitByGo(text)
		spans := batch.Spans(text)
		require.Len(t, spans, len(batches))
		for i, s := range spans {
			assert.LessOrEqual(t, s.Start, s.End)
			assert.Equal(t, batches[i].SQL, text[s.Start:s.End])
		}
	}
}
