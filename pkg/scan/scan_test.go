package scan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikevskater/sqlsense/pkg/scan"
)

// states runs Fold over text and returns the state assigned to each byte.
func states(t *testing.T, text string, opts scan.Options) []scan.State {
	t.Helper()
	out := make([]scan.State, len(text))
	seen := make([]bool, len(text))
	scan.Fold(scan.ScanState{}, text, opts, func(i int, st scan.ScanState) {
		require.False(t, seen[i], "byte %d classified twice", i)
		seen[i] = true
		out[i] = st.State
	})
	for i, ok := range seen {
		require.True(t, ok, "byte %d never classified", i)
	}
	return out
}

func TestFold_EveryByteClassifiedOnce(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"plain code", "SELECT 1 FROM t"},
		{"line comment", "SELECT 1 -- trailing\nSELECT 2"},
		{"block comment", "a /* b */ c"},
		{"nested block comment", "/* outer /* inner */ still */ code"},
		{"string with escape", "WHERE name = 'O''Brien'"},
		{"bracket with escape", "SELECT [a]]b] FROM t"},
		{"unterminated string", "WHERE x = 'oops"},
		{"unterminated comment", "a /* never closed"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			states(t, tt.text, scan.Options{})
		})
	}
}

func TestFold_LineCommentWinsOverBlock(t *testing.T) {
	// "--/*" opens a line comment; the "/*" inside it is inert.
	text := "--/* not a block\nSELECT 1"
	st := states(t, text, scan.Options{})

	assert.Equal(t, scan.StateLineComment, st[0])
	assert.Equal(t, scan.StateLineComment, st[2], "/* inside line comment stays comment")
	nl := len("--/* not a block")
	assert.Equal(t, scan.StateCode, st[nl], "terminating newline belongs to code")
	assert.Equal(t, scan.StateCode, st[nl+1])
}

func TestFold_BlockCommentNesting(t *testing.T) {
	text := "/* a /* b */ c */x"
	st := states(t, text, scan.Options{})

	for i := 0; i < len(text)-1; i++ {
		assert.Equal(t, scan.StateBlockComment, st[i], "byte %d", i)
	}
	assert.Equal(t, scan.StateCode, st[len(text)-1])

	end := scan.Fold(scan.ScanState{}, text, scan.Options{}, func(int, scan.ScanState) {})
	assert.Equal(t, scan.StateCode, end.State)
	assert.Equal(t, 0, end.BlockDepth)
}

func TestFold_CommentStartsInertInsideString(t *testing.T) {
	text := "'has -- and /* inside'"
	st := states(t, text, scan.Options{})
	for i := range text {
		assert.Equal(t, scan.StateString, st[i], "byte %d", i)
	}
}

func TestFold_StringStartsInertInsideComment(t *testing.T) {
	text := "-- it's fine\nx"
	st := states(t, text, scan.Options{})
	assert.Equal(t, scan.StateLineComment, st[5], "quote inside comment")
	assert.Equal(t, scan.StateCode, st[len(text)-1])
}

func TestFold_DoubledDelimiterKeepsStringOpen(t *testing.T) {
	text := "'a''b' c"
	st := states(t, text, scan.Options{})
	assert.Equal(t, scan.StateString, st[2], "first of doubled quotes")
	assert.Equal(t, scan.StateString, st[3], "second of doubled quotes")
	assert.Equal(t, scan.StateString, st[5], "closing quote")
	assert.Equal(t, scan.StateCode, st[6])
}

func TestFold_BracketEscape(t *testing.T) {
	text := "[a]]b] x"
	st := states(t, text, scan.Options{})
	assert.Equal(t, scan.StateBracket, st[2])
	assert.Equal(t, scan.StateBracket, st[3])
	assert.Equal(t, scan.StateBracket, st[5], "closing bracket")
	assert.Equal(t, scan.StateCode, st[6])
}

func TestFold_DoubleQuoteOption(t *testing.T) {
	text := `"hello" x`

	st := states(t, text, scan.Options{DoubleQuoteString: true})
	assert.Equal(t, scan.StateString, st[1])
	assert.Equal(t, scan.StateCode, st[8])

	// The flag swaps the interpretation, never the delimiting: ANSI engines
	// still scan "..." as one construct.
	st = states(t, text, scan.Options{DoubleQuoteString: false})
	assert.Equal(t, scan.StateQuotedIdent, st[1])
	assert.Equal(t, scan.StateQuotedIdent, st[6], "closing quote")
	assert.Equal(t, scan.StateCode, st[8])
}

func TestFold_DoubleQuoteEscape(t *testing.T) {
	text := `"a""b" c`
	st := states(t, text, scan.Options{})
	assert.Equal(t, scan.StateQuotedIdent, st[2], "first of doubled quotes")
	assert.Equal(t, scan.StateQuotedIdent, st[3], "second of doubled quotes")
	assert.Equal(t, scan.StateQuotedIdent, st[5], "closing quote")
	assert.Equal(t, scan.StateCode, st[7])
}

func TestFold_DanglingStates(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  scan.State
		depth int
	}{
		{"open string", "x = 'abc", scan.StateString, 0},
		{"open double quote", `x = "abc`, scan.StateQuotedIdent, 0},
		{"open bracket", "FROM [Order", scan.StateBracket, 0},
		{"open block", "/* a /* b */", scan.StateBlockComment, 1},
		{"open line comment", "-- no newline", scan.StateLineComment, 0},
		{"clean", "SELECT 1", scan.StateCode, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			end := scan.Fold(scan.ScanState{}, tt.text, scan.Options{}, func(int, scan.ScanState) {})
			assert.Equal(t, tt.want, end.State)
			assert.Equal(t, tt.depth, end.BlockDepth)
		})
	}
}

func TestFold_ResumeFromSavedState(t *testing.T) {
	full := "'abc def' x"
	split := 4 // mid-string

	mid := scan.Fold(scan.ScanState{}, full[:split], scan.Options{}, func(int, scan.ScanState) {})
	require.Equal(t, scan.StateString, mid.State)

	end := scan.Fold(mid, full[split:], scan.Options{}, func(int, scan.ScanState) {})
	assert.Equal(t, scan.StateCode, end.State)
}

func TestStateAt(t *testing.T) {
	text := "SELECT '--' /* c */ x"
	tests := []struct {
		name   string
		offset int
		want   scan.State
	}{
		{"code", 0, scan.StateCode},
		{"inside string", 8, scan.StateString},
		{"inside block comment", 15, scan.StateBlockComment},
		{"after everything", len(text), scan.StateCode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scan.StateAt(text, tt.offset, scan.Options{}).State)
		})
	}
}
