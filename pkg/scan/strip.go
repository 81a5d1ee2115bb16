package scan

import "strings"

// Stats summarizes a StripComments pass.
type Stats struct {
	LineComments  int
	BlockComments int
	MaxBlockDepth int   // deepest nesting seen, for diagnostics
	Dangling      State // non-code state left open at end of input, if any
}

// StripComments returns text with comments removed. Newlines are always kept,
// including newlines inside block comments, so line numbers in the stripped
// copy match the original. Each block comment collapses to a single space to
// avoid joining the tokens around it. Idempotent: stripping already-stripped
// text is a no-op.
func StripComments(text string, opts Options) (string, Stats) {
	var (
		out   strings.Builder
		stats Stats
		prev  = StateCode
	)
	out.Grow(len(text))

	final := Fold(ScanState{}, text, opts, func(i int, st ScanState) {
		ch := text[i]
		switch st.State {
		case StateLineComment:
			if prev != StateLineComment {
				stats.LineComments++
			}
		case StateBlockComment:
			if prev != StateBlockComment {
				stats.BlockComments++
				out.WriteByte(' ')
			}
			if st.BlockDepth > stats.MaxBlockDepth {
				stats.MaxBlockDepth = st.BlockDepth
			}
			if ch == '\n' {
				out.WriteByte('\n')
			}
		default:
			out.WriteByte(ch)
		}
		prev = st.State
	})

	if final.InConstruct() {
		stats.Dangling = final.State
	}
	return out.String(), stats
}
