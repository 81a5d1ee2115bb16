// Package scan implements the character-level scanner shared by the batch
// splitter, the database-switch splitter, and the scope resolver.
//
// A single left-to-right pass with one character of lookahead classifies every
// byte of the input as code, line comment, block comment (nestable), string
// literal, double-quoted identifier, or bracketed identifier. The scanner
// never fails: unterminated constructs at end of input simply leave the final
// state dangling, which is normal while the user is mid-edit.
package scan

// State classifies what construct a character belongs to.
type State int

// Character states.
const (
	StateCode State = iota
	StateLineComment
	StateBlockComment
	StateString
	StateBracket
	StateQuotedIdent
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateCode:
		return "code"
	case StateLineComment:
		return "line-comment"
	case StateBlockComment:
		return "block-comment"
	case StateString:
		return "string"
	case StateBracket:
		return "bracket"
	case StateQuotedIdent:
		return "quoted-ident"
	default:
		return "unknown"
	}
}

// ScanState is the complete scanner state. It is a plain value: callers may
// copy it freely and resume a scan from any saved point.
type ScanState struct {
	State      State
	BlockDepth int  // current block comment nesting depth
	Delim      byte // active string delimiter (' or ")
}

// InConstruct returns true when the state is inside anything but plain code.
func (s ScanState) InConstruct() bool {
	return s.State != StateCode
}

// Options controls vendor-specific scanning behavior.
type Options struct {
	// DoubleQuoteString classifies "..." as a string literal rather than a
	// quoted identifier. SQL Server (QUOTED_IDENTIFIER OFF) and MySQL read it
	// as a string; ANSI engines read it as an identifier. Either way the
	// construct is delimited, so its content never counts as code.
	DoubleQuoteString bool
}

// Fold scans text starting in state st, invoking fn for every byte with the
// state that byte belongs to. Opening and closing delimiters are classified as
// part of the construct they delimit, so each byte lands in exactly one state.
// Returns the state after the last byte.
func Fold(st ScanState, text string, opts Options, fn func(i int, st ScanState)) ScanState {
	i := 0
	n := len(text)
	for i < n {
		ch := text[i]
		var next byte
		if i+1 < n {
			next = text[i+1]
		}

		switch st.State {
		case StateCode:
			switch {
			// Line comment start wins over block comment start: "--/*" opens
			// a line comment.
			case ch == '-' && next == '-':
				st.State = StateLineComment
				fn(i, st)
				fn(i+1, st)
				i += 2
			case ch == '/' && next == '*':
				st.State = StateBlockComment
				st.BlockDepth = 1
				fn(i, st)
				fn(i+1, st)
				i += 2
			case ch == '\'' || ch == '"':
				if ch == '"' && !opts.DoubleQuoteString {
					st.State = StateQuotedIdent
				} else {
					st.State = StateString
				}
				st.Delim = ch
				fn(i, st)
				i++
			case ch == '[':
				st.State = StateBracket
				fn(i, st)
				i++
			default:
				fn(i, st)
				i++
			}

		case StateLineComment:
			if ch == '\n' {
				// The newline terminates the comment but belongs to code.
				st.State = StateCode
				fn(i, st)
			} else {
				fn(i, st)
			}
			i++

		case StateBlockComment:
			switch {
			case ch == '/' && next == '*':
				st.BlockDepth++
				fn(i, st)
				fn(i+1, st)
				i += 2
			case ch == '*' && next == '/':
				fn(i, st)
				fn(i+1, st)
				st.BlockDepth--
				if st.BlockDepth == 0 {
					st.State = StateCode
				}
				i += 2
			default:
				fn(i, st)
				i++
			}

		case StateString, StateQuotedIdent:
			if ch == st.Delim {
				if next == st.Delim {
					// Doubled delimiter is an escaped literal quote.
					fn(i, st)
					fn(i+1, st)
					i += 2
				} else {
					fn(i, st)
					st.State = StateCode
					st.Delim = 0
					i++
				}
			} else {
				fn(i, st)
				i++
			}

		case StateBracket:
			if ch == ']' {
				if next == ']' {
					fn(i, st)
					fn(i+1, st)
					i += 2
				} else {
					fn(i, st)
					st.State = StateCode
					i++
				}
			} else {
				fn(i, st)
				i++
			}
		}
	}
	return st
}

// StateAt returns the state the byte at offset would be scanned in. An offset
// at or past the end of text returns the dangling final state.
func StateAt(text string, offset int, opts Options) ScanState {
	if offset < 0 {
		return ScanState{}
	}
	var at ScanState
	found := false
	end := Fold(ScanState{}, text, opts, func(i int, st ScanState) {
		if i == offset {
			at = st
			found = true
		}
	})
	if !found {
		return end
	}
	return at
}
