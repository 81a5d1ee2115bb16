// Package lexer tokenizes T-SQL input for the clause and scope resolvers.
//
// The lexer follows the same escaping rules as pkg/scan: doubled quotes inside
// strings, doubled brackets inside [identifiers], and nestable block comments.
// It never fails; unterminated constructs produce a token covering the rest of
// the input so resolvers can keep working on mid-edit text.
package lexer

import (
	"strings"
	"unicode"

	"github.com/mikevskater/sqlsense/pkg/token"
)

// Options controls vendor-specific lexing behavior.
type Options struct {
	// DoubleQuoteString lexes "..." as a string literal instead of a quoted
	// identifier. Mirrors scan.Options.
	DoubleQuoteString bool
}

// Lexer tokenizes SQL input.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)
	opts    Options

	// Comments collected during lexing
	Comments []*token.Comment
}

// New creates a new Lexer for the given input.
func New(input string) *Lexer {
	return NewWithOptions(input, Options{})
}

// NewWithOptions creates a new Lexer with vendor options.
func NewWithOptions(input string, opts Options) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
		opts:  opts,
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	pos := l.currentPos()
	start := l.pos

	var tok token.Token
	tok.Pos = pos

	switch l.ch {
	case 0:
		tok.Type = token.EOF
		return tok
	case '=':
		tok = l.newToken(token.EQ, "=")
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			tok = token.Token{Type: token.LE, Literal: "<=", Pos: pos}
		case '>':
			l.readChar()
			tok = token.Token{Type: token.NE, Literal: "<>", Pos: pos}
		default:
			tok = l.newToken(token.LT, "<")
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.GE, Literal: ">=", Pos: pos}
		} else {
			tok = l.newToken(token.GT, ">")
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.NE, Literal: "!=", Pos: pos}
		} else {
			tok = l.newToken(token.ILLEGAL, string(l.ch))
		}
	case '.':
		tok = l.newToken(token.DOT, ".")
	case ',':
		tok = l.newToken(token.COMMA, ",")
	case '(':
		tok = l.newToken(token.LPAREN, "(")
	case ')':
		tok = l.newToken(token.RPAREN, ")")
	case ';':
		tok = l.newToken(token.SEMICOLON, ";")
	case '*':
		tok = l.newToken(token.STAR, "*")
	case '+':
		tok = l.newToken(token.PLUS, "+")
	case '-':
		tok = l.newToken(token.MINUS, "-")
	case '/':
		tok = l.newToken(token.SLASH, "/")
	case '%':
		tok = l.newToken(token.PERCENT, "%")
	case '\'':
		tok.Type = token.STRING
		tok.Literal = l.readDelimited('\'')
		tok.Raw = l.input[start:l.pos]
		return tok
	case '"':
		if l.opts.DoubleQuoteString {
			tok.Type = token.STRING
		} else {
			tok.Type = token.QUOTED_IDENT
		}
		tok.Literal = l.readDelimited('"')
		tok.Raw = l.input[start:l.pos]
		return tok
	case '[':
		tok.Type = token.QUOTED_IDENT
		tok.Literal = l.readBracketed()
		tok.Raw = l.input[start:l.pos]
		return tok
	case '@':
		if l.peekChar() == '@' {
			l.readChar()
			tok.Type = token.SYSVAR
		} else {
			tok.Type = token.VARIABLE
		}
		l.readChar() // move past the (last) @
		l.readIdentifier()
		tok.Raw = l.input[start:l.pos]
		tok.Literal = tok.Raw
		return tok
	case '#':
		tok.Type = token.TEMP_IDENT
		l.readChar()
		if l.ch == '#' {
			l.readChar()
		}
		l.readIdentifier()
		tok.Raw = l.input[start:l.pos]
		tok.Literal = tok.Raw
		return tok
	default:
		switch {
		case l.ch == 'N' && l.peekChar() == '\'':
			l.readChar() // skip N
			tok.Type = token.STRING
			tok.Literal = l.readDelimited('\'')
			tok.Raw = l.input[start:l.pos]
			return tok
		case isLetter(l.ch) || l.ch == '_':
			tok.Literal = l.readIdentifier()
			tok.Raw = tok.Literal
			tok.Type = token.LookupIdent(strings.ToLower(tok.Literal))
			tok.Pos = pos
			return tok
		case isDigit(l.ch):
			tok.Type = token.NUMBER
			tok.Literal = l.readNumber()
			tok.Raw = tok.Literal
			tok.Pos = pos
			return tok
		default:
			tok = l.newToken(token.ILLEGAL, string(l.ch))
		}
	}

	l.readChar()
	tok.Raw = tok.Literal
	return tok
}

// newToken creates a new token at the current position.
func (l *Lexer) newToken(t token.Type, literal string) token.Token {
	return token.Token{Type: t, Literal: literal, Raw: literal, Pos: l.currentPos()}
}

// skipWhitespaceAndComments skips whitespace and collects comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			l.readChar()
		}

		if l.ch == '-' && l.peekChar() == '-' {
			l.collectLineComment()
			continue
		}

		if l.ch == '/' && l.peekChar() == '*' {
			l.collectBlockComment()
			continue
		}

		break
	}
}

// collectLineComment collects a line comment.
func (l *Lexer) collectLineComment() {
	startPos := l.currentPos()
	startOffset := l.pos

	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}

	l.Comments = append(l.Comments, &token.Comment{
		Kind: token.LineComment,
		Text: l.input[startOffset:l.pos],
		Span: token.Span{Start: startPos, End: l.currentPos()},
	})
}

// collectBlockComment collects a block comment, honoring nesting.
func (l *Lexer) collectBlockComment() {
	startPos := l.currentPos()
	startOffset := l.pos

	l.readChar() // skip '/'
	l.readChar() // skip '*'

	depth := 1
	for l.ch != 0 && depth > 0 {
		switch {
		case l.ch == '/' && l.peekChar() == '*':
			depth++
			l.readChar()
			l.readChar()
		case l.ch == '*' && l.peekChar() == '/':
			depth--
			l.readChar()
			l.readChar()
		default:
			l.readChar()
		}
	}

	l.Comments = append(l.Comments, &token.Comment{
		Kind: token.BlockComment,
		Text: l.input[startOffset:l.pos],
		Span: token.Span{Start: startPos, End: l.currentPos()},
	})
}

// readDelimited reads a quoted construct using the doubled-delimiter escape
// rule. Returns the unescaped content without delimiters.
func (l *Lexer) readDelimited(delim byte) string {
	l.readChar() // skip opening delimiter

	var result strings.Builder
	for l.ch != 0 {
		if l.ch == delim {
			if l.peekChar() == delim {
				result.WriteByte(delim)
				l.readChar()
				l.readChar()
			} else {
				l.readChar() // skip closing delimiter
				break
			}
		} else {
			result.WriteByte(l.ch)
			l.readChar()
		}
	}
	return result.String()
}

// readBracketed reads a [bracketed identifier] with ]] escapes.
func (l *Lexer) readBracketed() string {
	l.readChar() // skip '['

	var result strings.Builder
	for l.ch != 0 {
		if l.ch == ']' {
			if l.peekChar() == ']' {
				result.WriteByte(']')
				l.readChar()
				l.readChar()
			} else {
				l.readChar() // skip ']'
				break
			}
		} else {
			result.WriteByte(l.ch)
			l.readChar()
		}
	}
	return result.String()
}

// readIdentifier reads an unquoted identifier.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' || l.ch == '$' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads a numeric literal (integer, decimal, or scientific).
func (l *Lexer) readNumber() string {
	start := l.pos

	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	if l.ch == 'e' || l.ch == 'E' {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	return l.input[start:l.pos]
}

// isLetter returns true if ch is a letter.
func isLetter(ch byte) bool {
	return unicode.IsLetter(rune(ch))
}

// isDigit returns true if ch is a digit.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// Tokenize returns all tokens from the input, excluding the trailing EOF.
func Tokenize(input string) []token.Token {
	return TokenizeWithOptions(input, Options{})
}

// TokenizeWithOptions returns all tokens from the input with vendor options.
func TokenizeWithOptions(input string, opts Options) []token.Token {
	l := NewWithOptions(input, opts)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
		tokens = append(tokens, tok)
	}
	return tokens
}
