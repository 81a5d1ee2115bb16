package clause

import (
	"strings"

	"github.com/mikevskater/sqlsense/pkg/token"
)

// extractLeft walks left from a comparison operator and extracts the operand
// when it is a plain reference: a dotted qualified path, a bracketed final
// segment, a variable, a system variable, a temp table reference, or a bare
// identifier. It declines (returns nil) for anything computed: function
// calls, CASE expressions, parenthesized arithmetic, and literals. A guess
// here would send the caller looking up columns that do not exist.
func extractLeft(toks []token.Token) *LeftSide {
	n := len(toks)
	if n == 0 {
		return nil
	}
	last := toks[n-1]
	switch last.Type {
	case token.RPAREN, token.END, token.STRING, token.NUMBER, token.NULL:
		return nil
	case token.VARIABLE, token.SYSVAR:
		return &LeftSide{Qualified: last.Literal, Column: last.Literal}
	}
	if !isNameTok(last) && last.Type != token.TEMP_IDENT {
		return nil
	}

	// Collect the dotted chain right-to-left, keeping raw text so a
	// bracketed segment round-trips as typed.
	raws := []string{last.Raw}
	names := []string{last.Literal}
	i := n - 2
	for i >= 1 && toks[i].Type == token.DOT && isPathTok(toks[i-1]) {
		raws = append([]string{toks[i-1].Raw}, raws...)
		names = append([]string{toks[i-1].Literal}, names...)
		i -= 2
	}

	ls := &LeftSide{
		Qualified: strings.Join(raws, "."),
		Column:    names[len(names)-1],
	}
	if len(names) >= 2 {
		ls.TableRef = names[len(names)-2]
	}
	return ls
}
