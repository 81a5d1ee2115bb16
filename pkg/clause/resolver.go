package clause

import (
	"github.com/mikevskater/sqlsense/pkg/lexer"
	"github.com/mikevskater/sqlsense/pkg/scan"
	"github.com/mikevskater/sqlsense/pkg/scope"
	"github.com/mikevskater/sqlsense/pkg/token"
)

// Resolve classifies the cursor position at a byte offset in text. The scope
// is optional and only used to map VALUES slots onto declared columns; pass
// nil when that mapping is not needed.
func Resolve(text string, offset int, sc *scope.Scope, opts lexer.Options) Context {
	if offset < 0 || offset > len(text) {
		return None
	}

	st := scan.StateAt(text, offset, scan.Options{DoubleQuoteString: opts.DoubleQuoteString})
	switch st.State {
	case scan.StateLineComment, scan.StateBlockComment:
		return None
	}
	inString := st.State == scan.StateString

	toks := lexer.TokenizeWithOptions(text[:offset], opts)
	if len(toks) == 0 {
		return None
	}

	// A token whose raw text touches the cursor is the fragment being typed;
	// it is completion input, not anchor context.
	partial := ""
	anchor := toks
	last := toks[len(toks)-1]
	if last.Pos.Offset+len(last.Raw) == offset && isFragmentTok(last) {
		partial = last.Raw
		anchor = toks[:len(toks)-1]
	}

	var ctx Context
	if n := len(anchor); n > 0 && anchor[n-1].Type == token.DOT {
		ctx = resolveQualified(anchor, sc)
	} else {
		ctx = resolveClause(anchor, sc)
	}
	ctx.Partial = partial

	if inString && !valueMode(ctx.Mode) {
		return None
	}
	return ctx
}

// valueMode reports whether a mode completes a literal value, the only kind
// of completion meaningful while the cursor sits inside a string.
func valueMode(m Mode) bool {
	switch m {
	case ModeComparison, ModePattern, ModeBetween, ModeInsertValues:
		return true
	}
	return false
}

// isFragmentTok reports whether a cursor-touching token is a typed fragment.
func isFragmentTok(t token.Token) bool {
	if token.IsIdentLike(t.Type) {
		return true
	}
	switch t.Type {
	case token.NUMBER, token.STRING:
		return true
	}
	return token.IsKeyword(t.Type)
}

func isNameTok(t token.Token) bool {
	return t.Type == token.IDENT || t.Type == token.QUOTED_IDENT
}

func isPathTok(t token.Token) bool {
	// INSERTED and DELETED lex as keywords but qualify columns under OUTPUT.
	return isNameTok(t) || t.Type == token.TEMP_IDENT || t.Type == token.VARIABLE ||
		t.Type == token.INSERTED || t.Type == token.DELETED
}

// resolveQualified handles a cursor immediately after "identifier." by
// collecting the dotted qualifier chain and then classifying the clause the
// chain sits in. In table position the chain is a schema or database prefix;
// anywhere else it is an alias/table qualifier.
func resolveQualified(anchor []token.Token, sc *scope.Scope) Context {
	dot := len(anchor) - 1
	parts, start := readPathBackward(anchor, dot-1)
	if len(parts) == 0 {
		return resolveClause(anchor[:dot], sc)
	}

	base := resolveClause(anchor[:start], sc)
	switch base.Mode {
	case ModeFrom, ModeJoin, ModeInsert:
		if len(parts) == 1 {
			base.Schema = parts[0]
		} else {
			base.Database = parts[0]
			base.Schema = parts[1]
		}
		return base
	}

	c := Context{Mode: ModeQualified, TableRef: parts[len(parts)-1]}
	if len(parts) >= 2 {
		c.Schema = parts[len(parts)-2]
	}
	if len(parts) >= 3 {
		c.Database = parts[len(parts)-3]
	}
	return c
}

// readPathBackward reads "a.b.c" ending at index end, returning the part
// literals in source order and the index of the first path token.
func readPathBackward(toks []token.Token, end int) (parts []string, start int) {
	i := end
	for i >= 0 && isPathTok(toks[i]) {
		parts = append([]string{toks[i].Literal}, parts...)
		if i-1 >= 0 && toks[i-1].Type == token.DOT {
			i -= 2
			continue
		}
		i--
		break
	}
	return parts, i + 1
}

// resolveClause walks backward from the end of anchor looking for the
// nearest clause keyword, balancing parens and counting operand tokens so
// that operator triggers only fire adjacent to the cursor.
func resolveClause(toks []token.Token, sc *scope.Scope) Context {
	n := len(toks)
	if n == 0 {
		return None
	}
	if toks[n-1].Type == token.AS {
		if inner := resolveClause(toks[:n-1], sc); inner.Mode == ModeSelect {
			return Context{Mode: ModeColumnAlias}
		}
		return None
	}

	depth := 0
	seen := 0   // operand tokens between the cursor and the current position
	commas := 0 // depth-0 commas, for VALUES slot numbering
	for i := n - 1; i >= 0; i-- {
		t := toks[i]
		if depth > 0 {
			switch t.Type {
			case token.RPAREN:
				depth++
			case token.LPAREN:
				depth--
				if depth == 0 {
					seen++
				}
			}
			continue
		}
		if seen == 0 && token.IsComparison(t.Type) {
			return comparisonContext(ModeComparison, toks[:i])
		}
		// A join qualifier adjacent to the cursor means the JOIN keyword is
		// still being typed.
		if seen == 0 && t.Type != token.JOIN && token.JoinKeyword(t.Type) {
			return Context{Mode: ModeJoin, JoinType: joinType(toks, i+1)}
		}
		switch t.Type {
		case token.RPAREN:
			depth++
		case token.LPAREN:
			// An unmatched open paren: the cursor lives inside it.
			if c, ok := resolveOpenParen(toks, i, commas, sc); ok {
				return c
			}
			seen++ // function call or grouping; inert
		case token.SEMICOLON:
			return None
		case token.SELECT:
			return Context{Mode: ModeSelect}
		case token.OUTPUT:
			// OUTPUT opens a column list over the inserted/deleted
			// pseudo-tables; completion-wise it behaves like a select list.
			return Context{Mode: ModeSelect}
		case token.FROM:
			return Context{Mode: ModeFrom}
		case token.JOIN:
			return Context{Mode: ModeJoin, JoinType: joinType(toks, i)}
		case token.ON:
			return Context{Mode: ModeOn}
		case token.WHERE:
			return Context{Mode: ModeWhere}
		case token.HAVING:
			return Context{Mode: ModeHaving}
		case token.BY:
			if i > 0 && toks[i-1].Type == token.GROUP {
				return Context{Mode: ModeGroupBy}
			}
			if i > 0 && toks[i-1].Type == token.ORDER {
				return Context{Mode: ModeOrderBy}
			}
			seen++
		case token.GROUP:
			return Context{Mode: ModeGroupBy}
		case token.ORDER:
			return Context{Mode: ModeOrderBy}
		case token.SET:
			return Context{Mode: ModeUpdateSet}
		case token.LIKE:
			if seen == 0 {
				return comparisonContext(ModePattern, toks[:i])
			}
			seen++
		case token.BETWEEN:
			if seen == 0 {
				return comparisonContext(ModeBetween, toks[:i])
			}
			seen++
		case token.AND:
			if seen == 0 {
				if j, ok := betweenFor(toks, i); ok {
					return comparisonContext(ModeBetween, toks[:j])
				}
			}
			// boolean separator; the clause continues further back
		case token.IS:
			if seen == 0 {
				return None
			}
			seen++
		case token.NOT:
			if seen == 0 && i > 0 && toks[i-1].Type == token.IS {
				return None
			}
		case token.UNION:
			return None
		case token.INTO:
			if i > 0 && toks[i-1].Type == token.INSERT {
				return insertContext(toks, i)
			}
			return Context{Mode: ModeFrom}
		case token.INSERT:
			return Context{Mode: ModeInsert}
		case token.UPDATE, token.DELETE:
			return Context{Mode: ModeFrom}
		case token.EXEC, token.EXECUTE:
			return Context{Mode: ModeExec}
		case token.USE:
			return Context{Mode: ModeUse}
		case token.DECLARE:
			return Context{Mode: ModeDeclare}
		case token.COMMA:
			commas++
			seen++
		case token.OR, token.CASE, token.WHEN, token.THEN, token.ELSE, token.END,
			token.DISTINCT, token.ALL, token.TOP, token.ASC, token.DESC,
			token.AS, token.IN, token.EXISTS, token.NULL, token.VALUES:
			// clause-internal; keep walking
		default:
			seen++
		}
	}
	return None
}

// resolveOpenParen classifies a cursor inside an unmatched open paren at
// lparen. It recognizes INSERT column lists, VALUES lists, and IN lists;
// anything else (function arguments, grouping, subqueries) reports not-ok so
// the caller keeps walking.
func resolveOpenParen(toks []token.Token, lparen, commas int, sc *scope.Scope) (Context, bool) {
	prev := lparen - 1
	if prev < 0 {
		return None, false
	}
	switch toks[prev].Type {
	case token.VALUES:
		return valuesContext(toks, prev, commas, sc), true
	case token.IN:
		// IN-list continuation: values position, but no direct left column.
		return Context{Mode: ModeComparison}, true
	}
	if isPathTok(toks[prev]) {
		parts, start := readPathBackward(toks, prev)
		if len(parts) > 0 && start > 0 && toks[start-1].Type == token.INTO {
			return Context{Mode: ModeInsertColumns, TableRef: parts[len(parts)-1]}, true
		}
	}
	return None, false
}

// valuesContext builds the insert_values context: the 1-based slot index and,
// when it can be determined, the declared column the slot corresponds to.
// toks[values] is the VALUES keyword.
func valuesContext(toks []token.Token, values, commas int, sc *scope.Scope) Context {
	ctx := Context{Mode: ModeInsertValues, ValueIndex: commas + 1}

	// Explicit column list: INSERT INTO t (a, b) VALUES (...
	k := values - 1
	var cols []string
	if k >= 0 && toks[k].Type == token.RPAREN {
		open := matchBackward(toks, k)
		for j := open + 1; j < k && j >= 0; j++ {
			if isNameTok(toks[j]) {
				cols = append(cols, toks[j].Literal)
			}
		}
		k = open - 1
	}
	if k >= 0 && isPathTok(toks[k]) {
		parts, _ := readPathBackward(toks, k)
		if len(parts) > 0 {
			ctx.TableRef = parts[len(parts)-1]
		}
	}

	switch {
	case len(cols) >= ctx.ValueIndex:
		ctx.Column = cols[ctx.ValueIndex-1]
	case sc != nil && ctx.TableRef != "":
		if e, ok := sc.Lookup(ctx.TableRef); ok {
			if cn := e.ColumnNames(); len(cn) >= ctx.ValueIndex {
				ctx.Column = cn[ctx.ValueIndex-1]
			}
		}
	}
	return ctx
}

// insertContext builds the insert-target context. toks[into] is INTO.
func insertContext(toks []token.Token, into int) Context {
	ctx := Context{Mode: ModeInsert}
	var parts []string
	for j := into + 1; j < len(toks); j++ {
		if isPathTok(toks[j]) {
			parts = append(parts, toks[j].Literal)
			if j+1 < len(toks) && toks[j+1].Type == token.DOT {
				j++
				continue
			}
		}
		break
	}
	if len(parts) > 0 {
		ctx.TableRef = parts[len(parts)-1]
	}
	return ctx
}

// betweenFor checks whether the AND at index i continues a BETWEEN, and if
// so returns the index of the BETWEEN keyword.
func betweenFor(toks []token.Token, i int) (int, bool) {
	depth := 0
	for j := i - 1; j >= 0; j-- {
		switch toks[j].Type {
		case token.RPAREN:
			depth++
		case token.LPAREN:
			if depth == 0 {
				return 0, false
			}
			depth--
		case token.BETWEEN:
			if depth == 0 {
				return j, true
			}
		case token.NUMBER, token.STRING, token.IDENT, token.QUOTED_IDENT,
			token.VARIABLE, token.SYSVAR, token.TEMP_IDENT, token.DOT,
			token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
			token.NOT:
			// possible operand of the BETWEEN's low bound
		default:
			if depth == 0 {
				return 0, false
			}
		}
	}
	return 0, false
}

// comparisonContext attaches the extracted left operand, if one qualifies.
func comparisonContext(mode Mode, left []token.Token) Context {
	ctx := Context{Mode: mode}
	if ls := extractLeft(left); ls != nil {
		ctx.Left = ls
		ctx.Column = ls.Column
	}
	return ctx
}

// joinType reassembles the join qualifier words preceding the JOIN keyword
// at joinIdx: "LEFT", "FULL OUTER", "CROSS". Empty for a bare JOIN.
func joinType(toks []token.Token, joinIdx int) string {
	j := joinIdx - 1
	outer := false
	if j >= 0 && toks[j].Type == token.OUTER {
		outer = true
		j--
	}
	word := ""
	if j >= 0 {
		switch toks[j].Type {
		case token.LEFT:
			word = "LEFT"
		case token.RIGHT:
			word = "RIGHT"
		case token.FULL:
			word = "FULL"
		case token.INNER:
			word = "INNER"
		case token.CROSS:
			word = "CROSS"
		}
	}
	if word == "" {
		if outer {
			return "OUTER"
		}
		return ""
	}
	if outer {
		return word + " OUTER"
	}
	return word
}

// matchBackward returns the index of the LPAREN matching the RPAREN at i,
// or -1 when unbalanced.
func matchBackward(toks []token.Token, i int) int {
	depth := 0
	for ; i >= 0; i-- {
		switch toks[i].Type {
		case token.RPAREN:
			depth++
		case token.LPAREN:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
