package scope

import "github.com/mikevskater/sqlsense/pkg/token"

// inferSelectColumns derives the output column names of a query block. When
// the select list is star-free the names are computed eagerly; a star forces
// lazy expansion because it needs the block's FROM sources and possibly the
// catalog.
func (b *Builder) inferSelectColumns(toks []token.Token, parent *Scope) (cols []string, lazy func() []string) {
	items := selectListItems(toks)
	if items == nil {
		return nil, nil
	}

	hasStar := false
	for _, item := range items {
		if isStarItem(item) {
			hasStar = true
			break
		}
	}

	if !hasStar {
		for _, item := range items {
			if name, ok := itemName(item); ok {
				cols = append(cols, name)
			}
		}
		return cols, nil
	}

	body := toks
	return nil, func() []string {
		inner := parent.Child()
		b.registerCTEs(body, inner)
		b.registerSources(body, inner)
		var out []string
		for _, item := range items {
			switch {
			case len(item) == 1 && item[0].Type == token.STAR:
				for _, e := range inner.Entries() {
					out = append(out, e.ColumnNames()...)
				}
			case isStarItem(item):
				// qualified star: alias.* or schema.table.*
				qual := item[len(item)-3].Literal
				if e, ok := inner.Lookup(qual); ok {
					out = append(out, e.ColumnNames()...)
				}
			default:
				if name, ok := itemName(item); ok {
					out = append(out, name)
				}
			}
		}
		return out
	}
}

// selectListItems returns the top-level comma-separated items of the block's
// select list, or nil when the block has no depth-0 SELECT.
func selectListItems(toks []token.Token) [][]token.Token {
	depth := 0
	start := -1
	for i := 0; i < len(toks); i++ {
		switch toks[i].Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
		case token.SELECT:
			if depth != 0 {
				continue
			}
			start = i + 1
			// Skip DISTINCT/ALL and TOP n / TOP (expr).
			for start < len(toks) {
				switch toks[start].Type {
				case token.DISTINCT, token.ALL:
					start++
					continue
				case token.TOP:
					start++
					if start < len(toks) {
						if toks[start].Type == token.LPAREN {
							start = matchParen(toks, start) + 1
						} else {
							start++
						}
					}
					continue
				}
				break
			}
		}
		if start >= 0 {
			break
		}
	}
	if start < 0 || start >= len(toks) {
		return nil
	}

	var items [][]token.Token
	itemStart := start
	depth = 0
	for i := start; i < len(toks); i++ {
		switch toks[i].Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			if depth == 0 {
				// End of an enclosing block.
				if i > itemStart {
					items = append(items, toks[itemStart:i])
				}
				return items
			}
			depth--
		case token.COMMA:
			if depth == 0 {
				items = append(items, toks[itemStart:i])
				itemStart = i + 1
			}
		case token.FROM, token.INTO:
			if depth == 0 {
				if i > itemStart {
					items = append(items, toks[itemStart:i])
				}
				return items
			}
		}
	}
	if len(toks) > itemStart {
		items = append(items, toks[itemStart:])
	}
	return items
}

// isStarItem reports whether a select item is * or qualifier.*.
func isStarItem(item []token.Token) bool {
	if len(item) == 0 {
		return false
	}
	last := item[len(item)-1]
	if last.Type != token.STAR {
		return false
	}
	return len(item) == 1 || item[len(item)-2].Type == token.DOT
}

// itemName derives the output name of a select item: an explicit AS alias, a
// trailing bare alias, or the final segment of a column path. Expressions
// without an alias contribute no name.
func itemName(item []token.Token) (string, bool) {
	if len(item) == 0 {
		return "", false
	}
	// Explicit AS alias wins.
	depth := 0
	for i, t := range item {
		switch t.Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
		case token.AS:
			if depth == 0 && i+1 < len(item) && isIdentTok(item[i+1]) {
				return item[i+1].Literal, true
			}
		}
	}
	last := item[len(item)-1]
	if !isIdentTok(last) {
		return "", false
	}
	if len(item) == 1 {
		return last.Literal, true
	}
	if item[len(item)-2].Type == token.DOT {
		return last.Literal, true
	}
	// expr alias form: UPPER(Name) DisplayName, price * qty total
	return last.Literal, true
}
