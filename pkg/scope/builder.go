package scope

import (
	"strings"

	"github.com/mikevskater/sqlsense/pkg/batch"
	"github.com/mikevskater/sqlsense/pkg/catalog"
	"github.com/mikevskater/sqlsense/pkg/dialect"
	"github.com/mikevskater/sqlsense/pkg/lexer"
	"github.com/mikevskater/sqlsense/pkg/scan"
	"github.com/mikevskater/sqlsense/pkg/token"
)

// Builder constructs scopes from script text. One Builder can serve many
// Build calls; it carries only configuration.
type Builder struct {
	Dialect  *dialect.Dialect
	Catalog  catalog.Resolver
	Database string // ambient connection database, used before any USE
}

// NewBuilder returns a Builder. A nil dialect defaults to sqlserver; a nil
// catalog degrades to name-only resolution.
func NewBuilder(d *dialect.Dialect, cat catalog.Resolver, database string) *Builder {
	if d == nil {
		d = dialect.MustGet("sqlserver")
	}
	return &Builder{Dialect: d, Catalog: cat, Database: database}
}

// Build resolves the scope visible at a byte offset in text.
//
// Earlier batches contribute only temp tables and table variables (session
// lifetime). Earlier statements in the cursor's batch additionally contribute
// declared variables. The cursor's own statement contributes everything,
// including FROM sources written after the cursor, so that a half-typed
// select list still resolves against the tables below it.
func (b *Builder) Build(text string, offset int) *Scope {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}

	sc := New(b.Catalog)
	sc.DefaultSchema = b.Dialect.DefaultSchema
	sc.Database = b.activeDatabase(text, offset)

	spans := batch.Spans(text)
	cur := len(spans) - 1
	for i, sp := range spans {
		if offset <= sp.End {
			cur = i
			break
		}
	}

	opts := b.Dialect.LexOptions()
	for i := 0; i < cur; i++ {
		sp := spans[i]
		toks := lexer.TokenizeWithOptions(text[sp.Start:sp.End], opts)
		b.collectPersistent(toks, sc)
	}

	sp := spans[cur]
	rel := offset - sp.Start
	if rel < 0 {
		rel = 0
	}
	toks := lexer.TokenizeWithOptions(text[sp.Start:sp.End], opts)
	if rel > sp.End-sp.Start {
		rel = sp.End - sp.Start
	}

	stmt, before := splitAtStatement(toks, rel)
	for _, s := range before {
		b.collectPersistent(s, sc)
		b.collectVariables(s, sc)
	}
	return b.statementScope(stmt, rel, sc)
}

// activeDatabase resolves the database in effect at the offset, honoring USE
// statements across the whole buffer.
func (b *Builder) activeDatabase(text string, offset int) string {
	line, _ := scan.Point(text, offset)
	chunks := batch.Split(text, b.Database, b.Dialect.ScanOptions())
	if c, ok := batch.ChunkAt(chunks, line); ok {
		return c.Database
	}
	return b.Database
}

// splitAtStatement partitions the batch's tokens at top-level semicolons,
// returning the statement containing rel and the complete statements before
// it.
func splitAtStatement(toks []token.Token, rel int) (stmt []token.Token, before [][]token.Token) {
	start := 0
	for i, t := range toks {
		if t.Type != token.SEMICOLON {
			continue
		}
		if t.Pos.Offset >= rel {
			return toks[start:i], before
		}
		before = append(before, toks[start:i])
		start = i + 1
	}
	return toks[start:], before
}

// statementScope registers the statement's sources into sc and descends into
// the innermost subquery block containing rel, if any.
func (b *Builder) statementScope(toks []token.Token, rel int, sc *Scope) *Scope {
	b.collectVariables(toks, sc)
	b.collectPersistent(toks, sc)
	b.registerCTEs(toks, sc)
	b.registerSources(toks, sc)

	inner, ok := innermostQueryBlock(toks, rel)
	if !ok {
		return sc
	}
	return b.statementScope(inner, rel, sc.Child())
}

// innermostQueryBlock finds the deepest parenthesized SELECT or WITH block
// whose body contains rel.
func innermostQueryBlock(toks []token.Token, rel int) ([]token.Token, bool) {
	best := -1
	bestEnd := -1
	for i := 0; i < len(toks); i++ {
		if toks[i].Type != token.LPAREN || i+1 >= len(toks) {
			continue
		}
		next := toks[i+1].Type
		if next != token.SELECT && next != token.WITH {
			continue
		}
		j := matchParen(toks, i)
		// The block's body runs from after '(' to before its ')'.
		bodyStart := toks[i].Pos.Offset + 1
		bodyEnd := int(^uint(0) >> 1) // unterminated block runs to EOF
		if j < len(toks) {
			bodyEnd = toks[j].Pos.Offset
		}
		if rel >= bodyStart && rel <= bodyEnd {
			best = i
			bestEnd = j
		}
	}
	if best < 0 {
		return nil, false
	}
	end := bestEnd
	if end > len(toks) {
		end = len(toks)
	}
	return toks[best+1 : end], true
}

// matchParen returns the index of the RPAREN matching the LPAREN at i, or
// len(toks) when the input is unterminated.
func matchParen(toks []token.Token, i int) int {
	depth := 0
	for ; i < len(toks); i++ {
		switch toks[i].Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(toks)
}

// registerCTEs scans depth-0 WITH clauses and registers each CTE in order,
// so a later CTE in the same list can reference an earlier one.
func (b *Builder) registerCTEs(toks []token.Token, sc *Scope) {
	depth := 0
	for i := 0; i < len(toks); i++ {
		switch toks[i].Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
		case token.WITH:
			if depth != 0 {
				continue
			}
			// WITH ( ... ) after a table name is a hint, not a CTE list.
			if i+1 < len(toks) && toks[i+1].Type == token.LPAREN {
				continue
			}
			i = b.parseCTEList(toks, i+1, sc)
		}
	}
}

// parseCTEList parses "name [(cols)] AS ( body ) [, ...]" starting at i and
// returns the index of the last consumed token.
func (b *Builder) parseCTEList(toks []token.Token, i int, sc *Scope) int {
	for i < len(toks) {
		if !isIdentTok(toks[i]) {
			return i - 1
		}
		name := toks[i].Literal
		i++

		var explicit []string
		if i < len(toks) && toks[i].Type == token.LPAREN {
			end := matchParen(toks, i)
			for j := i + 1; j < end && j < len(toks); j++ {
				if isIdentTok(toks[j]) {
					explicit = append(explicit, toks[j].Literal)
				}
			}
			i = end + 1
		}
		if i >= len(toks) || toks[i].Type != token.AS {
			return i - 1
		}
		i++
		if i >= len(toks) || toks[i].Type != token.LPAREN {
			return i - 1
		}
		end := matchParen(toks, i)
		bodyEnd := end
		if bodyEnd > len(toks) {
			bodyEnd = len(toks)
		}
		body := toks[i+1 : bodyEnd]

		e := &Entry{Kind: KindCTE, Name: name, Columns: explicit}
		if explicit == nil {
			cols, lazy := b.inferSelectColumns(body, sc)
			e.Columns = cols
			e.lazyColumns = lazy
		}
		sc.Add(e)

		i = end + 1
		if i < len(toks) && toks[i].Type == token.COMMA {
			i++
			continue
		}
		return i - 1
	}
	return i - 1
}

// registerSources walks depth-0 tokens registering FROM/JOIN/APPLY sources,
// DML targets, INTO targets, and the inserted/deleted pseudo-tables for
// OUTPUT clauses and trigger bodies.
func (b *Builder) registerSources(toks []token.Token, sc *Scope) {
	depth := 0
	sawPseudo := false
	var target *Entry
	for i := 0; i < len(toks); i++ {
		switch toks[i].Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
		case token.FROM:
			if depth != 0 {
				continue
			}
			i = b.parseSourceList(toks, i+1, sc)
		case token.JOIN, token.APPLY:
			if depth != 0 {
				continue
			}
			e, next := b.parseTableRef(toks, i+1, sc)
			if e != nil {
				sc.Add(e)
			}
			i = next - 1
		case token.UPDATE, token.INTO:
			if depth != 0 {
				continue
			}
			e, next := b.parseTargetRef(toks, i+1, sc)
			if e != nil {
				sc.Add(e)
				if target == nil {
					target = e
				}
			}
			i = next - 1
		case token.TRIGGER:
			if depth != 0 {
				continue
			}
			// CREATE TRIGGER name ON table: the whole body sees inserted and
			// deleted bound to the table's columns.
			_, next := readPath(toks, i+1)
			if next < len(toks) && toks[next].Type == token.ON {
				if e, after := b.parseTargetRef(toks, next+1, sc); e != nil {
					target = e
					sawPseudo = true
					i = after - 1
					continue
				}
			}
			i = next - 1
		case token.OUTPUT:
			if depth == 0 {
				sawPseudo = true
			}
		}
	}
	if sawPseudo {
		for _, name := range []string{"inserted", "deleted"} {
			e := &Entry{Kind: KindPseudo, Name: name}
			if target != nil {
				t := target
				e.lazyColumns = func() []string { return t.ColumnNames() }
			}
			sc.Add(e)
		}
	}
}

// parseSourceList parses "ref [, ref ...]" after FROM and returns the index
// of the last consumed token.
func (b *Builder) parseSourceList(toks []token.Token, i int, sc *Scope) int {
	for i < len(toks) {
		e, next := b.parseTableRef(toks, i, sc)
		if e != nil {
			sc.Add(e)
		}
		i = next
		if i < len(toks) && toks[i].Type == token.COMMA {
			i++
			continue
		}
		return i - 1
	}
	return i - 1
}

// parseTargetRef parses a DML target after UPDATE or INTO. Unlike a FROM
// source, a trailing paren here is a column list, never a TVF call.
func (b *Builder) parseTargetRef(toks []token.Token, i int, sc *Scope) (*Entry, int) {
	if i >= len(toks) {
		return nil, i
	}
	switch toks[i].Type {
	case token.TEMP_IDENT, token.VARIABLE:
		return b.parseTableRef(toks, i, sc)
	}
	if !isIdentTok(toks[i]) {
		return nil, i + 1
	}
	parts, next := readPath(toks, i)
	e := &Entry{Kind: KindTable}
	e.Database, e.Schema, e.Name = splitQualified(parts)
	db, schema, name := e.Database, e.Schema, e.Name
	e.lazyColumns = func() []string { return sc.TableColumns(db, schema, name) }
	return e, next
}

// parseTableRef parses one table source starting at i: a plain (possibly
// qualified) table, a CTE reference, a temp table, a table variable, a TVF
// call, or a parenthesized derived table. Returns nil when i does not start
// a source. next is the index after the ref and its alias.
func (b *Builder) parseTableRef(toks []token.Token, i int, sc *Scope) (e *Entry, next int) {
	if i >= len(toks) {
		return nil, i
	}
	switch toks[i].Type {
	case token.LPAREN:
		end := matchParen(toks, i)
		bodyEnd := end
		if bodyEnd > len(toks) {
			bodyEnd = len(toks)
		}
		body := toks[i+1 : bodyEnd]
		alias, next := readAlias(toks, end+1)
		e := &Entry{Kind: KindDerived, Alias: alias}
		cols, lazy := b.inferSelectColumns(body, sc)
		e.Columns = cols
		e.lazyColumns = lazy
		return e, next

	case token.TEMP_IDENT:
		name := toks[i].Literal
		alias, next := readAlias(toks, i+1)
		if def, ok := sc.TempTable(name); ok {
			return aliasRef(def, alias), next
		}
		return &Entry{Kind: KindTempTable, Name: name, Alias: alias}, next

	case token.VARIABLE:
		name := toks[i].Literal
		alias, next := readAlias(toks, i+1)
		if def, ok := sc.TableVariable(name); ok {
			return aliasRef(def, alias), next
		}
		return &Entry{Kind: KindTableVariable, Name: name, Alias: alias}, next
	}

	if !isIdentTok(toks[i]) {
		return nil, i + 1
	}
	parts, next := readPath(toks, i)
	if len(parts) == 0 {
		return nil, next
	}

	// Function-call syntax means a table-valued function.
	if next < len(toks) && toks[next].Type == token.LPAREN {
		end := matchParen(toks, next)
		alias, after := readAlias(toks, end+1)
		e := &Entry{Kind: KindTVF, Alias: alias}
		e.Database, e.Schema, e.Name = splitQualified(parts)
		db, schema, name := e.Database, e.Schema, e.Name
		e.lazyColumns = func() []string {
			t := sc.cat.ResolveTVF(db, schema, name)
			if t == nil {
				return nil
			}
			return t.ColumnNames()
		}
		return e, after
	}

	alias, after := readAlias(toks, next)
	after = skipTableHint(toks, after)

	if len(parts) == 1 {
		if def, ok := sc.CTE(parts[0]); ok {
			return aliasRef(def, alias), after
		}
	}

	e = &Entry{Kind: KindTable, Alias: alias}
	e.Database, e.Schema, e.Name = splitQualified(parts)
	db, schema, name := e.Database, e.Schema, e.Name
	e.lazyColumns = func() []string { return sc.TableColumns(db, schema, name) }
	return e, after
}

// aliasRef returns a reference entry for a registered definition. Column
// expansion routes through the definition so its recursion guard is shared;
// a self-referencing body (a recursive CTE, SELECT INTO from itself) then
// terminates instead of expanding forever.
func aliasRef(def *Entry, alias string) *Entry {
	return &Entry{
		Kind:        def.Kind,
		Database:    def.Database,
		Schema:      def.Schema,
		Name:        def.Name,
		Alias:       alias,
		lazyColumns: def.ColumnNames,
	}
}

// readPath reads a dotted identifier path like db.schema.table, tolerating
// the empty middle part of db..table.
func readPath(toks []token.Token, i int) (parts []string, next int) {
	for i < len(toks) {
		if isIdentTok(toks[i]) {
			parts = append(parts, toks[i].Literal)
			i++
		} else if toks[i].Type == token.DOT {
			// db..table: consecutive dots imply an empty schema part.
			parts = append(parts, "")
			i++
			continue
		} else {
			break
		}
		if i < len(toks) && toks[i].Type == token.DOT {
			i++
			continue
		}
		break
	}
	return parts, i
}

// splitQualified maps a dotted path onto (database, schema, name).
func splitQualified(parts []string) (database, schema, name string) {
	switch len(parts) {
	case 0:
		return "", "", ""
	case 1:
		return "", "", parts[0]
	case 2:
		return "", parts[0], parts[1]
	default:
		n := len(parts)
		return parts[n-3], parts[n-2], parts[n-1]
	}
}

// readAlias reads an optional "[AS] ident" alias at i.
func readAlias(toks []token.Token, i int) (alias string, next int) {
	if i < len(toks) && toks[i].Type == token.AS {
		i++
	}
	if i < len(toks) && isIdentTok(toks[i]) {
		return toks[i].Literal, i + 1
	}
	return "", i
}

// skipTableHint skips a "WITH ( ... )" table hint after a source.
func skipTableHint(toks []token.Token, i int) int {
	if i+1 < len(toks) && toks[i].Type == token.WITH && toks[i+1].Type == token.LPAREN {
		return matchParen(toks, i+1) + 1
	}
	return i
}

// isIdentTok reports whether t can serve as a name segment.
func isIdentTok(t token.Token) bool {
	return t.Type == token.IDENT || t.Type == token.QUOTED_IDENT
}

// collectVariables registers DECLARE'd scalar variables and procedure
// parameters, which read like DECLARE items after the procedure name.
func (b *Builder) collectVariables(toks []token.Token, sc *Scope) {
	for i := 0; i < len(toks); i++ {
		switch toks[i].Type {
		case token.DECLARE:
			i = parseDeclare(toks, i+1, sc, false)
		case token.PROC, token.PROCEDURE:
			_, next := readPath(toks, i+1)
			j := next
			if j < len(toks) && toks[j].Type == token.LPAREN {
				j++
			}
			if j < len(toks) && toks[j].Type == token.VARIABLE {
				i = parseDeclare(toks, j, sc, false)
			} else {
				i = next - 1
			}
		}
	}
}

// collectPersistent registers temp tables and table variables, which outlive
// statement and batch boundaries.
func (b *Builder) collectPersistent(toks []token.Token, sc *Scope) {
	for i := 0; i < len(toks); i++ {
		switch toks[i].Type {
		case token.CREATE:
			// CREATE TABLE #name ( ... )
			if i+2 < len(toks) && toks[i+1].Type == token.TABLE && toks[i+2].Type == token.TEMP_IDENT {
				name := toks[i+2].Literal
				var cols []string
				j := i + 3
				if j < len(toks) && toks[j].Type == token.LPAREN {
					cols = parseColumnDefs(toks, j)
					j = matchParen(toks, j) + 1
				}
				sc.Add(&Entry{Kind: KindTempTable, Name: name, Columns: cols})
				i = j - 1
			}
		case token.DECLARE:
			i = parseDeclare(toks, i+1, sc, true)
		case token.INTO:
			// SELECT ... INTO #name materializes a temp table.
			if i+1 < len(toks) && toks[i+1].Type == token.TEMP_IDENT {
				name := toks[i+1].Literal
				if _, ok := sc.TempTable(name); !ok {
					cols, lazy := b.inferSelectColumns(toks[:i], sc)
					sc.Add(&Entry{Kind: KindTempTable, Name: name, Columns: cols, lazyColumns: lazy})
				}
				i++
			}
		}
	}
}

// parseDeclare parses "@name TYPE [, @name TYPE ...]" or "@name TABLE (...)"
// starting at i. When tableOnly is set, scalar declarations are skipped (used
// for the persistent pass, where scalars do not survive). Returns the last
// consumed index.
func parseDeclare(toks []token.Token, i int, sc *Scope, tableOnly bool) int {
	for i < len(toks) {
		if toks[i].Type != token.VARIABLE {
			return i - 1
		}
		name := toks[i].Literal
		i++
		if i < len(toks) && toks[i].Type == token.AS {
			i++
		}
		if i < len(toks) && toks[i].Type == token.TABLE {
			var cols []string
			j := i + 1
			if j < len(toks) && toks[j].Type == token.LPAREN {
				cols = parseColumnDefs(toks, j)
				j = matchParen(toks, j) + 1
			}
			sc.Add(&Entry{Kind: KindTableVariable, Name: name, Columns: cols})
			i = j
		} else {
			typ, next := readTypeName(toks, i)
			if !tableOnly {
				sc.AddVariable(name, typ)
			}
			i = next
			// Procedure parameters may carry an OUTPUT marker.
			if i < len(toks) && toks[i].Type == token.OUTPUT {
				i++
			}
		}
		if i < len(toks) && toks[i].Type == token.COMMA {
			i++
			continue
		}
		return i - 1
	}
	return i - 1
}

// readTypeName reads a type like INT, VARCHAR(50), or DECIMAL(10, 2).
func readTypeName(toks []token.Token, i int) (typ string, next int) {
	if i >= len(toks) || !isIdentTok(toks[i]) {
		return "", i
	}
	var sb strings.Builder
	sb.WriteString(toks[i].Literal)
	i++
	if i < len(toks) && toks[i].Type == token.LPAREN {
		end := matchParen(toks, i)
		sb.WriteByte('(')
		for j := i + 1; j < end && j < len(toks); j++ {
			if j > i+1 {
				sb.WriteString(" ")
			}
			sb.WriteString(toks[j].Raw)
		}
		sb.WriteByte(')')
		i = end + 1
	}
	// Skip a default value initializer up to the next declaration item.
	if i < len(toks) && toks[i].Type == token.EQ {
		i++
		depth := 0
		for ; i < len(toks); i++ {
			switch toks[i].Type {
			case token.LPAREN:
				depth++
			case token.RPAREN:
				if depth == 0 {
					return sb.String(), i
				}
				depth--
			case token.COMMA, token.SEMICOLON:
				if depth == 0 {
					return sb.String(), i
				}
			case token.SELECT, token.INSERT, token.UPDATE, token.DELETE,
				token.DECLARE, token.CREATE, token.WITH, token.SET,
				token.EXEC, token.EXECUTE, token.USE:
				if depth == 0 {
					return sb.String(), i
				}
			}
		}
	}
	return sb.String(), i
}

// columnDefSkip lists item-leading words that are constraints, not columns.
var columnDefSkip = map[string]bool{
	"primary": true, "constraint": true, "unique": true,
	"check": true, "foreign": true, "index": true,
}

// parseColumnDefs extracts column names from a parenthesized definition list.
// toks[i] must be the opening paren.
func parseColumnDefs(toks []token.Token, i int) []string {
	end := matchParen(toks, i)
	var cols []string
	depth := 0
	itemStart := true
	for j := i; j < end && j < len(toks); j++ {
		switch toks[j].Type {
		case token.LPAREN:
			depth++
			if depth == 1 {
				itemStart = true
			}
		case token.RPAREN:
			depth--
		case token.COMMA:
			if depth == 1 {
				itemStart = true
			}
		default:
			if depth == 1 && itemStart {
				itemStart = false
				if isIdentTok(toks[j]) && !columnDefSkip[strings.ToLower(toks[j].Literal)] {
					cols = append(cols, toks[j].Literal)
				}
			}
		}
	}
	return cols
}
