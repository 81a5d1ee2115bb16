package batch

import (
	"strings"

	"github.com/mikevskater/sqlsense/pkg/scan"
)

// useSite records one USE statement discovered inside a batch.
type useSite struct {
	start    int    // byte offset of the USE keyword
	end      int    // byte offset just past the consumed statement
	database string // switch target, unbracketed
}

// ParseUseStatements scans one batch for USE <db> statements outside comments,
// strings, and quoted or bracketed identifiers, and splits the batch into
// ordered chunks. Each USE boundary emits the preceding SQL as a chunk tagged with the
// previously active database, then a zero-length marker chunk carrying the new
// database; the remainder inherits the last switch. The inherited parameter is
// the database active when the batch begins (from an earlier batch or the
// ambient connection).
func ParseUseStatements(b Batch, batchIndex int, inherited string, opts scan.Options) []Chunk {
	sites := findUseSites(b.SQL, opts)
	if len(sites) == 0 {
		return []Chunk{{
			SQL:        b.SQL,
			Database:   inherited,
			BatchIndex: batchIndex,
			StartLine:  b.StartLine,
		}}
	}

	var chunks []Chunk
	db := inherited
	hadUse := false
	prev := 0
	line := b.StartLine

	for _, site := range sites {
		if site.start > prev {
			sql := b.SQL[prev:site.start]
			chunks = append(chunks, Chunk{
				SQL:        sql,
				Database:   db,
				BatchIndex: batchIndex,
				StartLine:  line,
				HadUse:     hadUse,
			})
			line += scan.CountLines(sql)
		}
		useText := b.SQL[site.start:site.end]
		chunks = append(chunks, Chunk{
			Database:   site.database,
			BatchIndex: batchIndex,
			StartLine:  line,
			HadUse:     true,
			UseText:    useText,
		})
		// The consumed text never spans a newline, so line stays put.
		db = site.database
		hadUse = true
		prev = site.end
	}

	if prev < len(b.SQL) {
		chunks = append(chunks, Chunk{
			SQL:        b.SQL[prev:],
			Database:   db,
			BatchIndex: batchIndex,
			StartLine:  line,
			HadUse:     hadUse,
		})
	}
	return chunks
}

// Split runs the full two-pass pipeline: GO batches first, then USE chunks
// within each batch. The active database threads across batch boundaries
// because USE persists for the session, unlike aliases and temp scope.
// ambient is the connection's current database, used until the first USE.
func Split(text, ambient string, opts scan.Options) []Chunk {
	var chunks []Chunk
	db := ambient
	for i, b := range SplitByGo(text) {
		batchChunks := ParseUseStatements(b, i, db, opts)
		chunks = append(chunks, batchChunks...)
		if n := len(batchChunks); n > 0 {
			db = batchChunks[n-1].Database
		}
	}
	return chunks
}

// ChunkAt returns the last non-marker chunk starting at or before the given
// 1-based line. Lines inside consumed USE text resolve to the following
// chunk. Returns the zero Chunk and false when no chunk qualifies.
func ChunkAt(chunks []Chunk, line int) (Chunk, bool) {
	var found Chunk
	ok := false
	for _, c := range chunks {
		if c.IsMarker() {
			continue
		}
		if c.StartLine <= line {
			found = c
			ok = true
		}
	}
	return found, ok
}

// findUseSites locates USE statements in code state. Detection tokenizes words
// lazily off the scanner classification rather than running the full lexer:
// USE handling only needs word boundaries and bracket awareness.
func findUseSites(sql string, opts scan.Options) []useSite {
	// Mask out everything that is not plain code so a plain word-walk cannot
	// match inside comments, strings, or bracketed identifiers.
	masked := []byte(sql)
	scan.Fold(scan.ScanState{}, sql, opts, func(i int, st scan.ScanState) {
		if st.State != scan.StateCode && masked[i] != '\n' {
			masked[i] = ' '
		}
	})
	code := string(masked)

	var sites []useSite
	for i := 0; i < len(code); {
		if !isWordByte(code[i]) {
			i++
			continue
		}
		j := i
		for j < len(code) && isWordByte(code[j]) {
			j++
		}
		word := code[i:j]
		if !strings.EqualFold(word, "use") || (i > 0 && code[i-1] == '.') {
			// Not a USE keyword, or a qualified reference like x.use.
			i = j
			continue
		}
		if site, ok := parseUseTarget(sql, code, i, j); ok {
			sites = append(sites, site)
			i = site.end
			continue
		}
		i = j
	}
	return sites
}

// parseUseTarget parses the identifier after a USE keyword at [start, kwEnd).
// Consumes same-line whitespace, the identifier (bare or bracketed), optional
// trailing same-line whitespace, and an optional semicolon. Newlines are never
// consumed so line accounting downstream stays exact.
func parseUseTarget(sql, code string, start, kwEnd int) (useSite, bool) {
	i := skipSameLineSpace(code, kwEnd)
	if i >= len(code) {
		return useSite{}, false
	}

	var database string
	switch {
	case sql[i] == '[':
		name, end, ok := readBracketed(sql, i)
		if !ok {
			return useSite{}, false
		}
		database = name
		i = end
	case isWordByte(code[i]):
		j := i
		for j < len(code) && isWordByte(code[j]) {
			j++
		}
		database = sql[i:j]
		i = j
	default:
		return useSite{}, false
	}

	i = skipSameLineSpace(code, i)
	if i < len(code) && code[i] == ';' {
		i++
	}
	return useSite{start: start, end: i, database: database}, true
}

// readBracketed reads a [bracketed] identifier with ]] escapes starting at
// offset i (which must be '['). Returns the unescaped name and the offset
// just past the closing bracket.
func readBracketed(sql string, i int) (string, int, bool) {
	var name strings.Builder
	j := i + 1
	for j < len(sql) {
		if sql[j] == ']' {
			if j+1 < len(sql) && sql[j+1] == ']' {
				name.WriteByte(']')
				j += 2
				continue
			}
			return name.String(), j + 1, true
		}
		name.WriteByte(sql[j])
		j++
	}
	return "", 0, false // unterminated bracket: not a complete switch
}

func skipSameLineSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\r') {
		i++
	}
	return i
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
