package engine

import (
	"sort"
	"strings"

	"github.com/mikevskater/sqlsense/pkg/catalog"
	"github.com/mikevskater/sqlsense/pkg/clause"
	"github.com/mikevskater/sqlsense/pkg/scope"
)

// Completion is one suggestion offered to the host.
type Completion struct {
	Label  string
	Kind   string // "column", "table", "alias", "variable", "keyword"
	Detail string
}

// tableLister is implemented by catalogs that can enumerate their tables.
// The in-memory catalog does; live-connection loaders materialize into it.
type tableLister interface {
	TableNames() []string
}

// Completions resolves the context at line/col and maps it to suggestions.
// An unrecognized or empty context yields nil, never an error.
func (e *Engine) Completions(text string, line, col int) []Completion {
	res := e.ResolveAt(text, line, col)
	ctx := res.Context
	sc := res.Scope

	var out []Completion
	switch ctx.Mode {
	case clause.ModeSelect, clause.ModeWhere, clause.ModeHaving,
		clause.ModeGroupBy, clause.ModeOrderBy, clause.ModeOn,
		clause.ModeUpdateSet:
		out = columnCompletions(sc)

	case clause.ModeFrom, clause.ModeJoin, clause.ModeInsert:
		out = tableCompletions(sc, e.catalog)

	case clause.ModeQualified:
		out = qualifiedCompletions(sc, ctx)

	case clause.ModeInsertColumns:
		if entry, ok := sc.Lookup(ctx.TableRef); ok {
			for _, c := range entry.ColumnNames() {
				out = append(out, Completion{Label: c, Kind: "column", Detail: ctx.TableRef})
			}
		}

	case clause.ModeInsertValues:
		if ctx.Column != "" {
			out = append(out, Completion{Label: ctx.Column, Kind: "column", Detail: "value slot"})
		}

	case clause.ModeComparison, clause.ModePattern, clause.ModeBetween:
		// Right-hand side of a predicate: columns remain valid operands.
		out = columnCompletions(sc)

	case clause.ModeDeclare:
		// Nothing useful to offer for a fresh variable name.
	}

	if ctx.Partial != "" {
		out = filterPrefix(out, ctx.Partial)
	}
	return out
}

func columnCompletions(sc *scope.Scope) []Completion {
	var out []Completion
	seen := make(map[string]bool)
	for _, entry := range sc.AllEntries() {
		ref := entry.EffectiveName()
		for _, c := range entry.ColumnNames() {
			key := strings.ToLower(ref + "." + c)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, Completion{Label: c, Kind: "column", Detail: ref})
		}
		if ref != "" && !seen[strings.ToLower(ref)] {
			seen[strings.ToLower(ref)] = true
			out = append(out, Completion{Label: ref, Kind: "alias", Detail: entry.Kind.String()})
		}
	}
	for name, typ := range sc.Variables() {
		out = append(out, Completion{Label: name, Kind: "variable", Detail: typ})
	}
	return out
}

func tableCompletions(sc *scope.Scope, cat catalog.Resolver) []Completion {
	var out []Completion
	seen := make(map[string]bool)
	add := func(label, kind, detail string) {
		if label == "" || seen[strings.ToLower(label)] {
			return
		}
		seen[strings.ToLower(label)] = true
		out = append(out, Completion{Label: label, Kind: kind, Detail: detail})
	}
	for _, entry := range sc.AllEntries() {
		switch entry.Kind {
		case scope.KindCTE:
			add(entry.Name, "table", "cte")
		case scope.KindTempTable:
			add(entry.Name, "table", "temp table")
		case scope.KindTableVariable:
			add(entry.Name, "table", "table variable")
		}
	}
	if lister, ok := cat.(tableLister); ok {
		names := lister.TableNames()
		sort.Strings(names)
		for _, n := range names {
			add(n, "table", "")
		}
	}
	return out
}

func qualifiedCompletions(sc *scope.Scope, ctx clause.Context) []Completion {
	entry, ok := sc.Lookup(ctx.TableRef)
	if !ok && ctx.Schema != "" {
		// Not an alias; try schema.table through the catalog.
		cols := sc.TableColumns(ctx.Database, ctx.Schema, ctx.TableRef)
		var out []Completion
		for _, c := range cols {
			out = append(out, Completion{Label: c, Kind: "column", Detail: ctx.TableRef})
		}
		return out
	}
	if !ok {
		return nil
	}
	var out []Completion
	for _, c := range entry.ColumnNames() {
		out = append(out, Completion{Label: c, Kind: "column", Detail: entry.EffectiveName()})
	}
	return out
}

func filterPrefix(in []Completion, prefix string) []Completion {
	p := strings.ToLower(strings.TrimLeft(prefix, `[@"`))
	var out []Completion
	for _, c := range in {
		l := strings.ToLower(strings.TrimLeft(c.Label, `[@"`))
		if strings.HasPrefix(l, p) {
			out = append(out, c)
		}
	}
	return out
}
