// Package scope builds the set of names visible at a cursor position:
// tables registered by FROM/JOIN, aliases, CTEs, derived tables,
// table-valued functions, temp tables, table variables, and declared
// variables.
//
// A Scope is built fresh per resolution call and is read-only afterwards.
// Nested query blocks get child scopes chained through a parent pointer;
// lookups walk the chain outward.
package scope

import (
	"strings"

	"github.com/mikevskater/sqlsense/pkg/catalog"
)

// EntryKind classifies a name source in scope.
type EntryKind int

const (
	KindTable EntryKind = iota
	KindCTE
	KindDerived
	KindTVF
	KindTempTable
	KindTableVariable
	KindPseudo
)

// String returns a short label for the kind.
func (k EntryKind) String() string {
	switch k {
	case KindTable:
		return "table"
	case KindCTE:
		return "cte"
	case KindDerived:
		return "derived"
	case KindTVF:
		return "tvf"
	case KindTempTable:
		return "temp"
	case KindTableVariable:
		return "tablevar"
	case KindPseudo:
		return "pseudo"
	default:
		return "unknown"
	}
}

// Entry is one source visible in a scope.
type Entry struct {
	Kind EntryKind

	// Database and Schema are set only for qualified plain-table
	// references. Name is the CTE/temp/variable/table name without
	// qualification.
	Database string
	Schema   string
	Name     string
	Alias    string

	// Columns is the known column list, possibly empty. For entries whose
	// columns require catalog resolution (a CTE selecting *, a plain table)
	// it stays nil and lazyColumns fills it on first use.
	Columns []string

	lazyColumns func() []string
	expanded    bool
}

// ColumnNames returns the entry's columns, resolving lazily on first call.
// Returns nil when the columns are unknown.
func (e *Entry) ColumnNames() []string {
	if e.Columns == nil && e.lazyColumns != nil && !e.expanded {
		// Mark before expanding so a self-referencing source terminates.
		e.expanded = true
		e.Columns = e.lazyColumns()
	}
	return e.Columns
}

// EffectiveName returns the name the entry answers to: its alias when it has
// one, otherwise its base name.
func (e *Entry) EffectiveName() string {
	if e.Alias != "" {
		return e.Alias
	}
	return e.Name
}

// Scope is the visible-names table at a point in a script.
type Scope struct {
	parent *Scope

	entries []*Entry
	index   map[string]*Entry

	ctes      map[string]*Entry
	temps     map[string]*Entry
	tableVars map[string]*Entry
	variables map[string]string

	cat catalog.Resolver

	// Database is the active database for this scope (from USE or ambient).
	Database string
	// DefaultSchema comes from the dialect.
	DefaultSchema string
}

// New returns an empty scope. A nil resolver degrades to name-only entries.
func New(cat catalog.Resolver) *Scope {
	if cat == nil {
		cat = catalog.Nop{}
	}
	return &Scope{
		index:     make(map[string]*Entry),
		ctes:      make(map[string]*Entry),
		temps:     make(map[string]*Entry),
		tableVars: make(map[string]*Entry),
		variables: make(map[string]string),
		cat:       cat,
	}
}

// Child returns a nested scope for a subquery block. Temp tables, table
// variables, and variables are session/batch scoped, so the child shares
// the parent's maps rather than copying them.
func (s *Scope) Child() *Scope {
	return &Scope{
		parent:        s,
		index:         make(map[string]*Entry),
		ctes:          s.ctes,
		temps:         s.temps,
		tableVars:     s.tableVars,
		variables:     s.variables,
		cat:           s.cat,
		Database:      s.Database,
		DefaultSchema: s.DefaultSchema,
	}
}

func norm(name string) string { return strings.ToLower(name) }

// Add registers an entry. Later registrations of the same effective name win.
func (s *Scope) Add(e *Entry) {
	s.entries = append(s.entries, e)
	s.index[norm(e.EffectiveName())] = e
	switch e.Kind {
	case KindCTE:
		s.ctes[norm(e.Name)] = e
	case KindTempTable:
		s.temps[norm(e.Name)] = e
	case KindTableVariable:
		s.tableVars[norm(e.Name)] = e
	}
}

// AddVariable registers a scalar variable declaration.
func (s *Scope) AddVariable(name, typ string) {
	s.variables[norm(name)] = typ
}

// Entries returns this scope's own entries in registration order.
func (s *Scope) Entries() []*Entry { return s.entries }

// AllEntries returns entries from this scope outward to the root, innermost
// first.
func (s *Scope) AllEntries() []*Entry {
	var out []*Entry
	for sc := s; sc != nil; sc = sc.parent {
		out = append(out, sc.entries...)
	}
	return out
}

// Lookup resolves an identifier against aliases and names, innermost scope
// first. Alias matches take precedence over base-name matches within a
// scope, which keeps alias-vs-schema ambiguity deterministic.
func (s *Scope) Lookup(name string) (*Entry, bool) {
	n := norm(name)
	for sc := s; sc != nil; sc = sc.parent {
		if e, ok := sc.index[n]; ok {
			return e, true
		}
		for _, e := range sc.entries {
			if norm(e.Name) == n {
				return e, true
			}
		}
	}
	if e, ok := s.temps[n]; ok {
		return e, true
	}
	if e, ok := s.tableVars[n]; ok {
		return e, true
	}
	return nil, false
}

// CTE returns a CTE definition by name.
func (s *Scope) CTE(name string) (*Entry, bool) {
	e, ok := s.ctes[norm(name)]
	return e, ok
}

// TempTable returns a temp table definition by name (with the # prefix).
func (s *Scope) TempTable(name string) (*Entry, bool) {
	e, ok := s.temps[norm(name)]
	return e, ok
}

// TableVariable returns a table variable definition by name (with the @
// prefix).
func (s *Scope) TableVariable(name string) (*Entry, bool) {
	e, ok := s.tableVars[norm(name)]
	return e, ok
}

// Variable returns a declared scalar variable's type.
func (s *Scope) Variable(name string) (string, bool) {
	t, ok := s.variables[norm(name)]
	return t, ok
}

// Variables returns the declared scalar variables as a name to type map.
func (s *Scope) Variables() map[string]string {
	out := make(map[string]string, len(s.variables))
	for k, v := range s.variables {
		out[k] = v
	}
	return out
}

// TableColumns resolves a plain table's columns through the catalog.
func (s *Scope) TableColumns(database, schema, name string) []string {
	if database == "" {
		database = s.Database
	}
	if schema == "" {
		schema = s.DefaultSchema
	}
	t := s.cat.ResolveTable(database, schema, name)
	if t == nil {
		return nil
	}
	return t.ColumnNames()
}
