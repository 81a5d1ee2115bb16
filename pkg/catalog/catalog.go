// Package catalog provides schema metadata for name resolution.
//
// The engine never requires a catalog. Every lookup is fail-soft: a missing
// table, schema, or database yields a not-found result, not an error, so the
// caller can degrade to name-only entries.
package catalog

import "strings"

// Column describes one column of a table or view.
type Column struct {
	Name     string `yaml:"name"`
	DataType string `yaml:"type,omitempty"`
	Nullable bool   `yaml:"nullable,omitempty"`
}

// Table describes a table, view, or table-valued function result shape.
type Table struct {
	Database string   `yaml:"database,omitempty"`
	Schema   string   `yaml:"schema,omitempty"`
	Name     string   `yaml:"name"`
	Columns  []Column `yaml:"columns"`
}

// QualifiedName returns the table's dotted name with empty parts omitted.
func (t *Table) QualifiedName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{t.Database, t.Schema, t.Name} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ".")
}

// ColumnNames returns the column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Resolver answers table metadata lookups. Implementations must be safe for
// concurrent use and must not return errors for unknown names.
type Resolver interface {
	// ResolveTable looks up a table or view. Empty database or schema means
	// "the caller didn't qualify it"; implementations apply their own
	// defaults. Returns nil when nothing matches.
	ResolveTable(database, schema, name string) *Table

	// ResolveTVF looks up a table-valued function's result shape.
	// Returns nil when nothing matches.
	ResolveTVF(database, schema, name string) *Table
}

// Nop is a Resolver that knows nothing. Useful as a default.
type Nop struct{}

func (Nop) ResolveTable(_, _, _ string) *Table { return nil }
func (Nop) ResolveTVF(_, _, _ string) *Table   { return nil }
