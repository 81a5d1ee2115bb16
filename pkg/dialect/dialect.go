// Package dialect provides vendor configuration for the context engine.
//
// A Dialect is pure data: default schema, identifier quoting, and the
// double-quote policy. Vendors are registered in an init-time registry so
// callers resolve them by name, the same way dialect-aware components do
// elsewhere in this codebase.
package dialect

import (
	"strings"

	"github.com/mikevskater/sqlsense/pkg/lexer"
	"github.com/mikevskater/sqlsense/pkg/scan"
)

// Kind identifies a database engine family.
type Kind int

// Database kinds.
const (
	KindSQLServer Kind = iota
	KindPostgres
	KindMySQL
	KindSQLite
)

// String returns the kind's registry name.
func (k Kind) String() string {
	switch k {
	case KindSQLServer:
		return "sqlserver"
	case KindPostgres:
		return "postgres"
	case KindMySQL:
		return "mysql"
	case KindSQLite:
		return "sqlite"
	default:
		return "unknown"
	}
}

// Dialect holds static vendor configuration.
type Dialect struct {
	Name string
	Kind Kind

	// DefaultSchema is the schema assumed for unqualified tables
	// ("dbo" for SQL Server, "public" for Postgres, "main" for SQLite).
	DefaultSchema string

	// DoubleQuoteIsString treats "..." as a string literal rather than a
	// quoted identifier. The observed engines disagree here, so it is
	// configuration, not a constant.
	DoubleQuoteIsString bool

	// BracketIdentifiers enables [bracketed] identifier quoting.
	BracketIdentifiers bool
}

// Normalize normalizes an identifier for case-insensitive comparison.
func (d *Dialect) Normalize(name string) string {
	return strings.ToLower(name)
}

// ScanOptions returns the character-scanner options for this dialect.
func (d *Dialect) ScanOptions() scan.Options {
	return scan.Options{DoubleQuoteString: d.DoubleQuoteIsString}
}

// LexOptions returns the lexer options for this dialect.
func (d *Dialect) LexOptions() lexer.Options {
	return lexer.Options{DoubleQuoteString: d.DoubleQuoteIsString}
}
