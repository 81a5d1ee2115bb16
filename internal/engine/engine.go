// Package engine wires the scanner, splitters, and resolvers into the
// completion engine a host editor talks to.
//
// Every call is a pure pass over the caller's text snapshot: the engine holds
// no per-request state, so overlapping requests from a fast typist are
// independent. Each result carries a request ID so the host can discard
// stale answers (last-request-wins is the caller's job, not ours).
package engine

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mikevskater/sqlsense/pkg/batch"
	"github.com/mikevskater/sqlsense/pkg/catalog"
	"github.com/mikevskater/sqlsense/pkg/clause"
	"github.com/mikevskater/sqlsense/pkg/dialect"
	"github.com/mikevskater/sqlsense/pkg/lexer"
	"github.com/mikevskater/sqlsense/pkg/scan"
	"github.com/mikevskater/sqlsense/pkg/scope"
	"github.com/mikevskater/sqlsense/pkg/token"
)

// Engine resolves cursor contexts against a fixed dialect and catalog.
type Engine struct {
	dialect  *dialect.Dialect
	catalog  catalog.Resolver
	database string // ambient connection database
	log      *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithCatalog sets the metadata resolver used for column expansion.
func WithCatalog(cat catalog.Resolver) Option {
	return func(e *Engine) { e.catalog = cat }
}

// WithDatabase sets the ambient database assumed before any USE statement.
func WithDatabase(db string) Option {
	return func(e *Engine) { e.database = db }
}

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// New creates an Engine for a dialect. A nil dialect defaults to sqlserver.
func New(d *dialect.Dialect, opts ...Option) *Engine {
	if d == nil {
		d = dialect.MustGet("sqlserver")
	}
	e := &Engine{
		dialect: d,
		catalog: catalog.Nop{},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is one resolution answer.
type Result struct {
	RequestID uuid.UUID
	Chunk     batch.Chunk
	Scope     *scope.Scope
	Context   clause.Context
	Elapsed   time.Duration
}

// ResolveAt resolves the completion context at a 1-based line and column.
// It never returns an error: malformed or mid-edit input degrades to an
// empty context so the host simply offers nothing.
func (e *Engine) ResolveAt(text string, line, col int) Result {
	start := time.Now()
	res := Result{RequestID: uuid.New()}

	offset := scan.Offset(text, line, col)
	if offset < 0 || line > scan.CountLines(text)+1 {
		res.Elapsed = time.Since(start)
		return res
	}

	chunks := batch.Split(text, e.database, e.dialect.ScanOptions())
	if c, ok := batch.ChunkAt(chunks, line); ok {
		res.Chunk = c
	} else {
		// Lines before the first statement chunk (a leading USE line) still
		// run against the ambient database.
		res.Chunk = batch.Chunk{Database: e.database, StartLine: 1}
	}

	builder := scope.NewBuilder(e.dialect, e.catalog, e.database)
	res.Scope = builder.Build(text, offset)

	// Clause anchors never cross a GO separator: resolve inside the cursor's
	// batch only. A cursor on the separator line itself has no clause context.
	for _, sp := range batch.Spans(text) {
		if offset >= sp.Start && offset <= sp.End {
			res.Context = clause.Resolve(text[sp.Start:sp.End], offset-sp.Start,
				res.Scope, e.dialect.LexOptions())
			break
		}
	}
	res.Elapsed = time.Since(start)

	e.log.Debug("resolved context",
		"request_id", res.RequestID,
		"mode", res.Context.Mode.String(),
		"database", res.Chunk.Database,
		"elapsed", res.Elapsed)
	return res
}

// Chunks splits text into GO batches and USE chunks.
func (e *Engine) Chunks(text string) []batch.Chunk {
	return batch.Split(text, e.database, e.dialect.ScanOptions())
}

// ScopeAt builds the visible-names table at a 1-based line and column.
func (e *Engine) ScopeAt(text string, line, col int) *scope.Scope {
	offset := scan.Offset(text, line, col)
	if offset < 0 || line > scan.CountLines(text)+1 {
		return scope.New(e.catalog)
	}
	builder := scope.NewBuilder(e.dialect, e.catalog, e.database)
	return builder.Build(text, offset)
}

// CommentAt returns the comment enclosing the cursor, if any. Hosts use this
// to tell "no context because nothing matched" apart from "cursor is in a
// comment".
func (e *Engine) CommentAt(text string, line, col int) (*token.Comment, bool) {
	offset := scan.Offset(text, line, col)
	if offset < 0 {
		return nil, false
	}
	l := lexer.NewWithOptions(text, e.dialect.LexOptions())
	for l.NextToken().Type != token.EOF {
	}
	for _, c := range l.Comments {
		if c.Span.Contains(offset) {
			return c, true
		}
	}
	return nil, false
}

// Dialect returns the engine's dialect.
func (e *Engine) Dialect() *dialect.Dialect { return e.dialect }
