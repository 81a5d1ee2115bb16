package catalog

import (
	"strings"
	"sync"
)

// Memory is an in-memory Resolver. Lookups are case-insensitive. A table
// registered with an empty database or schema matches lookups that leave
// that part empty or supply any value, which mirrors how a design-time
// catalog file is usually written (names only, no full qualification).
type Memory struct {
	mu     sync.RWMutex
	tables map[string]*Table
	tvfs   map[string]*Table

	// DefaultDatabase and DefaultSchema fill in unqualified lookups.
	DefaultDatabase string
	DefaultSchema   string
}

// NewMemory returns an empty in-memory catalog.
func NewMemory() *Memory {
	return &Memory{
		tables: make(map[string]*Table),
		tvfs:   make(map[string]*Table),
	}
}

// AddTable registers a table or view.
func (m *Memory) AddTable(t *Table) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[key(t.Database, t.Schema, t.Name)] = t
}

// AddTVF registers a table-valued function's result shape.
func (m *Memory) AddTVF(t *Table) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tvfs[key(t.Database, t.Schema, t.Name)] = t
}

// ResolveTable implements Resolver.
func (m *Memory) ResolveTable(database, schema, name string) *Table {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lookup(m.tables, database, schema, name)
}

// ResolveTVF implements Resolver.
func (m *Memory) ResolveTVF(database, schema, name string) *Table {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lookup(m.tvfs, database, schema, name)
}

// TableNames returns the bare names of all registered tables, unsorted.
func (m *Memory) TableNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.tables))
	for _, t := range m.tables {
		names = append(names, t.Name)
	}
	return names
}

// Len reports the number of registered tables.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tables)
}

// lookup tries progressively less qualified keys so that a table stored
// without a database still resolves when the caller supplies one.
func (m *Memory) lookup(set map[string]*Table, database, schema, name string) *Table {
	if name == "" {
		return nil
	}
	if database == "" {
		database = m.DefaultDatabase
	}
	if schema == "" {
		schema = m.DefaultSchema
	}
	for _, k := range []string{
		key(database, schema, name),
		key("", schema, name),
		key(database, "", name),
		key("", "", name),
	} {
		if t, ok := set[k]; ok {
			return t
		}
	}
	return nil
}

func key(database, schema, name string) string {
	return strings.ToLower(database) + "\x00" + strings.ToLower(schema) + "\x00" + strings.ToLower(name)
}
