package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// pg_catalog is faster to walk than information_schema on large Postgres
// clusters and includes the attnum ordering directly.
const pgColumnsQuery = `
SELECT n.nspname, c.relname, a.attname, format_type(a.atttypid, a.atttypmod), NOT a.attnotnull
FROM pg_catalog.pg_attribute a
JOIN pg_catalog.pg_class c ON c.oid = a.attrelid
JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
WHERE a.attnum > 0
  AND NOT a.attisdropped
  AND c.relkind IN ('r', 'v', 'm', 'p')
  AND n.nspname NOT IN ('pg_catalog', 'information_schema')
ORDER BY n.nspname, c.relname, a.attnum`

// LoadPostgres populates a Memory resolver from a Postgres connection.
func LoadPostgres(ctx context.Context, dsn string) (*Memory, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	defer conn.Close(ctx)
	return loadPostgresConn(ctx, conn)
}

// pgQuerier is the slice of pgx.Conn that loading needs.
type pgQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func loadPostgresConn(ctx context.Context, conn pgQuerier) (*Memory, error) {
	rows, err := conn.Query(ctx, pgColumnsQuery)
	if err != nil {
		return nil, fmt.Errorf("querying pg_catalog: %w", err)
	}
	defer rows.Close()

	m := NewMemory()
	m.DefaultSchema = "public"
	byTable := make(map[string]*Table)
	var order []string
	for rows.Next() {
		var schema, table, column, dataType string
		var nullable bool
		if err := rows.Scan(&schema, &table, &column, &dataType, &nullable); err != nil {
			return nil, fmt.Errorf("scanning pg_catalog row: %w", err)
		}
		k := key("", schema, table)
		t, ok := byTable[k]
		if !ok {
			t = &Table{Schema: schema, Name: table}
			byTable[k] = t
			order = append(order, k)
		}
		t.Columns = append(t.Columns, Column{Name: column, DataType: dataType, Nullable: nullable})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading pg_catalog: %w", err)
	}
	for _, k := range order {
		m.AddTable(byTable[k])
	}
	return m, nil
}
