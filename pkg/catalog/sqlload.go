package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

// information_schema is close enough to identical across SQL Server, MySQL,
// and Postgres for column discovery, so one query serves any database/sql
// driver that exposes it.
const columnsQuery = `
SELECT table_schema, table_name, column_name, data_type, is_nullable
FROM information_schema.columns
ORDER BY table_schema, table_name, ordinal_position`

// LoadDB populates a Memory resolver from a live connection's
// information_schema. The database label is applied to every table so that
// multi-database scripts can qualify into it.
func LoadDB(ctx context.Context, db *sql.DB, database string) (*Memory, error) {
	rows, err := db.QueryContext(ctx, columnsQuery)
	if err != nil {
		return nil, fmt.Errorf("querying information_schema: %w", err)
	}
	defer rows.Close()

	m := NewMemory()
	m.DefaultDatabase = database
	byTable := make(map[string]*Table)
	var order []string
	for rows.Next() {
		var schema, table, column, dataType, nullable string
		if err := rows.Scan(&schema, &table, &column, &dataType, &nullable); err != nil {
			return nil, fmt.Errorf("scanning column row: %w", err)
		}
		k := key(database, schema, table)
		t, ok := byTable[k]
		if !ok {
			t = &Table{Database: database, Schema: schema, Name: table}
			byTable[k] = t
			order = append(order, k)
		}
		t.Columns = append(t.Columns, Column{
			Name:     column,
			DataType: dataType,
			Nullable: nullable == "YES",
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading information_schema: %w", err)
	}
	for _, k := range order {
		m.AddTable(byTable[k])
	}
	return m, nil
}
