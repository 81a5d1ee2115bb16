package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikevskater/sqlsense/pkg/catalog"
)

func TestLoadDB(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"table_schema", "table_name", "column_name", "data_type", "is_nullable",
	}).
		AddRow("dbo", "Employees", "EmployeeID", "int", "NO").
		AddRow("dbo", "Employees", "LastName", "nvarchar", "YES").
		AddRow("dbo", "Orders", "OrderID", "int", "NO")
	mock.ExpectQuery("FROM information_schema.columns").WillReturnRows(rows)

	m, err := catalog.LoadDB(context.Background(), db, "Northwind")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, "Northwind", m.DefaultDatabase)

	emp := m.ResolveTable("Northwind", "dbo", "Employees")
	require.NotNil(t, emp)
	assert.Equal(t, []string{"EmployeeID", "LastName"}, emp.ColumnNames())
	assert.False(t, emp.Columns[0].Nullable)
	assert.True(t, emp.Columns[1].Nullable)

	// DefaultDatabase fills in lookups that only carry a schema.
	assert.NotNil(t, m.ResolveTable("", "dbo", "Orders"))
}

func TestLoadDB_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM information_schema.columns").
		WillReturnError(errors.New("connection refused"))

	_, err = catalog.LoadDB(context.Background(), db, "Northwind")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "querying information_schema")
}
