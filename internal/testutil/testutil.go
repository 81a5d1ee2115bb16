// Package testutil provides shared helpers for package tests.
package testutil

import (
	"log/slog"
	"testing"

	"github.com/mikevskater/sqlsense/pkg/catalog"
)

// testWriter routes log output through t.Log so it shows up attached to the
// failing test instead of interleaved on stderr.
type testWriter struct {
	t *testing.T
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// Logger returns an slog.Logger that writes through t.Log at debug level.
func Logger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t: t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// NorthwindCatalog returns an in-memory catalog with a few familiar tables,
// enough to exercise column expansion without a live connection.
func NorthwindCatalog() *catalog.Memory {
	m := catalog.NewMemory()
	m.DefaultSchema = "dbo"
	m.AddTable(&catalog.Table{
		Schema: "dbo", Name: "Employees",
		Columns: []catalog.Column{
			{Name: "EmployeeID", DataType: "int"},
			{Name: "FirstName", DataType: "nvarchar(20)"},
			{Name: "LastName", DataType: "nvarchar(20)"},
			{Name: "Title", DataType: "nvarchar(30)", Nullable: true},
		},
	})
	m.AddTable(&catalog.Table{
		Schema: "dbo", Name: "Orders",
		Columns: []catalog.Column{
			{Name: "OrderID", DataType: "int"},
			{Name: "CustomerID", DataType: "nchar(5)", Nullable: true},
			{Name: "EmployeeID", DataType: "int", Nullable: true},
			{Name: "OrderDate", DataType: "datetime", Nullable: true},
		},
	})
	m.AddTable(&catalog.Table{
		Schema: "dbo", Name: "Customers",
		Columns: []catalog.Column{
			{Name: "CustomerID", DataType: "nchar(5)"},
			{Name: "CompanyName", DataType: "nvarchar(40)"},
			{Name: "City", DataType: "nvarchar(15)", Nullable: true},
		},
	})
	m.AddTVF(&catalog.Table{
		Schema: "dbo", Name: "OrdersByYear",
		Columns: []catalog.Column{
			{Name: "OrderID", DataType: "int"},
			{Name: "OrderYear", DataType: "int"},
		},
	})
	return m
}
