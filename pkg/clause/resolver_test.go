package clause_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikevskater/sqlsense/internal/testutil"
	"github.com/mikevskater/sqlsense/pkg/clause"
	"github.com/mikevskater/sqlsense/pkg/lexer"
	"github.com/mikevskater/sqlsense/pkg/scope"
)

// resolveAt resolves the context at the "|" cursor marker, without scope.
func resolveAt(t *testing.T, text string) clause.Context {
	t.Helper()
	off := strings.Index(text, "|")
	require.GreaterOrEqual(t, off, 0, "test text needs a | cursor marker")
	clean := strings.Replace(text, "|", "", 1)
	return clause.Resolve(clean, off, nil, lexer.Options{})
}

// resolveWithScope resolves with a scope built over the same text.
func resolveWithScope(t *testing.T, text string) clause.Context {
	t.Helper()
	off := strings.Index(text, "|")
	require.GreaterOrEqual(t, off, 0)
	clean := strings.Replace(text, "|", "", 1)
	sc := scope.NewBuilder(nil, testutil.NorthwindCatalog(), "Northwind").Build(clean, off)
	return clause.Resolve(clean, off, sc, lexer.Options{})
}

func TestResolve_ClauseModes(t *testing.T) {
	tests := []struct {
		name string
		text string
		mode clause.Mode
	}{
		{"select list", "SELECT |", clause.ModeSelect},
		{"select list after item", "SELECT EmployeeID, |", clause.ModeSelect},
		{"from", "SELECT * FROM |", clause.ModeFrom},
		{"from after table", "SELECT * FROM Employees, |", clause.ModeFrom},
		{"on", "SELECT * FROM a JOIN b ON |", clause.ModeOn},
		{"where", "SELECT * FROM t WHERE |", clause.ModeWhere},
		{"where after condition", "SELECT * FROM t WHERE x = 1 |", clause.ModeWhere},
		{"having", "SELECT x FROM t GROUP BY x HAVING |", clause.ModeHaving},
		{"group by", "SELECT x FROM t GROUP BY |", clause.ModeGroupBy},
		{"group mid keyword", "SELECT x FROM t GROUP |", clause.ModeGroupBy},
		{"order by", "SELECT * FROM t ORDER BY |", clause.ModeOrderBy},
		{"update", "UPDATE |", clause.ModeFrom},
		{"update set", "UPDATE t SET |", clause.ModeUpdateSet},
		{"delete", "DELETE FROM |", clause.ModeFrom},
		{"insert", "INSERT |", clause.ModeInsert},
		{"insert into", "INSERT INTO |", clause.ModeInsert},
		{"exec", "EXEC |", clause.ModeExec},
		{"execute", "EXECUTE |", clause.ModeExec},
		{"use", "USE |", clause.ModeUse},
		{"declare", "DECLARE |", clause.ModeDeclare},
		{"function paren is inert", "SELECT LEFT(|", clause.ModeSelect},
		{"after semicolon", "SELECT 1; |", clause.ModeNone},
		{"after union", "SELECT 1 UNION |", clause.ModeNone},
		{"empty input", "|", clause.ModeNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.mode, resolveAt(t, tt.text).Mode)
		})
	}
}

func TestResolve_Partial(t *testing.T) {
	ctx := resolveAt(t, "SELECT Emp| FROM Employees")
	assert.Equal(t, clause.ModeSelect, ctx.Mode)
	assert.Equal(t, "Emp", ctx.Partial)

	ctx = resolveAt(t, "SELECT * FROM [Ord|")
	assert.Equal(t, clause.ModeFrom, ctx.Mode)
	assert.Equal(t, "[Ord", ctx.Partial)

	ctx = resolveAt(t, "SELECT @ro|")
	assert.Equal(t, "@ro", ctx.Partial)

	// A half-typed double-quoted identifier is a fragment, not a string, when
	// the vendor reads "..." as an identifier.
	ctx = resolveAt(t, `SELECT "Last| FROM Employees`)
	assert.Equal(t, clause.ModeSelect, ctx.Mode)
	assert.Equal(t, `"Last`, ctx.Partial)
}

func TestResolve_ColumnAlias(t *testing.T) {
	ctx := resolveAt(t, "SELECT LastName AS |")
	assert.Equal(t, clause.ModeColumnAlias, ctx.Mode)

	// AS outside a select list is a table alias position, not a column alias.
	ctx = resolveAt(t, "SELECT * FROM Employees AS |")
	assert.Equal(t, clause.ModeNone, ctx.Mode)
}

func TestResolve_JoinTypes(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		joinType string
	}{
		{"bare join", "SELECT * FROM t1 JOIN |", ""},
		{"left", "SELECT * FROM t1 LEFT JOIN |", "LEFT"},
		{"left outer", "SELECT * FROM t1 LEFT OUTER JOIN |", "LEFT OUTER"},
		{"inner", "SELECT * FROM t1 INNER JOIN |", "INNER"},
		{"full outer", "SELECT * FROM t1 FULL OUTER JOIN |", "FULL OUTER"},
		{"cross", "SELECT * FROM t1 CROSS JOIN |", "CROSS"},
		{"pending join word", "SELECT * FROM t1 LEFT |", "LEFT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := resolveAt(t, tt.text)
			require.Equal(t, clause.ModeJoin, ctx.Mode)
			assert.Equal(t, tt.joinType, ctx.JoinType)
		})
	}
}

func TestResolve_Comparison(t *testing.T) {
	ctx := resolveAt(t, "SELECT * FROM Employees e WHERE e.EmployeeID = |")
	require.Equal(t, clause.ModeComparison, ctx.Mode)
	require.NotNil(t, ctx.Left)
	assert.Equal(t, "e.EmployeeID", ctx.Left.Qualified)
	assert.Equal(t, "e", ctx.Left.TableRef)
	assert.Equal(t, "EmployeeID", ctx.Left.Column)
	assert.Equal(t, "EmployeeID", ctx.Column)
}

func TestResolve_ComparisonOperators(t *testing.T) {
	for _, op := range []string{"=", "<>", "!=", "<", ">", "<=", ">="} {
		ctx := resolveAt(t, "SELECT * FROM t WHERE x "+op+" |")
		assert.Equal(t, clause.ModeComparison, ctx.Mode, "operator %s", op)
	}
}

func TestResolve_LeftSideDeclined(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"function call", "SELECT * FROM t WHERE UPPER(Name) = |"},
		{"case expression", "SELECT * FROM t WHERE CASE WHEN a THEN b END = |"},
		{"parenthesized", "SELECT * FROM t WHERE (a + b) = |"},
		{"numeric literal", "SELECT * FROM t WHERE 1 = |"},
		{"string literal", "SELECT * FROM t WHERE 'x' = |"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := resolveAt(t, tt.text)
			require.Equal(t, clause.ModeComparison, ctx.Mode)
			assert.Nil(t, ctx.Left)
		})
	}
}

func TestResolve_LeftSideForms(t *testing.T) {
	ctx := resolveAt(t, "SELECT * FROM t WHERE t.[Order ID] = |")
	require.NotNil(t, ctx.Left)
	assert.Equal(t, "t.[Order ID]", ctx.Left.Qualified)
	assert.Equal(t, "Order ID", ctx.Left.Column)

	ctx = resolveAt(t, "SELECT * FROM t WHERE @id = |")
	require.NotNil(t, ctx.Left)
	assert.Equal(t, "@id", ctx.Left.Qualified)
	assert.Empty(t, ctx.Left.TableRef)
}

func TestResolve_Pattern(t *testing.T) {
	ctx := resolveAt(t, "SELECT * FROM t WHERE LastName LIKE |")
	require.Equal(t, clause.ModePattern, ctx.Mode)
	require.NotNil(t, ctx.Left)
	assert.Equal(t, "LastName", ctx.Left.Column)
}

func TestResolve_PatternInsideString(t *testing.T) {
	// Value modes survive a cursor inside an open string literal.
	ctx := resolveAt(t, "SELECT * FROM t WHERE LastName LIKE 'Da|")
	assert.Equal(t, clause.ModePattern, ctx.Mode)
	assert.Equal(t, "'Da", ctx.Partial)
}

func TestResolve_Between(t *testing.T) {
	ctx := resolveAt(t, "SELECT * FROM t WHERE Price BETWEEN |")
	require.Equal(t, clause.ModeBetween, ctx.Mode)
	require.NotNil(t, ctx.Left)
	assert.Equal(t, "Price", ctx.Left.Column)

	ctx = resolveAt(t, "SELECT * FROM t WHERE Price BETWEEN 1 AND |")
	require.Equal(t, clause.ModeBetween, ctx.Mode)
	require.NotNil(t, ctx.Left)
	assert.Equal(t, "Price", ctx.Left.Column)

	// A boolean AND does not read as a BETWEEN continuation.
	ctx = resolveAt(t, "SELECT * FROM t WHERE a = 1 AND |")
	assert.Equal(t, clause.ModeWhere, ctx.Mode)
}

func TestResolve_IsNull(t *testing.T) {
	assert.Equal(t, clause.ModeNone, resolveAt(t, "SELECT * FROM t WHERE x IS |").Mode)
	assert.Equal(t, clause.ModeNone, resolveAt(t, "SELECT * FROM t WHERE x IS NOT |").Mode)
}

func TestResolve_InList(t *testing.T) {
	ctx := resolveAt(t, "SELECT * FROM t WHERE x IN (|")
	assert.Equal(t, clause.ModeComparison, ctx.Mode)
	assert.Nil(t, ctx.Left)
}

func TestResolve_Qualified(t *testing.T) {
	ctx := resolveAt(t, "SELECT e.| FROM Employees e")
	require.Equal(t, clause.ModeQualified, ctx.Mode)
	assert.Equal(t, "e", ctx.TableRef)

	ctx = resolveAt(t, "SELECT * FROM t WHERE dbo.Employees.|")
	require.Equal(t, clause.ModeQualified, ctx.Mode)
	assert.Equal(t, "Employees", ctx.TableRef)
	assert.Equal(t, "dbo", ctx.Schema)

	ctx = resolveAt(t, "SELECT Northwind.dbo.Employees.|")
	assert.Equal(t, "Employees", ctx.TableRef)
	assert.Equal(t, "dbo", ctx.Schema)
	assert.Equal(t, "Northwind", ctx.Database)
}

func TestResolve_QualifiedInTablePosition(t *testing.T) {
	// After FROM, a dotted prefix narrows the table search, not a column one.
	ctx := resolveAt(t, "SELECT * FROM dbo.|")
	require.Equal(t, clause.ModeFrom, ctx.Mode)
	assert.Equal(t, "dbo", ctx.Schema)

	ctx = resolveAt(t, "SELECT * FROM Northwind.dbo.|")
	require.Equal(t, clause.ModeFrom, ctx.Mode)
	assert.Equal(t, "Northwind", ctx.Database)
	assert.Equal(t, "dbo", ctx.Schema)

	ctx = resolveAt(t, "SELECT * FROM t1 LEFT JOIN dbo.|")
	require.Equal(t, clause.ModeJoin, ctx.Mode)
	assert.Equal(t, "dbo", ctx.Schema)
}

func TestResolve_InsertColumns(t *testing.T) {
	ctx := resolveAt(t, "INSERT INTO Orders (|")
	require.Equal(t, clause.ModeInsertColumns, ctx.Mode)
	assert.Equal(t, "Orders", ctx.TableRef)

	ctx = resolveAt(t, "INSERT INTO Orders (OrderID, |")
	require.Equal(t, clause.ModeInsertColumns, ctx.Mode)
	assert.Equal(t, "Orders", ctx.TableRef)
}

func TestResolve_InsertTarget(t *testing.T) {
	ctx := resolveAt(t, "INSERT INTO Orders|")
	require.Equal(t, clause.ModeInsert, ctx.Mode)
	assert.Equal(t, "Orders", ctx.Partial)
}

func TestResolve_InsertValues(t *testing.T) {
	ctx := resolveAt(t, "INSERT INTO Orders (OrderID, CustomerID) VALUES (|")
	require.Equal(t, clause.ModeInsertValues, ctx.Mode)
	assert.Equal(t, 1, ctx.ValueIndex)
	assert.Equal(t, "Orders", ctx.TableRef)
	assert.Equal(t, "OrderID", ctx.Column)

	ctx = resolveAt(t, "INSERT INTO Orders (OrderID, CustomerID) VALUES (1, |")
	require.Equal(t, clause.ModeInsertValues, ctx.Mode)
	assert.Equal(t, 2, ctx.ValueIndex)
	assert.Equal(t, "CustomerID", ctx.Column)
}

func TestResolve_InsertValuesThroughScope(t *testing.T) {
	// Without an explicit column list the slot maps through the table's
	// declared columns.
	ctx := resolveWithScope(t, "INSERT INTO Orders VALUES (1, |")
	require.Equal(t, clause.ModeInsertValues, ctx.Mode)
	assert.Equal(t, 2, ctx.ValueIndex)
	assert.Equal(t, "CustomerID", ctx.Column)
}

func TestResolve_OutputClause(t *testing.T) {
	ctx := resolveAt(t, "INSERT INTO Orders OUTPUT | VALUES (1)")
	assert.Equal(t, clause.ModeSelect, ctx.Mode)

	ctx = resolveAt(t, "INSERT INTO Orders OUTPUT inserted.| VALUES (1)")
	require.Equal(t, clause.ModeQualified, ctx.Mode)
	assert.Equal(t, "inserted", ctx.TableRef)
}

func TestResolve_CursorInComment(t *testing.T) {
	assert.Equal(t, clause.ModeNone, resolveAt(t, "SELECT 1 -- note |").Mode)
	assert.Equal(t, clause.ModeNone, resolveAt(t, "SELECT 1 /* note | */").Mode)
}

func TestResolve_CursorInStringNonValue(t *testing.T) {
	assert.Equal(t, clause.ModeNone, resolveAt(t, "SELECT 'te|xt'").Mode)
}

func TestResolve_OutOfBounds(t *testing.T) {
	assert.Equal(t, clause.None, clause.Resolve("SELECT 1", -1, nil, lexer.Options{}))
	assert.Equal(t, clause.None, clause.Resolve("SELECT 1", 99, nil, lexer.Options{}))
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "group_by", clause.ModeGroupBy.String())
	assert.Equal(t, "execute", clause.ModeExec.String())
	assert.Equal(t, "insert_values", clause.ModeInsertValues.String())
	assert.Equal(t, "none", clause.Mode(99).String())
}
