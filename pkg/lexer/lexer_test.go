package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikevskater/sqlsense/pkg/lexer"
	"github.com/mikevskater/sqlsense/pkg/token"
)

func types(toks []token.Token) []token.Type {
	out := make([]token.Type, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func TestTokenize_Basic(t *testing.T) {
	toks := lexer.Tokenize("SELECT EmployeeID, LastName FROM dbo.Employees WHERE EmployeeID = 5;")
	assert.Equal(t, []token.Type{
		token.SELECT, token.IDENT, token.COMMA, token.IDENT,
		token.FROM, token.IDENT, token.DOT, token.IDENT,
		token.WHERE, token.IDENT, token.EQ, token.NUMBER, token.SEMICOLON,
	}, types(toks))
	assert.Equal(t, "EmployeeID", toks[1].Literal)
	assert.Equal(t, "dbo", toks[5].Literal)
}

func TestTokenize_KeywordsCaseInsensitive(t *testing.T) {
	toks := lexer.Tokenize("select From wHeRe")
	assert.Equal(t, []token.Type{token.SELECT, token.FROM, token.WHERE}, types(toks))
	// Raw case is preserved for display.
	assert.Equal(t, "wHeRe", toks[2].Raw)
}

func TestTokenize_Strings(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		literal string
	}{
		{"simple", "'hello'", "hello"},
		{"escaped quote", "'O''Brien'", "O'Brien"},
		{"unicode prefix", "N'héllo'", "héllo"},
		{"unterminated", "'oops", "oops"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := lexer.Tokenize(tt.sql)
			require.Len(t, toks, 1)
			assert.Equal(t, token.STRING, toks[0].Type)
			assert.Equal(t, tt.literal, toks[0].Literal)
		})
	}
}

func TestTokenize_BracketedIdentifiers(t *testing.T) {
	toks := lexer.Tokenize("SELECT [Order Details], [a]]b]")
	require.Len(t, toks, 4)
	assert.Equal(t, token.QUOTED_IDENT, toks[1].Type)
	assert.Equal(t, "Order Details", toks[1].Literal)
	assert.Equal(t, "[Order Details]", toks[1].Raw)
	assert.Equal(t, "a]b", toks[3].Literal)
}

func TestTokenize_DoubleQuotePolicy(t *testing.T) {
	toks := lexer.TokenizeWithOptions(`"name"`, lexer.Options{DoubleQuoteString: false})
	require.Len(t, toks, 1)
	assert.Equal(t, token.QUOTED_IDENT, toks[0].Type)

	toks = lexer.TokenizeWithOptions(`"name"`, lexer.Options{DoubleQuoteString: true})
	require.Len(t, toks, 1)
	assert.Equal(t, token.STRING, toks[0].Type)
}

func TestTokenize_VariablesAndTempNames(t *testing.T) {
	toks := lexer.Tokenize("@x @@rowcount #tmp ##global")
	require.Len(t, toks, 4)
	assert.Equal(t, token.VARIABLE, toks[0].Type)
	assert.Equal(t, "@x", toks[0].Literal)
	assert.Equal(t, token.SYSVAR, toks[1].Type)
	assert.Equal(t, "@@rowcount", toks[1].Literal)
	assert.Equal(t, token.TEMP_IDENT, toks[2].Type)
	assert.Equal(t, "#tmp", toks[2].Literal)
	assert.Equal(t, token.TEMP_IDENT, toks[3].Type)
	assert.Equal(t, "##global", toks[3].Literal)
}

func TestTokenize_Operators(t *testing.T) {
	toks := lexer.Tokenize("= <> != <= >= < >")
	assert.Equal(t, []token.Type{
		token.EQ, token.NE, token.NE, token.LE, token.GE, token.LT, token.GT,
	}, types(toks))
}

func TestTokenize_Numbers(t *testing.T) {
	toks := lexer.Tokenize("1 45.67 1e10 2.5e-3")
	require.Len(t, toks, 4)
	for i, want := range []string{"1", "45.67", "1e10", "2.5e-3"} {
		assert.Equal(t, token.NUMBER, toks[i].Type)
		assert.Equal(t, want, toks[i].Literal)
	}
}

func TestLexer_CommentsCollected(t *testing.T) {
	l := lexer.New("SELECT 1 -- trailing\n/* block\nstill */ FROM t")
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
	}
	require.Len(t, l.Comments, 2)
	assert.Equal(t, token.LineComment, l.Comments[0].Kind)
	assert.Equal(t, token.BlockComment, l.Comments[1].Kind)
}

func TestLexer_NestedBlockComment(t *testing.T) {
	toks := lexer.Tokenize("a /* outer /* inner */ out */ b")
	require.Len(t, toks, 2)
	assert.Equal(t, "a", toks[0].Literal)
	assert.Equal(t, "b", toks[1].Literal)
}

func TestTokenize_Positions(t *testing.T) {
	toks := lexer.Tokenize("ab\n cd")
	require.Len(t, toks, 2)
	assert.Equal(t, 1, toks[0].Pos.Line)
	assert.Equal(t, 1, toks[0].Pos.Column)
	assert.Equal(t, 0, toks[0].Pos.Offset)
	assert.Equal(t, 2, toks[1].Pos.Line)
	assert.Equal(t, 2, toks[1].Pos.Column)
	assert.Equal(t, 4, toks[1].Pos.Offset)
}
