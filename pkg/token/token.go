// Package token defines the lexical token types for T-SQL scanning.
//
// Core tokens are defined as constants for switch performance. The set is
// deliberately small: the context engine classifies cursor positions, it does
// not build a grammar-complete token stream.
package token

import "fmt"

// Type represents the type of a lexical token.
type Type int32

const (
	// Special tokens
	EOF Type = iota
	ILLEGAL

	// Literals and identifiers
	IDENT        // employees
	QUOTED_IDENT // [Order Details]
	VARIABLE     // @name
	SYSVAR       // @@rowcount
	TEMP_IDENT   // #temp or ##global
	NUMBER       // 123, 45.67, 1e10
	STRING       // 'hello' or N'hello'

	// Operators
	EQ // =
	NE // != or <>
	LT // <
	GT // >
	LE // <=
	GE // >=

	// Punctuation
	DOT       // .
	COMMA     // ,
	LPAREN    // (
	RPAREN    // )
	SEMICOLON // ;
	STAR      // *
	PLUS      // +
	MINUS     // -
	SLASH     // /
	PERCENT   // %

	// Keywords (alphabetical)
	ALL
	AND
	APPLY
	AS
	ASC
	BETWEEN
	BY
	CASE
	CREATE
	CROSS
	DECLARE
	DELETE
	DELETED
	DESC
	DISTINCT
	ELSE
	END
	EXEC
	EXECUTE
	EXISTS
	FROM
	FULL
	GROUP
	HAVING
	IN
	INNER
	INSERT
	INSERTED
	INTO
	IS
	JOIN
	LEFT
	LIKE
	NOT
	NULL
	ON
	OR
	ORDER
	OUTER
	OUTPUT
	PROC
	PROCEDURE
	RIGHT
	SELECT
	SET
	TABLE
	THEN
	TOP
	TRIGGER
	UNION
	UPDATE
	USE
	VALUES
	WHEN
	WHERE
	WITH
)

// String returns a human-readable representation of the token type.
func (t Type) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

var tokenNames = map[Type]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:        "IDENT",
	QUOTED_IDENT: "QUOTED_IDENT",
	VARIABLE:     "VARIABLE",
	SYSVAR:       "SYSVAR",
	TEMP_IDENT:   "TEMP_IDENT",
	NUMBER:       "NUMBER",
	STRING:       "STRING",

	EQ: "=",
	NE: "<>",
	LT: "<",
	GT: ">",
	LE: "<=",
	GE: ">=",

	DOT:       ".",
	COMMA:     ",",
	LPAREN:    "(",
	RPAREN:    ")",
	SEMICOLON: ";",
	STAR:      "*",
	PLUS:      "+",
	MINUS:     "-",
	SLASH:     "/",
	PERCENT:   "%",

	ALL:       "ALL",
	AND:       "AND",
	APPLY:     "APPLY",
	AS:        "AS",
	ASC:       "ASC",
	BETWEEN:   "BETWEEN",
	BY:        "BY",
	CASE:      "CASE",
	CREATE:    "CREATE",
	CROSS:     "CROSS",
	DECLARE:   "DECLARE",
	DELETE:    "DELETE",
	DELETED:   "DELETED",
	DESC:      "DESC",
	DISTINCT:  "DISTINCT",
	ELSE:      "ELSE",
	END:       "END",
	EXEC:      "EXEC",
	EXECUTE:   "EXECUTE",
	EXISTS:    "EXISTS",
	FROM:      "FROM",
	FULL:      "FULL",
	GROUP:     "GROUP",
	HAVING:    "HAVING",
	IN:        "IN",
	INNER:     "INNER",
	INSERT:    "INSERT",
	INSERTED:  "INSERTED",
	INTO:      "INTO",
	IS:        "IS",
	JOIN:      "JOIN",
	LEFT:      "LEFT",
	LIKE:      "LIKE",
	NOT:       "NOT",
	NULL:      "NULL",
	ON:        "ON",
	OR:        "OR",
	ORDER:     "ORDER",
	OUTER:     "OUTER",
	OUTPUT:    "OUTPUT",
	PROC:      "PROC",
	PROCEDURE: "PROCEDURE",
	RIGHT:     "RIGHT",
	SELECT:    "SELECT",
	SET:       "SET",
	TABLE:     "TABLE",
	THEN:      "THEN",
	TOP:       "TOP",
	TRIGGER:   "TRIGGER",
	UNION:     "UNION",
	UPDATE:    "UPDATE",
	USE:       "USE",
	VALUES:    "VALUES",
	WHEN:      "WHEN",
	WHERE:     "WHERE",
	WITH:      "WITH",
}

// keywords maps lowercase keyword strings to their token types.
var keywords = map[string]Type{
	"all":       ALL,
	"and":       AND,
	"apply":     APPLY,
	"as":        AS,
	"asc":       ASC,
	"between":   BETWEEN,
	"by":        BY,
	"case":      CASE,
	"create":    CREATE,
	"cross":     CROSS,
	"declare":   DECLARE,
	"delete":    DELETE,
	"deleted":   DELETED,
	"desc":      DESC,
	"distinct":  DISTINCT,
	"else":      ELSE,
	"end":       END,
	"exec":      EXEC,
	"execute":   EXECUTE,
	"exists":    EXISTS,
	"from":      FROM,
	"full":      FULL,
	"group":     GROUP,
	"having":    HAVING,
	"in":        IN,
	"inner":     INNER,
	"insert":    INSERT,
	"inserted":  INSERTED,
	"into":      INTO,
	"is":        IS,
	"join":      JOIN,
	"left":      LEFT,
	"like":      LIKE,
	"not":       NOT,
	"null":      NULL,
	"on":        ON,
	"or":        OR,
	"order":     ORDER,
	"outer":     OUTER,
	"output":    OUTPUT,
	"proc":      PROC,
	"procedure": PROCEDURE,
	"right":     RIGHT,
	"select":    SELECT,
	"set":       SET,
	"table":     TABLE,
	"then":      THEN,
	"top":       TOP,
	"trigger":   TRIGGER,
	"union":     UNION,
	"update":    UPDATE,
	"use":       USE,
	"values":    VALUES,
	"when":      WHEN,
	"where":     WHERE,
	"with":      WITH,
}

// LookupIdent returns the token type for the given identifier.
// If the identifier is a keyword, the keyword token type is returned.
// Otherwise, IDENT is returned. Lookup is case-insensitive via lowercase input.
func LookupIdent(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token type is a keyword.
func IsKeyword(t Type) bool {
	return t >= ALL && t <= WITH
}

// IsComparison returns true for comparison operator tokens.
func IsComparison(t Type) bool {
	return t >= EQ && t <= GE
}

// IsIdentLike returns true for tokens that can name a table, column, or alias.
func IsIdentLike(t Type) bool {
	switch t {
	case IDENT, QUOTED_IDENT, TEMP_IDENT, VARIABLE, SYSVAR:
		return true
	}
	return false
}

// JoinKeyword returns true for tokens that modify or introduce a JOIN.
func JoinKeyword(t Type) bool {
	switch t {
	case JOIN, INNER, LEFT, RIGHT, FULL, OUTER, CROSS:
		return true
	}
	return false
}

// Token represents a lexical token with position information.
type Token struct {
	Type    Type
	Literal string // unquoted/unescaped text for identifiers and strings
	Raw     string // exact source text including delimiters
	Pos     Position
}
