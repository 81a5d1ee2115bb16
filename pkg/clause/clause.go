// Package clause classifies the syntactic position of a cursor in SQL text.
//
// Resolution is a backward walk over tokens from the cursor, anchored on
// clause keywords with paren balancing and comma counting. It is not a
// grammar: the input is usually mid-edit and frequently malformed, so every
// path degrades to the most recently confirmed clause or to no context at
// all, never to an error.
package clause

// Mode is the clause classification at the cursor.
type Mode int

const (
	ModeNone Mode = iota
	ModeSelect
	ModeColumnAlias
	ModeFrom
	ModeJoin
	ModeOn
	ModeWhere
	ModeHaving
	ModeGroupBy
	ModeOrderBy
	ModeUpdateSet
	ModeComparison
	ModePattern
	ModeBetween
	ModeQualified
	ModeInsert
	ModeInsertColumns
	ModeInsertValues
	ModeExec
	ModeUse
	ModeDeclare
)

var modeNames = map[Mode]string{
	ModeNone:          "none",
	ModeSelect:        "select",
	ModeColumnAlias:   "column_alias",
	ModeFrom:          "from",
	ModeJoin:          "join",
	ModeOn:            "on",
	ModeWhere:         "where",
	ModeHaving:        "having",
	ModeGroupBy:       "group_by",
	ModeOrderBy:       "order_by",
	ModeUpdateSet:     "update_set",
	ModeComparison:    "comparison",
	ModePattern:       "pattern",
	ModeBetween:       "between",
	ModeQualified:     "qualified",
	ModeInsert:        "insert",
	ModeInsertColumns: "insert_columns",
	ModeInsertValues:  "insert_values",
	ModeExec:          "execute",
	ModeUse:           "use",
	ModeDeclare:       "declare",
}

// String returns the mode's wire name.
func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return "none"
}

// LeftSide is the extracted left operand of a comparison, LIKE, or BETWEEN.
type LeftSide struct {
	Qualified string // the full reference as typed, e.g. "e.EmployeeID"
	TableRef  string // qualifier (alias or table), empty when unqualified
	Column    string // final segment
}

// Context is the resolved cursor classification. Only the fields relevant to
// Mode are populated; everything else stays zero.
type Context struct {
	Mode Mode

	// JoinType is set for ModeJoin: "INNER", "LEFT", "FULL OUTER", ...
	JoinType string

	// TableRef is the qualifier for ModeQualified, or the target table for
	// the insert modes.
	TableRef string
	Schema   string
	Database string

	// Column is the target column for ModeInsertValues when it can be
	// mapped through scope, or the left column for comparison modes.
	Column string

	// ValueIndex is the 1-based slot within a VALUES(...) list.
	ValueIndex int

	// Left is the extracted left operand for comparison, pattern, and
	// between modes. Nil when extraction declines (function call, CASE,
	// literal, parenthesized expression).
	Left *LeftSide

	// Partial is the word fragment under the cursor, if the cursor touches
	// the end of an identifier-like token.
	Partial string
}

// None is the empty context.
var None = Context{}
