package dialect

import (
	"fmt"
	"strings"
)

// sqliteDialect renders SQLite SQL: backtick identifiers (SQLite also
// accepts double quotes and square brackets; backticks are used for
// MySQL-compatibility, matching spec §4.1), "@"-style named parameters,
// and LIMIT/OFFSET pagination.
type sqliteDialect struct{}

// SqliteDialect is the singleton SQLite capability set.
var SqliteDialect Dialect = sqliteDialect{}

func (sqliteDialect) Name() Name { return Sqlite }

func (sqliteDialect) EscapeIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (d sqliteDialect) TableReference(schema, table string) string {
	if schema == "" || strings.EqualFold(schema, "main") {
		return d.EscapeIdentifier(table)
	}
	return d.EscapeIdentifier(schema) + "." + d.EscapeIdentifier(table)
}

func (sqliteDialect) GetOperator(op Operator) (string, error) { return getOperator(op) }

func (sqliteDialect) LikePattern(paramRef string, kind LikeKind) string {
	switch kind {
	case StartsWith:
		return "(" + paramRef + " || '%')"
	case EndsWith:
		return "('%' || " + paramRef + ")"
	default:
		return "('%' || " + paramRef + " || '%')"
	}
}

func (d sqliteDialect) Pagination(sortColumns []SortKey, offset int, limit *int) string {
	var b strings.Builder
	if ob := renderOrderBy(d.EscapeIdentifier, sortColumns); ob != "" {
		b.WriteString(ob)
	}
	value, omit := effectiveLimit(limit)
	if !omit {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "LIMIT %d OFFSET %d", value, offset)
	} else if offset != 0 {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "LIMIT -1 OFFSET %d", offset)
	}
	return b.String()
}

func (sqliteDialect) LastInsertedIdentity() string { return "last_insert_rowid()" }

func (sqliteDialect) ParameterPrefix() string { return "@" }

func (sqliteDialect) BindVar(name string, ord int) string {
	if name != "" {
		return "@" + name
	}
	return fmt.Sprintf("@p%d", ord)
}

func (sqliteDialect) ImplicitOrderBy(pkColumns []string) []SortKey {
	keys := make([]SortKey, len(pkColumns))
	for i, c := range pkColumns {
		keys[i] = SortKey{Column: c, Direction: Asc}
	}
	return keys
}
