package dialect

import (
	"fmt"
	"strings"
)

// sqlServerDialect renders Transact-SQL: bracket-quoted identifiers,
// "@"-style named parameters, and OFFSET/FETCH pagination.
type sqlServerDialect struct{}

// SqlServerDialect is the singleton SQL Server capability set.
var SqlServerDialect Dialect = sqlServerDialect{}

func (sqlServerDialect) Name() Name { return SqlServer }

func (sqlServerDialect) EscapeIdentifier(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

func (d sqlServerDialect) TableReference(schema, table string) string {
	if schema == "" {
		return d.EscapeIdentifier(table)
	}
	return d.EscapeIdentifier(schema) + "." + d.EscapeIdentifier(table)
}

func (sqlServerDialect) GetOperator(op Operator) (string, error) { return getOperator(op) }

func (sqlServerDialect) LikePattern(paramRef string, kind LikeKind) string {
	switch kind {
	case StartsWith:
		return "CONCAT(" + paramRef + ", '%')"
	case EndsWith:
		return "CONCAT('%', " + paramRef + ")"
	default:
		return "CONCAT('%', " + paramRef + ", '%')"
	}
}

// Pagination emits ORDER BY ... OFFSET n ROWS FETCH NEXT m ROWS ONLY. The
// OFFSET/FETCH syntax requires an ORDER BY; when none is supplied and
// pagination applies, the caller must provide one via ImplicitOrderBy —
// Pagination itself only renders the clause for whatever sort keys it is
// given.
func (d sqlServerDialect) Pagination(sortColumns []SortKey, offset int, limit *int) string {
	var b strings.Builder
	ob := renderOrderBy(d.EscapeIdentifier, sortColumns)
	b.WriteString(ob)

	value, omit := effectiveLimit(limit)
	if ob == "" {
		// No sort key available to anchor OFFSET/FETCH; nothing to render.
		return b.String()
	}
	if b.Len() > 0 {
		b.WriteString(" ")
	}
	fmt.Fprintf(&b, "OFFSET %d ROWS", offset)
	if !omit {
		fmt.Fprintf(&b, " FETCH NEXT %d ROWS ONLY", value)
	}
	return b.String()
}

func (sqlServerDialect) LastInsertedIdentity() string { return "SCOPE_IDENTITY()" }

func (sqlServerDialect) ParameterPrefix() string { return "@" }

func (sqlServerDialect) BindVar(name string, ord int) string {
	if name != "" {
		return "@" + name
	}
	return fmt.Sprintf("@p%d", ord)
}

func (sqlServerDialect) ImplicitOrderBy(pkColumns []string) []SortKey {
	keys := make([]SortKey, len(pkColumns))
	for i, c := range pkColumns {
		keys[i] = SortKey{Column: c, Direction: Asc}
	}
	return keys
}
