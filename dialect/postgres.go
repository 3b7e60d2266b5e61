package dialect

import (
	"fmt"
	"strconv"
	"strings"
)

// postgresDialect renders PostgreSQL SQL: double-quoted identifiers,
// $N positional parameters, and LIMIT/OFFSET pagination.
type postgresDialect struct{}

// PostgresDialect is the singleton PostgreSQL capability set.
var PostgresDialect Dialect = postgresDialect{}

func (postgresDialect) Name() Name { return Postgres }

func (postgresDialect) EscapeIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (d postgresDialect) TableReference(schema, table string) string {
	if schema == "" {
		return d.EscapeIdentifier(table)
	}
	return d.EscapeIdentifier(schema) + "." + d.EscapeIdentifier(table)
}

func (postgresDialect) GetOperator(op Operator) (string, error) { return getOperator(op) }

func (postgresDialect) LikePattern(paramRef string, kind LikeKind) string {
	switch kind {
	case StartsWith:
		return "CONCAT(" + paramRef + ", '%')"
	case EndsWith:
		return "CONCAT('%', " + paramRef + ")"
	default:
		return "CONCAT('%', " + paramRef + ", '%')"
	}
}

func (d postgresDialect) Pagination(sortColumns []SortKey, offset int, limit *int) string {
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
		fmt.Fprintf(&b, "OFFSET %d", offset)
	}
	return b.String()
}

func (postgresDialect) LastInsertedIdentity() string { return "LASTVAL()" }

func (postgresDialect) ParameterPrefix() string { return "$" }

func (postgresDialect) BindVar(_ string, ord int) string {
	return "$" + strconv.Itoa(ord)
}

func (postgresDialect) ImplicitOrderBy(pkColumns []string) []SortKey {
	keys := make([]SortKey, len(pkColumns))
	for i, c := range pkColumns {
		keys[i] = SortKey{Column: c, Direction: Asc}
	}
	return keys
}
