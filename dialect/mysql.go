package dialect

import (
	"fmt"
	"strings"
)

// mysqlDialect renders MySQL/MariaDB SQL: backtick identifiers, "@"-style
// named parameters, and LIMIT/OFFSET pagination.
type mysqlDialect struct{}

// MySqlDialect is the singleton MySQL capability set.
var MySqlDialect Dialect = mysqlDialect{}

func (mysqlDialect) Name() Name { return MySql }

func (mysqlDialect) EscapeIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (d mysqlDialect) TableReference(schema, table string) string {
	if schema == "" {
		return d.EscapeIdentifier(table)
	}
	return d.EscapeIdentifier(schema) + "." + d.EscapeIdentifier(table)
}

func (mysqlDialect) GetOperator(op Operator) (string, error) { return getOperator(op) }

func (mysqlDialect) LikePattern(paramRef string, kind LikeKind) string {
	switch kind {
	case StartsWith:
		return "CONCAT(" + paramRef + ", '%')"
	case EndsWith:
		return "CONCAT('%', " + paramRef + ")"
	default:
		return "CONCAT('%', " + paramRef + ", '%')"
	}
}

func (d mysqlDialect) Pagination(sortColumns []SortKey, offset int, limit *int) string {
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
		// MySQL has no OFFSET-only clause; a very large limit stands in for "unlimited".
		fmt.Fprintf(&b, "LIMIT 18446744073709551615 OFFSET %d", offset)
	}
	return b.String()
}

func (mysqlDialect) LastInsertedIdentity() string { return "LAST_INSERT_ID()" }

func (mysqlDialect) ParameterPrefix() string { return "@" }

func (mysqlDialect) BindVar(name string, ord int) string {
	if name != "" {
		return "@" + name
	}
	return fmt.Sprintf("@p%d", ord)
}

func (mysqlDialect) ImplicitOrderBy(pkColumns []string) []SortKey {
	keys := make([]SortKey, len(pkColumns))
	for i, c := range pkColumns {
		keys[i] = SortKey{Column: c, Direction: Asc}
	}
	return keys
}
