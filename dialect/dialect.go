// Package dialect provides the per-database capability set used to render
// identifiers, operators, pagination, and parameter placeholders. Each
// supported engine is a package-level singleton value implementing Dialect;
// there is no inheritance, only composition over this interface.
package dialect

import "fmt"

// Name identifies one of the four supported database engines.
type Name string

const (
	SqlServer Name = "sqlserver"
	Postgres  Name = "postgres"
	MySql     Name = "mysql"
	Sqlite    Name = "sqlite"
)

// Operator is one of the logical filter operator codes a Filter leaf may
// carry (see qcode.Filter).
type Operator string

const (
	OpEq         Operator = "_eq"
	OpNeq        Operator = "_neq"
	OpGt         Operator = "_gt"
	OpLt         Operator = "_lt"
	OpGte        Operator = "_gte"
	OpLte        Operator = "_lte"
	OpIn         Operator = "_in"
	OpContains   Operator = "_contains"
	OpStartsWith Operator = "_starts_with"
	OpEndsWith   Operator = "_ends_with"
	OpBetween    Operator = "_between"
)

// LikeKind selects which LIKE pattern shape to render.
type LikeKind int

const (
	Contains LikeKind = iota
	StartsWith
	EndsWith
)

// SortDirection of a single ORDER BY key.
type SortDirection string

const (
	Asc  SortDirection = "ASC"
	Desc SortDirection = "DESC"
)

// SortKey is one "column_direction" entry in a Query IR sort list.
type SortKey struct {
	Column    string
	Direction SortDirection
}

// DefaultLimit is the cross-dialect default row limit applied when a query
// requests pagination but specifies no explicit limit. See DESIGN.md, Open
// Question 2.
const DefaultLimit = 100

// Unlimited is the sentinel Limit value meaning "omit the LIMIT clause".
const Unlimited = -1

// Dialect is the capability set a concrete database engine implements.
// Implementations are stateless singletons; see PostgresDialect,
// MySqlDialect, SqliteDialect, and SqlServerDialect in the per-dialect files.
type Dialect interface {
	Name() Name

	// EscapeIdentifier wraps name with the dialect's identifier quoting.
	EscapeIdentifier(name string) string

	// TableReference emits a schema-qualified, individually-escaped table
	// reference. When schema is empty only the escaped table is emitted.
	TableReference(schema, table string) string

	// GetOperator maps a logical operator code to its SQL surface form.
	GetOperator(op Operator) (string, error)

	// LikePattern renders the wildcard concatenation used for the given LIKE
	// kind around a bound parameter reference: CONCAT(...) for SQL Server,
	// PostgreSQL and MySQL, the || operator for SQLite.
	LikePattern(paramRef string, kind LikeKind) string

	// Pagination renders the trailing ORDER BY / OFFSET-LIMIT clause for
	// the given sort keys, offset and limit. limit == nil defaults to
	// DefaultLimit; limit != nil && *limit == Unlimited omits the LIMIT
	// clause entirely.
	Pagination(sortColumns []SortKey, offset int, limit *int) string

	// LastInsertedIdentity is the dialect snippet producing the last
	// inserted primary key value within the current connection/session.
	LastInsertedIdentity() string

	// ParameterPrefix is the sigil the dialect uses ahead of a bound
	// parameter name (e.g. "@", "$", ":").
	ParameterPrefix() string

	// BindVar renders the dialect's placeholder for the Nth (1-based)
	// parameter bound to name.
	BindVar(name string, ord int) string

	// ImplicitOrderBy supplies a deterministic ORDER BY column list used
	// when a paginated query requests no explicit sort — typically the
	// primary key columns, in the order given.
	ImplicitOrderBy(pkColumns []string) []SortKey
}

// ErrUnknownOperator is returned by GetOperator for an unrecognized code.
type ErrUnknownOperator struct {
	Op Operator
}

func (e *ErrUnknownOperator) Error() string {
	return fmt.Sprintf("dialect: unknown operator %q", e.Op)
}

// baseOperators holds the operator-to-SQL mapping shared by every dialect;
// only LIKE-family rendering and identifier/placeholder syntax differ.
var baseOperators = map[Operator]string{
	OpEq:  "=",
	OpNeq: "<>",
	OpGt:  ">",
	OpLt:  "<",
	OpGte: ">=",
	OpLte: "<=",
	OpIn:  "IN",
}

func getOperator(op Operator) (string, error) {
	if s, ok := baseOperators[op]; ok {
		return s, nil
	}
	switch op {
	case OpContains, OpStartsWith, OpEndsWith:
		return "LIKE", nil
	case OpBetween:
		return "BETWEEN", nil
	}
	return "", &ErrUnknownOperator{Op: op}
}

// ByName returns the singleton Dialect for the given name.
func ByName(n Name) (Dialect, error) {
	switch n {
	case SqlServer:
		return SqlServerDialect, nil
	case Postgres:
		return PostgresDialect, nil
	case MySql:
		return MySqlDialect, nil
	case Sqlite:
		return SqliteDialect, nil
	default:
		return nil, fmt.Errorf("dialect: unknown dialect %q", n)
	}
}

func effectiveLimit(limit *int) (value int, omit bool) {
	if limit == nil {
		return DefaultLimit, false
	}
	if *limit == Unlimited {
		return 0, true
	}
	return *limit, false
}

func renderOrderBy(escapeColumn func(string) string, sortColumns []SortKey) string {
	if len(sortColumns) == 0 {
		return ""
	}
	out := "ORDER BY "
	for i, k := range sortColumns {
		if i > 0 {
			out += ", "
		}
		out += escapeColumn(k.Column) + " " + string(k.Direction)
	}
	return out
}
