// Package schemareader introspects a live database connection and emits a
// raw SchemaData describing its tables, columns, constraints, and stored
// procedures — one implementation per dialect. build.go then folds a
// SchemaData into a schema.Model; metadata is applied and the model frozen
// by the caller.
//
// Grounded on core/internal/sdata/sql.go's embedded per-dialect
// introspection SQL and other_examples' mssqllisttables.go system-catalog
// query (sys.tables / sys.columns / sys.foreign_key_columns) for the SQL
// Server reader.
package schemareader

import (
	"context"
	"database/sql"

	"github.com/standardbeagle/BifrostQL-sub002/dialect"
)

// RawColumn is one column row as reported by the database catalog, before
// any GraphQL-name derivation.
type RawColumn struct {
	Catalog  string
	Schema   string
	Table    string
	Name     string
	Ordinal  int
	DataType string
	Nullable bool
}

// RawTable is one table or view row as reported by the database catalog.
type RawTable struct {
	Catalog string
	Schema  string
	Name    string
	Type    RawTableType
}

// RawTableType mirrors schema.TableType at the introspection boundary.
type RawTableType string

const (
	RawTableBase RawTableType = "BASE TABLE"
	RawTableView RawTableType = "VIEW"
)

// ConstraintKey identifies the (catalog, schema, table, column) tuple a
// Constraint applies to.
type ConstraintKey struct {
	Catalog string
	Schema  string
	Table   string
	Column  string
}

// ConstraintType distinguishes primary and foreign key constraints.
type ConstraintType string

const (
	ConstraintPrimaryKey ConstraintType = "PRIMARY KEY"
	ConstraintForeignKey ConstraintType = "FOREIGN KEY"
)

// ForeignKeyRef is the (catalog, schema, table, column) a foreign key
// constraint points at.
type ForeignKeyRef struct {
	Catalog string
	Schema  string
	Table   string
	Column  string
}

// Constraint is one constraint applying to a ConstraintKey column.
type Constraint struct {
	Type ConstraintType
	Name string
	Ref  *ForeignKeyRef // set only when Type == ConstraintForeignKey
}

// SchemaData is the raw introspection result: columns, tables, and a
// constraint map keyed by the column each constraint applies to (spec
// §4.2). It carries no GraphQL naming or link resolution — that is
// build.go's job.
type SchemaData struct {
	Tables           []RawTable
	Columns          []RawColumn
	Constraints      map[ConstraintKey][]Constraint
	StoredProcedures []RawStoredProcedure
	IdentityColumns  map[ConstraintKey]bool
}

// RawStoredProcedure is one stored procedure/function row with its
// ordered parameters, as reported by the database catalog.
type RawStoredProcedure struct {
	Schema     string
	Name       string
	IsReadOnly bool
	Parameters []RawParameter
}

// RawParameter is one stored-procedure parameter row.
type RawParameter struct {
	Name      string
	DataType  string
	Direction string // "IN", "OUT", "INOUT"
	Nullable  bool
	Ordinal   int
}

// SchemaReader introspects conn and returns the raw schema for one
// dialect. Implementations perform exactly one suspending round trip per
// catalog query (spec §5's "coroutine-style schema reading" note).
type SchemaReader interface {
	Dialect() dialect.Name
	ReadSchema(ctx context.Context, conn *sql.DB) (*SchemaData, error)
}

// ByDialect returns the SchemaReader for the given dialect name.
func ByDialect(n dialect.Name) (SchemaReader, error) {
	switch n {
	case dialect.Postgres:
		return PostgresReader{}, nil
	case dialect.MySql:
		return MySqlReader{}, nil
	case dialect.Sqlite:
		return SqliteReader{}, nil
	case dialect.SqlServer:
		return SqlServerReader{}, nil
	default:
		return nil, &UnsupportedDialectError{Dialect: n}
	}
}

// UnsupportedDialectError is returned by ByDialect for an unrecognized
// dialect name.
type UnsupportedDialectError struct {
	Dialect dialect.Name
}

func (e *UnsupportedDialectError) Error() string {
	return "schemareader: unsupported dialect " + string(e.Dialect)
}

func newSchemaData() *SchemaData {
	return &SchemaData{
		Constraints:     make(map[ConstraintKey][]Constraint),
		IdentityColumns: make(map[ConstraintKey]bool),
	}
}
