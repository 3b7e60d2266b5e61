package schemareader

import (
	"strings"

	"github.com/standardbeagle/BifrostQL-sub002/dialect"
)

// GraphQL scalar type names produced by TypeMapper.
const (
	ScalarInt      = "Int"
	ScalarFloat    = "Float"
	ScalarString   = "String"
	ScalarBoolean  = "Boolean"
	ScalarID       = "ID"
	ScalarDateTime = "DateTime"
	ScalarJSON     = "JSON"
)

// TypeMapper maps a dialect's declared column type string, verbatim as the
// database reports it (e.g. "VARCHAR(100)", "DECIMAL(10,2)"), to a GraphQL
// scalar type name.
type TypeMapper interface {
	MapType(dataType string) string
}

// ForDialect returns the TypeMapper for the given dialect.
func ForDialect(n dialect.Name) TypeMapper {
	switch n {
	case dialect.Postgres:
		return postgresTypeMapper{}
	case dialect.MySql:
		return mysqlTypeMapper{}
	case dialect.Sqlite:
		return sqliteTypeMapper{}
	case dialect.SqlServer:
		return sqlServerTypeMapper{}
	default:
		return genericTypeMapper{}
	}
}

func baseType(dataType string) string {
	t := strings.ToLower(dataType)
	if i := strings.IndexAny(t, "( "); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}

type genericTypeMapper struct{}

func (genericTypeMapper) MapType(dataType string) string {
	switch baseType(dataType) {
	case "int", "integer", "smallint", "bigint", "tinyint", "serial", "bigserial":
		return ScalarInt
	case "float", "real", "double", "decimal", "numeric", "money":
		return ScalarFloat
	case "bool", "boolean", "bit":
		return ScalarBoolean
	case "date", "datetime", "timestamp", "timestamptz", "time":
		return ScalarDateTime
	case "json", "jsonb":
		return ScalarJSON
	default:
		return ScalarString
	}
}

type postgresTypeMapper struct{ genericTypeMapper }

func (m postgresTypeMapper) MapType(dataType string) string {
	switch baseType(dataType) {
	case "uuid":
		return ScalarID
	case "int4", "int8", "int2":
		return ScalarInt
	case "float4", "float8":
		return ScalarFloat
	default:
		return m.genericTypeMapper.MapType(dataType)
	}
}

type mysqlTypeMapper struct{ genericTypeMapper }

func (m mysqlTypeMapper) MapType(dataType string) string {
	switch baseType(dataType) {
	case "char", "varchar", "text", "longtext", "mediumtext", "tinytext", "enum", "set":
		return ScalarString
	case "datetime", "timestamp":
		return ScalarDateTime
	default:
		return m.genericTypeMapper.MapType(dataType)
	}
}

type sqliteTypeMapper struct{ genericTypeMapper }

func (m sqliteTypeMapper) MapType(dataType string) string {
	// SQLite's type affinity rules: a declared type containing "INT" is
	// integer affinity regardless of exact spelling.
	t := strings.ToUpper(dataType)
	switch {
	case strings.Contains(t, "INT"):
		return ScalarInt
	case strings.Contains(t, "CHAR"), strings.Contains(t, "CLOB"), strings.Contains(t, "TEXT"):
		return ScalarString
	case strings.Contains(t, "REAL"), strings.Contains(t, "FLOA"), strings.Contains(t, "DOUB"):
		return ScalarFloat
	case strings.Contains(t, "BOOL"):
		return ScalarBoolean
	case t == "":
		return ScalarString
	default:
		return m.genericTypeMapper.MapType(dataType)
	}
}

type sqlServerTypeMapper struct{ genericTypeMapper }

func (m sqlServerTypeMapper) MapType(dataType string) string {
	switch baseType(dataType) {
	case "uniqueidentifier":
		return ScalarID
	case "bit":
		return ScalarBoolean
	case "datetime2", "datetimeoffset", "smalldatetime":
		return ScalarDateTime
	case "nvarchar", "nchar", "ntext":
		return ScalarString
	default:
		return m.genericTypeMapper.MapType(dataType)
	}
}
