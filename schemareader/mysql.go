package schemareader

import (
	"context"
	"database/sql"

	"github.com/standardbeagle/BifrostQL-sub002/dialect"
)

// MySqlReader introspects information_schema the way MySQL exposes it:
// TABLE_CATALOG is always "def", and foreign keys are discovered through
// KEY_COLUMN_USAGE's REFERENCED_* columns directly (no constraint_column_usage
// indirection as in Postgres).
type MySqlReader struct{}

func (MySqlReader) Dialect() dialect.Name { return dialect.MySql }

func (r MySqlReader) ReadSchema(ctx context.Context, conn *sql.DB) (*SchemaData, error) {
	data := newSchemaData()

	if err := r.readTables(ctx, conn, data); err != nil {
		return nil, err
	}
	if err := r.readColumns(ctx, conn, data); err != nil {
		return nil, err
	}
	if err := r.readConstraints(ctx, conn, data); err != nil {
		return nil, err
	}
	if err := r.readStoredProcedures(ctx, conn, data); err != nil {
		return nil, err
	}
	return data, nil
}

const mysqlTablesQuery = `
SELECT TABLE_CATALOG, TABLE_SCHEMA, TABLE_NAME, TABLE_TYPE
FROM information_schema.TABLES
WHERE TABLE_SCHEMA = DATABASE()
ORDER BY TABLE_NAME`

func (r MySqlReader) readTables(ctx context.Context, conn *sql.DB, data *SchemaData) error {
	rows, err := conn.QueryContext(ctx, mysqlTablesQuery)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var t RawTable
		var rawType string
		if err := rows.Scan(&t.Catalog, &t.Schema, &t.Name, &rawType); err != nil {
			return err
		}
		if rawType == "VIEW" {
			t.Type = RawTableView
		} else {
			t.Type = RawTableBase
		}
		data.Tables = append(data.Tables, t)
	}
	return rows.Err()
}

const mysqlColumnsQuery = `
SELECT TABLE_CATALOG, TABLE_SCHEMA, TABLE_NAME, COLUMN_NAME, ORDINAL_POSITION, DATA_TYPE, IS_NULLABLE,
	EXTRA
FROM information_schema.COLUMNS
WHERE TABLE_SCHEMA = DATABASE()
ORDER BY TABLE_NAME, ORDINAL_POSITION`

func (r MySqlReader) readColumns(ctx context.Context, conn *sql.DB, data *SchemaData) error {
	rows, err := conn.QueryContext(ctx, mysqlColumnsQuery)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c RawColumn
		var nullable, extra string
		if err := rows.Scan(&c.Catalog, &c.Schema, &c.Table, &c.Name, &c.Ordinal, &c.DataType, &nullable, &extra); err != nil {
			return err
		}
		c.Nullable = nullable == "YES"
		data.Columns = append(data.Columns, c)
		if extra == "auto_increment" {
			key := ConstraintKey{Catalog: c.Catalog, Schema: c.Schema, Table: c.Table, Column: c.Name}
			data.IdentityColumns[key] = true
		}
	}
	return rows.Err()
}

// mysqlConstraintsQuery relies on KEY_COLUMN_USAGE carrying the referenced
// table/column directly for foreign keys (MySQL-specific; Postgres needs the
// constraint_column_usage join instead), and on TABLE_CONSTRAINTS for the
// constraint kind.
const mysqlConstraintsQuery = `
SELECT
	tc.TABLE_CATALOG, tc.TABLE_SCHEMA, tc.TABLE_NAME, kcu.COLUMN_NAME,
	tc.CONSTRAINT_TYPE,
	kcu.REFERENCED_TABLE_CATALOG, kcu.REFERENCED_TABLE_SCHEMA, kcu.REFERENCED_TABLE_NAME, kcu.REFERENCED_COLUMN_NAME
FROM information_schema.TABLE_CONSTRAINTS tc
JOIN information_schema.KEY_COLUMN_USAGE kcu
	ON tc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME AND tc.TABLE_SCHEMA = kcu.TABLE_SCHEMA AND tc.TABLE_NAME = kcu.TABLE_NAME
WHERE tc.CONSTRAINT_TYPE IN ('PRIMARY KEY', 'FOREIGN KEY')
	AND tc.TABLE_SCHEMA = DATABASE()`

func (r MySqlReader) readConstraints(ctx context.Context, conn *sql.DB, data *SchemaData) error {
	rows, err := conn.QueryContext(ctx, mysqlConstraintsQuery)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key ConstraintKey
		var rawType string
		var refCatalog, refSchema, refTable, refColumn sql.NullString
		if err := rows.Scan(&key.Catalog, &key.Schema, &key.Table, &key.Column, &rawType,
			&refCatalog, &refSchema, &refTable, &refColumn); err != nil {
			return err
		}

		c := Constraint{Type: ConstraintType(rawType)}
		if c.Type == ConstraintForeignKey && refTable.Valid {
			c.Ref = &ForeignKeyRef{
				Catalog: refCatalog.String,
				Schema:  refSchema.String,
				Table:   refTable.String,
				Column:  refColumn.String,
			}
		}
		data.Constraints[key] = append(data.Constraints[key], c)
	}
	return rows.Err()
}

const mysqlStoredProcsQuery = `
SELECT ROUTINE_SCHEMA, ROUTINE_NAME, ROUTINE_TYPE
FROM information_schema.ROUTINES
WHERE ROUTINE_SCHEMA = DATABASE()
ORDER BY ROUTINE_NAME`

const mysqlStoredProcParamsQuery = `
SELECT PARAMETER_NAME, DATA_TYPE, PARAMETER_MODE, ORDINAL_POSITION
FROM information_schema.PARAMETERS
WHERE SPECIFIC_SCHEMA = DATABASE() AND SPECIFIC_NAME = ? AND PARAMETER_NAME IS NOT NULL
ORDER BY ORDINAL_POSITION`

func (r MySqlReader) readStoredProcedures(ctx context.Context, conn *sql.DB, data *SchemaData) error {
	rows, err := conn.QueryContext(ctx, mysqlStoredProcsQuery)
	if err != nil {
		return err
	}

	type procKey struct {
		schema, name, routineType string
	}
	var procs []procKey
	for rows.Next() {
		var p procKey
		if err := rows.Scan(&p.schema, &p.name, &p.routineType); err != nil {
			rows.Close()
			return err
		}
		procs = append(procs, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for _, p := range procs {
		sp := RawStoredProcedure{
			Schema:     p.schema,
			Name:       p.name,
			IsReadOnly: p.routineType == "FUNCTION",
		}

		paramRows, err := conn.QueryContext(ctx, mysqlStoredProcParamsQuery, p.name)
		if err != nil {
			return err
		}
		for paramRows.Next() {
			var name, dataType, mode string
			var ordinal int
			if err := paramRows.Scan(&name, &dataType, &mode, &ordinal); err != nil {
				paramRows.Close()
				return err
			}
			sp.Parameters = append(sp.Parameters, RawParameter{
				Name:      name,
				DataType:  dataType,
				Direction: mode,
				Nullable:  true,
				Ordinal:   ordinal,
			})
		}
		if err := paramRows.Err(); err != nil {
			paramRows.Close()
			return err
		}
		paramRows.Close()

		data.StoredProcedures = append(data.StoredProcedures, sp)
	}
	return nil
}
