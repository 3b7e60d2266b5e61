package schemareader

import (
	"context"
	"database/sql"

	"github.com/standardbeagle/BifrostQL-sub002/dialect"
)

// PostgresReader introspects information_schema and pg_catalog, grounded on
// core/internal/sdata/sql.go's embedded postgres_info.sql query shape.
type PostgresReader struct{}

func (PostgresReader) Dialect() dialect.Name { return dialect.Postgres }

func (r PostgresReader) ReadSchema(ctx context.Context, conn *sql.DB) (*SchemaData, error) {
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
	if err := r.readIdentityColumns(ctx, conn, data); err != nil {
		return nil, err
	}
	if err := r.readStoredProcedures(ctx, conn, data); err != nil {
		return nil, err
	}
	return data, nil
}

const postgresTablesQuery = `
SELECT table_catalog, table_schema, table_name, table_type
FROM information_schema.tables
WHERE table_schema NOT IN ('pg_catalog', 'information_schema')
ORDER BY table_schema, table_name`

func (r PostgresReader) readTables(ctx context.Context, conn *sql.DB, data *SchemaData) error {
	rows, err := conn.QueryContext(ctx, postgresTablesQuery)
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

const postgresColumnsQuery = `
SELECT table_catalog, table_schema, table_name, column_name, ordinal_position, data_type, is_nullable
FROM information_schema.columns
WHERE table_schema NOT IN ('pg_catalog', 'information_schema')
ORDER BY table_schema, table_name, ordinal_position`

func (r PostgresReader) readColumns(ctx context.Context, conn *sql.DB, data *SchemaData) error {
	rows, err := conn.QueryContext(ctx, postgresColumnsQuery)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c RawColumn
		var nullable string
		if err := rows.Scan(&c.Catalog, &c.Schema, &c.Table, &c.Name, &c.Ordinal, &c.DataType, &nullable); err != nil {
			return err
		}
		c.Nullable = nullable == "YES"
		data.Columns = append(data.Columns, c)
	}
	return rows.Err()
}

// postgresConstraintsQuery joins key_column_usage to constraint_column_usage
// through table_constraints to recover, for every FOREIGN KEY column, the
// table/column it references — the same join shape as
// core/internal/sdata/sql.go's postgres relation query.
const postgresConstraintsQuery = `
SELECT
	tc.table_catalog, tc.table_schema, tc.table_name, kcu.column_name,
	tc.constraint_type,
	ccu.table_catalog, ccu.table_schema, ccu.table_name, ccu.column_name
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
	ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
LEFT JOIN information_schema.constraint_column_usage ccu
	ON tc.constraint_name = ccu.constraint_name AND tc.constraint_type = 'FOREIGN KEY'
WHERE tc.constraint_type IN ('PRIMARY KEY', 'FOREIGN KEY')
	AND tc.table_schema NOT IN ('pg_catalog', 'information_schema')`

func (r PostgresReader) readConstraints(ctx context.Context, conn *sql.DB, data *SchemaData) error {
	rows, err := conn.QueryContext(ctx, postgresConstraintsQuery)
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

const postgresIdentityQuery = `
SELECT table_catalog, table_schema, table_name, column_name
FROM information_schema.columns
WHERE is_identity = 'YES' OR column_default LIKE 'nextval(%'`

func (r PostgresReader) readIdentityColumns(ctx context.Context, conn *sql.DB, data *SchemaData) error {
	rows, err := conn.QueryContext(ctx, postgresIdentityQuery)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key ConstraintKey
		if err := rows.Scan(&key.Catalog, &key.Schema, &key.Table, &key.Column); err != nil {
			return err
		}
		data.IdentityColumns[key] = true
	}
	return rows.Err()
}

// postgresStoredProcsQuery reads routines plus their parameters from
// information_schema, mirroring the teacher's schema-dump approach of
// pulling routine metadata from the standard catalog views rather than
// pg_proc directly.
const postgresStoredProcsQuery = `
SELECT r.specific_name, r.routine_schema, r.routine_name, r.routine_type
FROM information_schema.routines r
WHERE r.routine_schema NOT IN ('pg_catalog', 'information_schema')
ORDER BY r.routine_schema, r.routine_name`

const postgresStoredProcParamsQuery = `
SELECT specific_name, parameter_name, data_type, parameter_mode, ordinal_position
FROM information_schema.parameters
WHERE specific_name = $1
ORDER BY ordinal_position`

func (r PostgresReader) readStoredProcedures(ctx context.Context, conn *sql.DB, data *SchemaData) error {
	rows, err := conn.QueryContext(ctx, postgresStoredProcsQuery)
	if err != nil {
		return err
	}

	type procKey struct {
		specificName string
		schema       string
		name         string
		routineType  string
	}
	var procs []procKey
	for rows.Next() {
		var p procKey
		if err := rows.Scan(&p.specificName, &p.schema, &p.name, &p.routineType); err != nil {
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

		paramRows, err := conn.QueryContext(ctx, postgresStoredProcParamsQuery, p.specificName)
		if err != nil {
			return err
		}
		for paramRows.Next() {
			var specificName string
			var name sql.NullString
			var dataType, mode string
			var ordinal int
			if err := paramRows.Scan(&specificName, &name, &dataType, &mode, &ordinal); err != nil {
				paramRows.Close()
				return err
			}
			sp.Parameters = append(sp.Parameters, RawParameter{
				Name:      name.String,
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
