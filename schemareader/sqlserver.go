package schemareader

import (
	"context"
	"database/sql"

	"github.com/standardbeagle/BifrostQL-sub002/dialect"
)

// SqlServerReader introspects via the sys.* catalog views rather than
// information_schema, grounded on other_examples' mssqllisttables.go query
// shape (sys.tables / sys.columns / sys.foreign_key_columns).
type SqlServerReader struct{}

func (SqlServerReader) Dialect() dialect.Name { return dialect.SqlServer }

func (r SqlServerReader) ReadSchema(ctx context.Context, conn *sql.DB) (*SchemaData, error) {
	data := newSchemaData()

	if err := r.readTables(ctx, conn, data); err != nil {
		return nil, err
	}
	if err := r.readColumns(ctx, conn, data); err != nil {
		return nil, err
	}
	if err := r.readPrimaryKeys(ctx, conn, data); err != nil {
		return nil, err
	}
	if err := r.readForeignKeys(ctx, conn, data); err != nil {
		return nil, err
	}
	if err := r.readStoredProcedures(ctx, conn, data); err != nil {
		return nil, err
	}
	return data, nil
}

const sqlServerTablesQuery = `
SELECT DB_NAME(), s.name, t.name, 'BASE TABLE'
FROM sys.tables t
JOIN sys.schemas s ON t.schema_id = s.schema_id
UNION ALL
SELECT DB_NAME(), s.name, v.name, 'VIEW'
FROM sys.views v
JOIN sys.schemas s ON v.schema_id = s.schema_id
ORDER BY 2, 3`

func (r SqlServerReader) readTables(ctx context.Context, conn *sql.DB, data *SchemaData) error {
	rows, err := conn.QueryContext(ctx, sqlServerTablesQuery)
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

const sqlServerColumnsQuery = `
SELECT DB_NAME(), s.name, t.name, c.name, c.column_id, ty.name, c.is_nullable, c.is_identity
FROM sys.columns c
JOIN sys.tables t ON c.object_id = t.object_id
JOIN sys.schemas s ON t.schema_id = s.schema_id
JOIN sys.types ty ON c.user_type_id = ty.user_type_id
ORDER BY s.name, t.name, c.column_id`

func (r SqlServerReader) readColumns(ctx context.Context, conn *sql.DB, data *SchemaData) error {
	rows, err := conn.QueryContext(ctx, sqlServerColumnsQuery)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c RawColumn
		var isIdentity bool
		if err := rows.Scan(&c.Catalog, &c.Schema, &c.Table, &c.Name, &c.Ordinal, &c.DataType, &c.Nullable, &isIdentity); err != nil {
			return err
		}
		data.Columns = append(data.Columns, c)
		if isIdentity {
			key := ConstraintKey{Catalog: c.Catalog, Schema: c.Schema, Table: c.Table, Column: c.Name}
			data.IdentityColumns[key] = true
		}
	}
	return rows.Err()
}

const sqlServerPrimaryKeysQuery = `
SELECT DB_NAME(), s.name, t.name, c.name
FROM sys.indexes i
JOIN sys.index_columns ic ON i.object_id = ic.object_id AND i.index_id = ic.index_id
JOIN sys.columns c ON ic.object_id = c.object_id AND ic.column_id = c.column_id
JOIN sys.tables t ON i.object_id = t.object_id
JOIN sys.schemas s ON t.schema_id = s.schema_id
WHERE i.is_primary_key = 1
ORDER BY s.name, t.name, ic.key_ordinal`

func (r SqlServerReader) readPrimaryKeys(ctx context.Context, conn *sql.DB, data *SchemaData) error {
	rows, err := conn.QueryContext(ctx, sqlServerPrimaryKeysQuery)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key ConstraintKey
		if err := rows.Scan(&key.Catalog, &key.Schema, &key.Table, &key.Column); err != nil {
			return err
		}
		data.Constraints[key] = append(data.Constraints[key], Constraint{Type: ConstraintPrimaryKey})
	}
	return rows.Err()
}

// sqlServerForeignKeysQuery mirrors the other_examples mssqllisttables.go
// join shape over sys.foreign_key_columns, resolving both the child and
// parent (referenced) sides' table/column names.
const sqlServerForeignKeysQuery = `
SELECT
	DB_NAME(), cs.name, ct.name, cc.name,
	DB_NAME(), ps.name, pt.name, pc.name
FROM sys.foreign_key_columns fkc
JOIN sys.tables ct ON fkc.parent_object_id = ct.object_id
JOIN sys.schemas cs ON ct.schema_id = cs.schema_id
JOIN sys.columns cc ON fkc.parent_object_id = cc.object_id AND fkc.parent_column_id = cc.column_id
JOIN sys.tables pt ON fkc.referenced_object_id = pt.object_id
JOIN sys.schemas ps ON pt.schema_id = ps.schema_id
JOIN sys.columns pc ON fkc.referenced_object_id = pc.object_id AND fkc.referenced_column_id = pc.column_id`

func (r SqlServerReader) readForeignKeys(ctx context.Context, conn *sql.DB, data *SchemaData) error {
	rows, err := conn.QueryContext(ctx, sqlServerForeignKeysQuery)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key ConstraintKey
		var ref ForeignKeyRef
		if err := rows.Scan(&key.Catalog, &key.Schema, &key.Table, &key.Column,
			&ref.Catalog, &ref.Schema, &ref.Table, &ref.Column); err != nil {
			return err
		}
		data.Constraints[key] = append(data.Constraints[key], Constraint{
			Type: ConstraintForeignKey,
			Ref:  &ref,
		})
	}
	return rows.Err()
}

const sqlServerStoredProcsQuery = `
SELECT s.name, p.name, CASE WHEN p.type = 'FN' THEN 1 ELSE 0 END
FROM sys.procedures p
JOIN sys.schemas s ON p.schema_id = s.schema_id
WHERE p.is_ms_shipped = 0
UNION ALL
SELECT s.name, f.name, 1
FROM sys.objects f
JOIN sys.schemas s ON f.schema_id = s.schema_id
WHERE f.type IN ('FN', 'TF', 'IF') AND f.is_ms_shipped = 0
ORDER BY 1, 2`

const sqlServerStoredProcParamsQuery = `
SELECT p.name, ty.name, p.is_output, p.parameter_id
FROM sys.parameters p
JOIN sys.types ty ON p.user_type_id = ty.user_type_id
JOIN sys.objects o ON p.object_id = o.object_id
JOIN sys.schemas s ON o.schema_id = s.schema_id
WHERE o.name = @p1 AND s.name = @p2 AND p.parameter_id > 0
ORDER BY p.parameter_id`

func (r SqlServerReader) readStoredProcedures(ctx context.Context, conn *sql.DB, data *SchemaData) error {
	rows, err := conn.QueryContext(ctx, sqlServerStoredProcsQuery)
	if err != nil {
		return err
	}

	type procKey struct {
		schema, name string
		readOnly     bool
	}
	var procs []procKey
	for rows.Next() {
		var p procKey
		if err := rows.Scan(&p.schema, &p.name, &p.readOnly); err != nil {
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
		sp := RawStoredProcedure{Schema: p.schema, Name: p.name, IsReadOnly: p.readOnly}

		paramRows, err := conn.QueryContext(ctx, sqlServerStoredProcParamsQuery, p.name, p.schema)
		if err != nil {
			return err
		}
		for paramRows.Next() {
			var name, dataType string
			var isOutput bool
			var ordinal int
			if err := paramRows.Scan(&name, &dataType, &isOutput, &ordinal); err != nil {
				paramRows.Close()
				return err
			}
			dir := "IN"
			if isOutput {
				dir = "INOUT"
			}
			sp.Parameters = append(sp.Parameters, RawParameter{
				Name:      name,
				DataType:  dataType,
				Direction: dir,
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
