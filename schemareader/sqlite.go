package schemareader

import (
	"context"
	"database/sql"

	"github.com/standardbeagle/BifrostQL-sub002/dialect"
)

// SqliteReader introspects via PRAGMA statements rather than
// information_schema, since SQLite has no catalog views (spec §4.2).
// SQLite has no stored-procedure concept, so readStoredProcedures is a
// no-op.
type SqliteReader struct{}

func (SqliteReader) Dialect() dialect.Name { return dialect.Sqlite }

func (r SqliteReader) ReadSchema(ctx context.Context, conn *sql.DB) (*SchemaData, error) {
	data := newSchemaData()

	tables, err := r.readTables(ctx, conn)
	if err != nil {
		return nil, err
	}
	data.Tables = tables

	for _, t := range tables {
		if err := r.readTableInfo(ctx, conn, t.Name, data); err != nil {
			return nil, err
		}
		if err := r.readForeignKeys(ctx, conn, t.Name, data); err != nil {
			return nil, err
		}
	}
	return data, nil
}

const sqliteTableListQuery = `SELECT name, type FROM pragma_table_list() WHERE schema = 'main' AND type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'`

func (r SqliteReader) readTables(ctx context.Context, conn *sql.DB) ([]RawTable, error) {
	rows, err := conn.QueryContext(ctx, sqliteTableListQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []RawTable
	for rows.Next() {
		var name, rawType string
		if err := rows.Scan(&name, &rawType); err != nil {
			return nil, err
		}
		t := RawTable{Catalog: "main", Schema: "main", Name: name}
		if rawType == "view" {
			t.Type = RawTableView
		} else {
			t.Type = RawTableBase
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

// readTableInfo reads pragma_table_info(tableName), whose columns are
// (cid, name, type, notnull, dflt_value, pk). A nonzero pk value is the
// column's 1-based position within the primary key, so it doubles as both
// the "is primary key" flag and its ordinal within a composite key.
func (r SqliteReader) readTableInfo(ctx context.Context, conn *sql.DB, tableName string, data *SchemaData) error {
	rows, err := conn.QueryContext(ctx, "SELECT cid, name, type, \"notnull\", pk FROM pragma_table_info(?)", tableName)
	if err != nil {
		return err
	}
	defer rows.Close()

	type pkCandidate struct {
		key      ConstraintKey
		dataType string
	}
	var pkCols []pkCandidate

	for rows.Next() {
		var cid, notNull, pk int
		var name, dataType string
		if err := rows.Scan(&cid, &name, &dataType, &notNull, &pk); err != nil {
			return err
		}
		key := ConstraintKey{Catalog: "main", Schema: "main", Table: tableName, Column: name}
		data.Columns = append(data.Columns, RawColumn{
			Catalog:  "main",
			Schema:   "main",
			Table:    tableName,
			Name:     name,
			Ordinal:  cid + 1,
			DataType: dataType,
			Nullable: notNull == 0,
		})
		if pk > 0 {
			data.Constraints[key] = append(data.Constraints[key], Constraint{Type: ConstraintPrimaryKey})
			pkCols = append(pkCols, pkCandidate{key: key, dataType: dataType})
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	// A SQLite INTEGER PRIMARY KEY column is an alias for rowid and behaves
	// as an autoincrementing identity, but only when it is the sole PK
	// column; composite PKs never get an identity even if one leg is INTEGER.
	if len(pkCols) == 1 && (pkCols[0].dataType == "INTEGER" || pkCols[0].dataType == "integer") {
		data.IdentityColumns[pkCols[0].key] = true
	}
	return nil
}

// readForeignKeys reads pragma_foreign_key_list(tableName), whose columns
// include (id, seq, table, from, to, ...). "table" is the parent table,
// "from" the child column, "to" the parent column.
func (r SqliteReader) readForeignKeys(ctx context.Context, conn *sql.DB, tableName string, data *SchemaData) error {
	rows, err := conn.QueryContext(ctx, "SELECT \"table\", \"from\", \"to\" FROM pragma_foreign_key_list(?)", tableName)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var refTable, fromColumn, toColumn string
		if err := rows.Scan(&refTable, &fromColumn, &toColumn); err != nil {
			return err
		}
		key := ConstraintKey{Catalog: "main", Schema: "main", Table: tableName, Column: fromColumn}
		data.Constraints[key] = append(data.Constraints[key], Constraint{
			Type: ConstraintForeignKey,
			Ref: &ForeignKeyRef{
				Catalog: "main",
				Schema:  "main",
				Table:   refTable,
				Column:  toColumn,
			},
		})
	}
	return rows.Err()
}

func (r SqliteReader) readStoredProcedures(ctx context.Context, conn *sql.DB, data *SchemaData) error {
	return nil
}
