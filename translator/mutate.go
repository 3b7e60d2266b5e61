package translator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/standardbeagle/BifrostQL-sub002/dialect"
	"github.com/standardbeagle/BifrostQL-sub002/qcode"
	"github.com/standardbeagle/BifrostQL-sub002/schema"
)

// BuildInsertSQL renders a parameterized INSERT statement for one row of
// data against table. The caller recovers the generated primary key by
// issuing a follow-up `SELECT <dialect.LastInsertedIdentity()>` on the same
// connection/transaction (consumed by the tree sync executor to fill
// ForeignKeyAssignments on child inserts, spec §4.7 step 4). Column order
// is sorted for determinism across runs.
func BuildInsertSQL(table *schema.Table, data map[string]interface{}, d dialect.Dialect, params *ParameterCollection) (string, error) {
	columns := sortedKeys(data)
	if err := validateColumns(table, columns); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(d.TableReference(table.SchemaName, table.DbName))
	b.WriteString(" (")
	for i, col := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(d.EscapeIdentifier(col))
	}
	b.WriteString(") VALUES (")
	for i, col := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		name, ord := params.Add(data[col])
		b.WriteString(d.BindVar(name, ord))
	}
	b.WriteString(")")
	return b.String(), nil
}

// BuildUpdateSQL renders a parameterized UPDATE statement for table, setting
// every key in data, filtered by filter (the row's primary-key equality
// plus any AdditionalFilter a mutation transformer attached, e.g. the
// soft-delete guard from spec §4.5.1).
func BuildUpdateSQL(table *schema.Table, data map[string]interface{}, filter *qcode.Filter, d dialect.Dialect, params *ParameterCollection) (string, error) {
	columns := sortedKeys(data)
	if err := validateColumns(table, columns); err != nil {
		return "", err
	}
	if filter == nil {
		return "", fmt.Errorf("translator: UPDATE on table %q requires a filter", table.DbName)
	}

	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(d.TableReference(table.SchemaName, table.DbName))
	b.WriteString(" SET ")
	for i, col := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		name, ord := params.Add(data[col])
		b.WriteString(d.EscapeIdentifier(col))
		b.WriteString(" = ")
		b.WriteString(d.BindVar(name, ord))
	}
	b.WriteString(" WHERE ")
	if err := writeFilter(&b, filter, d, params); err != nil {
		return "", err
	}
	return b.String(), nil
}

// BuildDeleteSQL renders a parameterized DELETE statement for table,
// filtered by filter. A SoftDeleteMutationTransformer rewrites Delete to
// Update before this is ever reached (spec §4.5.1), so this path serves
// hard deletes on tables without soft-delete metadata.
func BuildDeleteSQL(table *schema.Table, filter *qcode.Filter, d dialect.Dialect, params *ParameterCollection) (string, error) {
	if filter == nil {
		return "", fmt.Errorf("translator: DELETE on table %q requires a filter", table.DbName)
	}
	var b strings.Builder
	b.WriteString("DELETE FROM ")
	b.WriteString(d.TableReference(table.SchemaName, table.DbName))
	b.WriteString(" WHERE ")
	if err := writeFilter(&b, filter, d, params); err != nil {
		return "", err
	}
	return b.String(), nil
}

func validateColumns(table *schema.Table, columns []string) error {
	for _, col := range columns {
		if _, ok := table.ColumnByDbName(col); !ok {
			return fmt.Errorf("translator: unknown column %q on table %q", col, table.DbName)
		}
	}
	return nil
}

func sortedKeys(data map[string]interface{}) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
