package schema

import "strings"

// TableType distinguishes base tables from views (spec §3, §9 Open
// Question 3 — views are excluded from mutation generation).
type TableType string

const (
	TableTypeBase TableType = "BASE TABLE"
	TableTypeView TableType = "VIEW"
)

// Table is a canonical, immutable-after-construction model of one database
// table or view.
type Table struct {
	DbName         string
	GraphQLName    string
	NormalizedName string
	SchemaName     string
	TableType      TableType

	// Writable is false for views unless explicitly overridden (spec §9 OQ3).
	Writable bool

	Columns []*Column

	SingleLinks map[string]*Link // child -> parent (this table holds the FK)
	MultiLinks  map[string]*Link // parent -> child (this table is referenced)

	Metadata map[string]string

	columnsByDbName      map[string]*Column // keyed lower-case
	columnsByGraphQLName map[string]*Column // case-sensitive
}

// NewTable constructs an empty Table shell; columns and links are attached
// by the Schema Reader / model builder.
func NewTable(dbName, schemaName string, tableType TableType) *Table {
	return &Table{
		DbName:               dbName,
		GraphQLName:          GraphQLName(dbName),
		NormalizedName:       NormalizedName(dbName),
		SchemaName:           schemaName,
		TableType:            tableType,
		Writable:             tableType == TableTypeBase,
		SingleLinks:          make(map[string]*Link),
		MultiLinks:           make(map[string]*Link),
		Metadata:             make(map[string]string),
		columnsByDbName:      make(map[string]*Column),
		columnsByGraphQLName: make(map[string]*Column),
	}
}

// AddColumn appends col to the table's ordered column list and indexes it
// by both lookup keys.
func (t *Table) AddColumn(col *Column) {
	t.Columns = append(t.Columns, col)
	t.columnsByDbName[strings.ToLower(col.DbName)] = col
	t.columnsByGraphQLName[col.GraphQLName] = col
}

// ColumnByDbName looks up a column case-insensitively by its database name.
func (t *Table) ColumnByDbName(name string) (*Column, bool) {
	c, ok := t.columnsByDbName[strings.ToLower(name)]
	return c, ok
}

// ColumnByGraphQLName looks up a column case-sensitively by its GraphQL
// name.
func (t *Table) ColumnByGraphQLName(name string) (*Column, bool) {
	c, ok := t.columnsByGraphQLName[name]
	return c, ok
}

// PrimaryKeyColumns returns the table's primary-key columns in ordinal
// order.
func (t *Table) PrimaryKeyColumns() []*Column {
	var out []*Column
	for _, c := range t.Columns {
		if c.IsPrimaryKey {
			out = append(out, c)
		}
	}
	return out
}

// PrimaryKeyColumnNames is a convenience wrapper over PrimaryKeyColumns
// returning just the database column names, used by dialect.ImplicitOrderBy.
func (t *Table) PrimaryKeyColumnNames() []string {
	pks := t.PrimaryKeyColumns()
	names := make([]string, len(pks))
	for i, c := range pks {
		names[i] = c.DbName
	}
	return names
}

// HasMetadata reports whether key is set (to any value, including empty
// string) on the table.
func (t *Table) HasMetadata(key string) bool {
	_, ok := t.Metadata[key]
	return ok
}
