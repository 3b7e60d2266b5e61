package schemareader

import (
	"fmt"
	"sort"

	"github.com/standardbeagle/BifrostQL-sub002/schema"
)

// BuildModel folds a raw SchemaData into a canonical schema.Model: tables
// and columns first, then primary-key/identity flags from constraints,
// then foreign-key links, then stored procedures. Metadata is applied
// separately by the caller via schema.ApplyMetadata, keeping this function
// independent of the metadata source (spec §4.3 names two different
// sources depending on the host).
func BuildModel(data *SchemaData, typeMapper TypeMapper) (*schema.Model, error) {
	m := schema.NewModel()

	for _, rt := range data.Tables {
		t := schema.NewTable(rt.Name, rt.Schema, schema.TableType(rt.Type))
		if err := m.AddTable(t); err != nil {
			return nil, err
		}
	}

	for _, rc := range data.Columns {
		t, ok := m.TableByDbName(rc.Table)
		if !ok {
			continue // column for a table outside this catalog/schema scope
		}
		col := &schema.Column{
			DbName:         rc.Name,
			GraphQLName:    schema.GraphQLName(rc.Name),
			NormalizedName: schema.NormalizedName(rc.Name),
			Ordinal:        rc.Ordinal,
			DataType:       rc.DataType,
			Nullable:       rc.Nullable,
			Metadata:       make(map[string]string),
		}
		key := ConstraintKey{Catalog: rc.Catalog, Schema: rc.Schema, Table: rc.Table, Column: rc.Name}
		for _, c := range data.Constraints[key] {
			if c.Type == ConstraintPrimaryKey {
				col.IsPrimaryKey = true
			}
		}
		if data.IdentityColumns[key] {
			col.IsIdentity = true
			col.IsPrimaryKey = true // spec §3: identity columns also carry IsPrimaryKey
		}
		t.AddColumn(col)
	}

	_ = typeMapper // reserved for callers that want to stamp a resolved GraphQL scalar onto Column.Metadata["scalar"]; see ApplyTypeMapper.

	if err := buildLinks(m, data); err != nil {
		return nil, err
	}
	buildStoredProcedures(m, data)

	return m, nil
}

// ApplyTypeMapper stamps each column's resolved GraphQL scalar type name
// into its metadata under the "scalar" key, for gqlschema to consume
// without re-deriving it from the raw DataType string.
func ApplyTypeMapper(m *schema.Model, typeMapper TypeMapper) {
	for _, t := range m.Tables {
		for _, c := range t.Columns {
			if c.Metadata == nil {
				c.Metadata = make(map[string]string)
			}
			c.Metadata["scalar"] = typeMapper.MapType(c.DataType)
		}
	}
}

func buildLinks(m *schema.Model, data *SchemaData) error {
	// Collect FK constraints in a stable order (ordinal of the FK column
	// within its table) so that, when multiple FKs target the same parent,
	// link-name disambiguation is deterministic across runs — part of
	// spec §8's "schema read twice... yields an equal model" idempotence
	// law.
	type fk struct {
		childTable  *schema.Table
		childColumn *schema.Column
		ref         ForeignKeyRef
	}
	var fks []fk

	for key, constraints := range data.Constraints {
		childTable, ok := m.TableByDbName(key.Table)
		if !ok {
			continue
		}
		childColumn, ok := childTable.ColumnByDbName(key.Column)
		if !ok {
			continue
		}
		for _, c := range constraints {
			if c.Type == ConstraintForeignKey && c.Ref != nil {
				fks = append(fks, fk{childTable: childTable, childColumn: childColumn, ref: *c.Ref})
			}
		}
	}

	sort.Slice(fks, func(i, j int) bool {
		if fks[i].childTable.DbName != fks[j].childTable.DbName {
			return fks[i].childTable.DbName < fks[j].childTable.DbName
		}
		return fks[i].childColumn.Ordinal < fks[j].childColumn.Ordinal
	})

	for _, f := range fks {
		parentTable, ok := m.TableByDbName(f.ref.Table)
		if !ok {
			return fmt.Errorf("schemareader: foreign key on %s.%s references unknown table %q",
				f.childTable.DbName, f.childColumn.DbName, f.ref.Table)
		}
		parentColumn, ok := parentTable.ColumnByDbName(f.ref.Column)
		if !ok {
			return fmt.Errorf("schemareader: foreign key on %s.%s references unknown column %s.%s",
				f.childTable.DbName, f.childColumn.DbName, f.ref.Table, f.ref.Column)
		}
		m.AddLink(f.childTable, f.childColumn, parentTable, parentColumn)
	}
	return nil
}

func buildStoredProcedures(m *schema.Model, data *SchemaData) {
	for _, rsp := range data.StoredProcedures {
		sp := &schema.StoredProcedure{
			Schema:      rsp.Schema,
			DbName:      rsp.Name,
			GraphQLName: schema.GraphQLName(rsp.Name),
			IsReadOnly:  rsp.IsReadOnly,
		}
		for _, rp := range rsp.Parameters {
			dir := schema.DirInput
			switch rp.Direction {
			case "OUT":
				dir = schema.DirOutput
			case "INOUT":
				dir = schema.DirInputOutput
			}
			sp.Parameters = append(sp.Parameters, &schema.Parameter{
				Name:        rp.Name,
				GraphQLName: schema.GraphQLName(rp.Name),
				DataType:    rp.DataType,
				Direction:   dir,
				Nullable:    rp.Nullable,
				Ordinal:     rp.Ordinal,
			})
		}
		m.AddStoredProcedure(sp)
	}
}
