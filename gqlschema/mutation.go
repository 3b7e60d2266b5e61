package gqlschema

import (
	"github.com/graphql-go/graphql"

	"github.com/standardbeagle/BifrostQL-sub002/schema"
	"github.com/standardbeagle/BifrostQL-sub002/transform"
)

// insertInputType returns the "<Type>Insert" input object for table: one
// field per non-identity column plus, for each MultiLink, a nested list of
// the child table's own insert input — the shape the Tree Sync Engine
// expects for "new parent with children" submissions (spec §4.7 scenario
// 5). Identity columns are omitted since the database assigns them.
func (g *generator) insertInputType(table *schema.Table) *graphql.InputObject {
	name := typeName(table) + "Insert"
	if t, ok := g.insertType[name]; ok {
		return t
	}

	obj := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: name,
		Fields: graphql.InputObjectConfigFieldMapThunk(func() graphql.InputObjectConfigFieldMap {
			fields := graphql.InputObjectConfigFieldMap{}
			for _, col := range table.Columns {
				if col.IsIdentity {
					continue
				}
				fields[col.GraphQLName] = &graphql.InputObjectFieldConfig{Type: scalarForColumn(col)}
			}
			for name, link := range table.MultiLinks {
				if !link.ChildTable.Writable {
					continue
				}
				fields[name] = &graphql.InputObjectFieldConfig{
					Type: graphql.NewList(g.insertInputType(link.ChildTable)),
				}
			}
			return fields
		}),
	})
	g.insertType[name] = obj
	return obj
}

// updateInputType returns the "<Type>Update" input object for table: every
// column is optional (a partial update), and nested MultiLinks accept the
// same recursive shape as insert so a single update submission can also
// insert, update, and orphan-delete nested rows in one Tree Sync Engine
// pass (spec §4.7).
func (g *generator) updateInputType(table *schema.Table) *graphql.InputObject {
	name := typeName(table) + "Update"
	if t, ok := g.updateType[name]; ok {
		return t
	}

	obj := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: name,
		Fields: graphql.InputObjectConfigFieldMapThunk(func() graphql.InputObjectConfigFieldMap {
			fields := graphql.InputObjectConfigFieldMap{}
			for _, col := range table.Columns {
				fields[col.GraphQLName] = &graphql.InputObjectFieldConfig{Type: scalarForColumn(col)}
			}
			for name, link := range table.MultiLinks {
				if !link.ChildTable.Writable {
					continue
				}
				fields[name] = &graphql.InputObjectFieldConfig{
					Type: graphql.NewList(g.updateInputType(link.ChildTable)),
				}
			}
			return fields
		}),
	})
	g.updateType[name] = obj
	return obj
}

func (g *generator) insertField(table *schema.Table, rowType *graphql.Object) *graphql.Field {
	return &graphql.Field{
		Type: rowType,
		Args: graphql.FieldConfigArgument{
			"data": &graphql.ArgumentConfig{Type: graphql.NewNonNull(g.insertInputType(table))},
		},
		Resolve: g.mutateResolver(table, transform.Insert),
	}
}

func (g *generator) updateField(table *schema.Table, rowType *graphql.Object) *graphql.Field {
	return &graphql.Field{
		Type: rowType,
		Args: graphql.FieldConfigArgument{
			"data": &graphql.ArgumentConfig{Type: graphql.NewNonNull(g.updateInputType(table))},
		},
		Resolve: g.mutateResolver(table, transform.Update),
	}
}

func (g *generator) deleteField(table *schema.Table, rowType *graphql.Object) *graphql.Field {
	args := graphql.FieldConfigArgument{}
	for _, pk := range table.PrimaryKeyColumns() {
		args[pk.GraphQLName] = &graphql.ArgumentConfig{Type: graphql.NewNonNull(scalarForColumn(pk))}
	}
	return &graphql.Field{
		Type:    rowType,
		Args:    args,
		Resolve: g.deleteResolver(table),
	}
}

func (g *generator) mutateResolver(table *schema.Table, mutationType transform.MutationType) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		exec, err := executorFrom(p.Context)
		if err != nil {
			return nil, err
		}
		data, _ := p.Args["data"].(map[string]interface{})
		return exec.Mutate(p.Context, table, mutationType, data)
	}
}

func (g *generator) deleteResolver(table *schema.Table) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		exec, err := executorFrom(p.Context)
		if err != nil {
			return nil, err
		}
		data := make(map[string]interface{}, len(p.Args))
		for _, pk := range table.PrimaryKeyColumns() {
			if v, ok := p.Args[pk.GraphQLName]; ok {
				data[pk.DbName] = v
			}
		}
		return exec.Mutate(p.Context, table, transform.Delete, data)
	}
}
