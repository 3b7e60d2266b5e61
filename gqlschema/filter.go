package gqlschema

import (
	"github.com/graphql-go/graphql"

	"github.com/standardbeagle/BifrostQL-sub002/schema"
)

// filterType returns (building and caching) the "<Type>Filter" input object
// for table: one optional field per column plus recursive _and/_or
// combinators, mirroring the qcode.Filter tree shape (spec §4's Filter
// tree) without this package importing qcode itself — the resolver decodes
// the raw map it receives back into a qcode.Filter using the table/model
// context it has and gqlschema doesn't.
func (g *generator) filterType(table *schema.Table) *graphql.InputObject {
	name := typeName(table) + "Filter"
	if t, ok := g.filters[name]; ok {
		return t
	}

	obj := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: name,
		Fields: graphql.InputObjectConfigFieldMapThunk(func() graphql.InputObjectConfigFieldMap {
			return g.buildFilterFields(table)
		}),
	})
	g.filters[name] = obj
	return obj
}

func (g *generator) buildFilterFields(table *schema.Table) graphql.InputObjectConfigFieldMap {
	fields := graphql.InputObjectConfigFieldMap{}

	for _, col := range table.Columns {
		fields[col.GraphQLName] = &graphql.InputObjectFieldConfig{
			Type: scalarForColumn(col),
		}
	}

	self := g.filterType(table)
	fields["_and"] = &graphql.InputObjectFieldConfig{Type: graphql.NewList(self)}
	fields["_or"] = &graphql.InputObjectFieldConfig{Type: graphql.NewList(self)}

	return fields
}

// filterArgs builds the standard argument set attached to a list/aggregate
// field: "filter", "sort", "offset", "limit", and (for soft-delete tables
// only) "_includeDeleted", which bypasses the soft-delete filter.
func (g *generator) filterArgs(table *schema.Table) graphql.FieldConfigArgument {
	args := graphql.FieldConfigArgument{
		"filter": &graphql.ArgumentConfig{Type: g.filterType(table)},
		"sort":   &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
		"offset": &graphql.ArgumentConfig{Type: graphql.Int},
		"limit":  &graphql.ArgumentConfig{Type: graphql.Int},
	}
	if table.HasMetadata(schema.MetaSoftDelete) {
		args["_includeDeleted"] = &graphql.ArgumentConfig{
			Type:         graphql.Boolean,
			DefaultValue: false,
		}
	}
	return args
}
