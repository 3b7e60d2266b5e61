package gqlschema

import (
	"github.com/graphql-go/graphql"

	"github.com/standardbeagle/BifrostQL-sub002/schema"
	"github.com/standardbeagle/BifrostQL-sub002/schemareader"
)

// objectType returns (building and caching, if necessary) the GraphQL
// object type for table. Fields are built lazily via FieldsThunk so that
// two tables linking to each other don't deadlock on construction,
// grounded on the tidb-graphql resolver's buildGraphQLType/FieldsThunk
// pairing.
func (g *generator) objectType(table *schema.Table) *graphql.Object {
	name := typeName(table)
	if t, ok := g.types[name]; ok {
		return t
	}

	obj := graphql.NewObject(graphql.ObjectConfig{
		Name: name,
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return g.buildFields(table)
		}),
	})
	g.types[name] = obj
	return obj
}

func (g *generator) buildFields(table *schema.Table) graphql.Fields {
	fields := graphql.Fields{}

	for _, col := range table.Columns {
		scalarType := scalarForColumn(col)
		var fieldType graphql.Type = scalarType
		if !col.Nullable && !col.IsPrimaryKey {
			fieldType = graphql.NewNonNull(scalarType)
		}
		fields[col.GraphQLName] = &graphql.Field{Type: fieldType}
	}

	for name, link := range table.SingleLinks {
		parentType := g.objectType(link.ParentTable)
		fields[name] = &graphql.Field{
			Type:    parentType,
			Resolve: g.linkResolver(link, false),
		}
	}

	for name, link := range table.MultiLinks {
		childType := g.objectType(link.ChildTable)
		fields[name] = &graphql.Field{
			Type:    graphql.NewList(childType),
			Args:    g.filterArgs(link.ChildTable),
			Resolve: g.linkResolver(link, true),
		}
	}

	return fields
}

// scalarForColumn maps a column's stamped TypeMapper scalar (spec §4.2's
// "scalar" metadata key) to the matching graphql-go leaf type.
func scalarForColumn(col *schema.Column) graphql.Type {
	scalar := col.Metadata["scalar"]
	switch scalar {
	case schemareader.ScalarInt:
		return graphql.Int
	case schemareader.ScalarFloat:
		return graphql.Float
	case schemareader.ScalarBoolean:
		return graphql.Boolean
	case schemareader.ScalarID:
		return graphql.ID
	case schemareader.ScalarDateTime:
		return DateTime
	case schemareader.ScalarJSON:
		return JSON
	default:
		return graphql.String
	}
}
