package gqlschema

import (
	"github.com/graphql-go/graphql"

	"github.com/standardbeagle/BifrostQL-sub002/schema"
)

// listField builds the root query field for table: a list of rowType
// filtered/sorted/paginated by filterArgs, resolved via Executor.Query.
func (g *generator) listField(table *schema.Table, rowType *graphql.Object) *graphql.Field {
	return &graphql.Field{
		Type:    graphql.NewList(rowType),
		Args:    g.filterArgs(table),
		Resolve: g.listResolver(table),
	}
}

// aggregateField builds the "<table>_aggregate" root query field, taking
// the same arguments as the list field. Its result type has a single
// "count" field; no per-column min/max/sum/avg fields are generated.
func (g *generator) aggregateField(table *schema.Table) *graphql.Field {
	aggType := graphql.NewObject(graphql.ObjectConfig{
		Name: typeName(table) + "Aggregate",
		Fields: graphql.Fields{
			"count": &graphql.Field{Type: graphql.Int},
		},
	})
	return &graphql.Field{
		Type:    aggType,
		Args:    g.filterArgs(table),
		Resolve: g.aggregateResolver(table),
	}
}

func queryArgsFromParams(p graphql.ResolveParams) QueryArgs {
	args := QueryArgs{}

	if f, ok := p.Args["filter"].(map[string]interface{}); ok {
		args.Filter = f
	}
	if s, ok := p.Args["sort"].([]interface{}); ok {
		for _, v := range s {
			if str, ok := v.(string); ok {
				args.Sort = append(args.Sort, str)
			}
		}
	}
	if o, ok := p.Args["offset"].(int); ok {
		args.Offset = o
	}
	if l, ok := p.Args["limit"].(int); ok {
		args.Limit = &l
	}
	if inc, ok := p.Args["_includeDeleted"].(bool); ok {
		args.IncludeDeleted = inc
	}
	return args
}

func (g *generator) listResolver(table *schema.Table) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		exec, err := executorFrom(p.Context)
		if err != nil {
			return nil, err
		}
		return exec.Query(p.Context, table, queryArgsFromParams(p))
	}
}

func (g *generator) aggregateResolver(table *schema.Table) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		exec, err := executorFrom(p.Context)
		if err != nil {
			return nil, err
		}
		return exec.Aggregate(p.Context, table, queryArgsFromParams(p))
	}
}
