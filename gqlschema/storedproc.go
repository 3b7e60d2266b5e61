package gqlschema

import (
	"github.com/graphql-go/graphql"

	"github.com/standardbeagle/BifrostQL-sub002/schema"
)

// storedProcedureField builds the query-or-mutation field for sp: an input
// object of its parameters and a result carrying resultSets, affectedRows,
// and a generic JSON outputs bag, grounded on spec §6's
// "sp_<name>_Input"/"sp_<name>_Result" naming (result-set columns and
// per-output-param types are left as JSON since they aren't known at
// schema-build time the way a table's columns are).
func (g *generator) storedProcedureField(sp *schema.StoredProcedure) (string, *graphql.Field) {
	inputFields := graphql.InputObjectConfigFieldMap{}
	for _, param := range sp.Parameters {
		if param.Direction == schema.DirOutput {
			continue
		}
		inputFields[param.GraphQLName] = &graphql.InputObjectFieldConfig{Type: graphql.String}
	}

	args := graphql.FieldConfigArgument{}
	if len(inputFields) > 0 {
		inputType := graphql.NewInputObject(graphql.InputObjectConfig{
			Name:   sp.InputTypeName(),
			Fields: inputFields,
		})
		args["data"] = &graphql.ArgumentConfig{Type: inputType}
	}

	resultType := graphql.NewObject(graphql.ObjectConfig{
		Name: sp.ResultTypeName(),
		Fields: graphql.Fields{
			"resultSets":   &graphql.Field{Type: graphql.NewList(graphql.NewList(JSON))},
			"affectedRows": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"outputs":      &graphql.Field{Type: JSON},
		},
	})

	field := &graphql.Field{
		Type:    resultType,
		Args:    args,
		Resolve: g.storedProcedureResolver(sp),
	}
	return sp.FullGraphQlName(), field
}

func (g *generator) storedProcedureResolver(sp *schema.StoredProcedure) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		exec, err := executorFrom(p.Context)
		if err != nil {
			return nil, err
		}
		data, _ := p.Args["data"].(map[string]interface{})
		return exec.CallStoredProcedure(p.Context, sp, data)
	}
}
