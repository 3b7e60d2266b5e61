package gqlschema

import (
	"github.com/graphql-go/graphql"

	"github.com/standardbeagle/BifrostQL-sub002/schema"
)

// linkResolver builds the Resolve function for a SingleLink (toMany false,
// parent lookup) or MultiLink (toMany true, child list) field, delegating
// to the Executor's matching method with the parent row already resolved
// by graphql-go into p.Source.
func (g *generator) linkResolver(link *schema.Link, toMany bool) graphql.FieldResolveFn {
	if toMany {
		return func(p graphql.ResolveParams) (interface{}, error) {
			exec, err := executorFrom(p.Context)
			if err != nil {
				return nil, err
			}
			parentRow, ok := p.Source.(map[string]interface{})
			if !ok {
				return nil, nil
			}
			return exec.ResolveMultiLink(p.Context, link, parentRow, queryArgsFromParams(p))
		}
	}

	return func(p graphql.ResolveParams) (interface{}, error) {
		exec, err := executorFrom(p.Context)
		if err != nil {
			return nil, err
		}
		parentRow, ok := p.Source.(map[string]interface{})
		if !ok {
			return nil, nil
		}
		return exec.ResolveSingleLink(p.Context, link, parentRow)
	}
}
