package gqlschema

import (
	"context"
	"fmt"

	"github.com/standardbeagle/BifrostQL-sub002/schema"
	"github.com/standardbeagle/BifrostQL-sub002/transform"
)

// QueryArgs is the decoded set of GraphQL field arguments a generated
// query field passes to the Executor: the raw filter input object (left
// un-decoded here — translating it into a qcode.Filter is the resolver's
// job, since that requires the table/model context this package doesn't
// retain per-request), sort/pagination, and the soft-delete bypass flag.
type QueryArgs struct {
	Filter         map[string]interface{}
	Sort           []string
	Offset         int
	Limit          *int
	IncludeDeleted bool
}

// Executor is implemented by the resolver package and supplied to a
// request via WithExecutor. Every generated field's Resolve function
// looks it up from context and delegates; gqlschema itself never touches
// a database or a qcode.ObjectQuery (spec §6's "produce a schema, not run
// a GraphQL engine" scope).
type Executor interface {
	Query(ctx context.Context, table *schema.Table, args QueryArgs) ([]map[string]interface{}, error)
	Aggregate(ctx context.Context, table *schema.Table, args QueryArgs) (map[string]interface{}, error)
	Mutate(ctx context.Context, table *schema.Table, mutationType transform.MutationType, input map[string]interface{}) (map[string]interface{}, error)
	ResolveSingleLink(ctx context.Context, link *schema.Link, parentRow map[string]interface{}) (map[string]interface{}, error)
	ResolveMultiLink(ctx context.Context, link *schema.Link, parentRow map[string]interface{}, args QueryArgs) ([]map[string]interface{}, error)
	CallStoredProcedure(ctx context.Context, sp *schema.StoredProcedure, args map[string]interface{}) (map[string]interface{}, error)
}

type contextKey int

const executorContextKey contextKey = iota

// WithExecutor attaches e to ctx for the generated schema's resolvers to
// find; the host calls this once per incoming request before invoking
// graphql.Do.
func WithExecutor(ctx context.Context, e Executor) context.Context {
	return context.WithValue(ctx, executorContextKey, e)
}

func executorFrom(ctx context.Context) (Executor, error) {
	e, ok := ctx.Value(executorContextKey).(Executor)
	if !ok {
		return nil, fmt.Errorf("gqlschema: no Executor attached to context (call WithExecutor before graphql.Do)")
	}
	return e, nil
}
