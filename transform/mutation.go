package transform

import (
	"github.com/standardbeagle/BifrostQL-sub002/qcode"
	"github.com/standardbeagle/BifrostQL-sub002/schema"
)

// MutationType is the operation kind a MutationTransformer may rewrite.
type MutationType int

const (
	Insert MutationType = iota
	Update
	Delete
)

// MutationTransformResult is returned by MutationTransformer.Transform: a
// possibly rewritten MutationType, the (possibly mutated) data map, an
// optional additional filter the caller must AND into the statement's
// WHERE clause, and any non-fatal errors encountered.
type MutationTransformResult struct {
	MutationType     MutationType
	Data             map[string]interface{}
	AdditionalFilter *qcode.Filter
	Errors           []error
}

// MutationTransformer is a priority-ordered policy module that may rewrite
// a mutation's type, its submitted data, or attach an additional filter
// (spec §4.5).
type MutationTransformer interface {
	AppliesTo(table *schema.Table, mutationType MutationType, ctx UserContext) bool
	Transform(table *schema.Table, mutationType MutationType, data map[string]interface{}, ctx UserContext) MutationTransformResult
}
