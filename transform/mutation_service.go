package transform

import (
	"github.com/standardbeagle/BifrostQL-sub002/qcode"
	"github.com/standardbeagle/BifrostQL-sub002/schema"
)

// MutationTransformerService runs every applicable MutationTransformer
// against one mutation, in registration order, and folds their results
// into a single MutationTransformResult (spec §4.5).
//
// Every transformer is consulted with the ORIGINAL mutationType, not a
// type a prior transformer rewrote — so, for example, BasicAuditModule
// still sees a Delete (and populates deleted-on/deleted-by) even though
// SoftDeleteMutationTransformer has already rewritten the operation the
// executor will actually run into an Update.
type MutationTransformerService struct {
	transformers []MutationTransformer
}

// NewMutationTransformerService constructs a service over the given
// transformers, run in the order given.
func NewMutationTransformerService(transformers ...MutationTransformer) *MutationTransformerService {
	return &MutationTransformerService{transformers: transformers}
}

// Apply runs the chain and returns the combined result: the last
// transformer to rewrite MutationType wins, Data accumulates every
// transformer's edits in sequence, AdditionalFilter combines every
// transformer's filter under AND, and Errors accumulates across all
// transformers (spec §7 — mutation-transform errors are collected, not
// thrown).
func (s *MutationTransformerService) Apply(table *schema.Table, mutationType MutationType, data map[string]interface{}, ctx UserContext) MutationTransformResult {
	finalType := mutationType
	currentData := data
	var filters []*qcode.Filter
	var errs []error

	for _, t := range s.transformers {
		if !t.AppliesTo(table, mutationType, ctx) {
			continue
		}
		res := t.Transform(table, mutationType, currentData, ctx)
		currentData = res.Data
		if res.MutationType != mutationType {
			finalType = res.MutationType
		}
		if res.AdditionalFilter != nil {
			filters = append(filters, res.AdditionalFilter)
		}
		errs = append(errs, res.Errors...)
	}

	return MutationTransformResult{
		MutationType:     finalType,
		Data:             currentData,
		AdditionalFilter: qcode.And(filters...),
		Errors:           errs,
	}
}

// Transform is the package-level entry point matching spec §6's
// external-interface signature. It builds the default mutation
// transformer chain (soft-delete rewrite, then audit population) for
// model and delegates. Hosts needing a custom chain should construct a
// MutationTransformerService directly.
func Transform(table *schema.Table, model *schema.Model, mutationType MutationType, data map[string]interface{}, ctx UserContext) MutationTransformResult {
	service := NewMutationTransformerService(
		&SoftDeleteMutationTransformer{Model: model},
		&BasicAuditModule{Model: model},
	)
	return service.Apply(table, mutationType, data, ctx)
}
