package transform

import (
	"fmt"
	"sort"

	"github.com/standardbeagle/BifrostQL-sub002/qcode"
	"github.com/standardbeagle/BifrostQL-sub002/schema"
)

// FilterTransformer is a priority-ordered policy module that may inject an
// additional WHERE-clause filter for a table given the current request's
// user context (spec §4.4).
type FilterTransformer interface {
	AppliesTo(table *schema.Table, ctx UserContext) bool
	GetAdditionalFilter(table *schema.Table, ctx UserContext) (*qcode.Filter, error)
	Priority() int
}

// QueryTransformerService runs every matching FilterTransformer against a
// table, in ascending priority order, and combines their filters with the
// query's existing filter under a single And node (spec §4.4.4).
type QueryTransformerService struct {
	transformers []FilterTransformer
}

// NewQueryTransformerService constructs a service over the given
// transformers; order of arguments does not matter, Priority() governs
// evaluation order.
func NewQueryTransformerService(transformers ...FilterTransformer) *QueryTransformerService {
	sorted := append([]FilterTransformer(nil), transformers...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority() < sorted[j].Priority() })
	return &QueryTransformerService{transformers: sorted}
}

// ApplyTransformers mutates q's filter in place by combining it with every
// applicable transformer's additional filter, per the ordering rule in
// spec §4.4.4: existing filter first, then transformer filters in
// ascending priority order. A second call on the same q is a no-op: q.Filter
// already carries every transformer's contribution, so re-running would
// re-wrap and re-append them, nesting the tree quadratically (spec §8
// idempotence).
func (s *QueryTransformerService) ApplyTransformers(q *qcode.ObjectQuery, table *schema.Table, ctx UserContext) error {
	if q.FiltersApplied {
		return nil
	}

	filters := []*qcode.Filter{q.Filter}

	for _, t := range s.transformers {
		if !t.AppliesTo(table, ctx) {
			continue
		}
		f, err := t.GetAdditionalFilter(table, ctx)
		if err != nil {
			return err
		}
		if f != nil {
			filters = append(filters, f)
		}
	}

	q.Filter = qcode.And(filters...)
	q.FiltersApplied = true
	return nil
}

// ApplyTransformers is the package-level entry point matching spec §6's
// external-interface signature. It resolves q's table from model, builds
// the default transformer chain (tenant filter, auto-filter, soft-delete
// filter, in that priority order) and delegates to a QueryTransformerService.
// Hosts needing a custom transformer chain should construct a
// QueryTransformerService directly and call its method instead.
func ApplyTransformers(q *qcode.ObjectQuery, model *schema.Model, ctx UserContext) error {
	table, ok := model.TableByDbName(q.TableName)
	if !ok {
		return fmt.Errorf("transform: unknown table %q", q.TableName)
	}
	service := NewQueryTransformerService(
		&TenantFilterTransformer{Model: model},
		&AutoFilterTransformer{Model: model},
		&SoftDeleteFilterTransformer{},
	)
	return service.ApplyTransformers(q, table, ctx)
}
