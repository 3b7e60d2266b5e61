package treesync

import (
	"fmt"
	"sort"
	"strings"

	"github.com/standardbeagle/BifrostQL-sub002/schema"
)

// DefaultMaxDepth is used when no depth limit is configured.
const DefaultMaxDepth = 3

// Engine computes tree sync operations for one model. It holds no
// per-request state and is safe for concurrent use.
type Engine struct {
	Model         *schema.Model
	MaxDepth      int
	DeleteOrphans bool
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithMaxDepth overrides the default nesting depth (must be >= 1).
func WithMaxDepth(n int) Option {
	return func(e *Engine) { e.MaxDepth = n }
}

// WithDeleteOrphans overrides the default orphan-delete behavior.
func WithDeleteOrphans(b bool) Option {
	return func(e *Engine) { e.DeleteOrphans = b }
}

// New constructs an Engine. MaxDepth = 0 is rejected (spec §4.7).
func New(model *schema.Model, opts ...Option) (*Engine, error) {
	e := &Engine{Model: model, MaxDepth: DefaultMaxDepth, DeleteOrphans: true}
	for _, opt := range opts {
		opt(e)
	}
	if e.MaxDepth < 1 {
		return nil, fmt.Errorf("treesync: MaxDepth must be >= 1, got %d", e.MaxDepth)
	}
	return e, nil
}

// ComputeOperations is the package-level entry point matching spec §6's
// external-interface signature. It builds a default Engine (MaxDepth=3,
// DeleteOrphans=true) for model and delegates; callers needing a
// non-default configuration should construct an *Engine with New and call
// its method directly.
func ComputeOperations(table *schema.Table, model *schema.Model, submitted, existing map[string]interface{}) ([]*Operation, error) {
	e, err := New(model)
	if err != nil {
		return nil, err
	}
	return e.ComputeOperations(table, submitted, existing)
}

// ComputeOperations diffs submitted against existing (nil for a fresh
// insert tree) rooted at rootTable and returns the globally ordered
// operation list (spec §4.7 step 6: Inserts ascending depth, then
// Updates, then Deletes descending depth).
func (e *Engine) ComputeOperations(rootTable *schema.Table, submitted map[string]interface{}, existing map[string]interface{}) ([]*Operation, error) {
	if e.Model != nil {
		if known, ok := e.Model.TableByDbName(rootTable.DbName); !ok || known != rootTable {
			return nil, fmt.Errorf("treesync: table %q is not part of this engine's model", rootTable.DbName)
		}
	}
	var ops []*Operation
	if err := e.visit(rootTable, submitted, existing, 0, nil, &ops); err != nil {
		return nil, err
	}
	return order(ops), nil
}

// visit processes one node (a row, or a missing row being deleted) and
// recurses into its multi-link children. parentFK is nil at the root.
func (e *Engine) visit(table *schema.Table, submitted, existing map[string]interface{}, depth int, parentFK *foreignKeyRef, ops *[]*Operation) error {
	own := ownColumnData(table, submitted)

	switch {
	case existing == nil && submitted != nil:
		op := &Operation{Type: Insert, Table: table, Data: own, Depth: depth}
		if parentFK != nil {
			op.ForeignKeyAssignments = map[string]string{parentFK.childColumn: parentFK.parentTable}
		}
		*ops = append(*ops, op)
	case submitted != nil && existing != nil:
		if rowsDiffer(own, existing) {
			*ops = append(*ops, &Operation{Type: Update, Table: table, Data: own, Depth: depth})
		}
	case submitted == nil && existing != nil:
		if e.DeleteOrphans {
			e.cascadeDelete(table, existing, depth, ops)
		}
		return nil
	}

	return e.visitChildren(table, submitted, existing, depth, ops)
}

// visitChildren matches submitted/existing child collections for every
// multi-link the table declares, recursing one depth deeper for each
// matched, inserted, updated, or orphaned child row.
func (e *Engine) visitChildren(table *schema.Table, submitted, existing map[string]interface{}, depth int, ops *[]*Operation) error {
	childDepth := depth + 1
	if childDepth >= e.MaxDepth {
		return nil
	}

	for linkName, link := range table.MultiLinks {
		submittedRaw, hasSubmitted := submitted[linkName]
		if !hasSubmitted {
			continue
		}
		submittedRows, ok := asMapSlice(submittedRaw)
		if !ok {
			continue
		}

		var existingRows []map[string]interface{}
		if existing != nil {
			if raw, ok := existing[linkName]; ok {
				existingRows, _ = asMapSlice(raw)
			}
		}

		childTable := link.ChildTable
		fk := &foreignKeyRef{childColumn: link.ChildColumn.DbName, parentTable: link.ParentTable.DbName}

		matchedExisting := make(map[string]bool, len(existingRows))
		for _, sub := range submittedRows {
			key, hasKey := pkKey(childTable, sub)
			var matched map[string]interface{}
			if hasKey {
				for _, ex := range existingRows {
					exKey, ok := pkKey(childTable, ex)
					if ok && exKey == key {
						matched = ex
						matchedExisting[exKey] = true
						break
					}
				}
			}
			if err := e.visit(childTable, sub, matched, childDepth, fk, ops); err != nil {
				return err
			}
		}

		for _, ex := range existingRows {
			exKey, ok := pkKey(childTable, ex)
			if ok && matchedExisting[exKey] {
				continue
			}
			if err := e.visit(childTable, nil, ex, childDepth, nil, ops); err != nil {
				return err
			}
		}
	}
	return nil
}

// cascadeDelete emits a Delete for row and recurses into every multi-link
// collection present on it, innermost rows appearing deepest (the final
// order() pass sorts Deletes by descending depth regardless of insertion
// order here).
func (e *Engine) cascadeDelete(table *schema.Table, row map[string]interface{}, depth int, ops *[]*Operation) {
	*ops = append(*ops, &Operation{Type: Delete, Table: table, Data: ownColumnData(table, row), Depth: depth})

	childDepth := depth + 1
	if childDepth >= e.MaxDepth {
		return
	}
	for linkName, link := range table.MultiLinks {
		raw, ok := row[linkName]
		if !ok {
			continue
		}
		rows, ok := asMapSlice(raw)
		if !ok {
			continue
		}
		for _, child := range rows {
			e.cascadeDelete(link.ChildTable, child, childDepth, ops)
		}
	}
}

type foreignKeyRef struct {
	childColumn string
	parentTable string
}

// ownColumnData filters submitted to the keys that name an actual column
// on table (by DbName or GraphQLName), keyed by DbName in the result.
// Unknown keys, including multi-link collection fields, are ignored
// silently (spec §4.7 step 3).
func ownColumnData(table *schema.Table, row map[string]interface{}) map[string]interface{} {
	if row == nil {
		return nil
	}
	out := make(map[string]interface{})
	for key, val := range row {
		if col, ok := table.ColumnByDbName(key); ok {
			out[col.DbName] = val
			continue
		}
		if col, ok := table.ColumnByGraphQLName(key); ok {
			out[col.DbName] = val
		}
	}
	return out
}

// pkKey returns a stable string key built from table's primary-key column
// values in row, and false if any PK value is missing or null (meaning
// the row cannot be matched to an existing sibling and must be treated as
// a new Insert, spec §4.7 step 2).
func pkKey(table *schema.Table, row map[string]interface{}) (string, bool) {
	pks := table.PrimaryKeyColumns()
	if len(pks) == 0 {
		return "", false
	}
	var b strings.Builder
	for i, pk := range pks {
		val, ok := lookup(row, pk)
		if !ok || val == nil {
			return "", false
		}
		if i > 0 {
			b.WriteString("\x00")
		}
		fmt.Fprintf(&b, "%v", val)
	}
	return b.String(), true
}

func lookup(row map[string]interface{}, col *schema.Column) (interface{}, bool) {
	if v, ok := row[col.DbName]; ok {
		return v, true
	}
	if v, ok := row[col.GraphQLName]; ok {
		return v, true
	}
	return nil, false
}

// rowsDiffer reports whether any column present in own differs from the
// corresponding value in the existing row (spec §4.7 step 2, "any shadowed
// column value differs").
func rowsDiffer(own map[string]interface{}, existing map[string]interface{}) bool {
	for col, val := range own {
		existingVal, ok := existing[col]
		if !ok {
			continue
		}
		if fmt.Sprint(val) != fmt.Sprint(existingVal) {
			return true
		}
	}
	return false
}

// asMapSlice normalizes a submitted/existing collection field into
// []map[string]interface{}, accepting both the shape produced by a
// decoded JSON payload ([]interface{} of map[string]interface{}) and a
// directly constructed []map[string]interface{} (used by tests and by
// host integrations that skip JSON entirely).
func asMapSlice(v interface{}) ([]map[string]interface{}, bool) {
	switch rows := v.(type) {
	case []map[string]interface{}:
		return rows, true
	case []interface{}:
		out := make([]map[string]interface{}, 0, len(rows))
		for _, r := range rows {
			m, ok := r.(map[string]interface{})
			if !ok {
				return nil, false
			}
			out = append(out, m)
		}
		return out, true
	default:
		return nil, false
	}
}

// order groups ops by type and sorts each group per spec §4.7 step 6,
// preserving relative order within a group via a stable sort.
func order(ops []*Operation) []*Operation {
	var inserts, updates, deletes []*Operation
	for _, op := range ops {
		switch op.Type {
		case Insert:
			inserts = append(inserts, op)
		case Update:
			updates = append(updates, op)
		case Delete:
			deletes = append(deletes, op)
		}
	}
	sort.SliceStable(inserts, func(i, j int) bool { return inserts[i].Depth < inserts[j].Depth })
	sort.SliceStable(deletes, func(i, j int) bool { return deletes[i].Depth > deletes[j].Depth })

	out := make([]*Operation, 0, len(inserts)+len(updates)+len(deletes))
	out = append(out, inserts...)
	out = append(out, updates...)
	out = append(out, deletes...)
	return out
}
