package qcode

import "github.com/standardbeagle/BifrostQL-sub002/dialect"

// FilterKind distinguishes the three Filter node variants (spec §4 "Filter
// tree").
type FilterKind int

const (
	FilterLeaf FilterKind = iota
	FilterAnd
	FilterOr
)

// Filter is one node of the filter tree attached to an ObjectQuery. A Leaf
// carries a table/column reference and a Next value node; And/Or carry an
// ordered list of children combined with the matching boolean operator.
type Filter struct {
	Kind FilterKind

	// Leaf fields. TableName/ColumnName always name the table at the
	// current query scope (spec §4 Filter tree).
	TableName  string
	ColumnName string
	Next       *Value

	// And/Or fields.
	Children []*Filter
}

// Value is the right-hand side of a Leaf filter: an operator plus a literal
// or list of literals. A nil Val with OpEq means IS NULL.
type Value struct {
	Op      dialect.Operator
	Val     interface{}
	ListVal []interface{}
}

// NewLeaf constructs a Leaf filter testing column on table with op against
// val.
func NewLeaf(tableName, columnName string, op dialect.Operator, val interface{}) *Filter {
	return &Filter{
		Kind:       FilterLeaf,
		TableName:  tableName,
		ColumnName: columnName,
		Next:       &Value{Op: op, Val: val},
	}
}

// NewIsNull constructs a Leaf filter compiling to "column IS NULL".
func NewIsNull(tableName, columnName string) *Filter {
	return &Filter{
		Kind:       FilterLeaf,
		TableName:  tableName,
		ColumnName: columnName,
		Next:       &Value{Op: dialect.OpEq, Val: nil},
	}
}

// NewIn constructs a Leaf filter testing column against a literal list.
func NewIn(tableName, columnName string, vals []interface{}) *Filter {
	return &Filter{
		Kind:       FilterLeaf,
		TableName:  tableName,
		ColumnName: columnName,
		Next:       &Value{Op: dialect.OpIn, ListVal: vals},
	}
}

// And combines filters into a single And node, collapsing the trivial
// cases: zero children yields nil, one child is returned unchanged.
func And(filters ...*Filter) *Filter {
	return combine(FilterAnd, filters)
}

// Or combines filters into a single Or node with the same collapsing rule
// as And.
func Or(filters ...*Filter) *Filter {
	return combine(FilterOr, filters)
}

func combine(kind FilterKind, filters []*Filter) *Filter {
	var nonNil []*Filter
	for _, f := range filters {
		if f != nil {
			nonNil = append(nonNil, f)
		}
	}
	switch len(nonNil) {
	case 0:
		return nil
	case 1:
		return nonNil[0]
	default:
		return &Filter{Kind: kind, Children: nonNil}
	}
}
