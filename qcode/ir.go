// Package qcode defines the Query IR: a tree of ObjectQuery nodes produced
// from a parsed GraphQL selection set, carrying filters, sorts, pagination
// and nested joins ahead of SQL translation. Structurally grounded on
// core/internal/qcode/exp.go's Exp tree (Op/Left/Right/Children shape),
// trimmed to the operators and node kinds this module actually needs —
// GraphQL parsing itself is out of scope (spec §1's transport boundary).
package qcode

import "github.com/standardbeagle/BifrostQL-sub002/dialect"

// Classification distinguishes how an ObjectQuery is joined into its parent.
type Classification int

const (
	Standard  Classification = iota // top-level list query
	Join                            // nested under a parent via a to-many link
	Single                          // nested under a parent via a to-one link
	Aggregate                       // nested aggregate (count/sum/...) selection
)

// SortKey is one column in an ORDER BY list.
type SortKey struct {
	Column    string
	Direction dialect.SortDirection
}

// ObjectQuery is one node of the Query IR: a single table reference with
// its selected columns, pagination, sort, filter, and nested child queries.
type ObjectQuery struct {
	SchemaName string
	TableName  string
	GraphPath  []string

	Classification Classification
	LinkName       string // name this node was joined in under, empty at the root

	Columns []string

	Filter *Filter

	// FiltersApplied marks that a transform.ApplyTransformers pass has
	// already folded its transformer filters into Filter, so a repeat call
	// combines nothing further and re-reads as a no-op (spec §8 idempotence).
	FiltersApplied bool

	Sort   []SortKey
	Offset int
	Limit  *int // nil means "use dialect default"; &-1 means unlimited

	Joins []*ObjectQuery
}

// AddJoin appends a nested child query, labelled with the link name it was
// reached through.
func (q *ObjectQuery) AddJoin(linkName string, child *ObjectQuery) {
	child.LinkName = linkName
	q.Joins = append(q.Joins, child)
}
