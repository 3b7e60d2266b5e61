// Package treesync diffs a submitted nested-object tree against the
// existing row tree and produces a globally ordered list of Insert/Update/
// Delete operations an executor can replay inside one transaction
// (spec §4.7). Grounded on core/internal/psql/mutate.go's nested-mutation
// decomposition, generalized from GraphJin's single INSERT-with-CTE
// strategy into an explicit diff-then-order algorithm since this module
// targets four dialects, some of which (SQLite, MySQL) have no INSERT...
// RETURNING CTE support to lean on.
package treesync

import "github.com/standardbeagle/BifrostQL-sub002/schema"

// OperationType distinguishes the three row-level mutations a tree sync
// produces.
type OperationType int

const (
	Insert OperationType = iota
	Update
	Delete
)

func (t OperationType) String() string {
	switch t {
	case Insert:
		return "Insert"
	case Update:
		return "Update"
	case Delete:
		return "Delete"
	default:
		return "Unknown"
	}
}

// Operation is one row-level mutation in the ordered plan (spec §3 "Tree
// sync operation"). Data is keyed by column DbName. ForeignKeyAssignments
// maps a child FK column's DbName to the name of the parent table whose
// newly generated primary key the executor must substitute in before
// running this operation's statement (only populated for non-root
// Inserts).
type Operation struct {
	Type                  OperationType
	Table                 *schema.Table
	Data                  map[string]interface{}
	ForeignKeyAssignments map[string]string
	Depth                 int
}
