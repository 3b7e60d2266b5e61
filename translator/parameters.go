// Package translator walks a Query IR and emits dialect-correct
// parameterized SQL, including bulk-loader joins for nested links
// (spec §4.6). Grounded on core/internal/psql's query/mutate/insert/update
// split and core/database_join.go's "fetch related rows by parent key,
// stitch in memory" pattern, generalized from GraphJin's cross-database
// join into this module's single-database bulk-loader join.
package translator

import "fmt"

// ParameterCollection accumulates parameter values for one SQL statement
// and hands out dialect-formatted bind references, thread-confined to a
// single request (spec §5).
type ParameterCollection struct {
	values []interface{}
}

// NewParameterCollection returns an empty collection.
func NewParameterCollection() *ParameterCollection {
	return &ParameterCollection{}
}

// Add appends val and returns its auto-generated parameter name ("p1",
// "p2", ...) and its 1-based ordinal.
func (p *ParameterCollection) Add(val interface{}) (name string, ordinal int) {
	p.values = append(p.values, val)
	ordinal = len(p.values)
	name = fmt.Sprintf("p%d", ordinal)
	return name, ordinal
}

// Values returns the accumulated parameter values in ordinal order, ready
// to pass to a database/sql QueryContext/ExecContext call.
func (p *ParameterCollection) Values() []interface{} {
	return p.values
}

// Len reports how many parameters have been collected.
func (p *ParameterCollection) Len() int { return len(p.values) }
