// Package resolver binds a built GraphQL schema to live execution: it
// walks a qcode.ObjectQuery through the filter-transformer chain, renders
// SQL via translator, runs it against a *sql.DB, and decomposes nested
// mutations through the tree sync engine. Grounded on core/api.go's
// GraphJin/Result/Error request-lifecycle shape, trimmed to this module's
// single-statement-per-node execution model (no subscriptions, no
// allow-listing, no APQ cache — spec §1's transport-boundary exclusions).
package resolver

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/xid"
)

// BifrostExecutionError is the error type every Resolver method returns on
// failure, carrying a per-request correlation id (spec §4.8) and the
// underlying cause, grounded on core/api.go's Error{Message string} shape
// generalized into a proper wrapped error type.
type BifrostExecutionError struct {
	RequestID string
	Op        string
	Table     string
	cause     error
}

func newExecutionError(requestID, op, table string, cause error) *BifrostExecutionError {
	return &BifrostExecutionError{
		RequestID: requestID,
		Op:        op,
		Table:     table,
		cause:     errors.WithStack(cause),
	}
}

func (e *BifrostExecutionError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("bifrostql: %s on %q [request=%s]: %v", e.Op, e.Table, e.RequestID, e.cause)
	}
	return fmt.Sprintf("bifrostql: %s [request=%s]: %v", e.Op, e.RequestID, e.cause)
}

func (e *BifrostExecutionError) Unwrap() error { return e.cause }

func newRequestID() string { return xid.New().String() }
