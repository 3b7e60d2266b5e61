package resolver

import (
	"context"
	"fmt"

	"github.com/standardbeagle/BifrostQL-sub002/schema"
)

// CallStoredProcedure implements gqlschema.Executor.CallStoredProcedure,
// delegating the actual call to the host-supplied StoredProcExecutor and
// reshaping its result into the resultSets/outputs map the generated
// sp_<name>_Result type expects (spec §1's driver-adapter delegation).
func (r *Resolver) CallStoredProcedure(ctx context.Context, sp *schema.StoredProcedure, args map[string]interface{}) (map[string]interface{}, error) {
	requestID := newRequestID()
	if r.StoredProcs == nil {
		return nil, newExecutionError(requestID, "call-stored-procedure", sp.DbName, fmt.Errorf("no StoredProcExecutor configured, procedure %q cannot be invoked", sp.DbName))
	}

	resultSets, outputs, affectedRows, err := r.StoredProcs.Call(ctx, sp, args)
	if err != nil {
		return nil, newExecutionError(requestID, "call-stored-procedure", sp.DbName, err)
	}

	rawSets := make([][]interface{}, len(resultSets))
	for i, set := range resultSets {
		row := make([]interface{}, len(set))
		for j, item := range set {
			row[j] = item
		}
		rawSets[i] = row
	}

	return map[string]interface{}{
		"resultSets":   rawSets,
		"outputs":      outputs,
		"affectedRows": affectedRows,
	}, nil
}
