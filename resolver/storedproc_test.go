package resolver_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/BifrostQL-sub002/schema"
)

type fakeStoredProcExecutor struct {
	resultSets   [][]map[string]interface{}
	outputs      map[string]interface{}
	affectedRows int64
	err          error
}

func (f *fakeStoredProcExecutor) Call(ctx context.Context, sp *schema.StoredProcedure, args map[string]interface{}) ([][]map[string]interface{}, map[string]interface{}, int64, error) {
	return f.resultSets, f.outputs, f.affectedRows, f.err
}

func TestCallStoredProcedureReturnsResultSetsAndOutputs(t *testing.T) {
	model, _, _, _, _ := buildModel(t)
	r, _ := newTestResolver(t, model)
	r.StoredProcs = &fakeStoredProcExecutor{
		resultSets: [][]map[string]interface{}{
			{{"id": int64(1), "name": "Widget One"}},
		},
		outputs:      map[string]interface{}{"rowCount": int64(1)},
		affectedRows: 1,
	}

	sp := &schema.StoredProcedure{Schema: "dbo", DbName: "get_widget", GraphQLName: "getWidget"}
	result, err := r.CallStoredProcedure(context.Background(), sp, map[string]interface{}{"id": int64(1)})
	require.NoError(t, err)

	resultSets, ok := result["resultSets"].([][]interface{})
	require.True(t, ok)
	require.Len(t, resultSets, 1)
	require.Len(t, resultSets[0], 1)
	assert.Equal(t, map[string]interface{}{"id": int64(1), "name": "Widget One"}, resultSets[0][0])
	assert.Equal(t, map[string]interface{}{"rowCount": int64(1)}, result["outputs"])
	assert.Equal(t, int64(1), result["affectedRows"])
}

func TestCallStoredProcedureWithoutExecutorErrors(t *testing.T) {
	model, _, _, _, _ := buildModel(t)
	r, _ := newTestResolver(t, model)

	sp := &schema.StoredProcedure{Schema: "dbo", DbName: "get_widget", GraphQLName: "getWidget"}
	_, err := r.CallStoredProcedure(context.Background(), sp, nil)
	assert.Error(t, err)
}

func TestCallStoredProcedurePropagatesExecutorError(t *testing.T) {
	model, _, _, _, _ := buildModel(t)
	r, _ := newTestResolver(t, model)
	r.StoredProcs = &fakeStoredProcExecutor{err: errors.New("boom")}

	sp := &schema.StoredProcedure{Schema: "dbo", DbName: "get_widget", GraphQLName: "getWidget"}
	_, err := r.CallStoredProcedure(context.Background(), sp, nil)
	assert.Error(t, err)
}
