package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/BifrostQL-sub002/dialect"
	"github.com/standardbeagle/BifrostQL-sub002/qcode"
	"github.com/standardbeagle/BifrostQL-sub002/schema"
	"github.com/standardbeagle/BifrostQL-sub002/transform"
	"github.com/standardbeagle/BifrostQL-sub002/treesync"
)

func newWidgetsTable() *schema.Table {
	t := schema.NewTable("widgets", "", schema.TableTypeBase)
	t.AddColumn(&schema.Column{DbName: "id", GraphQLName: "id", DataType: "Int", IsPrimaryKey: true})
	t.AddColumn(&schema.Column{DbName: "name", GraphQLName: "name", DataType: "String"})
	t.AddColumn(&schema.Column{DbName: "status", GraphQLName: "status", DataType: "String"})
	t.AddColumn(&schema.Column{DbName: "created_at", GraphQLName: "createdAt", DataType: "Timestamp"})
	return t
}

func TestDecodeLeafDefaultsToEquality(t *testing.T) {
	table := newWidgetsTable()
	f, err := decodeLeaf(table, "name", "Gadget")
	require.NoError(t, err)
	require.Equal(t, qcode.FilterLeaf, f.Kind)
	assert.Equal(t, dialect.OpEq, f.Next.Op)
	assert.Equal(t, "Gadget", f.Next.Val)
}

func TestDecodeLeafResolvesGraphQLColumnName(t *testing.T) {
	table := newWidgetsTable()
	f, err := decodeLeaf(table, "createdAt", map[string]interface{}{"_eq": "2024-01-01"})
	require.NoError(t, err)
	assert.Equal(t, "created_at", f.ColumnName)
}

func TestDecodeLeafUnknownColumnErrors(t *testing.T) {
	table := newWidgetsTable()
	_, err := decodeLeaf(table, "nope", "x")
	assert.Error(t, err)
}

func TestDecodeLeafNullValueBecomesIsNull(t *testing.T) {
	table := newWidgetsTable()
	f, err := decodeLeaf(table, "name", map[string]interface{}{"_eq": nil})
	require.NoError(t, err)
	assert.Nil(t, f.Next.Val)
}

func TestDecodeLeafInRequiresList(t *testing.T) {
	table := newWidgetsTable()
	_, err := decodeLeaf(table, "status", map[string]interface{}{"_in": "not-a-list"})
	assert.Error(t, err)

	f, err := decodeLeaf(table, "status", map[string]interface{}{"_in": []interface{}{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, dialect.OpIn, f.Next.Op)
	assert.Equal(t, []interface{}{"a", "b"}, f.Next.ListVal)
}

func TestDecodeLeafBetweenRequiresTwoValues(t *testing.T) {
	table := newWidgetsTable()
	_, err := decodeLeaf(table, "id", map[string]interface{}{"_between": []interface{}{1}})
	assert.Error(t, err)

	f, err := decodeLeaf(table, "id", map[string]interface{}{"_between": []interface{}{1, 10}})
	require.NoError(t, err)
	assert.Equal(t, dialect.OpBetween, f.Next.Op)
	assert.Equal(t, []interface{}{1, 10}, f.Next.ListVal)
}

func TestDecodeLeafRejectsMultipleOperators(t *testing.T) {
	table := newWidgetsTable()
	_, err := decodeLeaf(table, "name", map[string]interface{}{"_eq": "a", "_neq": "b"})
	assert.Error(t, err)
}

func TestDecodeFilterCombinesLeavesUnderAnd(t *testing.T) {
	table := newWidgetsTable()
	f, err := decodeFilter(table, map[string]interface{}{
		"name":   "Gadget",
		"status": "active",
	})
	require.NoError(t, err)
	require.Equal(t, qcode.FilterAnd, f.Kind)
	assert.Len(t, f.Children, 2)
}

func TestDecodeFilterEmptyReturnsNil(t *testing.T) {
	table := newWidgetsTable()
	f, err := decodeFilter(table, nil)
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestDecodeFilterAndOrCombinators(t *testing.T) {
	table := newWidgetsTable()
	f, err := decodeFilter(table, map[string]interface{}{
		"_or": []interface{}{
			map[string]interface{}{"status": "active"},
			map[string]interface{}{"status": "pending"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, qcode.FilterOr, f.Kind)
	assert.Len(t, f.Children, 2)
}

func TestDecodeCombinatorRejectsNonList(t *testing.T) {
	table := newWidgetsTable()
	_, err := decodeFilter(table, map[string]interface{}{"_and": "not-a-list"})
	assert.Error(t, err)
}

func TestPkFilterBuildsEqualityOnEveryPrimaryKeyColumn(t *testing.T) {
	table := newWidgetsTable()
	f, err := pkFilter(table, map[string]interface{}{"id": int64(5), "name": "Gadget"}, nil)
	require.NoError(t, err)
	require.Equal(t, qcode.FilterLeaf, f.Kind)
	assert.Equal(t, "id", f.ColumnName)
	assert.Equal(t, int64(5), f.Next.Val)
}

func TestPkFilterMissingValueErrors(t *testing.T) {
	table := newWidgetsTable()
	_, err := pkFilter(table, map[string]interface{}{"name": "Gadget"}, nil)
	assert.Error(t, err)
}

func TestPkFilterCombinesWithAdditionalFilter(t *testing.T) {
	table := newWidgetsTable()
	extra := qcode.NewLeaf(table.DbName, "status", dialect.OpEq, "active")
	f, err := pkFilter(table, map[string]interface{}{"id": int64(5)}, extra)
	require.NoError(t, err)
	require.Equal(t, qcode.FilterAnd, f.Kind)
	assert.Len(t, f.Children, 2)
}

func TestMapOperationType(t *testing.T) {
	assert.Equal(t, transform.Insert, mapOperationType(treesync.Insert))
	assert.Equal(t, transform.Update, mapOperationType(treesync.Update))
	assert.Equal(t, transform.Delete, mapOperationType(treesync.Delete))
}
