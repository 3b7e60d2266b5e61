package qcode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/standardbeagle/BifrostQL-sub002/dialect"
	"github.com/standardbeagle/BifrostQL-sub002/qcode"
)

func TestAndCollapsesSingleChild(t *testing.T) {
	leaf := qcode.NewLeaf("books", "title", dialect.OpEq, "Dune")
	assert.Same(t, leaf, qcode.And(leaf))
}

func TestAndCollapsesEmptyToNil(t *testing.T) {
	assert.Nil(t, qcode.And())
	assert.Nil(t, qcode.And(nil, nil))
}

func TestAndBuildsMultiChildNode(t *testing.T) {
	a := qcode.NewLeaf("books", "title", dialect.OpEq, "Dune")
	b := qcode.NewIsNull("books", "deleted_at")
	combined := qcode.And(a, b)

	assert.Equal(t, qcode.FilterAnd, combined.Kind)
	assert.Equal(t, []*qcode.Filter{a, b}, combined.Children)
}

func TestNewIsNullCompilesToEqNilValue(t *testing.T) {
	f := qcode.NewIsNull("books", "deleted_at")
	assert.Equal(t, dialect.OpEq, f.Next.Op)
	assert.Nil(t, f.Next.Val)
}

func TestObjectQueryAddJoinSetsLinkName(t *testing.T) {
	parent := &qcode.ObjectQuery{TableName: "Authors"}
	child := &qcode.ObjectQuery{TableName: "Books"}

	parent.AddJoin("books", child)

	assert.Len(t, parent.Joins, 1)
	assert.Equal(t, "books", parent.Joins[0].LinkName)
}
