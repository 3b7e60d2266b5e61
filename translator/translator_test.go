package translator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/BifrostQL-sub002/dialect"
	"github.com/standardbeagle/BifrostQL-sub002/qcode"
	"github.com/standardbeagle/BifrostQL-sub002/schema"
	"github.com/standardbeagle/BifrostQL-sub002/translator"
)

func buildBooksModel(t *testing.T) *schema.Model {
	t.Helper()
	m := schema.NewModel()
	books := schema.NewTable("Books", "dbo", schema.TableTypeBase)
	books.AddColumn(&schema.Column{DbName: "Id", GraphQLName: "id", IsPrimaryKey: true})
	books.AddColumn(&schema.Column{DbName: "Title", GraphQLName: "title"})
	books.AddColumn(&schema.Column{DbName: "AuthorId", GraphQLName: "authorId"})
	require.NoError(t, m.AddTable(books))
	return m
}

func TestAddSqlParameterizedSimpleSelect(t *testing.T) {
	m := buildBooksModel(t)
	q := &qcode.ObjectQuery{TableName: "Books", Columns: []string{"Id", "Title"}}

	sqlMap := map[string]string{}
	params := translator.NewParameterCollection()
	require.NoError(t, translator.AddSqlParameterized(q, m, dialect.PostgresDialect, sqlMap, params))

	sql := sqlMap["Books"]
	assert.Contains(t, sql, `SELECT "Id", "Title" FROM "dbo"."Books"`)
	assert.Contains(t, sql, "LIMIT 100")
}

func TestAddSqlParameterizedWithFilterParameterizesValue(t *testing.T) {
	m := buildBooksModel(t)
	q := &qcode.ObjectQuery{
		TableName: "Books",
		Filter:    qcode.NewLeaf("Books", "AuthorId", dialect.OpEq, 7),
	}

	sqlMap := map[string]string{}
	params := translator.NewParameterCollection()
	require.NoError(t, translator.AddSqlParameterized(q, m, dialect.PostgresDialect, sqlMap, params))

	sql := sqlMap["Books"]
	assert.Contains(t, sql, `WHERE "AuthorId" = $1`)
	assert.NotContains(t, sql, "7")
	assert.Equal(t, []interface{}{7}, params.Values())
}

func TestAddSqlParameterizedIsNullLeaf(t *testing.T) {
	m := buildBooksModel(t)
	q := &qcode.ObjectQuery{
		TableName: "Books",
		Filter:    qcode.NewIsNull("Books", "AuthorId"),
	}

	sqlMap := map[string]string{}
	params := translator.NewParameterCollection()
	require.NoError(t, translator.AddSqlParameterized(q, m, dialect.PostgresDialect, sqlMap, params))

	assert.Contains(t, sqlMap["Books"], `"AuthorId" IS NULL`)
	assert.Equal(t, 0, params.Len())
}

func TestAddSqlParameterizedInListBindsEachValue(t *testing.T) {
	m := buildBooksModel(t)
	q := &qcode.ObjectQuery{
		TableName: "Books",
		Filter:    qcode.NewIn("Books", "Id", []interface{}{1, 2, 3}),
	}

	sqlMap := map[string]string{}
	params := translator.NewParameterCollection()
	require.NoError(t, translator.AddSqlParameterized(q, m, dialect.MySqlDialect, sqlMap, params))

	assert.Contains(t, sqlMap["Books"], "`Id` IN (@p1, @p2, @p3)")
	assert.Equal(t, 3, params.Len())
}

func TestBuildInsertSQLOrdersColumnsDeterministically(t *testing.T) {
	m := buildBooksModel(t)
	table, _ := m.TableByDbName("Books")

	params := translator.NewParameterCollection()
	sql, err := translator.BuildInsertSQL(table, map[string]interface{}{"Title": "Dune", "AuthorId": 1}, dialect.PostgresDialect, params)
	require.NoError(t, err)

	assert.Contains(t, sql, `("AuthorId", "Title")`)
	assert.Contains(t, sql, "VALUES ($1, $2)")
}

func TestBuildUpdateSQLRequiresFilter(t *testing.T) {
	m := buildBooksModel(t)
	table, _ := m.TableByDbName("Books")

	params := translator.NewParameterCollection()
	_, err := translator.BuildUpdateSQL(table, map[string]interface{}{"Title": "Dune"}, nil, dialect.PostgresDialect, params)
	require.Error(t, err)
}

func TestBuildDeleteSQLRendersWhereClause(t *testing.T) {
	m := buildBooksModel(t)
	table, _ := m.TableByDbName("Books")

	params := translator.NewParameterCollection()
	sql, err := translator.BuildDeleteSQL(table, qcode.NewLeaf("Books", "Id", dialect.OpEq, 5), dialect.PostgresDialect, params)
	require.NoError(t, err)
	assert.Contains(t, sql, `DELETE FROM "dbo"."Books" WHERE "Id" = $1`)
}
