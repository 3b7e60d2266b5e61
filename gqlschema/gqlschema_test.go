package gqlschema_test

import (
	"context"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/BifrostQL-sub002/gqlschema"
	"github.com/standardbeagle/BifrostQL-sub002/schema"
	"github.com/standardbeagle/BifrostQL-sub002/transform"
)

func buildAuthorsBooksModel(t *testing.T) *schema.Model {
	t.Helper()
	m := schema.NewModel()

	authors := schema.NewTable("authors", "dbo", schema.TableTypeBase)
	authorID := &schema.Column{DbName: "id", GraphQLName: "id", IsPrimaryKey: true, IsIdentity: true}
	authorName := &schema.Column{DbName: "name", GraphQLName: "name"}
	authors.AddColumn(authorID)
	authors.AddColumn(authorName)
	require.NoError(t, m.AddTable(authors))

	books := schema.NewTable("books", "dbo", schema.TableTypeBase)
	bookID := &schema.Column{DbName: "id", GraphQLName: "id", IsPrimaryKey: true, IsIdentity: true}
	bookTitle := &schema.Column{DbName: "title", GraphQLName: "title"}
	bookAuthorID := &schema.Column{DbName: "author_id", GraphQLName: "authorId"}
	bookDeletedAt := &schema.Column{DbName: "deleted_at", GraphQLName: "deletedAt", Nullable: true}
	books.AddColumn(bookID)
	books.AddColumn(bookTitle)
	books.AddColumn(bookAuthorID)
	books.AddColumn(bookDeletedAt)
	books.Metadata[schema.MetaSoftDelete] = "deleted_at"
	require.NoError(t, m.AddTable(books))

	m.AddLink(books, bookAuthorID, authors, authorID)

	return m
}

type stubExecutor struct{}

func (stubExecutor) Query(ctx context.Context, table *schema.Table, args gqlschema.QueryArgs) ([]map[string]interface{}, error) {
	return []map[string]interface{}{{"id": 1, "title": "Go in Practice"}}, nil
}

func (stubExecutor) Aggregate(ctx context.Context, table *schema.Table, args gqlschema.QueryArgs) (map[string]interface{}, error) {
	return map[string]interface{}{"count": 1}, nil
}

func (stubExecutor) Mutate(ctx context.Context, table *schema.Table, mutationType transform.MutationType, input map[string]interface{}) (map[string]interface{}, error) {
	return input, nil
}

func (stubExecutor) ResolveSingleLink(ctx context.Context, link *schema.Link, parentRow map[string]interface{}) (map[string]interface{}, error) {
	return map[string]interface{}{"id": 1, "name": "Rob Pike"}, nil
}

func (stubExecutor) ResolveMultiLink(ctx context.Context, link *schema.Link, parentRow map[string]interface{}, args gqlschema.QueryArgs) ([]map[string]interface{}, error) {
	return []map[string]interface{}{{"id": 1, "title": "Go in Practice"}}, nil
}

func (stubExecutor) CallStoredProcedure(ctx context.Context, sp *schema.StoredProcedure, args map[string]interface{}) (map[string]interface{}, error) {
	return map[string]interface{}{"resultSets": nil, "outputs": nil}, nil
}

func TestGenerateBuildsQueryAndMutationRoots(t *testing.T) {
	m := buildAuthorsBooksModel(t)

	built, err := gqlschema.Generate(m)
	require.NoError(t, err)
	require.NotNil(t, built)

	queryType := built.QueryType()
	assert.Contains(t, queryType.Fields(), "authors")
	assert.Contains(t, queryType.Fields(), "books")
	assert.Contains(t, queryType.Fields(), "books_aggregate")

	mutationType := built.MutationType()
	require.NotNil(t, mutationType)
	assert.Contains(t, mutationType.Fields(), "books_insert")
	assert.Contains(t, mutationType.Fields(), "books_update")
	assert.Contains(t, mutationType.Fields(), "books_delete")
}

func TestGenerateAddsIncludeDeletedArgOnlyToSoftDeleteTables(t *testing.T) {
	m := buildAuthorsBooksModel(t)

	built, err := gqlschema.Generate(m)
	require.NoError(t, err)

	booksField := built.QueryType().Fields()["books"]
	require.NotNil(t, booksField)
	assert.Contains(t, argNames(booksField.Args), "_includeDeleted")

	authorsField := built.QueryType().Fields()["authors"]
	require.NotNil(t, authorsField)
	assert.NotContains(t, argNames(authorsField.Args), "_includeDeleted")
}

func argNames(args []*graphql.Argument) []string {
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = a.Name()
	}
	return names
}

func TestQueryFieldResolvesThroughExecutor(t *testing.T) {
	m := buildAuthorsBooksModel(t)

	built, err := gqlschema.Generate(m)
	require.NoError(t, err)

	ctx := gqlschema.WithExecutor(context.Background(), stubExecutor{})
	result := graphql.Do(graphql.Params{
		Schema:        *built,
		RequestString: `{ books { id title } }`,
		Context:       ctx,
	})

	require.Empty(t, result.Errors)
	data, ok := result.Data.(map[string]interface{})
	require.True(t, ok)
	assert.NotNil(t, data["books"])
}

func TestMutationFieldResolvesThroughExecutor(t *testing.T) {
	m := buildAuthorsBooksModel(t)

	built, err := gqlschema.Generate(m)
	require.NoError(t, err)

	ctx := gqlschema.WithExecutor(context.Background(), stubExecutor{})
	result := graphql.Do(graphql.Params{
		Schema:         *built,
		RequestString:  `mutation { books_insert(data: { title: "New Book" }) { title } }`,
		Context:        ctx,
		OperationName:  "",
	})

	require.Empty(t, result.Errors)
}

func TestQueryFieldWithoutExecutorInContextErrors(t *testing.T) {
	m := buildAuthorsBooksModel(t)

	built, err := gqlschema.Generate(m)
	require.NoError(t, err)

	result := graphql.Do(graphql.Params{
		Schema:        *built,
		RequestString: `{ books { id } }`,
		Context:       context.Background(),
	})

	require.NotEmpty(t, result.Errors)
}
