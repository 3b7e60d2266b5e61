package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/BifrostQL-sub002/schema"
)

func buildBooksAuthorsModel(t *testing.T) *schema.Model {
	t.Helper()
	m := schema.NewModel()

	authors := schema.NewTable("Authors", "dbo", schema.TableTypeBase)
	authorID := &schema.Column{DbName: "Id", GraphQLName: "id", Ordinal: 1, DataType: "int", IsPrimaryKey: true}
	authors.AddColumn(authorID)
	require.NoError(t, m.AddTable(authors))

	books := schema.NewTable("Books", "dbo", schema.TableTypeBase)
	bookID := &schema.Column{DbName: "Id", GraphQLName: "id", Ordinal: 1, DataType: "int", IsPrimaryKey: true}
	authorFK := &schema.Column{DbName: "AuthorId", GraphQLName: "authorId", Ordinal: 2, DataType: "int"}
	books.AddColumn(bookID)
	books.AddColumn(authorFK)
	require.NoError(t, m.AddTable(books))

	m.AddLink(books, authorFK, authors, authorID)
	return m
}

func TestLinkNamingMatchesSpecExample(t *testing.T) {
	m := buildBooksAuthorsModel(t)

	books, _ := m.TableByDbName("books")
	authors, _ := m.TableByDbName("authors")

	_, ok := books.SingleLinks["authors"]
	assert.True(t, ok, "Books.SingleLinks should contain %q", "authors")

	_, ok = authors.MultiLinks["books"]
	assert.True(t, ok, "Authors.MultiLinks should contain %q", "books")
}

func TestLinkNameDisambiguationOnSecondFKToSameParent(t *testing.T) {
	m := schema.NewModel()

	users := schema.NewTable("Users", "dbo", schema.TableTypeBase)
	userID := &schema.Column{DbName: "Id", GraphQLName: "id", IsPrimaryKey: true}
	users.AddColumn(userID)
	require.NoError(t, m.AddTable(users))

	orders := schema.NewTable("Orders", "dbo", schema.TableTypeBase)
	orderID := &schema.Column{DbName: "Id", GraphQLName: "id", IsPrimaryKey: true}
	buyerFK := &schema.Column{DbName: "BuyerId", GraphQLName: "buyerId"}
	sellerFK := &schema.Column{DbName: "SellerId", GraphQLName: "sellerId"}
	orders.AddColumn(orderID)
	orders.AddColumn(buyerFK)
	orders.AddColumn(sellerFK)
	require.NoError(t, m.AddTable(orders))

	m.AddLink(orders, buyerFK, users, userID)
	m.AddLink(orders, sellerFK, users, userID)

	_, ok := orders.SingleLinks["users"]
	assert.True(t, ok, "first FK keeps the plain parent name")

	_, ok = orders.SingleLinks["sellerUsers"]
	assert.True(t, ok, "second FK to the same parent is disambiguated by column name")
}

func TestCaseInsensitiveDbNameLookupCaseSensitiveGraphQLLookup(t *testing.T) {
	m := buildBooksAuthorsModel(t)

	_, ok := m.TableByDbName("BOOKS")
	assert.True(t, ok)
	_, ok = m.TableByDbName("books")
	assert.True(t, ok)

	_, ok = m.TableByGraphQLName("books")
	assert.True(t, ok)
	_, ok = m.TableByGraphQLName("Books")
	assert.False(t, ok, "GraphQL name lookup is case-sensitive")
}

func TestTablesInDependencyOrderParentsBeforeChildren(t *testing.T) {
	m := buildBooksAuthorsModel(t)
	order := m.TablesInDependencyOrder()

	require.Len(t, order, 2)
	assert.Equal(t, "Authors", order[0].DbName)
	assert.Equal(t, "Books", order[1].DbName)
}

func TestTenantContextKeyDefault(t *testing.T) {
	m := schema.NewModel()
	assert.Equal(t, "tenant_id", m.TenantContextKey())

	require.NoError(t, schema.ApplyMetadata(m, schema.RawMetadata{
		Model: map[string]string{schema.MetaTenantContextKey: "tid"},
	}))
	assert.Equal(t, "tid", m.TenantContextKey())
}

func TestApplyMetadataUnknownTableErrors(t *testing.T) {
	m := schema.NewModel()
	err := schema.ApplyMetadata(m, schema.RawMetadata{
		Tables: map[string]schema.RawTableMetadata{
			"Ghost": {Values: map[string]string{"tenant-filter": "x"}},
		},
	})
	require.Error(t, err)
}
