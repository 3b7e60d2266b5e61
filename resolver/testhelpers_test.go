package resolver_test

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/standardbeagle/BifrostQL-sub002/dialect"
	"github.com/standardbeagle/BifrostQL-sub002/resolver"
	"github.com/standardbeagle/BifrostQL-sub002/schema"
)

// buildModel constructs a tiny two-table model (widgets 1:N parts) with no
// tenant/soft-delete/auto-filter metadata, so the default transform chains
// are no-ops and the rendered SQL is fully deterministic. It returns the
// distinct SingleLink (parts -> widgets) and MultiLink (widgets -> parts)
// views of the one foreign key, matching AddLink's documented convention
// that each side gets its own independently-named Link value.
func buildModel(t *testing.T) (model *schema.Model, widgets, parts *schema.Table, singleLink, multiLink *schema.Link) {
	t.Helper()

	widgets = schema.NewTable("widgets", "", schema.TableTypeBase)
	widgets.AddColumn(&schema.Column{DbName: "id", GraphQLName: "id", DataType: "Int", IsPrimaryKey: true})
	widgets.AddColumn(&schema.Column{DbName: "name", GraphQLName: "name", DataType: "String"})

	parts = schema.NewTable("parts", "", schema.TableTypeBase)
	parts.AddColumn(&schema.Column{DbName: "id", GraphQLName: "id", DataType: "Int", IsPrimaryKey: true})
	parts.AddColumn(&schema.Column{DbName: "widget_id", GraphQLName: "widgetId", DataType: "Int"})
	parts.AddColumn(&schema.Column{DbName: "title", GraphQLName: "title", DataType: "String"})

	model = schema.NewModel()
	require.NoError(t, model.AddTable(widgets))
	require.NoError(t, model.AddTable(parts))

	widgetIDCol, _ := widgets.ColumnByDbName("id")
	partFKCol, _ := parts.ColumnByDbName("widget_id")
	model.AddLink(parts, partFKCol, widgets, widgetIDCol)

	for _, l := range parts.SingleLinks {
		singleLink = l
	}
	for _, l := range widgets.MultiLinks {
		multiLink = l
	}
	model.Freeze()
	return model, widgets, parts, singleLink, multiLink
}

// newTestResolver wires a Resolver to a sqlmock-backed *sql.DB using
// regexp-exact query matching, grounded on syssam-velox's sqlmock-driven
// dialect/sql tests (dialect/sql/driver_test.go).
func newTestResolver(t *testing.T, model *schema.Model) (*resolver.Resolver, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	r, err := resolver.New(model, dialect.PostgresDialect, db, zap.NewNop(), 64)
	require.NoError(t, err)
	return r, mock
}
