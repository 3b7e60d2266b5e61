package transform_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/BifrostQL-sub002/qcode"
	"github.com/standardbeagle/BifrostQL-sub002/schema"
	"github.com/standardbeagle/BifrostQL-sub002/transform"
)

func buildUsersTable(t *testing.T, metadata map[string]string, columns ...*schema.Column) *schema.Table {
	t.Helper()
	tbl := schema.NewTable("Users", "dbo", schema.TableTypeBase)
	for k, v := range metadata {
		tbl.Metadata[k] = v
	}
	for _, c := range columns {
		tbl.AddColumn(c)
	}
	return tbl
}

func TestTenantFilterTransformerMissingClaim(t *testing.T) {
	m := schema.NewModel()
	tbl := buildUsersTable(t, map[string]string{schema.MetaTenantFilter: "tenant_id"},
		&schema.Column{DbName: "tenant_id", GraphQLName: "tenantId"})
	require.NoError(t, m.AddTable(tbl))

	tr := &transform.TenantFilterTransformer{Model: m}
	_, err := tr.GetAdditionalFilter(tbl, transform.UserContext{})
	require.Error(t, err)
	assert.Equal(t, transform.TenantMissing, err.(*transform.Error).Code)
}

func TestTenantFilterTransformerProducesEqLeaf(t *testing.T) {
	m := schema.NewModel()
	tbl := buildUsersTable(t, map[string]string{schema.MetaTenantFilter: "tenant_id"},
		&schema.Column{DbName: "tenant_id", GraphQLName: "tenantId"})
	require.NoError(t, m.AddTable(tbl))

	tr := &transform.TenantFilterTransformer{Model: m}
	f, err := tr.GetAdditionalFilter(tbl, transform.UserContext{Claims: map[string]interface{}{"tenant_id": "acme"}})
	require.NoError(t, err)
	require.Equal(t, qcode.FilterLeaf, f.Kind)
	assert.Equal(t, "tenant_id", f.ColumnName)
	assert.Equal(t, "acme", f.Next.Val)
}

func TestSoftDeleteFilterTransformerRespectsIncludeDeleted(t *testing.T) {
	tbl := buildUsersTable(t, map[string]string{schema.MetaSoftDelete: "deleted_at"},
		&schema.Column{DbName: "deleted_at", GraphQLName: "deletedAt"})

	tr := &transform.SoftDeleteFilterTransformer{}
	assert.True(t, tr.AppliesTo(tbl, transform.UserContext{}))
	assert.False(t, tr.AppliesTo(tbl, transform.UserContext{Claims: map[string]interface{}{"include_deleted": true}}))

	f, err := tr.GetAdditionalFilter(tbl, transform.UserContext{})
	require.NoError(t, err)
	assert.Equal(t, "deleted_at", f.ColumnName)
	assert.Nil(t, f.Next.Val)
}

func TestAutoFilterTransformerSinglePairEq(t *testing.T) {
	m := schema.NewModel()
	tbl := buildUsersTable(t, map[string]string{schema.MetaAutoFilter: "org_id:org"},
		&schema.Column{DbName: "org_id", GraphQLName: "orgId"})
	require.NoError(t, m.AddTable(tbl))

	tr := &transform.AutoFilterTransformer{Model: m}
	f, err := tr.GetAdditionalFilter(tbl, transform.UserContext{Claims: map[string]interface{}{"org": "eng"}})
	require.NoError(t, err)
	assert.Equal(t, qcode.FilterLeaf, f.Kind)
}

func TestAutoFilterTransformerMultiPairAnd(t *testing.T) {
	m := schema.NewModel()
	tbl := buildUsersTable(t, map[string]string{schema.MetaAutoFilter: "org_id:org, team_id:team"},
		&schema.Column{DbName: "org_id", GraphQLName: "orgId"},
		&schema.Column{DbName: "team_id", GraphQLName: "teamId"})
	require.NoError(t, m.AddTable(tbl))

	tr := &transform.AutoFilterTransformer{Model: m}
	f, err := tr.GetAdditionalFilter(tbl, transform.UserContext{
		Claims: map[string]interface{}{"org": "eng", "team": "platform"},
	})
	require.NoError(t, err)
	require.Equal(t, qcode.FilterAnd, f.Kind)
	assert.Len(t, f.Children, 2)
}

func TestAutoFilterTransformerEmptyClaimListErrors(t *testing.T) {
	m := schema.NewModel()
	tbl := buildUsersTable(t, map[string]string{schema.MetaAutoFilter: "org_id:org"},
		&schema.Column{DbName: "org_id", GraphQLName: "orgId"})
	require.NoError(t, m.AddTable(tbl))

	tr := &transform.AutoFilterTransformer{Model: m}
	_, err := tr.GetAdditionalFilter(tbl, transform.UserContext{Claims: map[string]interface{}{"org": []interface{}{}}})
	require.Error(t, err)
	assert.Equal(t, transform.ClaimEmpty, err.(*transform.Error).Code)
}

func TestAutoFilterTransformerBypassRole(t *testing.T) {
	m := schema.NewModel()
	m.Metadata[schema.MetaAutoFilterBypassRole] = "admin"
	tbl := buildUsersTable(t, map[string]string{schema.MetaAutoFilter: "org_id:org"},
		&schema.Column{DbName: "org_id", GraphQLName: "orgId"})
	require.NoError(t, m.AddTable(tbl))

	tr := &transform.AutoFilterTransformer{Model: m}
	assert.False(t, tr.AppliesTo(tbl, transform.UserContext{Roles: []string{"Admin"}}))
}

func TestQueryTransformerServiceCombinesExistingAndTransformerFilters(t *testing.T) {
	m := schema.NewModel()
	tbl := buildUsersTable(t, map[string]string{schema.MetaTenantFilter: "tenant_id", schema.MetaSoftDelete: "deleted_at"},
		&schema.Column{DbName: "tenant_id", GraphQLName: "tenantId"},
		&schema.Column{DbName: "deleted_at", GraphQLName: "deletedAt"})
	require.NoError(t, m.AddTable(tbl))

	svc := transform.NewQueryTransformerService(
		&transform.SoftDeleteFilterTransformer{},
		&transform.TenantFilterTransformer{Model: m},
	)

	q := &qcode.ObjectQuery{
		TableName: "Users",
		Filter:    qcode.NewLeaf("Users", "active", "_eq", true),
	}
	err := svc.ApplyTransformers(q, tbl, transform.UserContext{Claims: map[string]interface{}{"tenant_id": "acme"}})
	require.NoError(t, err)

	require.Equal(t, qcode.FilterAnd, q.Filter.Kind)
	require.Len(t, q.Filter.Children, 3)
	assert.Equal(t, "active", q.Filter.Children[0].ColumnName)
	assert.Equal(t, "tenant_id", q.Filter.Children[1].ColumnName)
	assert.Equal(t, "deleted_at", q.Filter.Children[2].ColumnName)
}

func TestQueryTransformerServiceApplyTransformersIsIdempotent(t *testing.T) {
	m := schema.NewModel()
	tbl := buildUsersTable(t, map[string]string{schema.MetaTenantFilter: "tenant_id"},
		&schema.Column{DbName: "tenant_id", GraphQLName: "tenantId"})
	require.NoError(t, m.AddTable(tbl))

	svc := transform.NewQueryTransformerService(&transform.TenantFilterTransformer{Model: m})

	q := &qcode.ObjectQuery{
		TableName: "Users",
		Filter:    qcode.NewLeaf("Users", "active", "_eq", true),
	}
	ctx := transform.UserContext{Claims: map[string]interface{}{"tenant_id": "acme"}}

	require.NoError(t, svc.ApplyTransformers(q, tbl, ctx))
	require.Equal(t, qcode.FilterAnd, q.Filter.Kind)
	require.Len(t, q.Filter.Children, 2)

	require.NoError(t, svc.ApplyTransformers(q, tbl, ctx))
	require.Equal(t, qcode.FilterAnd, q.Filter.Kind)
	assert.Len(t, q.Filter.Children, 2)
}

func TestSoftDeleteMutationTransformerDeleteRewritesToUpdate(t *testing.T) {
	m := schema.NewModel()
	tbl := buildUsersTable(t, map[string]string{schema.MetaSoftDelete: "deleted_at", schema.MetaSoftDeleteBy: "deleted_by"},
		&schema.Column{DbName: "deleted_at", GraphQLName: "deletedAt"},
		&schema.Column{DbName: "deleted_by", GraphQLName: "deletedBy"})
	require.NoError(t, m.AddTable(tbl))

	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := &transform.SoftDeleteMutationTransformer{Model: m, Now: func() time.Time { return fixed }}

	result := tr.Transform(tbl, transform.Delete, map[string]interface{}{}, transform.UserContext{
		Claims: map[string]interface{}{"id": "user-1"},
	})

	assert.Equal(t, transform.Update, result.MutationType)
	assert.Equal(t, fixed, result.Data["deleted_at"])
	assert.Equal(t, "user-1", result.Data["deleted_by"])
}

func TestSoftDeleteMutationTransformerUpdateAttachesFilter(t *testing.T) {
	m := schema.NewModel()
	tbl := buildUsersTable(t, map[string]string{schema.MetaSoftDelete: "deleted_at"},
		&schema.Column{DbName: "deleted_at", GraphQLName: "deletedAt"})
	require.NoError(t, m.AddTable(tbl))

	tr := &transform.SoftDeleteMutationTransformer{Model: m}
	result := tr.Transform(tbl, transform.Update, map[string]interface{}{"name": "x"}, transform.UserContext{})

	assert.Equal(t, transform.Update, result.MutationType)
	assert.Equal(t, "x", result.Data["name"])
	require.NotNil(t, result.AdditionalFilter)
	assert.Nil(t, result.AdditionalFilter.Next.Val)
}

func TestBasicAuditModuleInsertSetsCreatedAndUpdatedTogether(t *testing.T) {
	m := schema.NewModel()
	tbl := buildUsersTable(t, nil,
		&schema.Column{DbName: "created_at", GraphQLName: "createdAt", Metadata: map[string]string{"populate": string(schema.PopulateCreatedOn)}},
		&schema.Column{DbName: "updated_at", GraphQLName: "updatedAt", Metadata: map[string]string{"populate": string(schema.PopulateUpdatedOn)}},
		&schema.Column{DbName: "created_by_user_id", GraphQLName: "createdByUserId", Metadata: map[string]string{"populate": string(schema.PopulateCreatedBy)}},
		&schema.Column{DbName: "updated_by_user_id", GraphQLName: "updatedByUserId", Metadata: map[string]string{"populate": string(schema.PopulateUpdatedBy)}},
	)
	require.NoError(t, m.AddTable(tbl))
	require.NoError(t, schema.ApplyMetadata(m, schema.RawMetadata{Model: map[string]string{schema.MetaUserAuditKey: "id"}}))

	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	audit := &transform.BasicAuditModule{Model: m, Now: func() time.Time { return fixed }}

	result := audit.Transform(tbl, transform.Insert, map[string]interface{}{"Name": "Alice"}, transform.UserContext{
		Claims: map[string]interface{}{"id": "user-42"},
	})

	assert.Equal(t, "Alice", result.Data["Name"])
	assert.Equal(t, fixed, result.Data["created_at"])
	assert.Equal(t, fixed, result.Data["updated_at"])
	assert.Equal(t, "user-42", result.Data["created_by_user_id"])
	assert.Equal(t, "user-42", result.Data["updated_by_user_id"])
}

func TestApplyTransformersResolvesTableFromModelAndAppliesDefaults(t *testing.T) {
	m := schema.NewModel()
	tbl := buildUsersTable(t, map[string]string{schema.MetaTenantFilter: "tenant_id"},
		&schema.Column{DbName: "tenant_id", GraphQLName: "tenantId"})
	require.NoError(t, m.AddTable(tbl))

	q := &qcode.ObjectQuery{TableName: "Users"}
	err := transform.ApplyTransformers(q, m, transform.UserContext{Claims: map[string]interface{}{"tenant_id": "acme"}})
	require.NoError(t, err)
	require.Equal(t, qcode.FilterLeaf, q.Filter.Kind)
	assert.Equal(t, "tenant_id", q.Filter.ColumnName)
}

func TestApplyTransformersUnknownTableErrors(t *testing.T) {
	m := schema.NewModel()
	q := &qcode.ObjectQuery{TableName: "Ghosts"}
	err := transform.ApplyTransformers(q, m, transform.UserContext{})
	require.Error(t, err)
}

func TestTransformChainsSoftDeleteRewriteThenAudit(t *testing.T) {
	m := schema.NewModel()
	tbl := buildUsersTable(t, map[string]string{schema.MetaSoftDelete: "deleted_at"},
		&schema.Column{DbName: "deleted_at", GraphQLName: "deletedAt"},
		&schema.Column{DbName: "updated_at", GraphQLName: "updatedAt", Metadata: map[string]string{"populate": string(schema.PopulateUpdatedOn)}},
	)
	require.NoError(t, m.AddTable(tbl))

	result := transform.Transform(tbl, m, transform.Delete, map[string]interface{}{}, transform.UserContext{})

	assert.Equal(t, transform.Update, result.MutationType)
	_, hasDeletedAt := result.Data["deleted_at"]
	assert.True(t, hasDeletedAt)
	_, hasUpdatedAt := result.Data["updated_at"]
	assert.True(t, hasUpdatedAt, "audit module should still see the original Delete-turned-Update data and populate updated_at")
}

func TestBasicAuditModuleUpdateDoesNotTouchCreatedColumns(t *testing.T) {
	m := schema.NewModel()
	tbl := buildUsersTable(t, nil,
		&schema.Column{DbName: "created_at", GraphQLName: "createdAt", Metadata: map[string]string{"populate": string(schema.PopulateCreatedOn)}},
		&schema.Column{DbName: "updated_at", GraphQLName: "updatedAt", Metadata: map[string]string{"populate": string(schema.PopulateUpdatedOn)}},
	)
	require.NoError(t, m.AddTable(tbl))

	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	audit := &transform.BasicAuditModule{Model: m, Now: func() time.Time { return fixed }}

	result := audit.Transform(tbl, transform.Update, map[string]interface{}{}, transform.UserContext{})

	_, hasCreated := result.Data["created_at"]
	assert.False(t, hasCreated)
	assert.Equal(t, fixed, result.Data["updated_at"])
}
