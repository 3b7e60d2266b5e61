package transform

import (
	"github.com/standardbeagle/BifrostQL-sub002/dialect"
	"github.com/standardbeagle/BifrostQL-sub002/qcode"
	"github.com/standardbeagle/BifrostQL-sub002/schema"
)

// TenantFilterTransformer scopes every query on a tenant-filtered table to
// the current request's tenant id (spec §4.4.1).
type TenantFilterTransformer struct {
	Model *schema.Model
}

func (t *TenantFilterTransformer) Priority() int { return 0 }

func (t *TenantFilterTransformer) AppliesTo(table *schema.Table, ctx UserContext) bool {
	return table.HasMetadata(schema.MetaTenantFilter)
}

func (t *TenantFilterTransformer) GetAdditionalFilter(table *schema.Table, ctx UserContext) (*qcode.Filter, error) {
	key := t.Model.TenantContextKey()
	val, ok := ctx.Claim(key)
	if !ok {
		return nil, newError(TenantMissing, table.DbName, "", key)
	}
	if val == nil {
		return nil, newError(TenantNull, table.DbName, "", key)
	}

	column := table.Metadata[schema.MetaTenantFilter]
	if column == "" {
		column = "tenant_id"
	}
	if _, ok := table.ColumnByDbName(column); !ok {
		return nil, newError(ColumnNotFound, table.DbName, column, key)
	}

	return qcode.NewLeaf(table.DbName, column, dialect.OpEq, val), nil
}
