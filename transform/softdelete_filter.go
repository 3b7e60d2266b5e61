package transform

import (
	"fmt"

	"github.com/standardbeagle/BifrostQL-sub002/qcode"
	"github.com/standardbeagle/BifrostQL-sub002/schema"
)

// SoftDeleteFilterTransformer excludes soft-deleted rows from reads unless
// the caller opted in via user context (spec §4.4.2).
type SoftDeleteFilterTransformer struct{}

func (t *SoftDeleteFilterTransformer) Priority() int { return 100 }

func (t *SoftDeleteFilterTransformer) AppliesTo(table *schema.Table, ctx UserContext) bool {
	if !table.HasMetadata(schema.MetaSoftDelete) {
		return false
	}
	if includeDeleted, ok := ctx.Claim("include_deleted"); ok && includeDeleted == true {
		return false
	}
	tableScoped := fmt.Sprintf("include_deleted:%s.%s", table.SchemaName, table.DbName)
	if includeDeleted, ok := ctx.Claim(tableScoped); ok && includeDeleted == true {
		return false
	}
	return true
}

func (t *SoftDeleteFilterTransformer) GetAdditionalFilter(table *schema.Table, ctx UserContext) (*qcode.Filter, error) {
	column := table.Metadata[schema.MetaSoftDelete]
	if column == "" {
		// Metadata value left empty: AppliesTo is true but no filter is
		// emitted, per spec §4.4.2.
		return nil, nil
	}
	if _, ok := table.ColumnByDbName(column); !ok {
		return nil, newError(ColumnNotFound, table.DbName, column, "")
	}
	return qcode.NewIsNull(table.DbName, column), nil
}
