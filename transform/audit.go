package transform

import (
	"time"

	"github.com/standardbeagle/BifrostQL-sub002/schema"
)

// BasicAuditModule populates columns whose "populate" metadata marks them
// as created/updated/deleted timestamp or actor columns (spec §4.5.2).
// Unlike the other mutation transformers it always applies when the table
// has any populate columns at all — AppliesTo returning true does not
// imply every populate role is present on a given table.
type BasicAuditModule struct {
	Model *schema.Model
	Now   func() time.Time
}

func (a *BasicAuditModule) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now().UTC()
}

func (a *BasicAuditModule) AppliesTo(table *schema.Table, mutationType MutationType, ctx UserContext) bool {
	for _, col := range table.Columns {
		if _, ok := col.Populate(); ok {
			return true
		}
	}
	return false
}

func (a *BasicAuditModule) Transform(table *schema.Table, mutationType MutationType, data map[string]interface{}, ctx UserContext) MutationTransformResult {
	out := make(map[string]interface{}, len(data)+4)
	for k, v := range data {
		out[k] = v
	}

	now := a.now()
	userID, _ := ctx.Claim(a.Model.UserAuditKey())

	for _, col := range table.Columns {
		role, ok := col.Populate()
		if !ok {
			continue
		}
		switch role {
		case schema.PopulateCreatedOn:
			if mutationType == Insert {
				out[col.DbName] = now
			}
		case schema.PopulateCreatedBy:
			if mutationType == Insert {
				out[col.DbName] = userID
			}
		case schema.PopulateUpdatedOn:
			if mutationType == Insert || mutationType == Update || mutationType == Delete {
				out[col.DbName] = now
			}
		case schema.PopulateUpdatedBy:
			if mutationType == Insert || mutationType == Update || mutationType == Delete {
				out[col.DbName] = userID
			}
		case schema.PopulateDeletedOn:
			if mutationType == Delete {
				out[col.DbName] = now
			}
		case schema.PopulateDeletedBy:
			if mutationType == Delete {
				out[col.DbName] = userID
			}
		}
	}

	return MutationTransformResult{MutationType: mutationType, Data: out}
}
