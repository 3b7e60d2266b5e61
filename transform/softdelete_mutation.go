package transform

import (
	"time"

	"github.com/standardbeagle/BifrostQL-sub002/qcode"
	"github.com/standardbeagle/BifrostQL-sub002/schema"
)

// SoftDeleteMutationTransformer rewrites DELETE into UPDATE on soft-delete
// tables, and guards UPDATE against touching already-deleted rows
// (spec §4.5.1).
type SoftDeleteMutationTransformer struct {
	Model *schema.Model
	// Now returns the current UTC time; overridable in tests.
	Now func() time.Time
}

func (t *SoftDeleteMutationTransformer) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now().UTC()
}

func (t *SoftDeleteMutationTransformer) AppliesTo(table *schema.Table, mutationType MutationType, ctx UserContext) bool {
	if !table.HasMetadata(schema.MetaSoftDelete) {
		return false
	}
	return mutationType == Update || mutationType == Delete
}

func (t *SoftDeleteMutationTransformer) Transform(table *schema.Table, mutationType MutationType, data map[string]interface{}, ctx UserContext) MutationTransformResult {
	deletedAtColumn := table.Metadata[schema.MetaSoftDelete]
	if deletedAtColumn == "" {
		deletedAtColumn = "deleted_at"
	}

	if _, ok := table.ColumnByDbName(deletedAtColumn); !ok {
		return MutationTransformResult{
			MutationType: mutationType,
			Data:         data,
			Errors:       []error{newError(ColumnNotFound, table.DbName, deletedAtColumn, "")},
		}
	}

	if mutationType == Update {
		return MutationTransformResult{
			MutationType:     mutationType,
			Data:             data,
			AdditionalFilter: qcode.NewIsNull(table.DbName, deletedAtColumn),
		}
	}

	// Delete -> Update.
	out := make(map[string]interface{}, len(data)+2)
	for k, v := range data {
		out[k] = v
	}
	out[deletedAtColumn] = t.now()

	if by, ok := table.Metadata[schema.MetaSoftDeleteBy]; ok && by != "" {
		if userID, ok := ctx.Claim(t.Model.UserAuditKey()); ok && userID != nil {
			out[by] = userID
		}
	}

	return MutationTransformResult{
		MutationType: Update,
		Data:         out,
	}
}
