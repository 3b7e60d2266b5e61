package transform

import (
	"strings"

	"github.com/standardbeagle/BifrostQL-sub002/dialect"
	"github.com/standardbeagle/BifrostQL-sub002/qcode"
	"github.com/standardbeagle/BifrostQL-sub002/schema"
)

// AutoFilterTransformer scopes queries by one or more claim-driven
// "column:claim" pairs declared in a table's auto-filter metadata, unless
// the caller bears the model's bypass role (spec §4.4.3).
type AutoFilterTransformer struct {
	Model *schema.Model
}

func (t *AutoFilterTransformer) Priority() int { return 1 }

func (t *AutoFilterTransformer) AppliesTo(table *schema.Table, ctx UserContext) bool {
	if table.Metadata[schema.MetaAutoFilter] == "" {
		return false
	}
	if role, ok := t.Model.AutoFilterBypassRole(); ok && ctx.HasRole(role) {
		return false
	}
	return true
}

func (t *AutoFilterTransformer) GetAdditionalFilter(table *schema.Table, ctx UserContext) (*qcode.Filter, error) {
	raw := table.Metadata[schema.MetaAutoFilter]

	var filters []*qcode.Filter
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		column, claim, err := parseAutoFilterPair(table.DbName, pair)
		if err != nil {
			return nil, err
		}

		val, ok := ctx.Claim(claim)
		if !ok {
			return nil, newError(ClaimMissing, table.DbName, column, claim)
		}
		if val == nil {
			return nil, newError(ClaimNull, table.DbName, column, claim)
		}

		if list, isList := AsList(val); isList {
			if len(list) == 0 {
				return nil, newError(ClaimEmpty, table.DbName, column, claim)
			}
			filters = append(filters, qcode.NewIn(table.DbName, column, list))
		} else {
			filters = append(filters, qcode.NewLeaf(table.DbName, column, dialect.OpEq, val))
		}
	}

	if len(filters) > 1 {
		return &qcode.Filter{Kind: qcode.FilterAnd, Children: filters}, nil
	}
	return qcode.And(filters...), nil
}

func parseAutoFilterPair(tableName, pair string) (column, claim string, err error) {
	idx := strings.Index(pair, ":")
	if idx < 0 {
		return "", "", newError(InvalidFormat, tableName, "", pair)
	}
	column = strings.TrimSpace(pair[:idx])
	claim = strings.TrimSpace(pair[idx+1:])
	if column == "" || claim == "" {
		return "", "", newError(InvalidFormat, tableName, column, claim)
	}
	return column, claim, nil
}
