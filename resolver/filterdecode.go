package resolver

import (
	"fmt"

	"github.com/standardbeagle/BifrostQL-sub002/dialect"
	"github.com/standardbeagle/BifrostQL-sub002/qcode"
	"github.com/standardbeagle/BifrostQL-sub002/schema"
)

// decodeFilter turns the raw filter map gqlschema.QueryArgs carries into a
// qcode.Filter tree. The expected shape is {"column": {"_eq": val}}, with
// "_and"/"_or" keys holding lists of nested filter maps — a direct,
// GraphQL-input-friendly rendering of spec §4's Filter tree and operator
// set (spec §4's Leaf/And/Or variants).
func decodeFilter(table *schema.Table, raw map[string]interface{}) (*qcode.Filter, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var children []*qcode.Filter
	for key, val := range raw {
		switch key {
		case "_and":
			f, err := decodeCombinator(table, val, qcode.And)
			if err != nil {
				return nil, err
			}
			children = append(children, f)
		case "_or":
			f, err := decodeCombinator(table, val, qcode.Or)
			if err != nil {
				return nil, err
			}
			children = append(children, f)
		default:
			leaf, err := decodeLeaf(table, key, val)
			if err != nil {
				return nil, err
			}
			children = append(children, leaf)
		}
	}
	return qcode.And(children...), nil
}

func decodeCombinator(table *schema.Table, val interface{}, combine func(...*qcode.Filter) *qcode.Filter) (*qcode.Filter, error) {
	list, ok := val.([]interface{})
	if !ok {
		return nil, fmt.Errorf("resolver: _and/_or requires a list, got %T", val)
	}
	var children []*qcode.Filter
	for _, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("resolver: _and/_or element must be an object, got %T", item)
		}
		f, err := decodeFilter(table, m)
		if err != nil {
			return nil, err
		}
		children = append(children, f)
	}
	return combine(children...), nil
}

func decodeLeaf(table *schema.Table, column string, val interface{}) (*qcode.Filter, error) {
	if _, ok := table.ColumnByDbName(column); !ok {
		if col, ok := table.ColumnByGraphQLName(column); ok {
			column = col.DbName
		} else {
			return nil, fmt.Errorf("resolver: unknown filter column %q on table %q", column, table.DbName)
		}
	}

	opMap, ok := val.(map[string]interface{})
	if !ok {
		return qcode.NewLeaf(table.DbName, column, dialect.OpEq, val), nil
	}
	if len(opMap) != 1 {
		return nil, fmt.Errorf("resolver: filter column %q must carry exactly one operator", column)
	}
	for opName, opVal := range opMap {
		op := dialect.Operator(opName)
		if opVal == nil {
			return qcode.NewIsNull(table.DbName, column), nil
		}
		if op == dialect.OpIn {
			list, ok := opVal.([]interface{})
			if !ok {
				return nil, fmt.Errorf("resolver: _in requires a list on column %q", column)
			}
			return qcode.NewIn(table.DbName, column, list), nil
		}
		if op == dialect.OpBetween {
			list, ok := opVal.([]interface{})
			if !ok || len(list) != 2 {
				return nil, fmt.Errorf("resolver: _between requires a 2-element list on column %q", column)
			}
			return &qcode.Filter{
				Kind:       qcode.FilterLeaf,
				TableName:  table.DbName,
				ColumnName: column,
				Next:       &qcode.Value{Op: op, ListVal: list},
			}, nil
		}
		return qcode.NewLeaf(table.DbName, column, op, opVal), nil
	}
	return nil, nil
}
