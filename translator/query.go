package translator

import (
	"fmt"
	"strings"

	"github.com/standardbeagle/BifrostQL-sub002/dialect"
	"github.com/standardbeagle/BifrostQL-sub002/qcode"
	"github.com/standardbeagle/BifrostQL-sub002/schema"
)

// AddSqlParameterized renders q into a single parameterized SELECT
// statement and stores it in sqlMap under q.TableName. Nested join nodes
// are not recursed into: the resolver fetches a link's child rows with its
// own call to AddSqlParameterized per parent row, filtered by childFK
// equal to that parent's key. Child rows of several parents are not
// batched into one childFK IN (...) statement.
func AddSqlParameterized(q *qcode.ObjectQuery, model *schema.Model, d dialect.Dialect, sqlMap map[string]string, params *ParameterCollection) error {
	table, ok := model.TableByDbName(q.TableName)
	if !ok {
		return fmt.Errorf("translator: unknown table %q", q.TableName)
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	if err := writeColumns(&b, table, q.Columns, d); err != nil {
		return err
	}
	b.WriteString(" FROM ")
	b.WriteString(d.TableReference(table.SchemaName, table.DbName))

	if q.Filter != nil {
		b.WriteString(" WHERE ")
		if err := writeFilter(&b, q.Filter, d, params); err != nil {
			return err
		}
	}

	sortColumns := toDialectSortKeys(q.Sort)
	if len(sortColumns) == 0 {
		sortColumns = d.ImplicitOrderBy(table.PrimaryKeyColumnNames())
	}
	pagination := d.Pagination(sortColumns, q.Offset, q.Limit)
	if pagination != "" {
		b.WriteString(" ")
		b.WriteString(pagination)
	}

	sqlMap[q.TableName] = b.String()
	return nil
}

func writeColumns(b *strings.Builder, table *schema.Table, columns []string, d dialect.Dialect) error {
	if len(columns) == 0 {
		for i, c := range table.Columns {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(d.EscapeIdentifier(c.DbName))
		}
		return nil
	}
	for i, colName := range columns {
		if _, ok := table.ColumnByDbName(colName); !ok {
			return fmt.Errorf("translator: unknown column %q on table %q", colName, table.DbName)
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(d.EscapeIdentifier(colName))
	}
	return nil
}

func toDialectSortKeys(sorts []qcode.SortKey) []dialect.SortKey {
	out := make([]dialect.SortKey, len(sorts))
	for i, s := range sorts {
		out[i] = dialect.SortKey{Column: s.Column, Direction: s.Direction}
	}
	return out
}

// writeFilter recursively renders a filter tree, parenthesizing And/Or
// nodes and parameterizing every leaf value (spec §4.6 — "under no
// circumstances is a literal user value inlined").
func writeFilter(b *strings.Builder, f *qcode.Filter, d dialect.Dialect, params *ParameterCollection) error {
	switch f.Kind {
	case qcode.FilterAnd, qcode.FilterOr:
		joiner := " AND "
		if f.Kind == qcode.FilterOr {
			joiner = " OR "
		}
		b.WriteString("(")
		for i, child := range f.Children {
			if i > 0 {
				b.WriteString(joiner)
			}
			if err := writeFilter(b, child, d, params); err != nil {
				return err
			}
		}
		b.WriteString(")")
		return nil
	case qcode.FilterLeaf:
		return writeLeaf(b, f, d, params)
	default:
		return fmt.Errorf("translator: unknown filter kind %v", f.Kind)
	}
}

func writeLeaf(b *strings.Builder, f *qcode.Filter, d dialect.Dialect, params *ParameterCollection) error {
	column := d.EscapeIdentifier(f.ColumnName)

	if f.Next.Op == dialect.OpEq && f.Next.Val == nil {
		b.WriteString(column)
		b.WriteString(" IS NULL")
		return nil
	}

	switch f.Next.Op {
	case dialect.OpIn:
		b.WriteString(column)
		b.WriteString(" IN (")
		for i, v := range f.Next.ListVal {
			if i > 0 {
				b.WriteString(", ")
			}
			name, ord := params.Add(v)
			b.WriteString(d.BindVar(name, ord))
		}
		b.WriteString(")")
		return nil
	case dialect.OpContains, dialect.OpStartsWith, dialect.OpEndsWith:
		name, ord := params.Add(f.Next.Val)
		paramRef := d.BindVar(name, ord)
		var kind dialect.LikeKind
		switch f.Next.Op {
		case dialect.OpStartsWith:
			kind = dialect.StartsWith
		case dialect.OpEndsWith:
			kind = dialect.EndsWith
		default:
			kind = dialect.Contains
		}
		b.WriteString(column)
		b.WriteString(" LIKE ")
		b.WriteString(d.LikePattern(paramRef, kind))
		return nil
	case dialect.OpBetween:
		if len(f.Next.ListVal) != 2 {
			return fmt.Errorf("translator: _between requires exactly 2 values on column %q", f.ColumnName)
		}
		lowName, lowOrd := params.Add(f.Next.ListVal[0])
		highName, highOrd := params.Add(f.Next.ListVal[1])
		b.WriteString(column)
		b.WriteString(" BETWEEN ")
		b.WriteString(d.BindVar(lowName, lowOrd))
		b.WriteString(" AND ")
		b.WriteString(d.BindVar(highName, highOrd))
		return nil
	default:
		op, err := d.GetOperator(f.Next.Op)
		if err != nil {
			return err
		}
		name, ord := params.Add(f.Next.Val)
		b.WriteString(column)
		b.WriteString(" ")
		b.WriteString(op)
		b.WriteString(" ")
		b.WriteString(d.BindVar(name, ord))
		return nil
	}
}
