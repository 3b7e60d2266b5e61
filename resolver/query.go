package resolver

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/standardbeagle/BifrostQL-sub002/dialect"
	"github.com/standardbeagle/BifrostQL-sub002/gqlschema"
	"github.com/standardbeagle/BifrostQL-sub002/qcode"
	"github.com/standardbeagle/BifrostQL-sub002/schema"
	"github.com/standardbeagle/BifrostQL-sub002/transform"
	"github.com/standardbeagle/BifrostQL-sub002/translator"
)

// Query implements gqlschema.Executor.Query: builds the table's root
// ObjectQuery from args, runs it through the filter-transformer chain, and
// executes the resulting statement (spec §4.4/§4.6).
func (r *Resolver) Query(ctx context.Context, table *schema.Table, args gqlschema.QueryArgs) ([]map[string]interface{}, error) {
	requestID := newRequestID()

	q, err := r.buildObjectQuery(table, args)
	if err != nil {
		return nil, newExecutionError(requestID, "query", table.DbName, err)
	}
	if err := r.applyFilters(ctx, q, table, args, requestID); err != nil {
		return nil, err
	}

	rows, err := r.runSelect(ctx, q, requestID)
	if err != nil {
		return nil, newExecutionError(requestID, "query", table.DbName, err)
	}
	return rows, nil
}

// Aggregate implements gqlschema.Executor.Aggregate: applies the same
// filter chain as Query but renders a COUNT(*) selection instead of row
// columns (spec §6's aggregate surface).
func (r *Resolver) Aggregate(ctx context.Context, table *schema.Table, args gqlschema.QueryArgs) (map[string]interface{}, error) {
	requestID := newRequestID()

	q, err := r.buildObjectQuery(table, args)
	if err != nil {
		return nil, newExecutionError(requestID, "aggregate", table.DbName, err)
	}
	q.Classification = qcode.Aggregate
	if err := r.applyFilters(ctx, q, table, args, requestID); err != nil {
		return nil, err
	}

	sqlMap := map[string]string{}
	params := translator.NewParameterCollection()
	if err := translator.AddSqlParameterized(q, r.Model, r.Dialect, sqlMap, params); err != nil {
		return nil, newExecutionError(requestID, "aggregate", table.DbName, err)
	}

	countSQL := fmt.Sprintf("SELECT COUNT(*) AS count FROM (%s) AS bifrostql_aggregate", sqlMap[q.TableName])

	row := r.DB.QueryRowContext(ctx, countSQL, params.Values()...)
	var count int64
	if err := row.Scan(&count); err != nil {
		return nil, newExecutionError(requestID, "aggregate", table.DbName, err)
	}
	return map[string]interface{}{"count": count}, nil
}

func (r *Resolver) buildObjectQuery(table *schema.Table, args gqlschema.QueryArgs) (*qcode.ObjectQuery, error) {
	q := &qcode.ObjectQuery{
		SchemaName:     table.SchemaName,
		TableName:      table.DbName,
		Classification: qcode.Standard,
		Offset:         args.Offset,
		Limit:          args.Limit,
	}
	for _, s := range args.Sort {
		col, dir := parseSortKey(s)
		q.Sort = append(q.Sort, qcode.SortKey{Column: col, Direction: dir})
	}
	filter, err := decodeFilter(table, args.Filter)
	if err != nil {
		return nil, err
	}
	q.Filter = filter
	return q, nil
}

func parseSortKey(s string) (string, dialect.SortDirection) {
	if len(s) > 0 && s[0] == '-' {
		return s[1:], dialect.Desc
	}
	return s, dialect.Asc
}

// applyFilters runs the transformer chain, then layers on the
// _includeDeleted bypass claim the gqlschema field argument requested,
// matching spec §9's "include_deleted" user-context convention.
func (r *Resolver) applyFilters(ctx context.Context, q *qcode.ObjectQuery, table *schema.Table, args gqlschema.QueryArgs, requestID string) error {
	uc := userContextFrom(ctx)
	if args.IncludeDeleted {
		uc = withIncludeDeleted(uc)
	}
	if err := transform.ApplyTransformers(q, r.Model, uc); err != nil {
		return newExecutionError(requestID, "filter", table.DbName, err)
	}
	return nil
}

func withIncludeDeleted(uc transform.UserContext) transform.UserContext {
	claims := make(map[string]interface{}, len(uc.Claims)+1)
	for k, v := range uc.Claims {
		claims[k] = v
	}
	claims["include_deleted"] = true
	return transform.UserContext{Claims: claims, Roles: uc.Roles}
}

func (r *Resolver) runSelect(ctx context.Context, q *qcode.ObjectQuery, requestID string) ([]map[string]interface{}, error) {
	sqlMap := map[string]string{}
	params := translator.NewParameterCollection()
	if err := translator.AddSqlParameterized(q, r.Model, r.Dialect, sqlMap, params); err != nil {
		return nil, err
	}

	stmt := sqlMap[q.TableName]
	rows, err := r.DB.QueryContext(ctx, stmt, params.Values()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRows(rows)
}

// scanRows decodes a *sql.Rows result into a slice of column-name-keyed
// maps, using sql.RawBytes-free generic scanning via interface{} pointers.
func scanRows(rows *sql.Rows) ([]map[string]interface{}, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]interface{}, len(cols))
		for i, col := range cols {
			row[col] = normalizeScanned(values[i])
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func normalizeScanned(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
