package resolver

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/standardbeagle/BifrostQL-sub002/qcode"
	"github.com/standardbeagle/BifrostQL-sub002/schema"
	"github.com/standardbeagle/BifrostQL-sub002/transform"
	"github.com/standardbeagle/BifrostQL-sub002/translator"
	"github.com/standardbeagle/BifrostQL-sub002/treesync"
)

// Mutate implements gqlschema.Executor.Mutate: decomposes input into a
// tree sync operation plan, runs every operation's mutation transformers,
// and executes the resulting statements inside one transaction (spec
// §4.5/§4.7). Nested child collections under input drive Insert/Update of
// related rows in the same call; mutationType Delete skips tree sync
// entirely and deletes (or soft-deletes) the single named row.
func (r *Resolver) Mutate(ctx context.Context, table *schema.Table, mutationType transform.MutationType, input map[string]interface{}) (map[string]interface{}, error) {
	requestID := newRequestID()
	uc := userContextFrom(ctx)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, newExecutionError(requestID, "mutate", table.DbName, err)
	}

	result, err := r.runMutation(ctx, tx, table, mutationType, input, uc, requestID)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, newExecutionError(requestID, "mutate", table.DbName, err)
	}
	return result, nil
}

func (r *Resolver) runMutation(ctx context.Context, tx *sql.Tx, table *schema.Table, mutationType transform.MutationType, input map[string]interface{}, uc transform.UserContext, requestID string) (map[string]interface{}, error) {
	if mutationType == transform.Delete {
		op := &treesync.Operation{Type: treesync.Delete, Table: table, Data: input}
		return r.executeOperation(ctx, tx, op, uc, requestID, nil)
	}

	var existing map[string]interface{}
	if mutationType == transform.Update {
		var err error
		existing, err = r.fetchExistingTree(ctx, tx, table, input, requestID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, newExecutionError(requestID, "update", table.DbName, fmt.Errorf("row not found"))
		}
	}

	ops, err := treesync.ComputeOperations(table, r.Model, input, existing)
	if err != nil {
		return nil, newExecutionError(requestID, "mutate", table.DbName, err)
	}

	generatedIDs := make(map[string]interface{})
	var rootResult map[string]interface{}
	for _, op := range ops {
		row, err := r.executeOperation(ctx, tx, op, uc, requestID, generatedIDs)
		if err != nil {
			return nil, err
		}
		if op.Table == table && op.Depth == 0 {
			rootResult = row
		}
	}
	return rootResult, nil
}

// executeOperation resolves any pending foreign key assignment against an
// already-captured parent id, runs the op's data through the mutation
// transformer chain, renders and executes the resulting statement, and for
// Inserts records the generated primary key into generatedIDs under the
// operation's own table name so later sibling operations that reference
// this row as their parent can resolve their own ForeignKeyAssignments
// (spec §4.7 step 4).
func (r *Resolver) executeOperation(ctx context.Context, tx *sql.Tx, op *treesync.Operation, uc transform.UserContext, requestID string, generatedIDs map[string]interface{}) (map[string]interface{}, error) {
	data := make(map[string]interface{}, len(op.Data))
	for k, v := range op.Data {
		data[k] = v
	}
	for childColumn, parentTable := range op.ForeignKeyAssignments {
		if id, ok := generatedIDs[parentTable]; ok {
			data[childColumn] = id
		}
	}

	tr := transform.Transform(op.Table, r.Model, mapOperationType(op.Type), data, uc)
	if len(tr.Errors) > 0 {
		return nil, newExecutionError(requestID, op.Type.String(), op.Table.DbName, combineErrors(tr.Errors))
	}

	switch tr.MutationType {
	case transform.Insert:
		return r.executeInsert(ctx, tx, op.Table, tr.Data, generatedIDs, requestID)
	case transform.Update:
		return r.executeUpdate(ctx, tx, op.Table, tr.Data, tr.AdditionalFilter, requestID)
	case transform.Delete:
		return r.executeDelete(ctx, tx, op.Table, tr.Data, tr.AdditionalFilter, requestID)
	default:
		return nil, newExecutionError(requestID, "mutate", op.Table.DbName, fmt.Errorf("unknown mutation type %v", tr.MutationType))
	}
}

func (r *Resolver) executeInsert(ctx context.Context, tx *sql.Tx, table *schema.Table, data map[string]interface{}, generatedIDs map[string]interface{}, requestID string) (map[string]interface{}, error) {
	params := translator.NewParameterCollection()
	stmt, err := translator.BuildInsertSQL(table, data, r.Dialect, params)
	if err != nil {
		return nil, newExecutionError(requestID, "insert", table.DbName, err)
	}
	if _, err := tx.ExecContext(ctx, stmt, params.Values()...); err != nil {
		return nil, newExecutionError(requestID, "insert", table.DbName, err)
	}

	row := make(map[string]interface{}, len(data)+1)
	for k, v := range data {
		row[k] = v
	}

	pks := table.PrimaryKeyColumns()
	if len(pks) == 1 {
		pk := pks[0]
		if _, ok := row[pk.DbName]; !ok {
			id, err := r.lastInsertedIdentity(ctx, tx, requestID)
			if err != nil {
				return nil, err
			}
			row[pk.DbName] = id
		}
		generatedIDs[table.DbName] = row[pk.DbName]
	}
	return row, nil
}

func (r *Resolver) lastInsertedIdentity(ctx context.Context, tx *sql.Tx, requestID string) (interface{}, error) {
	q := fmt.Sprintf("SELECT %s", r.Dialect.LastInsertedIdentity())
	row := tx.QueryRowContext(ctx, q)
	var id interface{}
	if err := row.Scan(&id); err != nil {
		return nil, newExecutionError(requestID, "insert", "", err)
	}
	return normalizeScanned(id), nil
}

func (r *Resolver) executeUpdate(ctx context.Context, tx *sql.Tx, table *schema.Table, data map[string]interface{}, additionalFilter *qcode.Filter, requestID string) (map[string]interface{}, error) {
	filter, err := pkFilter(table, data, additionalFilter)
	if err != nil {
		return nil, newExecutionError(requestID, "update", table.DbName, err)
	}
	params := translator.NewParameterCollection()
	stmt, err := translator.BuildUpdateSQL(table, data, filter, r.Dialect, params)
	if err != nil {
		return nil, newExecutionError(requestID, "update", table.DbName, err)
	}
	if _, err := tx.ExecContext(ctx, stmt, params.Values()...); err != nil {
		return nil, newExecutionError(requestID, "update", table.DbName, err)
	}
	return data, nil
}

func (r *Resolver) executeDelete(ctx context.Context, tx *sql.Tx, table *schema.Table, data map[string]interface{}, additionalFilter *qcode.Filter, requestID string) (map[string]interface{}, error) {
	filter, err := pkFilter(table, data, additionalFilter)
	if err != nil {
		return nil, newExecutionError(requestID, "delete", table.DbName, err)
	}
	params := translator.NewParameterCollection()
	stmt, err := translator.BuildDeleteSQL(table, filter, r.Dialect, params)
	if err != nil {
		return nil, newExecutionError(requestID, "delete", table.DbName, err)
	}
	if _, err := tx.ExecContext(ctx, stmt, params.Values()...); err != nil {
		return nil, newExecutionError(requestID, "delete", table.DbName, err)
	}
	return data, nil
}

// pkFilter builds an equality filter over table's primary key columns from
// data, AND-ed with additionalFilter (a mutation transformer's soft-delete
// or tenant guard, spec §4.5).
func pkFilter(table *schema.Table, data map[string]interface{}, additionalFilter *qcode.Filter) (*qcode.Filter, error) {
	pks := table.PrimaryKeyColumns()
	if len(pks) == 0 {
		return nil, fmt.Errorf("resolver: table %q has no primary key columns to filter by", table.DbName)
	}
	leaves := make([]*qcode.Filter, 0, len(pks))
	for _, pk := range pks {
		val, ok := data[pk.DbName]
		if !ok || val == nil {
			return nil, fmt.Errorf("resolver: missing primary key value for column %q on table %q", pk.DbName, table.DbName)
		}
		leaves = append(leaves, qcode.NewLeaf(table.DbName, pk.DbName, "_eq", val))
	}
	return qcode.And(qcode.And(leaves...), additionalFilter), nil
}

func mapOperationType(t treesync.OperationType) transform.MutationType {
	switch t {
	case treesync.Insert:
		return transform.Insert
	case treesync.Update:
		return transform.Update
	case treesync.Delete:
		return transform.Delete
	default:
		return transform.Insert
	}
}

func combineErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	msg := "multiple transform errors: "
	for i, e := range errs {
		if i > 0 {
			msg += "; "
		}
		msg += e.Error()
	}
	return fmt.Errorf("%s", msg)
}

// fetchExistingTree loads the row identified by input's primary key
// together with every nested child collection input itself names, giving
// treesync.ComputeOperations an existing tree shaped to match submitted
// (spec §4.7 step 1: only links present in the submission are diffed, so
// only those are fetched here).
func (r *Resolver) fetchExistingTree(ctx context.Context, tx *sql.Tx, table *schema.Table, input map[string]interface{}, requestID string) (map[string]interface{}, error) {
	filter, err := pkFilter(table, input, nil)
	if err != nil {
		return nil, newExecutionError(requestID, "update", table.DbName, err)
	}
	row, err := r.fetchOneTx(ctx, tx, table, filter, requestID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	if err := r.fetchChildren(ctx, tx, table, row, input, requestID); err != nil {
		return nil, err
	}
	return row, nil
}

func (r *Resolver) fetchChildren(ctx context.Context, tx *sql.Tx, table *schema.Table, row map[string]interface{}, submitted map[string]interface{}, requestID string) error {
	for linkName, link := range table.MultiLinks {
		submittedChildren, ok := submitted[linkName]
		if !ok {
			continue
		}
		parentVal, ok := row[link.ParentColumn.DbName]
		if !ok || parentVal == nil {
			continue
		}
		childFilter := qcode.NewLeaf(link.ChildTable.DbName, link.ChildColumn.DbName, "_eq", parentVal)
		rows, err := r.fetchManyTx(ctx, tx, link.ChildTable, childFilter, requestID)
		if err != nil {
			return err
		}
		row[linkName] = rows

		submittedList, ok := submittedChildren.([]interface{})
		if !ok {
			continue
		}
		for _, submittedItem := range submittedList {
			submittedChild, ok := submittedItem.(map[string]interface{})
			if !ok {
				continue
			}
			matched := matchByPrimaryKey(link.ChildTable, rows, submittedChild)
			if matched == nil {
				continue
			}
			if err := r.fetchChildren(ctx, tx, link.ChildTable, matched, submittedChild, requestID); err != nil {
				return err
			}
		}
	}
	return nil
}

func matchByPrimaryKey(table *schema.Table, rows []map[string]interface{}, submitted map[string]interface{}) map[string]interface{} {
	pks := table.PrimaryKeyColumns()
	if len(pks) == 0 {
		return nil
	}
	for _, row := range rows {
		match := true
		for _, pk := range pks {
			submittedVal, ok := submitted[pk.DbName]
			if !ok {
				submittedVal, ok = submitted[pk.GraphQLName]
			}
			if !ok || fmt.Sprint(submittedVal) != fmt.Sprint(row[pk.DbName]) {
				match = false
				break
			}
		}
		if match {
			return row
		}
	}
	return nil
}

func (r *Resolver) fetchOneTx(ctx context.Context, tx *sql.Tx, table *schema.Table, filter *qcode.Filter, requestID string) (map[string]interface{}, error) {
	rows, err := r.fetchManyTx(ctx, tx, table, filter, requestID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *Resolver) fetchManyTx(ctx context.Context, tx *sql.Tx, table *schema.Table, filter *qcode.Filter, requestID string) ([]map[string]interface{}, error) {
	q := &qcode.ObjectQuery{
		SchemaName:     table.SchemaName,
		TableName:      table.DbName,
		Classification: qcode.Standard,
		Filter:         filter,
	}
	sqlMap := map[string]string{}
	params := translator.NewParameterCollection()
	if err := translator.AddSqlParameterized(q, r.Model, r.Dialect, sqlMap, params); err != nil {
		return nil, newExecutionError(requestID, "fetch", table.DbName, err)
	}
	rows, err := tx.QueryContext(ctx, sqlMap[q.TableName], params.Values()...)
	if err != nil {
		return nil, newExecutionError(requestID, "fetch", table.DbName, err)
	}
	defer rows.Close()
	return scanRows(rows)
}
