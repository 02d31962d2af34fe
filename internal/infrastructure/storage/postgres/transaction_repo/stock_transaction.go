// Package transaction_repo provides the PostgreSQL implementation of the
// stock transaction repository: a header table with a detail line table,
// always loaded and stored together.
package transaction_repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/apperror"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/id"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/inventory/transaction"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/infrastructure/storage/postgres"
)

const (
	headerTable = "doc_stock_transactions"
	lineTable   = "doc_stock_transaction_lines"
)

// Compile-time check.
var _ transaction.Repository = (*StockTransactionRepo)(nil)

// StockTransactionRepo implements transaction.Repository.
type StockTransactionRepo struct {
	txManager  *postgres.TxManager
	headerCols []string
	lineCols   []string
}

// NewStockTransactionRepo creates a new stock transaction repository.
func NewStockTransactionRepo(txManager *postgres.TxManager) *StockTransactionRepo {
	return &StockTransactionRepo{
		txManager:  txManager,
		headerCols: postgres.ExtractDBColumns[transaction.StockTransaction](),
		lineCols:   postgres.ExtractDBColumns[transaction.Line](),
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *StockTransactionRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts the header and all lines.
func (r *StockTransactionRepo) Create(ctx context.Context, tx *transaction.StockTransaction) error {
	data := postgres.StructToMap(tx)

	filteredData := make(map[string]any, len(r.headerCols))
	for _, col := range r.headerCols {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.Builder().
		Insert(headerTable).
		SetMap(filteredData)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewDuplicateCode(tx.Code)
		}
		return fmt.Errorf("insert %s: %w", headerTable, err)
	}

	return r.insertLines(ctx, tx)
}

// insertLines inserts all lines for the header in one multi-row statement.
func (r *StockTransactionRepo) insertLines(ctx context.Context, tx *transaction.StockTransaction) error {
	if len(tx.Lines) == 0 {
		return nil
	}

	cols := append([]string{"transaction_id"}, r.lineCols...)
	q := r.Builder().Insert(lineTable).Columns(cols...)

	for i := range tx.Lines {
		lineData := postgres.StructToMap(&tx.Lines[i])
		vals := make([]any, 0, len(cols))
		vals = append(vals, tx.ID)
		for _, col := range r.lineCols {
			vals = append(vals, lineData[col])
		}
		q = q.Values(vals...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", lineTable, err)
	}

	return nil
}

// baseSelect creates a SELECT builder for headers.
func (r *StockTransactionRepo) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.headerCols...).
		From(headerTable)
}

// getOne fetches a single header matching the query and loads its lines.
func (r *StockTransactionRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, notFoundKey string) (*transaction.StockTransaction, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	tx := &transaction.StockTransaction{}
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, tx, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(headerTable, notFoundKey)
		}
		return nil, fmt.Errorf("get stock transaction: %w", err)
	}

	if err := r.loadLines(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// getByIDQuery selects a live (not soft-deleted) header by id. Marked
// documents must stay invisible to readers and to the approval path.
func (r *StockTransactionRepo) getByIDQuery(txID id.ID) squirrel.SelectBuilder {
	return r.baseSelect().
		Where(squirrel.Eq{"id": txID}).
		Where(squirrel.Eq{"deletion_mark": false})
}

// GetByID retrieves a transaction with lines.
func (r *StockTransactionRepo) GetByID(ctx context.Context, txID id.ID) (*transaction.StockTransaction, error) {
	return r.getOne(ctx, r.getByIDQuery(txID), txID.String())
}

// GetByIDForUpdate retrieves a transaction with a FOR UPDATE lock on the
// header row. Must run inside a DB transaction.
func (r *StockTransactionRepo) GetByIDForUpdate(ctx context.Context, txID id.ID) (*transaction.StockTransaction, error) {
	q := r.getByIDQuery(txID).Suffix("FOR UPDATE")
	return r.getOne(ctx, q, txID.String())
}

// GetByCode retrieves a transaction by its document code.
func (r *StockTransactionRepo) GetByCode(ctx context.Context, code string) (*transaction.StockTransaction, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"code": code}).
		Where(squirrel.Eq{"deletion_mark": false})
	return r.getOne(ctx, q, code)
}

// loadLines loads all lines for a header, ordered by line number.
func (r *StockTransactionRepo) loadLines(ctx context.Context, tx *transaction.StockTransaction) error {
	q := r.Builder().
		Select(r.lineCols...).
		From(lineTable).
		Where(squirrel.Eq{"transaction_id": tx.ID}).
		OrderBy("line_no ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build lines query: %w", err)
	}

	tx.Lines = tx.Lines[:0]
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &tx.Lines, sql, args...); err != nil {
		return fmt.Errorf("load lines: %w", err)
	}

	return nil
}

// Update rewrites the header and replaces all lines. Guarded by optimistic
// locking (version) and by status = PENDING: an approved document is
// immutable, so a concurrent approval makes the update fail.
func (r *StockTransactionRepo) Update(ctx context.Context, tx *transaction.StockTransaction) error {
	data := postgres.StructToMap(tx)

	// Exclude immutable fields
	filteredData := make(map[string]any, len(r.headerCols))
	for _, col := range r.headerCols {
		if col == "id" || col == "created_at" || col == "created_by" {
			continue
		}
		if col == "version" || col == "updated_at" {
			continue // managed by repo
		}
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.Builder().
		Update(headerTable).
		SetMap(filteredData).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": tx.ID}).
		Where(squirrel.Eq{"version": tx.Version}).
		Where(squirrel.Eq{"status": transaction.StatusPending})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", headerTable, err)
	}

	if result.RowsAffected() == 0 {
		// Distinguish a lost version race from an already-processed document.
		current, getErr := r.GetByID(ctx, tx.ID)
		if getErr != nil {
			return getErr
		}
		if current.Status != transaction.StatusPending {
			return apperror.NewInvalidState(
				"stock transaction", tx.ID.String(),
				string(current.Status), string(transaction.StatusPending),
			)
		}
		return apperror.NewConcurrentModification(headerTable, tx.ID)
	}

	// Full line replacement
	if err := r.deleteLines(ctx, tx.ID); err != nil {
		return err
	}
	return r.insertLines(ctx, tx)
}

func (r *StockTransactionRepo) deleteLines(ctx context.Context, txID id.ID) error {
	q := r.Builder().
		Delete(lineTable).
		Where(squirrel.Eq{"transaction_id": txID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete lines: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete lines: %w", err)
	}

	return nil
}

// UpdateStatus persists a status transition with its audit stamps.
// Lines are left untouched.
func (r *StockTransactionRepo) UpdateStatus(ctx context.Context, tx *transaction.StockTransaction) error {
	q := r.Builder().
		Update(headerTable).
		Set("status", tx.Status).
		Set("approved_by", tx.ApprovedBy).
		Set("approved_at", tx.ApprovedAt).
		Set("completed_by", tx.CompletedBy).
		Set("completed_at", tx.CompletedAt).
		Set("cancelled_by", tx.CancelledBy).
		Set("cancelled_at", tx.CancelledAt).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": tx.ID}).
		Where(squirrel.Eq{"version": tx.Version - 1}) // model already touched

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update status: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(headerTable, tx.ID)
	}

	return nil
}

// List retrieves transactions matching the filter. Lines are loaded for
// every returned header.
func (r *StockTransactionRepo) List(ctx context.Context, filter transaction.Filter) (domain.ListResult[*transaction.StockTransaction], error) {
	result := domain.ListResult[*transaction.StockTransaction]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}
	if len(filter.Types) > 0 {
		q = q.Where(squirrel.Eq{"type": filter.Types})
	}
	if len(filter.Statuses) > 0 {
		q = q.Where(squirrel.Eq{"status": filter.Statuses})
	}
	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Or{
			squirrel.Eq{"from_warehouse_id": *filter.WarehouseID},
			squirrel.Eq{"to_warehouse_id": *filter.WarehouseID},
		})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.ToDate})
	}
	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"code": "%" + filter.Search + "%"})
	}

	// Count
	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	// Order
	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	// Page
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list: %w", err)
	}

	for _, tx := range result.Items {
		if err := r.loadLines(ctx, tx); err != nil {
			return result, err
		}
	}

	return result, nil
}

func (r *StockTransactionRepo) parseOrderBy(orderBy string) (string, error) {
	allowed := make(map[string]struct{}, len(r.headerCols))
	for _, col := range r.headerCols {
		allowed[col] = struct{}{}
	}

	if strings.TrimSpace(orderBy) == "" {
		return "date DESC", nil
	}

	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	} else if strings.HasPrefix(orderBy, "+") {
		field = strings.TrimPrefix(orderBy, "+")
	}

	field = strings.TrimSpace(field)
	if field == "" {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy)
	}

	if _, ok := allowed[field]; !ok {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy).WithDetail("field", field)
	}

	return field + " " + direction, nil
}
