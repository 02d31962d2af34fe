// Package register_repo provides PostgreSQL implementations for register
// repositories. Items in the stock register are the nullable
// (product_id, material_id) column pair; the unique balance index is
// declared NULLS NOT DISTINCT so one row exists per (warehouse, item).
package register_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/apperror"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/entity"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/id"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/types"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/registers/stock"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/infrastructure/storage/postgres"
)

const (
	stockMovementsTable = "reg_stock_movements"
	stockBalancesTable  = "reg_stock_balances"
)

var movementColumns = []string{
	"line_id", "recorder_id", "recorder_type",
	"period", "record_type",
	"warehouse_id", "product_id", "material_id", "quantity", "created_at",
}

var balanceColumns = []string{
	"warehouse_id", "product_id", "material_id",
	"quantity", "last_movement_at", "updated_at",
}

// Ensure interface compliance.
var _ stock.Repository = (*StockRepo)(nil)

// StockRepo implements stock.Repository.
type StockRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewStockRepo creates a new stock register repository.
func NewStockRepo(txManager *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// itemEq builds equality conditions for the item column pair.
// A nil side must match IS NULL, so pointers are dereferenced here.
func itemEq(item entity.ItemRef) squirrel.Eq {
	eq := squirrel.Eq{"product_id": nil, "material_id": nil}
	productID, materialID := item.Columns()
	if productID != nil {
		eq["product_id"] = *productID
	}
	if materialID != nil {
		eq["material_id"] = *materialID
	}
	return eq
}

// CreateMovements batch inserts journal rows.
func (r *StockRepo) CreateMovements(ctx context.Context, movements []entity.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}

	// Fast path: COPY when inside a transaction.
	if tx := r.txManager.GetTx(ctx); tx != nil {
		inserter := postgres.NewBatchInserter(r.txManager)
		rows := make([][]any, 0, len(movements))
		for _, m := range movements {
			rows = append(rows, []any{
				m.LineID, m.RecorderID, m.RecorderType,
				m.Period, m.RecordType,
				m.WarehouseID, m.ProductID, m.MaterialID, m.Quantity, m.CreatedAt,
			})
		}
		if _, err := inserter.CopyFromSlice(ctx, stockMovementsTable, movementColumns, rows); err != nil {
			return fmt.Errorf("copy movements: %w", err)
		}
		return nil
	}

	// Fallback: non-transactional insert (slower). Prefer calling CreateMovements within tx.
	q := r.builder.Insert(stockMovementsTable).Columns(movementColumns...)
	for _, m := range movements {
		q = q.Values(
			m.LineID, m.RecorderID, m.RecorderType,
			m.Period, m.RecordType,
			m.WarehouseID, m.ProductID, m.MaterialID, m.Quantity, m.CreatedAt,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movements: %w", err)
	}

	return nil
}

// GetMovementsByRecorder retrieves all movements for a transaction.
func (r *StockRepo) GetMovementsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.StockMovement, error) {
	q := r.builder.Select(movementColumns...).
		From(stockMovementsTable).
		Where(squirrel.Eq{"recorder_id": recorderID}).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []entity.StockMovement
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}

	return movements, nil
}

// GetMovementHistory returns filtered movement history.
func (r *StockRepo) GetMovementHistory(ctx context.Context, filter stock.MovementFilter) ([]entity.StockMovement, error) {
	q := r.builder.Select(movementColumns...).
		From(stockMovementsTable)

	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"warehouse_id": *filter.WarehouseID})
	}
	if filter.Item != nil {
		q = q.Where(itemEq(*filter.Item))
	}
	if filter.RecordType != nil {
		q = q.Where(squirrel.Eq{"record_type": *filter.RecordType})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"period": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"period": *filter.ToDate})
	}

	q = q.OrderBy("period DESC", "created_at DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []entity.StockMovement
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}

	return movements, nil
}

// GetBalance returns current balance for warehouse+item.
// Absent rows come back as a zero balance, not an error.
func (r *StockRepo) GetBalance(ctx context.Context, warehouseID id.ID, item entity.ItemRef) (entity.StockBalance, error) {
	var balance entity.StockBalance

	q := r.builder.Select(balanceColumns...).
		From(stockBalancesTable).
		Where(squirrel.Eq{"warehouse_id": warehouseID}).
		Where(itemEq(item)).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return balance, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &balance, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity.NewZeroBalance(warehouseID, item), nil
		}
		return balance, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}

// GetBalanceForUpdate returns balance with a pessimistic row lock.
// Must run inside a transaction. Absent rows come back as a zero balance;
// ApplyDelta creates the row on first use.
func (r *StockRepo) GetBalanceForUpdate(ctx context.Context, warehouseID id.ID, item entity.ItemRef) (entity.StockBalance, error) {
	var balance entity.StockBalance
	productID, materialID := item.Columns()

	sql := `
		SELECT warehouse_id, product_id, material_id, quantity, last_movement_at, updated_at
		FROM reg_stock_balances
		WHERE warehouse_id = $1
		  AND product_id IS NOT DISTINCT FROM $2
		  AND material_id IS NOT DISTINCT FROM $3
		FOR UPDATE
	`

	err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &balance, sql, warehouseID, productID, materialID)
	if err != nil {
		if pgxscan.NotFound(err) {
			return entity.NewZeroBalance(warehouseID, item), nil
		}
		return balance, fmt.Errorf("get balance for update: %w", err)
	}

	return balance, nil
}

// ApplyDelta upserts quantity = quantity + delta for the pair.
// The row must already be locked in the same transaction. The balance
// table carries a quantity >= 0 check; a violation here means the caller
// skipped validation, surfaced as insufficient stock.
func (r *StockRepo) ApplyDelta(ctx context.Context, warehouseID id.ID, item entity.ItemRef, delta types.Quantity) error {
	if delta.IsZero() {
		return nil
	}

	productID, materialID := item.Columns()

	sql := `
		INSERT INTO reg_stock_balances
			(warehouse_id, product_id, material_id, quantity, last_movement_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (warehouse_id, product_id, material_id)
		DO UPDATE SET
			quantity = reg_stock_balances.quantity + EXCLUDED.quantity,
			last_movement_at = NOW(),
			updated_at = NOW()
	`

	_, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, warehouseID, productID, materialID, delta)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23514" { // check_violation
			return apperror.NewInsufficientStock(
				warehouseID.String(), item.String(),
				delta.Neg().Float64(), 0,
			)
		}
		return fmt.Errorf("apply delta: %w", err)
	}

	return nil
}

// GetBalancesByWarehouse returns balances for a warehouse.
func (r *StockRepo) GetBalancesByWarehouse(ctx context.Context, warehouseID id.ID, filter stock.BalanceFilter) ([]entity.StockBalance, error) {
	q := r.builder.Select(balanceColumns...).
		From(stockBalancesTable).
		Where(squirrel.Eq{"warehouse_id": warehouseID})

	if filter.ExcludeZero {
		q = q.Where(squirrel.NotEq{"quantity": int64(0)})
	}

	if filter.Kind != nil {
		switch *filter.Kind {
		case entity.ItemKindProduct:
			q = q.Where(squirrel.NotEq{"product_id": nil})
		case entity.ItemKindMaterial:
			q = q.Where(squirrel.NotEq{"material_id": nil})
		}
	}

	q = q.OrderBy("product_id", "material_id")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var balances []entity.StockBalance
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &balances, sql, args...); err != nil {
		return nil, fmt.Errorf("select balances: %w", err)
	}

	return balances, nil
}

// GetBalancesByItem returns balances across all warehouses for an item.
func (r *StockRepo) GetBalancesByItem(ctx context.Context, item entity.ItemRef) ([]entity.StockBalance, error) {
	q := r.builder.Select(balanceColumns...).
		From(stockBalancesTable).
		Where(itemEq(item)).
		Where(squirrel.NotEq{"quantity": int64(0)}).
		OrderBy("warehouse_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var balances []entity.StockBalance
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &balances, sql, args...); err != nil {
		return nil, fmt.Errorf("select balances: %w", err)
	}

	return balances, nil
}
