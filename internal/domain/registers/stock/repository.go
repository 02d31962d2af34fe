// Package stock provides the stock balance register.
package stock

import (
	"context"
	"time"

	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/entity"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/id"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/types"
)

// Repository defines operations for the stock register.
// One balance row per (warehouse, item) pair; the movement journal is
// append-only and records every delta applied to a balance.
type Repository interface {
	// Movement journal

	// CreateMovements batch inserts journal rows (used during approval)
	CreateMovements(ctx context.Context, movements []entity.StockMovement) error

	// GetMovementsByRecorder retrieves all movements for a transaction
	GetMovementsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.StockMovement, error)

	// GetMovementHistory returns filtered movement history
	GetMovementHistory(ctx context.Context, filter MovementFilter) ([]entity.StockMovement, error)

	// Balance operations

	// GetBalance returns current balance for warehouse+item.
	// Absent rows come back as a zero balance, not an error.
	GetBalance(ctx context.Context, warehouseID id.ID, item entity.ItemRef) (entity.StockBalance, error)

	// GetBalanceForUpdate returns balance with a SELECT ... FOR UPDATE row
	// lock. Must run inside a transaction; callers locking several pairs
	// must lock in (warehouse id, item key) order.
	GetBalanceForUpdate(ctx context.Context, warehouseID id.ID, item entity.ItemRef) (entity.StockBalance, error)

	// ApplyDelta upserts quantity = quantity + delta for the pair.
	// The row must already be locked in the same transaction.
	ApplyDelta(ctx context.Context, warehouseID id.ID, item entity.ItemRef, delta types.Quantity) error

	// GetBalancesByWarehouse returns balances for a warehouse
	GetBalancesByWarehouse(ctx context.Context, warehouseID id.ID, filter BalanceFilter) ([]entity.StockBalance, error)

	// GetBalancesByItem returns balances across all warehouses for an item
	GetBalancesByItem(ctx context.Context, item entity.ItemRef) ([]entity.StockBalance, error)
}

// BalanceFilter for filtering balance queries.
type BalanceFilter struct {
	Kind        *entity.ItemKind
	ExcludeZero bool
	Limit       int
	Offset      int
}

// MovementFilter for filtering movement history.
type MovementFilter struct {
	WarehouseID *id.ID
	Item        *entity.ItemRef
	RecordType  *entity.RecordType
	FromDate    *time.Time
	ToDate      *time.Time
	Limit       int
	Offset      int
}
