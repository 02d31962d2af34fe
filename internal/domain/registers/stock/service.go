// Package stock provides the stock balance register service.
package stock

import (
	"context"
	"fmt"

	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/apperror"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/entity"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/id"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/types"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/pkg/logger"
)

// Service provides business operations for the stock register.
// Transactions are managed by the caller (the approval engine runs balance
// mutations inside a single DB transaction).
type Service struct {
	repo Repository
}

// NewService creates a new stock register service.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// RecordMovements appends journal rows for an approved transaction.
// Called during approval within a transaction.
func (s *Service) RecordMovements(ctx context.Context, movements []entity.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}

	for i, m := range movements {
		if !m.Quantity.IsPositive() {
			return apperror.NewValidation(fmt.Sprintf("movement %d: quantity must be positive", i))
		}
		if id.IsNil(m.RecorderID) {
			return apperror.NewValidation(fmt.Sprintf("movement %d: recorder_id is required", i))
		}
		if _, err := m.Item(); err != nil {
			return apperror.NewValidation(fmt.Sprintf("movement %d: invalid item reference", i))
		}
	}

	if err := s.repo.CreateMovements(ctx, movements); err != nil {
		return fmt.Errorf("create movements: %w", err)
	}

	logger.Info(ctx, "recorded stock movements",
		"count", len(movements),
		"recorder_id", movements[0].RecorderID,
	)

	return nil
}

// GetQuantity returns the on-hand quantity for a (warehouse, item) pair.
// A pair that was never stocked reads as zero.
func (s *Service) GetQuantity(ctx context.Context, warehouseID id.ID, item entity.ItemRef) (types.Quantity, error) {
	balance, err := s.repo.GetBalance(ctx, warehouseID, item)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return balance.Quantity, nil
}

// LockBalance takes a row lock on the (warehouse, item) balance and returns
// the locked quantity. Must run inside a transaction.
func (s *Service) LockBalance(ctx context.Context, warehouseID id.ID, item entity.ItemRef) (entity.StockBalance, error) {
	return s.repo.GetBalanceForUpdate(ctx, warehouseID, item)
}

// ApplyDelta mutates a locked balance by delta (positive credit, negative debit).
func (s *Service) ApplyDelta(ctx context.Context, warehouseID id.ID, item entity.ItemRef, delta types.Quantity) error {
	if delta.IsZero() {
		return nil
	}
	return s.repo.ApplyDelta(ctx, warehouseID, item, delta)
}

// GetItemAvailability returns available quantity across warehouses.
func (s *Service) GetItemAvailability(ctx context.Context, item entity.ItemRef) (types.Quantity, error) {
	balances, err := s.repo.GetBalancesByItem(ctx, item)
	if err != nil {
		return 0, fmt.Errorf("get balances: %w", err)
	}

	var total types.Quantity
	for _, b := range balances {
		total += b.Quantity
	}

	return total, nil
}

// GetWarehouseStock returns all items with stock in a warehouse.
func (s *Service) GetWarehouseStock(ctx context.Context, warehouseID id.ID, filter BalanceFilter) ([]entity.StockBalance, error) {
	return s.repo.GetBalancesByWarehouse(ctx, warehouseID, filter)
}

// GetMovementHistory returns filtered journal rows.
func (s *Service) GetMovementHistory(ctx context.Context, filter MovementFilter) ([]entity.StockMovement, error) {
	return s.repo.GetMovementHistory(ctx, filter)
}

// GetMovementsByRecorder returns the journal rows one transaction produced.
func (s *Service) GetMovementsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.StockMovement, error) {
	return s.repo.GetMovementsByRecorder(ctx, recorderID)
}
