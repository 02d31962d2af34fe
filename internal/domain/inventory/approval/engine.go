// Package approval provides the engine that turns a PENDING stock
// transaction into balance changes. Approval is the only path that
// mutates the stock register.
package approval

import (
	"context"
	"fmt"
	"sort"

	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/apperror"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/entity"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/id"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/tx"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/types"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/inventory/transaction"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/registers/stock"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/pkg/logger"
)

// Engine approves stock transactions atomically: one DB transaction per
// approval, validate-then-apply, no partial effects.
type Engine struct {
	transactions transaction.Repository
	stock        *stock.Service
	txManager    tx.Manager
}

// NewEngine creates a new approval engine.
func NewEngine(transactions transaction.Repository, stockSvc *stock.Service, txManager tx.Manager) *Engine {
	return &Engine{
		transactions: transactions,
		stock:        stockSvc,
		txManager:    txManager,
	}
}

// balanceKey identifies one (warehouse, item) balance row.
type balanceKey struct {
	warehouseID id.ID
	item        entity.ItemRef
}

// sortKey orders balance rows deterministically: warehouse id first, then
// item key. Every approval locks rows in this order, so two approvals
// touching the same pairs can never lock them in opposite order.
func (k balanceKey) sortKey() string {
	return k.warehouseID.String() + "/" + k.item.Key()
}

// Approve moves a PENDING transaction to APPROVED and applies its deltas
// to the stock register, all inside one retryable DB transaction:
//
//  1. Lock the header FOR UPDATE; require status PENDING.
//  2. Build the delta plan: debits from the source warehouse, credits to
//     the destination, aggregated per (warehouse, item) pair.
//  3. Lock all touched balance rows in deterministic order.
//  4. Validate every net debit against the locked balances; the first
//     shortfall aborts the whole approval.
//  5. Apply all deltas (debits first), append journal rows, stamp the
//     header APPROVED.
//
// Serialization failures, deadlocks and lock timeouts retry the whole
// transaction a bounded number of times; exhaustion surfaces as TRANSIENT.
func (e *Engine) Approve(ctx context.Context, txID id.ID, approverID string) (*transaction.StockTransaction, error) {
	var approved *transaction.StockTransaction

	err := e.txManager.RunInRetryableTransaction(ctx, func(ctx context.Context) error {
		doc, err := e.transactions.GetByIDForUpdate(ctx, txID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("stock transaction", txID.String())
			}
			return err
		}

		// The header lock serializes concurrent approvals of the same
		// document: the loser of the race sees a non-PENDING status here.
		if doc.Status != transaction.StatusPending {
			return apperror.NewInvalidState(
				"stock transaction", doc.ID.String(),
				string(doc.Status), string(transaction.StatusApproved),
			)
		}

		movements, err := doc.GenerateMovements()
		if err != nil {
			return err
		}

		deltas, keys, err := aggregateDeltas(movements)
		if err != nil {
			return err
		}

		// Lock every touched balance row, deterministic order.
		balances := make(map[string]entity.StockBalance, len(keys))
		for _, k := range keys {
			bal, err := e.stock.LockBalance(ctx, k.warehouseID, k.item)
			if err != nil {
				return fmt.Errorf("lock balance %s: %w", k.sortKey(), err)
			}
			balances[k.sortKey()] = bal
		}

		// Validate all net debits before applying anything.
		for _, k := range keys {
			delta := deltas[k.sortKey()]
			if delta.IsNegative() {
				available := balances[k.sortKey()].Quantity
				if available+delta < 0 {
					return apperror.NewInsufficientStock(
						k.warehouseID.String(),
						k.item.String(),
						delta.Neg().Float64(),
						available.Float64(),
					)
				}
			}
		}

		// Apply debits first, then credits.
		for pass := 0; pass < 2; pass++ {
			for _, k := range keys {
				delta := deltas[k.sortKey()]
				if (pass == 0) != delta.IsNegative() {
					continue
				}
				if err := e.stock.ApplyDelta(ctx, k.warehouseID, k.item, delta); err != nil {
					return fmt.Errorf("apply delta %s: %w", k.sortKey(), err)
				}
			}
		}

		if err := e.stock.RecordMovements(ctx, movements); err != nil {
			return err
		}

		if err := doc.Approve(approverID); err != nil {
			return err
		}
		if err := e.transactions.UpdateStatus(ctx, doc); err != nil {
			return fmt.Errorf("update status: %w", err)
		}

		approved = doc
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock transaction approved",
		"transaction_id", approved.ID,
		"code", approved.Code,
		"type", approved.Type,
		"approved_by", approverID,
	)

	return approved, nil
}

// aggregateDeltas folds journal rows into one net delta per
// (warehouse, item) pair and returns the pairs sorted for locking.
// A transaction listing the same item on several lines debits the pair
// once, by the summed quantity.
func aggregateDeltas(movements []entity.StockMovement) (map[string]types.Quantity, []balanceKey, error) {
	deltas := make(map[string]types.Quantity)
	keysByID := make(map[string]balanceKey)

	for i := range movements {
		m := &movements[i]
		item, err := m.Item()
		if err != nil {
			return nil, nil, err
		}

		k := balanceKey{warehouseID: m.WarehouseID, item: item}
		deltas[k.sortKey()] += m.SignedQuantity()
		keysByID[k.sortKey()] = k
	}

	keys := make([]balanceKey, 0, len(keysByID))
	for _, k := range keysByID {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].sortKey() < keys[j].sortKey()
	})

	return deltas, keys, nil
}
