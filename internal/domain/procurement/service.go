// Package procurement handles the receiving side of purchasing: a
// delivery against a purchase order becomes a pending import transaction
// that warehouse staff approve separately.
package procurement

import (
	"context"

	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/apperror"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/entity"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/id"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/types"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/inventory/transaction"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/pkg/logger"
)

// RefTypePurchaseOrder marks transactions originating from purchasing.
const RefTypePurchaseOrder = "purchase_order"

// ReceiptLine is one delivered item.
type ReceiptLine struct {
	Item      entity.ItemRef
	Quantity  types.Quantity
	UnitPrice types.Money
	Note      string
}

// Receipt describes a delivery to be booked in.
type Receipt struct {
	PurchaseOrderID id.ID
	WarehouseID     id.ID
	Note            string
	Lines           []ReceiptLine
}

// Service books purchase deliveries into the inventory ledger.
type Service struct {
	transactions *transaction.Service
}

// NewService creates a new procurement service.
func NewService(transactions *transaction.Service) *Service {
	return &Service{transactions: transactions}
}

// ReceiveDelivery records a delivery as a PENDING import transaction
// linked to its purchase order. Balances change only when warehouse staff
// approve the transaction.
func (s *Service) ReceiveDelivery(ctx context.Context, receipt Receipt) (*transaction.StockTransaction, error) {
	if id.IsNil(receipt.PurchaseOrderID) {
		return nil, apperror.NewValidation("purchase order is required").
			WithDetail("field", "purchaseOrderId")
	}
	if id.IsNil(receipt.WarehouseID) {
		return nil, apperror.NewValidation("warehouse is required").
			WithDetail("field", "warehouseId")
	}
	if len(receipt.Lines) == 0 {
		return nil, apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	t := transaction.NewStockTransaction(transaction.TypeImport)
	warehouseID := receipt.WarehouseID
	orderID := receipt.PurchaseOrderID
	t.ToWarehouseID = &warehouseID
	t.RefType = RefTypePurchaseOrder
	t.RefID = &orderID
	t.Comment = receipt.Note

	for _, line := range receipt.Lines {
		t.AddLine(line.Item, line.Quantity, line.UnitPrice, line.Note)
	}

	if err := s.transactions.Create(ctx, t); err != nil {
		return nil, err
	}

	logger.Info(ctx, "purchase delivery received",
		"transaction_id", t.ID,
		"code", t.Code,
		"purchase_order_id", receipt.PurchaseOrderID,
	)

	return t, nil
}
