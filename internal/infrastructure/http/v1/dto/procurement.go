package dto

import (
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/apperror"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/id"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/procurement"
)

// ReceiveDeliveryRequest books a purchase delivery into the ledger.
type ReceiveDeliveryRequest struct {
	PurchaseOrderID string                   `json:"purchaseOrderId" binding:"required"`
	WarehouseID     string                   `json:"warehouseId" binding:"required"`
	Note            string                   `json:"note"`
	Lines           []TransactionLineRequest `json:"lines" binding:"required"`
}

// ToReceipt converts DTO to the procurement receipt.
func (r *ReceiveDeliveryRequest) ToReceipt() (procurement.Receipt, error) {
	orderID, err := id.Parse(r.PurchaseOrderID)
	if err != nil {
		return procurement.Receipt{}, apperror.NewValidation("invalid purchase order id")
	}
	warehouseID, err := id.Parse(r.WarehouseID)
	if err != nil {
		return procurement.Receipt{}, apperror.NewValidation("invalid warehouse id")
	}

	receipt := procurement.Receipt{
		PurchaseOrderID: orderID,
		WarehouseID:     warehouseID,
		Note:            r.Note,
		Lines:           make([]procurement.ReceiptLine, 0, len(r.Lines)),
	}

	for i, line := range r.Lines {
		item, err := line.item(i + 1)
		if err != nil {
			return procurement.Receipt{}, err
		}
		receipt.Lines = append(receipt.Lines, procurement.ReceiptLine{
			Item:      item,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Note:      line.Note,
		})
	}

	return receipt, nil
}
