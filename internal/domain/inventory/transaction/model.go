// Package transaction provides the stock transaction document: a header
// with detail lines that moves items between warehouses once approved.
package transaction

import (
	"context"
	"time"

	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/apperror"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/entity"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/id"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/types"
)

// Type defines the direction of a stock transaction.
type Type string

const (
	// TypeImport brings items into the destination warehouse
	TypeImport Type = "IMPORT"
	// TypeExport takes items out of the source warehouse
	TypeExport Type = "EXPORT"
	// TypeTransfer moves items from source to destination warehouse
	TypeTransfer Type = "TRANSFER"
)

// Status represents the lifecycle state of a stock transaction.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Code prefixes per transaction type (phiếu nhập kho, phiếu xuất kho,
// phiếu chuyển kho).
const (
	PrefixImport   = "PNK"
	PrefixExport   = "PXK"
	PrefixTransfer = "PCK"
)

// CodePrefix returns the document code prefix for a transaction type.
func CodePrefix(t Type) string {
	switch t {
	case TypeImport:
		return PrefixImport
	case TypeExport:
		return PrefixExport
	case TypeTransfer:
		return PrefixTransfer
	}
	return "STK"
}

// StockTransaction represents a stock transaction document.
// Balances change only when the approval engine approves it.
type StockTransaction struct {
	entity.Document

	// Type defines the movement direction
	Type Type `db:"type" json:"type"`

	// Status is the lifecycle state
	Status Status `db:"status" json:"status"`

	// FromWarehouseID is the debit side (EXPORT, TRANSFER)
	FromWarehouseID *id.ID `db:"from_warehouse_id" json:"fromWarehouseId,omitempty"`

	// ToWarehouseID is the credit side (IMPORT, TRANSFER)
	ToWarehouseID *id.ID `db:"to_warehouse_id" json:"toWarehouseId,omitempty"`

	// Originating order linkage (purchase order, production order)
	RefType string `db:"ref_type" json:"refType,omitempty"`
	RefID   *id.ID `db:"ref_id" json:"refId,omitempty"`

	// Approval / completion audit stamps
	ApprovedBy  *string    `db:"approved_by" json:"approvedBy,omitempty"`
	ApprovedAt  *time.Time `db:"approved_at" json:"approvedAt,omitempty"`
	CompletedBy *string    `db:"completed_by" json:"completedBy,omitempty"`
	CompletedAt *time.Time `db:"completed_at" json:"completedAt,omitempty"`
	CancelledBy *string    `db:"cancelled_by" json:"cancelledBy,omitempty"`
	CancelledAt *time.Time `db:"cancelled_at" json:"cancelledAt,omitempty"`

	// Totals (calculated from lines)
	TotalQuantity types.Quantity `db:"total_quantity" json:"totalQuantity"`
	TotalAmount   types.Money    `db:"total_amount" json:"totalAmount"`

	// Table part: transaction lines
	Lines []Line `db:"-" json:"lines"`
}

// Line represents a detail line of a stock transaction.
type Line struct {
	// Line identification
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	// Item reference: nullable column pair, exactly one set
	ProductID  *id.ID `db:"product_id" json:"productId,omitempty"`
	MaterialID *id.ID `db:"material_id" json:"materialId,omitempty"`

	// Quantity and pricing
	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	UnitPrice types.Money    `db:"unit_price" json:"unitPrice"`
	Amount    types.Money    `db:"amount" json:"amount"`

	// Note is an optional line comment
	Note string `db:"note" json:"note,omitempty"`
}

// Item rebuilds the item reference from the column pair.
func (l *Line) Item() (entity.ItemRef, error) {
	return entity.ItemRefFromColumns(l.ProductID, l.MaterialID)
}

// NewStockTransaction creates a new stock transaction in PENDING status.
func NewStockTransaction(txType Type) *StockTransaction {
	return &StockTransaction{
		Document: entity.NewDocument(),
		Type:     txType,
		Status:   StatusPending,
		Lines:    make([]Line, 0),
	}
}

// AddLine adds a detail line and recalculates totals.
// Amount = quantity x unit price.
func (t *StockTransaction) AddLine(item entity.ItemRef, quantity types.Quantity, unitPrice types.Money, note string) {
	productID, materialID := item.Columns()
	line := Line{
		LineID:     id.New(),
		LineNo:     len(t.Lines) + 1,
		ProductID:  productID,
		MaterialID: materialID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		Amount:     quantity.Money().Mul(unitPrice),
		Note:       note,
	}

	t.Lines = append(t.Lines, line)
	t.recalculateTotals()
}

// ClearLines removes all lines (full line replacement starts here).
func (t *StockTransaction) ClearLines() {
	t.Lines = t.Lines[:0]
	t.recalculateTotals()
}

// recalculateTotals updates document totals from lines.
func (t *StockTransaction) recalculateTotals() {
	t.TotalQuantity = 0
	t.TotalAmount = types.Zero()

	for _, line := range t.Lines {
		t.TotalQuantity += line.Quantity
		t.TotalAmount = t.TotalAmount.Add(line.Amount)
	}
}

// Validate implements entity.Validatable.
func (t *StockTransaction) Validate(ctx context.Context) error {
	if err := t.Document.Validate(ctx); err != nil {
		return err
	}

	switch t.Type {
	case TypeImport:
		if t.ToWarehouseID == nil || id.IsNil(*t.ToWarehouseID) {
			return apperror.NewValidation("destination warehouse is required for import").
				WithDetail("field", "toWarehouseId")
		}
		if t.FromWarehouseID != nil {
			return apperror.NewValidation("source warehouse must be empty for import").
				WithDetail("field", "fromWarehouseId")
		}
	case TypeExport:
		if t.FromWarehouseID == nil || id.IsNil(*t.FromWarehouseID) {
			return apperror.NewValidation("source warehouse is required for export").
				WithDetail("field", "fromWarehouseId")
		}
		if t.ToWarehouseID != nil {
			return apperror.NewValidation("destination warehouse must be empty for export").
				WithDetail("field", "toWarehouseId")
		}
	case TypeTransfer:
		if t.FromWarehouseID == nil || id.IsNil(*t.FromWarehouseID) {
			return apperror.NewValidation("source warehouse is required for transfer").
				WithDetail("field", "fromWarehouseId")
		}
		if t.ToWarehouseID == nil || id.IsNil(*t.ToWarehouseID) {
			return apperror.NewValidation("destination warehouse is required for transfer").
				WithDetail("field", "toWarehouseId")
		}
		if *t.FromWarehouseID == *t.ToWarehouseID {
			return apperror.NewValidation("source and destination warehouses must differ").
				WithDetail("field", "toWarehouseId")
		}
	default:
		return apperror.NewValidation("invalid transaction type").
			WithDetail("field", "type").
			WithDetail("value", string(t.Type))
	}

	if len(t.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range t.Lines {
		item, err := line.Item()
		if err != nil {
			return apperror.NewValidation("line item reference is invalid").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if err := item.Validate(); err != nil {
			return apperror.NewValidation("line item reference is invalid").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.UnitPrice.IsNegative() {
			return apperror.NewValidation("unit price cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// CanModify checks if the transaction can still be edited.
// Only PENDING transactions accept changes.
func (t *StockTransaction) CanModify() error {
	if t.Status != StatusPending {
		return apperror.NewBusinessRule(
			apperror.CodeInvalidState,
			"Only pending transactions can be modified",
		).WithDetail("transaction_id", t.ID.String()).
			WithDetail("status", string(t.Status))
	}
	return nil
}

// --- State transitions ---
// create -> PENDING; PENDING -> APPROVED (engine only);
// APPROVED -> COMPLETED; PENDING -> CANCELLED. Everything else is invalid.

// Approve marks the transaction APPROVED. Called by the approval engine
// after balances have been updated in the same DB transaction.
func (t *StockTransaction) Approve(approverID string) error {
	if t.Status != StatusPending {
		return apperror.NewInvalidState("stock transaction", t.ID.String(), string(t.Status), string(StatusApproved))
	}
	now := time.Now().UTC()
	t.Status = StatusApproved
	t.ApprovedBy = &approverID
	t.ApprovedAt = &now
	t.Touch()
	return nil
}

// Complete marks an approved transaction as physically executed.
func (t *StockTransaction) Complete(userID string) error {
	if t.Status != StatusApproved {
		return apperror.NewInvalidState("stock transaction", t.ID.String(), string(t.Status), string(StatusCompleted))
	}
	now := time.Now().UTC()
	t.Status = StatusCompleted
	t.CompletedBy = &userID
	t.CompletedAt = &now
	t.Touch()
	return nil
}

// Cancel abandons a pending transaction. Cancelled transactions are
// terminal and never touch balances.
func (t *StockTransaction) Cancel(userID string) error {
	if t.Status != StatusPending {
		return apperror.NewInvalidState("stock transaction", t.ID.String(), string(t.Status), string(StatusCancelled))
	}
	now := time.Now().UTC()
	t.Status = StatusCancelled
	t.CancelledBy = &userID
	t.CancelledAt = &now
	t.Touch()
	return nil
}

// GenerateMovements builds the journal rows this transaction produces
// when approved: expense rows from the source warehouse (EXPORT, TRANSFER)
// and receipt rows into the destination warehouse (IMPORT, TRANSFER).
func (t *StockTransaction) GenerateMovements() ([]entity.StockMovement, error) {
	movements := make([]entity.StockMovement, 0, len(t.Lines)*2)

	for _, line := range t.Lines {
		item, err := line.Item()
		if err != nil {
			return nil, err
		}

		if t.FromWarehouseID != nil && (t.Type == TypeExport || t.Type == TypeTransfer) {
			movements = append(movements, entity.NewStockMovement(
				t.ID,
				string(t.Type),
				t.Date,
				entity.RecordTypeExpense,
				*t.FromWarehouseID,
				item,
				line.Quantity,
			))
		}

		if t.ToWarehouseID != nil && (t.Type == TypeImport || t.Type == TypeTransfer) {
			movements = append(movements, entity.NewStockMovement(
				t.ID,
				string(t.Type),
				t.Date,
				entity.RecordTypeReceipt,
				*t.ToWarehouseID,
				item,
				line.Quantity,
			))
		}
	}

	return movements, nil
}
