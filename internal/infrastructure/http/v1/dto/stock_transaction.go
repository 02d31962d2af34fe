package dto

import (
	"time"

	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/apperror"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/entity"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/types"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/inventory/transaction"
)

// --- Request DTOs ---

// TransactionLineRequest is one detail line in a create/update request.
// Exactly one of productId/materialId must be set.
type TransactionLineRequest struct {
	ProductID  *string        `json:"productId"`
	MaterialID *string        `json:"materialId"`
	Quantity   types.Quantity `json:"quantity" binding:"required"`
	UnitPrice  types.Money    `json:"unitPrice"`
	Note       string         `json:"note"`
}

// item parses and validates the line's item reference.
func (r *TransactionLineRequest) item(lineNo int) (entity.ItemRef, error) {
	productID, err := parseOptionalID(r.ProductID)
	if err != nil {
		return entity.ItemRef{}, apperror.NewValidation("invalid product id").
			WithDetail("lineNo", lineNo)
	}
	materialID, err := parseOptionalID(r.MaterialID)
	if err != nil {
		return entity.ItemRef{}, apperror.NewValidation("invalid material id").
			WithDetail("lineNo", lineNo)
	}

	item, err := entity.ItemRefFromColumns(productID, materialID)
	if err != nil {
		return entity.ItemRef{}, apperror.NewValidation("line must reference exactly one product or material").
			WithDetail("lineNo", lineNo)
	}
	return item, nil
}

// CreateStockTransactionRequest is the request body for creating a stock transaction.
type CreateStockTransactionRequest struct {
	Type            transaction.Type         `json:"type" binding:"required"`
	Date            *time.Time               `json:"date"`
	FromWarehouseID *string                  `json:"fromWarehouseId"`
	ToWarehouseID   *string                  `json:"toWarehouseId"`
	RefType         string                   `json:"refType"`
	RefID           *string                  `json:"refId"`
	Comment         string                   `json:"comment"`
	Lines           []TransactionLineRequest `json:"lines" binding:"required"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateStockTransactionRequest) ToEntity() (*transaction.StockTransaction, error) {
	t := transaction.NewStockTransaction(r.Type)

	if r.Date != nil {
		t.Date = *r.Date
	}

	fromID, err := parseOptionalID(r.FromWarehouseID)
	if err != nil {
		return nil, apperror.NewValidation("invalid source warehouse id")
	}
	toID, err := parseOptionalID(r.ToWarehouseID)
	if err != nil {
		return nil, apperror.NewValidation("invalid destination warehouse id")
	}
	refID, err := parseOptionalID(r.RefID)
	if err != nil {
		return nil, apperror.NewValidation("invalid ref id")
	}

	t.FromWarehouseID = fromID
	t.ToWarehouseID = toID
	t.RefType = r.RefType
	t.RefID = refID
	t.Comment = r.Comment

	for i, line := range r.Lines {
		item, err := line.item(i + 1)
		if err != nil {
			return nil, err
		}
		t.AddLine(item, line.Quantity, line.UnitPrice, line.Note)
	}

	return t, nil
}

// UpdateStockTransactionRequest is the request body for updating a PENDING
// stock transaction. Lines are replaced wholesale.
type UpdateStockTransactionRequest struct {
	Date            *time.Time               `json:"date"`
	FromWarehouseID *string                  `json:"fromWarehouseId"`
	ToWarehouseID   *string                  `json:"toWarehouseId"`
	Comment         string                   `json:"comment"`
	Lines           []TransactionLineRequest `json:"lines" binding:"required"`
	Version         int                      `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateStockTransactionRequest) ApplyTo(t *transaction.StockTransaction) error {
	if r.Date != nil {
		t.Date = *r.Date
	}

	fromID, err := parseOptionalID(r.FromWarehouseID)
	if err != nil {
		return apperror.NewValidation("invalid source warehouse id")
	}
	toID, err := parseOptionalID(r.ToWarehouseID)
	if err != nil {
		return apperror.NewValidation("invalid destination warehouse id")
	}

	t.FromWarehouseID = fromID
	t.ToWarehouseID = toID
	t.Comment = r.Comment
	t.Version = r.Version

	t.ClearLines()
	for i, line := range r.Lines {
		item, err := line.item(i + 1)
		if err != nil {
			return err
		}
		t.AddLine(item, line.Quantity, line.UnitPrice, line.Note)
	}

	return nil
}

// --- Response DTOs ---

// TransactionLineResponse is one detail line in a response.
type TransactionLineResponse struct {
	LineID     string         `json:"lineId"`
	LineNo     int            `json:"lineNo"`
	ProductID  *string        `json:"productId,omitempty"`
	MaterialID *string        `json:"materialId,omitempty"`
	Quantity   types.Quantity `json:"quantity"`
	UnitPrice  types.Money    `json:"unitPrice"`
	Amount     types.Money    `json:"amount"`
	Note       string         `json:"note,omitempty"`
}

// StockTransactionResponse is the response body for a stock transaction.
type StockTransactionResponse struct {
	ID              string                    `json:"id"`
	Code            string                    `json:"code"`
	Type            transaction.Type          `json:"type"`
	Status          transaction.Status        `json:"status"`
	Date            time.Time                 `json:"date"`
	FromWarehouseID *string                   `json:"fromWarehouseId,omitempty"`
	ToWarehouseID   *string                   `json:"toWarehouseId,omitempty"`
	RefType         string                    `json:"refType,omitempty"`
	RefID           *string                   `json:"refId,omitempty"`
	Comment         string                    `json:"comment,omitempty"`
	ApprovedBy      *string                   `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time                `json:"approvedAt,omitempty"`
	CompletedBy     *string                   `json:"completedBy,omitempty"`
	CompletedAt     *time.Time                `json:"completedAt,omitempty"`
	CancelledBy     *string                   `json:"cancelledBy,omitempty"`
	CancelledAt     *time.Time                `json:"cancelledAt,omitempty"`
	TotalQuantity   types.Quantity            `json:"totalQuantity"`
	TotalAmount     types.Money               `json:"totalAmount"`
	Lines           []TransactionLineResponse `json:"lines"`
	CreatedAt       time.Time                 `json:"createdAt"`
	UpdatedAt       time.Time                 `json:"updatedAt"`
	CreatedBy       string                    `json:"createdBy,omitempty"`
	UpdatedBy       string                    `json:"updatedBy,omitempty"`
	Version         int                       `json:"version"`
}

// FromStockTransaction creates response DTO from domain entity.
func FromStockTransaction(t *transaction.StockTransaction) *StockTransactionResponse {
	lines := make([]TransactionLineResponse, len(t.Lines))
	for i, l := range t.Lines {
		lines[i] = TransactionLineResponse{
			LineID:     l.LineID.String(),
			LineNo:     l.LineNo,
			ProductID:  idString(l.ProductID),
			MaterialID: idString(l.MaterialID),
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			Amount:     l.Amount,
			Note:       l.Note,
		}
	}

	return &StockTransactionResponse{
		ID:              t.ID.String(),
		Code:            t.Code,
		Type:            t.Type,
		Status:          t.Status,
		Date:            t.Date,
		FromWarehouseID: idString(t.FromWarehouseID),
		ToWarehouseID:   idString(t.ToWarehouseID),
		RefType:         t.RefType,
		RefID:           idString(t.RefID),
		Comment:         t.Comment,
		ApprovedBy:      t.ApprovedBy,
		ApprovedAt:      t.ApprovedAt,
		CompletedBy:     t.CompletedBy,
		CompletedAt:     t.CompletedAt,
		CancelledBy:     t.CancelledBy,
		CancelledAt:     t.CancelledAt,
		TotalQuantity:   t.TotalQuantity,
		TotalAmount:     t.TotalAmount,
		Lines:           lines,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
		CreatedBy:       t.CreatedBy,
		UpdatedBy:       t.UpdatedBy,
		Version:         t.Version,
	}
}
