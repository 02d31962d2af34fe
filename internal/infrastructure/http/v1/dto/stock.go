package dto

import (
	"time"

	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/entity"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/types"
)

// --- Balances ---

// StockBalanceResponse is one (warehouse, item) balance row.
type StockBalanceResponse struct {
	WarehouseID    string         `json:"warehouseId"`
	ProductID      *string        `json:"productId,omitempty"`
	MaterialID     *string        `json:"materialId,omitempty"`
	Quantity       types.Quantity `json:"quantity"`
	LastMovementAt time.Time      `json:"lastMovementAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// FromStockBalance creates response DTO from a balance row.
func FromStockBalance(b entity.StockBalance) StockBalanceResponse {
	return StockBalanceResponse{
		WarehouseID:    b.WarehouseID.String(),
		ProductID:      idString(b.ProductID),
		MaterialID:     idString(b.MaterialID),
		Quantity:       b.Quantity,
		LastMovementAt: b.LastMovementAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

// FromStockBalances maps a slice of balance rows.
func FromStockBalances(balances []entity.StockBalance) []StockBalanceResponse {
	out := make([]StockBalanceResponse, len(balances))
	for i, b := range balances {
		out[i] = FromStockBalance(b)
	}
	return out
}

// --- Movements ---

// StockMovementResponse is one journal row.
type StockMovementResponse struct {
	LineID       string            `json:"lineId"`
	RecorderID   string            `json:"recorderId"`
	RecorderType string            `json:"recorderType"`
	Period       time.Time         `json:"period"`
	RecordType   entity.RecordType `json:"recordType"`
	WarehouseID  string            `json:"warehouseId"`
	ProductID    *string           `json:"productId,omitempty"`
	MaterialID   *string           `json:"materialId,omitempty"`
	Quantity     types.Quantity    `json:"quantity"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// FromStockMovement creates response DTO from a journal row.
func FromStockMovement(m entity.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		LineID:       m.LineID.String(),
		RecorderID:   m.RecorderID.String(),
		RecorderType: m.RecorderType,
		Period:       m.Period,
		RecordType:   m.RecordType,
		WarehouseID:  m.WarehouseID.String(),
		ProductID:    idString(m.ProductID),
		MaterialID:   idString(m.MaterialID),
		Quantity:     m.Quantity,
		CreatedAt:    m.CreatedAt,
	}
}

// FromStockMovements maps a slice of journal rows.
func FromStockMovements(movements []entity.StockMovement) []StockMovementResponse {
	out := make([]StockMovementResponse, len(movements))
	for i, m := range movements {
		out[i] = FromStockMovement(m)
	}
	return out
}

// --- Availability ---

// ItemAvailabilityResponse is the total on-hand quantity for one item
// across all warehouses.
type ItemAvailabilityResponse struct {
	Kind     entity.ItemKind `json:"kind"`
	ItemID   string          `json:"itemId"`
	Quantity types.Quantity  `json:"quantity"`
}
