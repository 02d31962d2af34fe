// Package entity provides core domain entities.
package entity

import (
	"time"

	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/id"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/types"
)

// RecordType defines movement direction for the stock register.
type RecordType string

const (
	// RecordTypeReceipt increases balance
	RecordTypeReceipt RecordType = "receipt"
	// RecordTypeExpense decreases balance
	RecordTypeExpense RecordType = "expense"
)

// MovementBase contains common fields for all register movements.
// Movements are immutable - the journal is append-only.
type MovementBase struct {
	// LineID is unique identifier for this movement line (UUIDv7)
	LineID id.ID `db:"line_id" json:"lineId"`

	// RecorderID is the stock transaction that created this movement
	RecorderID id.ID `db:"recorder_id" json:"recorderId"`

	// RecorderType is the transaction type (IMPORT, EXPORT, TRANSFER)
	RecorderType string `db:"recorder_type" json:"recorderType"`

	// Period is the business date for the movement (for period-based queries)
	Period time.Time `db:"period" json:"period"`

	// RecordType: receipt or expense
	RecordType RecordType `db:"record_type" json:"recordType"`

	// CreatedAt is when the movement was recorded
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewMovementBase creates a new movement base with generated LineID.
func NewMovementBase(recorderID id.ID, recorderType string, period time.Time, recordType RecordType) MovementBase {
	return MovementBase{
		LineID:       id.New(),
		RecorderID:   recorderID,
		RecorderType: recorderType,
		Period:       period,
		RecordType:   recordType,
		CreatedAt:    time.Now().UTC(),
	}
}

// StockMovement represents one applied delta in the stock register journal.
// Items are the nullable (product_id, material_id) pair - exactly one set.
type StockMovement struct {
	MovementBase

	// Dimensions
	WarehouseID id.ID  `db:"warehouse_id" json:"warehouseId"`
	ProductID   *id.ID `db:"product_id" json:"productId,omitempty"`
	MaterialID  *id.ID `db:"material_id" json:"materialId,omitempty"`

	// Resources
	Quantity types.Quantity `db:"quantity" json:"quantity"`
}

// NewStockMovement creates a new stock movement for the given item.
func NewStockMovement(
	recorderID id.ID,
	recorderType string,
	period time.Time,
	recordType RecordType,
	warehouseID id.ID,
	item ItemRef,
	quantity types.Quantity,
) StockMovement {
	productID, materialID := item.Columns()
	return StockMovement{
		MovementBase: NewMovementBase(recorderID, recorderType, period, recordType),
		WarehouseID:  warehouseID,
		ProductID:    productID,
		MaterialID:   materialID,
		Quantity:     quantity,
	}
}

// Item rebuilds the item reference from the column pair.
func (m *StockMovement) Item() (ItemRef, error) {
	return ItemRefFromColumns(m.ProductID, m.MaterialID)
}

// SignedQuantity returns quantity with sign based on record type.
// Receipt = positive, Expense = negative.
func (m *StockMovement) SignedQuantity() types.Quantity {
	if m.RecordType == RecordTypeExpense {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// StockBalance represents current balance in the stock register:
// one row per (warehouse, item) pair.
type StockBalance struct {
	// Dimensions
	WarehouseID id.ID  `db:"warehouse_id" json:"warehouseId"`
	ProductID   *id.ID `db:"product_id" json:"productId,omitempty"`
	MaterialID  *id.ID `db:"material_id" json:"materialId,omitempty"`

	// Balances
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// Metadata
	LastMovementAt time.Time `db:"last_movement_at" json:"lastMovementAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// NewZeroBalance returns an absent-row balance for the given pair.
func NewZeroBalance(warehouseID id.ID, item ItemRef) StockBalance {
	productID, materialID := item.Columns()
	return StockBalance{
		WarehouseID: warehouseID,
		ProductID:   productID,
		MaterialID:  materialID,
	}
}

// Item rebuilds the item reference from the column pair.
func (b *StockBalance) Item() (ItemRef, error) {
	return ItemRefFromColumns(b.ProductID, b.MaterialID)
}
