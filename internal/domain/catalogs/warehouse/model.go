// Package warehouse provides the Warehouse catalog.
// Warehouses are physical storage locations; each one stores either raw
// materials or finished goods and belongs to a branch of the factory.
package warehouse

import (
	"context"

	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/apperror"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/entity"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/id"
)

// WarehouseType defines what a warehouse stores.
type WarehouseType string

const (
	// TypeMaterial stores raw materials (fabric, thread, buttons)
	TypeMaterial WarehouseType = "material"
	// TypeFinishedGoods stores finished products
	TypeFinishedGoods WarehouseType = "finished_goods"
)

// Warehouse represents a storage location.
type Warehouse struct {
	entity.Catalog

	// Type defines the warehouse category
	Type WarehouseType `db:"type" json:"type"`

	// BranchID is the owning branch (nullable for the head office)
	BranchID *id.ID `db:"branch_id" json:"branchId,omitempty"`

	// Address is the physical address
	Address *string `db:"address" json:"address,omitempty"`

	// IsActive indicates if warehouse is operational
	IsActive bool `db:"is_active" json:"isActive"`
}

// NewWarehouse creates a new Warehouse with required fields.
func NewWarehouse(code, name string, whType WarehouseType) *Warehouse {
	return &Warehouse{
		Catalog:  entity.NewCatalog(code, name),
		Type:     whType,
		IsActive: true,
	}
}

// Validate implements entity.Validatable interface.
func (w *Warehouse) Validate(ctx context.Context) error {
	if err := w.Catalog.Validate(ctx); err != nil {
		return err
	}

	switch w.Type {
	case TypeMaterial, TypeFinishedGoods:
	default:
		return apperror.NewValidation("invalid warehouse type").
			WithDetail("field", "type").
			WithDetail("value", string(w.Type))
	}

	return nil
}

// CanAcceptStock returns true if warehouse can accept stock.
func (w *Warehouse) CanAcceptStock() bool {
	return w.IsActive && !w.DeletionMark
}

// CanIssueStock returns true if warehouse can issue stock.
func (w *Warehouse) CanIssueStock() bool {
	return w.IsActive && !w.DeletionMark
}
