// Package material provides the Material catalog (raw materials).
package material

import (
	"context"

	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/apperror"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/entity"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/types"
)

// Material represents a raw material (fabric, thread, buttons, zippers).
type Material struct {
	entity.Catalog

	// Unit is the unit of measure (m, kg, pcs, roll)
	Unit string `db:"unit" json:"unit"`

	// PurchasePrice is the latest known purchase price
	PurchasePrice types.Money `db:"purchase_price" json:"purchasePrice"`

	// IsActive indicates the material is still in use
	IsActive bool `db:"is_active" json:"isActive"`
}

// NewMaterial creates a new Material with required fields.
func NewMaterial(code, name, unit string) *Material {
	return &Material{
		Catalog:  entity.NewCatalog(code, name),
		Unit:     unit,
		IsActive: true,
	}
}

// Validate implements entity.Validatable interface.
func (m *Material) Validate(ctx context.Context) error {
	if err := m.Catalog.Validate(ctx); err != nil {
		return err
	}

	if m.Unit == "" {
		return apperror.NewValidation("unit is required").
			WithDetail("field", "unit")
	}

	if m.PurchasePrice.IsNegative() {
		return apperror.NewValidation("purchase price cannot be negative").
			WithDetail("field", "purchasePrice")
	}

	return nil
}
