// Package product provides the Product catalog (finished goods).
package product

import (
	"context"

	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/apperror"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/entity"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/types"
)

// Product represents a finished-goods item (shirt, trousers, jacket).
type Product struct {
	entity.Catalog

	// Unit is the unit of measure (pcs, set)
	Unit string `db:"unit" json:"unit"`

	// SalePrice is the default selling price
	SalePrice types.Money `db:"sale_price" json:"salePrice"`

	// IsActive indicates the product is still produced
	IsActive bool `db:"is_active" json:"isActive"`
}

// NewProduct creates a new Product with required fields.
func NewProduct(code, name, unit string) *Product {
	return &Product{
		Catalog:  entity.NewCatalog(code, name),
		Unit:     unit,
		IsActive: true,
	}
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if p.Unit == "" {
		return apperror.NewValidation("unit is required").
			WithDetail("field", "unit")
	}

	if p.SalePrice.IsNegative() {
		return apperror.NewValidation("sale price cannot be negative").
			WithDetail("field", "salePrice")
	}

	return nil
}
