package dto

import (
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/types"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/catalogs/product"
)

// --- Request DTOs ---

// CreateProductRequest is the request body for creating a product.
type CreateProductRequest struct {
	Code      string       `json:"code"`
	Name      string       `json:"name" binding:"required"`
	Unit      string       `json:"unit" binding:"required"`
	SalePrice *types.Money `json:"salePrice"`
	IsActive  *bool        `json:"isActive"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateProductRequest) ToEntity() (*product.Product, error) {
	p := product.NewProduct(r.Code, r.Name, r.Unit)
	if r.SalePrice != nil {
		p.SalePrice = *r.SalePrice
	}
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
	return p, nil
}

// UpdateProductRequest is the request body for updating a product.
type UpdateProductRequest struct {
	Code      string      `json:"code"`
	Name      string      `json:"name" binding:"required"`
	Unit      string      `json:"unit" binding:"required"`
	SalePrice types.Money `json:"salePrice"`
	IsActive  bool        `json:"isActive"`
	Version   int         `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) error {
	p.Code = r.Code
	p.Name = r.Name
	p.Unit = r.Unit
	p.SalePrice = r.SalePrice
	p.IsActive = r.IsActive
	p.Version = r.Version
	return nil
}

// --- Response DTOs ---

// ProductResponse is the response body for a product.
type ProductResponse struct {
	ID           string      `json:"id"`
	Code         string      `json:"code"`
	Name         string      `json:"name"`
	Unit         string      `json:"unit"`
	SalePrice    types.Money `json:"salePrice"`
	IsActive     bool        `json:"isActive"`
	DeletionMark bool        `json:"deletionMark"`
	Version      int         `json:"version"`
}

// FromProduct creates response DTO from domain entity.
func FromProduct(p *product.Product) *ProductResponse {
	return &ProductResponse{
		ID:           p.ID.String(),
		Code:         p.Code,
		Name:         p.Name,
		Unit:         p.Unit,
		SalePrice:    p.SalePrice,
		IsActive:     p.IsActive,
		DeletionMark: p.DeletionMark,
		Version:      p.Version,
	}
}
