package dto

import (
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/types"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/catalogs/material"
)

// --- Request DTOs ---

// CreateMaterialRequest is the request body for creating a material.
type CreateMaterialRequest struct {
	Code          string       `json:"code"`
	Name          string       `json:"name" binding:"required"`
	Unit          string       `json:"unit" binding:"required"`
	PurchasePrice *types.Money `json:"purchasePrice"`
	IsActive      *bool        `json:"isActive"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateMaterialRequest) ToEntity() (*material.Material, error) {
	m := material.NewMaterial(r.Code, r.Name, r.Unit)
	if r.PurchasePrice != nil {
		m.PurchasePrice = *r.PurchasePrice
	}
	if r.IsActive != nil {
		m.IsActive = *r.IsActive
	}
	return m, nil
}

// UpdateMaterialRequest is the request body for updating a material.
type UpdateMaterialRequest struct {
	Code          string      `json:"code"`
	Name          string      `json:"name" binding:"required"`
	Unit          string      `json:"unit" binding:"required"`
	PurchasePrice types.Money `json:"purchasePrice"`
	IsActive      bool        `json:"isActive"`
	Version       int         `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateMaterialRequest) ApplyTo(m *material.Material) error {
	m.Code = r.Code
	m.Name = r.Name
	m.Unit = r.Unit
	m.PurchasePrice = r.PurchasePrice
	m.IsActive = r.IsActive
	m.Version = r.Version
	return nil
}

// --- Response DTOs ---

// MaterialResponse is the response body for a material.
type MaterialResponse struct {
	ID            string      `json:"id"`
	Code          string      `json:"code"`
	Name          string      `json:"name"`
	Unit          string      `json:"unit"`
	PurchasePrice types.Money `json:"purchasePrice"`
	IsActive      bool        `json:"isActive"`
	DeletionMark  bool        `json:"deletionMark"`
	Version       int         `json:"version"`
}

// FromMaterial creates response DTO from domain entity.
func FromMaterial(m *material.Material) *MaterialResponse {
	return &MaterialResponse{
		ID:            m.ID.String(),
		Code:          m.Code,
		Name:          m.Name,
		Unit:          m.Unit,
		PurchasePrice: m.PurchasePrice,
		IsActive:      m.IsActive,
		DeletionMark:  m.DeletionMark,
		Version:       m.Version,
	}
}
