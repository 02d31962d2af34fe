package dto

import (
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/catalogs/warehouse"
)

// --- Request DTOs ---

// CreateWarehouseRequest is the request body for creating a warehouse.
type CreateWarehouseRequest struct {
	Code     string                  `json:"code"`
	Name     string                  `json:"name" binding:"required"`
	Type     warehouse.WarehouseType `json:"type" binding:"required"`
	BranchID *string                 `json:"branchId"`
	Address  *string                 `json:"address"`
	IsActive *bool                   `json:"isActive"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateWarehouseRequest) ToEntity() (*warehouse.Warehouse, error) {
	wh := warehouse.NewWarehouse(r.Code, r.Name, r.Type)

	branchID, err := parseOptionalID(r.BranchID)
	if err != nil {
		return nil, err
	}
	wh.BranchID = branchID
	wh.Address = r.Address
	if r.IsActive != nil {
		wh.IsActive = *r.IsActive
	}
	return wh, nil
}

// UpdateWarehouseRequest is the request body for updating a warehouse.
type UpdateWarehouseRequest struct {
	Code     string                  `json:"code"`
	Name     string                  `json:"name" binding:"required"`
	Type     warehouse.WarehouseType `json:"type" binding:"required"`
	BranchID *string                 `json:"branchId,omitempty"`
	Address  *string                 `json:"address,omitempty"`
	IsActive bool                    `json:"isActive"`
	Version  int                     `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateWarehouseRequest) ApplyTo(wh *warehouse.Warehouse) error {
	branchID, err := parseOptionalID(r.BranchID)
	if err != nil {
		return err
	}

	wh.Code = r.Code
	wh.Name = r.Name
	wh.Type = r.Type
	wh.BranchID = branchID
	wh.Address = r.Address
	wh.IsActive = r.IsActive
	wh.Version = r.Version
	return nil
}

// --- Response DTOs ---

// WarehouseResponse is the response body for a warehouse.
type WarehouseResponse struct {
	ID           string                  `json:"id"`
	Code         string                  `json:"code"`
	Name         string                  `json:"name"`
	Type         warehouse.WarehouseType `json:"type"`
	BranchID     *string                 `json:"branchId,omitempty"`
	Address      *string                 `json:"address,omitempty"`
	IsActive     bool                    `json:"isActive"`
	DeletionMark bool                    `json:"deletionMark"`
	Version      int                     `json:"version"`
}

// FromWarehouse creates response DTO from domain entity.
func FromWarehouse(wh *warehouse.Warehouse) *WarehouseResponse {
	return &WarehouseResponse{
		ID:           wh.ID.String(),
		Code:         wh.Code,
		Name:         wh.Name,
		Type:         wh.Type,
		BranchID:     idString(wh.BranchID),
		Address:      wh.Address,
		IsActive:     wh.IsActive,
		DeletionMark: wh.DeletionMark,
		Version:      wh.Version,
	}
}
