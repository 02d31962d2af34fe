package handlers

import (
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/catalogs/material"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/infrastructure/http/v1/dto"
)

// MaterialHTTPHandler serves the material catalog.
type MaterialHTTPHandler = CatalogHandler[
	*material.Material,
	dto.CreateMaterialRequest,
	dto.UpdateMaterialRequest,
]

// NewMaterialHandler creates the material HTTP handler.
func NewMaterialHandler(
	base *BaseHandler,
	service *material.Service,
) *MaterialHTTPHandler {

	config := CatalogHandlerConfig[
		*material.Material,
		dto.CreateMaterialRequest,
		dto.UpdateMaterialRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "material",

		MapCreateDTO: func(req dto.CreateMaterialRequest) (*material.Material, error) {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateMaterialRequest, existing *material.Material) (*material.Material, error) {
			if err := req.ApplyTo(existing); err != nil {
				return nil, err
			}
			return existing, nil
		},

		MapToDTO: func(entity *material.Material) any {
			return dto.FromMaterial(entity)
		},
	}

	return NewCatalogHandler(base, config)
}
