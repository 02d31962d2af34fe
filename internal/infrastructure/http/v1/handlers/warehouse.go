package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/apperror"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/catalogs/warehouse"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/infrastructure/http/v1/dto"
)

// WarehouseHandler serves the warehouse catalog plus the by-type lookup.
type WarehouseHandler struct {
	*CatalogHandler[*warehouse.Warehouse, dto.CreateWarehouseRequest, dto.UpdateWarehouseRequest]
	service *warehouse.Service
}

// NewWarehouseHandler creates the warehouse HTTP handler.
func NewWarehouseHandler(
	base *BaseHandler,
	service *warehouse.Service,
) *WarehouseHandler {

	config := CatalogHandlerConfig[
		*warehouse.Warehouse,
		dto.CreateWarehouseRequest,
		dto.UpdateWarehouseRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "warehouse",

		MapCreateDTO: func(req dto.CreateWarehouseRequest) (*warehouse.Warehouse, error) {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateWarehouseRequest, existing *warehouse.Warehouse) (*warehouse.Warehouse, error) {
			if err := req.ApplyTo(existing); err != nil {
				return nil, err
			}
			return existing, nil
		},

		MapToDTO: func(entity *warehouse.Warehouse) any {
			return dto.FromWarehouse(entity)
		},
	}

	return &WarehouseHandler{
		CatalogHandler: NewCatalogHandler(base, config),
		service:        service,
	}
}

// ListByType handles GET /warehouses/by-type/:type - active warehouses of one type.
func (h *WarehouseHandler) ListByType(c *gin.Context) {
	whType := warehouse.WarehouseType(c.Param("type"))
	switch whType {
	case warehouse.TypeMaterial, warehouse.TypeFinishedGoods:
	default:
		h.Error(c, apperror.NewValidation("invalid warehouse type").
			WithDetail("type", string(whType)))
		return
	}

	items, err := h.service.ListByType(c.Request.Context(), whType)
	if err != nil {
		h.Error(c, err)
		return
	}

	dtos := make([]any, len(items))
	for i, item := range items {
		dtos[i] = dto.FromWarehouse(item)
	}

	c.JSON(http.StatusOK, gin.H{"items": dtos})
}
