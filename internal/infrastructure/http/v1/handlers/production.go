package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/production"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/infrastructure/http/v1/dto"
)

// ProductionHandler draws materials from stock for production orders.
type ProductionHandler struct {
	*BaseHandler
	service *production.Service
}

// NewProductionHandler creates the production HTTP handler.
func NewProductionHandler(base *BaseHandler, service *production.Service) *ProductionHandler {
	return &ProductionHandler{
		BaseHandler: base,
		service:     service,
	}
}

// DrawMaterials handles POST /production/material-draws.
// Creates an export transaction and approves it in the same call; fails
// fast with insufficient-stock when the warehouse cannot cover the draw.
func (h *ProductionHandler) DrawMaterials(c *gin.Context) {
	var req dto.DrawMaterialsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	draw, err := req.ToDraw()
	if err != nil {
		h.Error(c, err)
		return
	}

	t, err := h.service.DrawMaterials(c.Request.Context(), draw, h.GetUserID(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromStockTransaction(t))
}
