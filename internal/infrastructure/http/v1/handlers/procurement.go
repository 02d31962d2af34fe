package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/procurement"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/infrastructure/http/v1/dto"
)

// ProcurementHandler books purchase deliveries into the ledger.
type ProcurementHandler struct {
	*BaseHandler
	service *procurement.Service
}

// NewProcurementHandler creates the procurement HTTP handler.
func NewProcurementHandler(base *BaseHandler, service *procurement.Service) *ProcurementHandler {
	return &ProcurementHandler{
		BaseHandler: base,
		service:     service,
	}
}

// ReceiveDelivery handles POST /procurement/receipts.
// Creates a PENDING import transaction linked to the purchase order.
func (h *ProcurementHandler) ReceiveDelivery(c *gin.Context) {
	var req dto.ReceiveDeliveryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	receipt, err := req.ToReceipt()
	if err != nil {
		h.Error(c, err)
		return
	}

	t, err := h.service.ReceiveDelivery(c.Request.Context(), receipt)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromStockTransaction(t))
}
