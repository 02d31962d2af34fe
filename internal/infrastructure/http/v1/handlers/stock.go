package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/apperror"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/entity"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/id"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/registers/stock"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/infrastructure/http/v1/dto"
)

// StockHandler serves read endpoints over the stock register: balances,
// movement history and item availability.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates the stock register HTTP handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetWarehouseBalances handles GET /stock/balances/:warehouseId.
func (h *StockHandler) GetWarehouseBalances(c *gin.Context) {
	warehouseID, err := id.Parse(c.Param("warehouseId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid warehouse id"))
		return
	}

	filter := stock.BalanceFilter{
		ExcludeZero: c.DefaultQuery("excludeZero", "true") == "true",
		Limit:       h.ParseIntQuery(c, "limit", 100),
		Offset:      h.ParseIntQuery(c, "offset", 0),
	}

	if kindStr := c.Query("kind"); kindStr != "" {
		kind := entity.ItemKind(kindStr)
		switch kind {
		case entity.ItemKindProduct, entity.ItemKindMaterial:
			filter.Kind = &kind
		default:
			h.Error(c, apperror.NewValidation("item kind must be product or material").
				WithDetail("kind", kindStr))
			return
		}
	}

	balances, err := h.service.GetWarehouseStock(c.Request.Context(), warehouseID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": dto.FromStockBalances(balances)})
}

// GetItemAvailability handles GET /stock/availability/:kind/:itemId.
// Returns total on-hand quantity across all warehouses.
func (h *StockHandler) GetItemAvailability(c *gin.Context) {
	item, ok := h.parseItemParams(c)
	if !ok {
		return
	}

	quantity, err := h.service.GetItemAvailability(c.Request.Context(), item)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ItemAvailabilityResponse{
		Kind:     item.Kind,
		ItemID:   item.ID.String(),
		Quantity: quantity,
	})
}

// GetMovements handles GET /stock/movements.
func (h *StockHandler) GetMovements(c *gin.Context) {
	filter := stock.MovementFilter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if whStr := c.Query("warehouseId"); whStr != "" {
		warehouseID, err := id.Parse(whStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid warehouse id"))
			return
		}
		filter.WarehouseID = &warehouseID
	}

	if kindStr := c.Query("kind"); kindStr != "" {
		itemID, err := id.Parse(c.Query("itemId"))
		if err != nil {
			h.Error(c, apperror.NewValidation("itemId is required with kind"))
			return
		}
		item, ok := itemRefFrom(entity.ItemKind(kindStr), itemID)
		if !ok {
			h.Error(c, apperror.NewValidation("item kind must be product or material").
				WithDetail("kind", kindStr))
			return
		}
		filter.Item = &item
	}

	if rtStr := c.Query("recordType"); rtStr != "" {
		rt := entity.RecordType(rtStr)
		switch rt {
		case entity.RecordTypeReceipt, entity.RecordTypeExpense:
			filter.RecordType = &rt
		default:
			h.Error(c, apperror.NewValidation("record type must be receipt or expense").
				WithDetail("recordType", rtStr))
			return
		}
	}

	if from, ok := h.parseDateQuery(c, "fromDate"); ok {
		filter.FromDate = from
	} else {
		return
	}
	if to, ok := h.parseDateQuery(c, "toDate"); ok {
		filter.ToDate = to
	} else {
		return
	}

	movements, err := h.service.GetMovementHistory(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": dto.FromStockMovements(movements)})
}

// GetTransactionMovements handles GET /stock/movements/by-transaction/:id.
// Returns the journal rows one approved transaction produced.
func (h *StockHandler) GetTransactionMovements(c *gin.Context) {
	txID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	movements, err := h.service.GetMovementsByRecorder(c.Request.Context(), txID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": dto.FromStockMovements(movements)})
}

// parseItemParams reads the :kind/:itemId path pair into an item reference.
func (h *StockHandler) parseItemParams(c *gin.Context) (entity.ItemRef, bool) {
	itemID, err := id.Parse(c.Param("itemId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid item id"))
		return entity.ItemRef{}, false
	}

	item, ok := itemRefFrom(entity.ItemKind(c.Param("kind")), itemID)
	if !ok {
		h.Error(c, apperror.NewValidation("item kind must be product or material").
			WithDetail("kind", c.Param("kind")))
		return entity.ItemRef{}, false
	}
	return item, true
}

// parseDateQuery parses an RFC 3339 or YYYY-MM-DD date query parameter.
func (h *StockHandler) parseDateQuery(c *gin.Context, key string) (*time.Time, bool) {
	val := c.Query(key)
	if val == "" {
		return nil, true
	}

	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return &t, true
	}
	if t, err := time.Parse("2006-01-02", val); err == nil {
		return &t, true
	}

	h.Error(c, apperror.NewValidation("invalid date format").WithDetail("field", key))
	return nil, false
}

func itemRefFrom(kind entity.ItemKind, itemID id.ID) (entity.ItemRef, bool) {
	switch kind {
	case entity.ItemKindProduct:
		return entity.ProductRef(itemID), true
	case entity.ItemKindMaterial:
		return entity.MaterialRef(itemID), true
	}
	return entity.ItemRef{}, false
}
