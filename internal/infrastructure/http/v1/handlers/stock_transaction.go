package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/apperror"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/id"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/inventory/approval"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/inventory/transaction"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/infrastructure/http/v1/dto"
)

// StockTransactionHandler serves stock transaction documents and their
// lifecycle actions. Approval goes through the approval engine because it
// mutates balances.
type StockTransactionHandler struct {
	*BaseHandler
	service *transaction.Service
	engine  *approval.Engine
}

// NewStockTransactionHandler creates the stock transaction HTTP handler.
func NewStockTransactionHandler(
	base *BaseHandler,
	service *transaction.Service,
	engine *approval.Engine,
) *StockTransactionHandler {
	return &StockTransactionHandler{
		BaseHandler: base,
		service:     service,
		engine:      engine,
	}
}

// List handles GET /stock-transactions.
func (h *StockTransactionHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := transaction.DefaultFilter()
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "-date")
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"

	if types := c.Query("type"); types != "" {
		for _, t := range strings.Split(types, ",") {
			filter.Types = append(filter.Types, transaction.Type(t))
		}
	}
	if statuses := c.Query("status"); statuses != "" {
		for _, s := range strings.Split(statuses, ",") {
			filter.Statuses = append(filter.Statuses, transaction.Status(s))
		}
	}

	if whStr := c.Query("warehouseId"); whStr != "" {
		warehouseID, err := id.Parse(whStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid warehouse id"))
			return
		}
		filter.WarehouseID = &warehouseID
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

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, item := range result.Items {
		items[i] = dto.FromStockTransaction(item)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /stock-transactions/:id.
func (h *StockTransactionHandler) Get(c *gin.Context) {
	txID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	t, err := h.service.GetByID(c.Request.Context(), txID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStockTransaction(t))
}

// GetByCode handles GET /stock-transactions/by-code/:code.
func (h *StockTransactionHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.Error(c, apperror.NewValidation("code is required"))
		return
	}

	t, err := h.service.GetByCode(c.Request.Context(), code)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStockTransaction(t))
}

// Create handles POST /stock-transactions.
func (h *StockTransactionHandler) Create(c *gin.Context) {
	var req dto.CreateStockTransactionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	t, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), t); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromStockTransaction(t))
}

// Update handles PUT /stock-transactions/:id.
// Only PENDING transactions accept changes; lines are replaced wholesale.
func (h *StockTransactionHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	txID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateStockTransactionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	existing, err := h.service.GetByID(ctx, txID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := req.ApplyTo(existing); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Update(ctx, existing); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStockTransaction(existing))
}

// Approve handles POST /stock-transactions/:id/approve.
// Validates stock and applies balance deltas atomically.
func (h *StockTransactionHandler) Approve(c *gin.Context) {
	txID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	approved, err := h.engine.Approve(c.Request.Context(), txID, h.GetUserID(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStockTransaction(approved))
}

// Complete handles POST /stock-transactions/:id/complete.
func (h *StockTransactionHandler) Complete(c *gin.Context) {
	txID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	completed, err := h.service.Complete(c.Request.Context(), txID, h.GetUserID(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStockTransaction(completed))
}

// Cancel handles POST /stock-transactions/:id/cancel.
func (h *StockTransactionHandler) Cancel(c *gin.Context) {
	txID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	cancelled, err := h.service.Cancel(c.Request.Context(), txID, h.GetUserID(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStockTransaction(cancelled))
}

// parseDateQuery parses an RFC 3339 or YYYY-MM-DD date query parameter.
// Returns ok=false (with the error already registered) on bad input.
func (h *StockTransactionHandler) parseDateQuery(c *gin.Context, key string) (*time.Time, bool) {
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
