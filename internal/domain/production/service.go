// Package production handles the shop-floor side of the ledger: drawing
// materials for a production order exports them from the material
// warehouse immediately.
package production

import (
	"context"

	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/apperror"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/entity"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/id"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/types"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/inventory/approval"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/inventory/transaction"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/pkg/logger"
)

// RefTypeProductionOrder marks transactions originating from production.
const RefTypeProductionOrder = "production_order"

// DrawLine is one material requirement.
type DrawLine struct {
	MaterialID id.ID
	Quantity   types.Quantity
	UnitPrice  types.Money
	Note       string
}

// MaterialDraw describes materials consumed by a production order.
type MaterialDraw struct {
	ProductionOrderID id.ID
	WarehouseID       id.ID
	Note              string
	Lines             []DrawLine
}

// Service draws materials from stock for production orders.
type Service struct {
	transactions *transaction.Service
	engine       *approval.Engine
}

// NewService creates a new production service.
func NewService(transactions *transaction.Service, engine *approval.Engine) *Service {
	return &Service{
		transactions: transactions,
		engine:       engine,
	}
}

// DrawMaterials creates an export transaction for the consumed materials
// and approves it in the same call: the cutting floor takes fabric off
// the shelf right away, so the draw fails fast on insufficient stock.
func (s *Service) DrawMaterials(ctx context.Context, draw MaterialDraw, userID string) (*transaction.StockTransaction, error) {
	if id.IsNil(draw.ProductionOrderID) {
		return nil, apperror.NewValidation("production order is required").
			WithDetail("field", "productionOrderId")
	}
	if id.IsNil(draw.WarehouseID) {
		return nil, apperror.NewValidation("warehouse is required").
			WithDetail("field", "warehouseId")
	}
	if len(draw.Lines) == 0 {
		return nil, apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	t := transaction.NewStockTransaction(transaction.TypeExport)
	warehouseID := draw.WarehouseID
	orderID := draw.ProductionOrderID
	t.FromWarehouseID = &warehouseID
	t.RefType = RefTypeProductionOrder
	t.RefID = &orderID
	t.Comment = draw.Note

	for _, line := range draw.Lines {
		t.AddLine(entity.MaterialRef(line.MaterialID), line.Quantity, line.UnitPrice, line.Note)
	}

	if err := s.transactions.Create(ctx, t); err != nil {
		return nil, err
	}

	approved, err := s.engine.Approve(ctx, t.ID, userID)
	if err != nil {
		// The export stays PENDING; the caller can retry approval or
		// cancel it once the shortage is resolved.
		logger.Warn(ctx, "material draw created but not approved",
			"transaction_id", t.ID,
			"code", t.Code,
			"error", err,
		)
		return nil, err
	}

	logger.Info(ctx, "materials drawn for production",
		"transaction_id", approved.ID,
		"code", approved.Code,
		"production_order_id", draw.ProductionOrderID,
	)

	return approved, nil
}
