package dto

import (
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/apperror"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/id"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/types"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/production"
)

// DrawLineRequest is one material requirement.
type DrawLineRequest struct {
	MaterialID string         `json:"materialId" binding:"required"`
	Quantity   types.Quantity `json:"quantity" binding:"required"`
	UnitPrice  types.Money    `json:"unitPrice"`
	Note       string         `json:"note"`
}

// DrawMaterialsRequest draws materials from stock for a production order.
type DrawMaterialsRequest struct {
	ProductionOrderID string            `json:"productionOrderId" binding:"required"`
	WarehouseID       string            `json:"warehouseId" binding:"required"`
	Note              string            `json:"note"`
	Lines             []DrawLineRequest `json:"lines" binding:"required"`
}

// ToDraw converts DTO to the production material draw.
func (r *DrawMaterialsRequest) ToDraw() (production.MaterialDraw, error) {
	orderID, err := id.Parse(r.ProductionOrderID)
	if err != nil {
		return production.MaterialDraw{}, apperror.NewValidation("invalid production order id")
	}
	warehouseID, err := id.Parse(r.WarehouseID)
	if err != nil {
		return production.MaterialDraw{}, apperror.NewValidation("invalid warehouse id")
	}

	draw := production.MaterialDraw{
		ProductionOrderID: orderID,
		WarehouseID:       warehouseID,
		Note:              r.Note,
		Lines:             make([]production.DrawLine, 0, len(r.Lines)),
	}

	for i, line := range r.Lines {
		materialID, err := id.Parse(line.MaterialID)
		if err != nil {
			return production.MaterialDraw{}, apperror.NewValidation("invalid material id").
				WithDetail("lineNo", i+1)
		}
		draw.Lines = append(draw.Lines, production.DrawLine{
			MaterialID: materialID,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			Note:       line.Note,
		})
	}

	return draw, nil
}
