package warehouse

import (
	"context"

	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain"
)

// Repository defines the interface for Warehouse persistence.
type Repository interface {
	domain.CatalogRepository[*Warehouse]

	// ListByType returns active warehouses of the given type.
	ListByType(ctx context.Context, whType WarehouseType) ([]*Warehouse, error)
}
