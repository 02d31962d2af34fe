package product

import (
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product]
}
