package material

import (
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain"
)

// Repository defines the interface for Material persistence.
type Repository interface {
	domain.CatalogRepository[*Material]
}
