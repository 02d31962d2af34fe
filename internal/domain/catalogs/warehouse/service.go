package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/numerator"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/tx"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain"
)

// Service provides business logic for Warehouse catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Warehouse]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Warehouse service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	numerator numerator.Generator,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Warehouse]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "warehouse",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      numerator,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

// ListByType returns active warehouses of the given type.
func (s *Service) ListByType(ctx context.Context, whType WarehouseType) ([]*Warehouse, error) {
	return s.repo.ListByType(ctx, whType)
}

// prepareForCreate assigns a code when the caller did not provide one.
func (s *Service) prepareForCreate(ctx context.Context, wh *Warehouse) error {
	if wh.Code == "" {
		cfg := numerator.Config{Prefix: "KHO", PadWidth: 4, ResetPeriod: "never"}
		code, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		wh.Code = code
	}
	return nil
}
