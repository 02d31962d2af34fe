package material

import (
	"context"
	"fmt"
	"time"

	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/numerator"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/tx"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain"
)

// Service provides business logic for Material catalog.
type Service struct {
	*domain.CatalogService[*Material]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Material service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	numerator numerator.Generator,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Material]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "material",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      numerator,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

// prepareForCreate assigns a code when the caller did not provide one.
func (s *Service) prepareForCreate(ctx context.Context, m *Material) error {
	if m.Code == "" {
		cfg := numerator.Config{Prefix: "NVL", PadWidth: 5, ResetPeriod: "never"}
		code, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		m.Code = code
	}
	return nil
}
