package transaction

import (
	"context"
	"fmt"

	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/apperror"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/id"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/numerator"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/security"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/tx"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/pkg/logger"
)

// Service provides business logic for stock transactions.
// Approval is not here: only the approval engine moves a transaction to
// APPROVED, because that transition mutates balances.
type Service struct {
	repo      Repository
	txManager tx.Manager
	numerator numerator.Generator
}

// NewService creates a new stock transaction service.
func NewService(repo Repository, txManager tx.Manager, numerator numerator.Generator) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		numerator: numerator,
	}
}

// Create persists a new transaction in PENDING status.
// A document code is generated when the caller did not provide one.
func (s *Service) Create(ctx context.Context, t *StockTransaction) error {
	if t.Status == "" {
		t.Status = StatusPending
	}
	if t.Status != StatusPending {
		return apperror.NewValidation("transactions are created in pending status").
			WithDetail("status", string(t.Status))
	}

	if userID := security.GetUserID(ctx); userID != "" {
		t.CreatedBy = userID
		t.UpdatedBy = userID
	}

	if err := t.Validate(ctx); err != nil {
		return err
	}

	if t.Code == "" {
		cfg := numerator.DefaultConfig(CodePrefix(t.Type))
		code, err := s.numerator.GetNextNumber(ctx, cfg, nil, t.Date)
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		t.Code = code
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, t); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "stock transaction created",
		"transaction_id", t.ID,
		"code", t.Code,
		"type", t.Type,
	)

	return nil
}

// GetByID retrieves a transaction with lines.
func (s *Service) GetByID(ctx context.Context, txID id.ID) (*StockTransaction, error) {
	t, err := s.repo.GetByID(ctx, txID)
	if err != nil {
		return nil, s.normalizeGetErr(err, txID.String())
	}
	return t, nil
}

// GetByCode retrieves a transaction by document code.
func (s *Service) GetByCode(ctx context.Context, code string) (*StockTransaction, error) {
	t, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, s.normalizeGetErr(err, code)
	}
	return t, nil
}

// Update rewrites header fields and replaces the lines of a PENDING
// transaction. Totals are recalculated by the model before this call.
func (s *Service) Update(ctx context.Context, t *StockTransaction) error {
	if err := t.CanModify(); err != nil {
		return err
	}

	if userID := security.GetUserID(ctx); userID != "" {
		t.UpdatedBy = userID
	}

	if err := t.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, t); err != nil {
			return fmt.Errorf("update transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// The repo bumps version in SQL; keep the in-memory copy in step so
	// the caller sees the stored version and can update again.
	t.Version++

	logger.Info(ctx, "stock transaction updated",
		"transaction_id", t.ID,
		"code", t.Code,
	)

	return nil
}

// Cancel moves a PENDING transaction to CANCELLED.
// The header is locked so a concurrent approval cannot interleave.
func (s *Service) Cancel(ctx context.Context, txID id.ID, userID string) (*StockTransaction, error) {
	var cancelled *StockTransaction

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		t, err := s.repo.GetByIDForUpdate(ctx, txID)
		if err != nil {
			return s.normalizeGetErr(err, txID.String())
		}

		if err := t.Cancel(userID); err != nil {
			return err
		}

		if err := s.repo.UpdateStatus(ctx, t); err != nil {
			return fmt.Errorf("update status: %w", err)
		}

		cancelled = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock transaction cancelled",
		"transaction_id", txID,
		"cancelled_by", userID,
	)

	return cancelled, nil
}

// Complete moves an APPROVED transaction to COMPLETED.
func (s *Service) Complete(ctx context.Context, txID id.ID, userID string) (*StockTransaction, error) {
	var completed *StockTransaction

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		t, err := s.repo.GetByIDForUpdate(ctx, txID)
		if err != nil {
			return s.normalizeGetErr(err, txID.String())
		}

		if err := t.Complete(userID); err != nil {
			return err
		}

		if err := s.repo.UpdateStatus(ctx, t); err != nil {
			return fmt.Errorf("update status: %w", err)
		}

		completed = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock transaction completed",
		"transaction_id", txID,
		"completed_by", userID,
	)

	return completed, nil
}

// List retrieves transactions matching the filter.
func (s *Service) List(ctx context.Context, filter Filter) (domain.ListResult[*StockTransaction], error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultFilter().Limit
	}
	if filter.OrderBy == "" {
		filter.OrderBy = DefaultFilter().OrderBy
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) normalizeGetErr(err error, idOrCode any) error {
	if err == nil {
		return nil
	}
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound("stock transaction", idOrCode)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("entity", "stock transaction").WithDetail("id", idOrCode)
}
