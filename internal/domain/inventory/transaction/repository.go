package transaction

import (
	"context"
	"time"

	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/id"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain"
)

// Repository defines persistence for stock transactions.
// All reads return the header with its lines loaded.
type Repository interface {
	// Create inserts the header and its lines
	Create(ctx context.Context, tx *StockTransaction) error

	// GetByID retrieves a transaction with lines
	GetByID(ctx context.Context, txID id.ID) (*StockTransaction, error)

	// GetByIDForUpdate retrieves a transaction with a FOR UPDATE lock on the
	// header row. Must run inside a DB transaction; the approval engine uses
	// this to serialize concurrent approvals of the same document.
	GetByIDForUpdate(ctx context.Context, txID id.ID) (*StockTransaction, error)

	// GetByCode retrieves a transaction by its document code
	GetByCode(ctx context.Context, code string) (*StockTransaction, error)

	// Update rewrites the header and replaces all lines.
	// Guarded by optimistic locking (version) and by status = PENDING.
	Update(ctx context.Context, tx *StockTransaction) error

	// UpdateStatus persists a status transition with its audit stamps.
	// Lines are left untouched.
	UpdateStatus(ctx context.Context, tx *StockTransaction) error

	// List retrieves transactions matching the filter (headers with lines)
	List(ctx context.Context, filter Filter) (domain.ListResult[*StockTransaction], error)
}

// Filter narrows List results.
type Filter struct {
	// Types filters by transaction type
	Types []Type

	// Statuses filters by lifecycle state
	Statuses []Status

	// WarehouseID matches either side of the transaction
	WarehouseID *id.ID

	// Date range on the business date
	FromDate *time.Time
	ToDate   *time.Time

	// Search matches the document code
	Search string

	// IncludeDeleted includes soft-deleted records
	IncludeDeleted bool

	// OrderBy specifies sorting (default "-date")
	OrderBy string

	// Pagination
	Limit  int
	Offset int
}

// DefaultFilter returns sensible defaults.
func DefaultFilter() Filter {
	return Filter{
		Limit:   50,
		OrderBy: "-date",
	}
}
