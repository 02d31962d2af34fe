package approval

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/apperror"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/entity"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/id"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/types"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/inventory/transaction"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/registers/stock"
)

// --- in-memory fakes ---

// fakeTxManager runs the callback directly; the engine's atomicity is
// exercised against the real TxManager in integration tests.
type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) RunInRetryableTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeTransactionRepo struct {
	docs map[id.ID]*transaction.StockTransaction
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{docs: make(map[id.ID]*transaction.StockTransaction)}
}

func (r *fakeTransactionRepo) Create(_ context.Context, tx *transaction.StockTransaction) error {
	r.docs[tx.ID] = tx
	return nil
}

func (r *fakeTransactionRepo) GetByID(_ context.Context, txID id.ID) (*transaction.StockTransaction, error) {
	doc, ok := r.docs[txID]
	if !ok {
		return nil, apperror.NewNotFound("stock transaction", txID.String())
	}
	return doc, nil
}

func (r *fakeTransactionRepo) GetByIDForUpdate(ctx context.Context, txID id.ID) (*transaction.StockTransaction, error) {
	return r.GetByID(ctx, txID)
}

func (r *fakeTransactionRepo) GetByCode(_ context.Context, code string) (*transaction.StockTransaction, error) {
	for _, doc := range r.docs {
		if doc.Code == code {
			return doc, nil
		}
	}
	return nil, apperror.NewNotFound("stock transaction", code)
}

func (r *fakeTransactionRepo) Update(_ context.Context, tx *transaction.StockTransaction) error {
	r.docs[tx.ID] = tx
	return nil
}

func (r *fakeTransactionRepo) UpdateStatus(_ context.Context, tx *transaction.StockTransaction) error {
	r.docs[tx.ID] = tx
	return nil
}

func (r *fakeTransactionRepo) List(_ context.Context, _ transaction.Filter) (domain.ListResult[*transaction.StockTransaction], error) {
	return domain.ListResult[*transaction.StockTransaction]{}, nil
}

type fakeStockRepo struct {
	balances  map[string]types.Quantity
	movements []entity.StockMovement
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{balances: make(map[string]types.Quantity)}
}

func balKey(warehouseID id.ID, item entity.ItemRef) string {
	return warehouseID.String() + "/" + item.Key()
}

func (r *fakeStockRepo) seed(warehouseID id.ID, item entity.ItemRef, qty types.Quantity) {
	r.balances[balKey(warehouseID, item)] = qty
}

func (r *fakeStockRepo) CreateMovements(_ context.Context, movements []entity.StockMovement) error {
	r.movements = append(r.movements, movements...)
	return nil
}

func (r *fakeStockRepo) GetMovementsByRecorder(_ context.Context, recorderID id.ID) ([]entity.StockMovement, error) {
	var out []entity.StockMovement
	for _, m := range r.movements {
		if m.RecorderID == recorderID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeStockRepo) GetMovementHistory(_ context.Context, _ stock.MovementFilter) ([]entity.StockMovement, error) {
	return r.movements, nil
}

func (r *fakeStockRepo) GetBalance(_ context.Context, warehouseID id.ID, item entity.ItemRef) (entity.StockBalance, error) {
	bal := entity.NewZeroBalance(warehouseID, item)
	bal.Quantity = r.balances[balKey(warehouseID, item)]
	return bal, nil
}

func (r *fakeStockRepo) GetBalanceForUpdate(ctx context.Context, warehouseID id.ID, item entity.ItemRef) (entity.StockBalance, error) {
	return r.GetBalance(ctx, warehouseID, item)
}

func (r *fakeStockRepo) ApplyDelta(_ context.Context, warehouseID id.ID, item entity.ItemRef, delta types.Quantity) error {
	key := balKey(warehouseID, item)
	next := r.balances[key] + delta
	if next.IsNegative() {
		return apperror.NewInsufficientStock(
			warehouseID.String(), item.String(),
			delta.Neg().Float64(), r.balances[key].Float64(),
		)
	}
	r.balances[key] = next
	return nil
}

func (r *fakeStockRepo) GetBalancesByWarehouse(_ context.Context, _ id.ID, _ stock.BalanceFilter) ([]entity.StockBalance, error) {
	return nil, nil
}

func (r *fakeStockRepo) GetBalancesByItem(_ context.Context, _ entity.ItemRef) ([]entity.StockBalance, error) {
	return nil, nil
}

// --- helpers ---

func qty(v float64) types.Quantity {
	return types.NewQuantityFromFloat64(v)
}

func newEngineForTest() (*Engine, *fakeTransactionRepo, *fakeStockRepo) {
	txRepo := newFakeTransactionRepo()
	stockRepo := newFakeStockRepo()
	engine := NewEngine(txRepo, stock.NewService(stockRepo), fakeTxManager{})
	return engine, txRepo, stockRepo
}

func pendingTransaction(txType transaction.Type, from, to *id.ID) *transaction.StockTransaction {
	doc := transaction.NewStockTransaction(txType)
	doc.Code = "TEST0001"
	doc.Date = time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	doc.FromWarehouseID = from
	doc.ToWarehouseID = to
	return doc
}

// --- tests ---

func TestApproveImport(t *testing.T) {
	engine, txRepo, stockRepo := newEngineForTest()

	warehouseID := id.New()
	fabric := entity.MaterialRef(id.New())

	doc := pendingTransaction(transaction.TypeImport, nil, &warehouseID)
	doc.AddLine(fabric, qty(120.5), types.NewMoney(45000), "")
	require.NoError(t, txRepo.Create(context.Background(), doc))

	approved, err := engine.Approve(context.Background(), doc.ID, "user-1")
	require.NoError(t, err)

	assert.Equal(t, transaction.StatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, "user-1", *approved.ApprovedBy)
	assert.NotNil(t, approved.ApprovedAt)

	assert.Equal(t, qty(120.5), stockRepo.balances[balKey(warehouseID, fabric)])

	movements, err := stockRepo.GetMovementsByRecorder(context.Background(), doc.ID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, entity.RecordTypeReceipt, movements[0].RecordType)
	assert.Equal(t, doc.ID, movements[0].RecorderID)
}

func TestApproveTransferConservesStock(t *testing.T) {
	engine, txRepo, stockRepo := newEngineForTest()

	source := id.New()
	dest := id.New()
	shirt := entity.ProductRef(id.New())

	stockRepo.seed(source, shirt, qty(100))

	doc := pendingTransaction(transaction.TypeTransfer, &source, &dest)
	doc.AddLine(shirt, qty(30), types.NewMoney(150000), "")
	require.NoError(t, txRepo.Create(context.Background(), doc))

	_, err := engine.Approve(context.Background(), doc.ID, "user-1")
	require.NoError(t, err)

	assert.Equal(t, qty(70), stockRepo.balances[balKey(source, shirt)])
	assert.Equal(t, qty(30), stockRepo.balances[balKey(dest, shirt)])

	// A transfer writes an expense row and a receipt row per line.
	movements, err := stockRepo.GetMovementsByRecorder(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Len(t, movements, 2)
}

func TestApproveExportInsufficientStock(t *testing.T) {
	engine, txRepo, stockRepo := newEngineForTest()

	warehouseID := id.New()
	fabric := entity.MaterialRef(id.New())

	stockRepo.seed(warehouseID, fabric, qty(10))

	doc := pendingTransaction(transaction.TypeExport, &warehouseID, nil)
	doc.AddLine(fabric, qty(25), types.NewMoney(45000), "")
	require.NoError(t, txRepo.Create(context.Background(), doc))

	_, err := engine.Approve(context.Background(), doc.ID, "user-1")
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// Nothing applied, nothing journaled, status untouched.
	assert.Equal(t, qty(10), stockRepo.balances[balKey(warehouseID, fabric)])
	assert.Empty(t, stockRepo.movements)
	assert.Equal(t, transaction.StatusPending, txRepo.docs[doc.ID].Status)
}

func TestApproveAbortsWholeDocumentOnOneShortLine(t *testing.T) {
	engine, txRepo, stockRepo := newEngineForTest()

	warehouseID := id.New()
	fabric := entity.MaterialRef(id.New())
	thread := entity.MaterialRef(id.New())

	// First line is covered, second is short. Validation runs over the
	// whole document before anything is applied, so the covered line's
	// balance must not move either.
	stockRepo.seed(warehouseID, fabric, qty(100))
	stockRepo.seed(warehouseID, thread, qty(2))

	doc := pendingTransaction(transaction.TypeExport, &warehouseID, nil)
	doc.AddLine(fabric, qty(30), types.NewMoney(45000), "")
	doc.AddLine(thread, qty(5), types.NewMoney(8000), "")
	require.NoError(t, txRepo.Create(context.Background(), doc))

	_, err := engine.Approve(context.Background(), doc.ID, "user-1")
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	assert.Equal(t, qty(100), stockRepo.balances[balKey(warehouseID, fabric)])
	assert.Equal(t, qty(2), stockRepo.balances[balKey(warehouseID, thread)])
	assert.Empty(t, stockRepo.movements)
	assert.Equal(t, transaction.StatusPending, txRepo.docs[doc.ID].Status)
}

func TestApproveTransferInsufficientSource(t *testing.T) {
	engine, txRepo, stockRepo := newEngineForTest()

	source := id.New()
	dest := id.New()
	shirt := entity.ProductRef(id.New())

	stockRepo.seed(source, shirt, qty(10))

	doc := pendingTransaction(transaction.TypeTransfer, &source, &dest)
	doc.AddLine(shirt, qty(15), types.NewMoney(150000), "")
	require.NoError(t, txRepo.Create(context.Background(), doc))

	_, err := engine.Approve(context.Background(), doc.ID, "user-1")
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// Neither side of the transfer moved.
	assert.Equal(t, qty(10), stockRepo.balances[balKey(source, shirt)])
	assert.Equal(t, qty(0), stockRepo.balances[balKey(dest, shirt)])
	assert.Empty(t, stockRepo.movements)
	assert.Equal(t, transaction.StatusPending, txRepo.docs[doc.ID].Status)
}

func TestApproveAggregatesRepeatedItems(t *testing.T) {
	engine, txRepo, stockRepo := newEngineForTest()

	warehouseID := id.New()
	fabric := entity.MaterialRef(id.New())

	// Two lines for the same item: available covers neither line's sum.
	stockRepo.seed(warehouseID, fabric, qty(15))

	doc := pendingTransaction(transaction.TypeExport, &warehouseID, nil)
	doc.AddLine(fabric, qty(10), types.NewMoney(45000), "")
	doc.AddLine(fabric, qty(10), types.NewMoney(45000), "")
	require.NoError(t, txRepo.Create(context.Background(), doc))

	_, err := engine.Approve(context.Background(), doc.ID, "user-1")
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Equal(t, qty(15), stockRepo.balances[balKey(warehouseID, fabric)])
}

func TestApproveRejectsNonPending(t *testing.T) {
	engine, txRepo, _ := newEngineForTest()

	warehouseID := id.New()
	fabric := entity.MaterialRef(id.New())

	doc := pendingTransaction(transaction.TypeImport, nil, &warehouseID)
	doc.AddLine(fabric, qty(5), types.NewMoney(45000), "")
	require.NoError(t, txRepo.Create(context.Background(), doc))

	_, err := engine.Approve(context.Background(), doc.ID, "user-1")
	require.NoError(t, err)

	// Second approval sees APPROVED and must refuse.
	_, err = engine.Approve(context.Background(), doc.ID, "user-2")
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestApproveCancelledTransaction(t *testing.T) {
	engine, txRepo, _ := newEngineForTest()

	warehouseID := id.New()
	fabric := entity.MaterialRef(id.New())

	doc := pendingTransaction(transaction.TypeImport, nil, &warehouseID)
	doc.AddLine(fabric, qty(5), types.NewMoney(45000), "")
	require.NoError(t, doc.Cancel("user-1"))
	require.NoError(t, txRepo.Create(context.Background(), doc))

	_, err := engine.Approve(context.Background(), doc.ID, "user-2")
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestApproveNotFound(t *testing.T) {
	engine, _, _ := newEngineForTest()

	_, err := engine.Approve(context.Background(), id.New(), "user-1")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestAggregateDeltasDeterministicOrder(t *testing.T) {
	warehouseA := id.MustParse("0190b7a0-0000-7000-8000-00000000000a")
	warehouseB := id.MustParse("0190b7a0-0000-7000-8000-00000000000b")
	item := entity.MaterialRef(id.MustParse("0190b7a0-0000-7000-8000-000000000001"))

	doc := pendingTransaction(transaction.TypeTransfer, &warehouseA, &warehouseB)
	doc.AddLine(item, qty(3), types.NewMoney(1000), "")
	movements, err := doc.GenerateMovements()
	require.NoError(t, err)

	deltas, keys, err := aggregateDeltas(movements)
	require.NoError(t, err)
	require.Len(t, keys, 2)

	// Warehouse A sorts before warehouse B regardless of movement order.
	assert.Equal(t, warehouseA, keys[0].warehouseID)
	assert.Equal(t, warehouseB, keys[1].warehouseID)
	assert.Equal(t, qty(3).Neg(), deltas[keys[0].sortKey()])
	assert.Equal(t, qty(3), deltas[keys[1].sortKey()])
}
