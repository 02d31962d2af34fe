package production

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/apperror"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/entity"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/id"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/numerator"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/types"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/inventory/approval"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/inventory/transaction"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/registers/stock"
)

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

func balKey(warehouseID id.ID, item entity.ItemRef) string {
	return warehouseID.String() + "/" + item.Key()
}

func (r *fakeStockRepo) CreateMovements(_ context.Context, movements []entity.StockMovement) error {
	r.movements = append(r.movements, movements...)
	return nil
}

func (r *fakeStockRepo) GetMovementsByRecorder(_ context.Context, _ id.ID) ([]entity.StockMovement, error) {
	return r.movements, nil
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
	r.balances[balKey(warehouseID, item)] += delta
	return nil
}

func (r *fakeStockRepo) GetBalancesByWarehouse(_ context.Context, _ id.ID, _ stock.BalanceFilter) ([]entity.StockBalance, error) {
	return nil, nil
}

func (r *fakeStockRepo) GetBalancesByItem(_ context.Context, _ entity.ItemRef) ([]entity.StockBalance, error) {
	return nil, nil
}

func newServiceForTest() (*Service, *fakeTransactionRepo, *fakeStockRepo) {
	txRepo := &fakeTransactionRepo{docs: make(map[id.ID]*transaction.StockTransaction)}
	stockRepo := &fakeStockRepo{balances: make(map[string]types.Quantity)}

	txService := transaction.NewService(txRepo, fakeTxManager{}, &numerator.MockGenerator{})
	engine := approval.NewEngine(txRepo, stock.NewService(stockRepo), fakeTxManager{})

	return NewService(txService, engine), txRepo, stockRepo
}

func TestDrawMaterialsApprovesImmediately(t *testing.T) {
	svc, txRepo, stockRepo := newServiceForTest()

	warehouseID := id.New()
	fabricID := id.New()
	fabric := entity.MaterialRef(fabricID)
	stockRepo.balances[balKey(warehouseID, fabric)] = types.NewQuantityFromFloat64(100)

	draw := MaterialDraw{
		ProductionOrderID: id.New(),
		WarehouseID:       warehouseID,
		Note:              "cắt lô 45",
		Lines: []DrawLine{
			{MaterialID: fabricID, Quantity: types.NewQuantityFromFloat64(35.5), UnitPrice: types.NewMoney(42000)},
		},
	}

	doc, err := svc.DrawMaterials(context.Background(), draw, "user-1")
	require.NoError(t, err)

	assert.Equal(t, transaction.TypeExport, doc.Type)
	assert.Equal(t, transaction.StatusApproved, doc.Status)
	assert.Equal(t, RefTypeProductionOrder, doc.RefType)
	require.NotNil(t, doc.RefID)
	assert.Equal(t, draw.ProductionOrderID, *doc.RefID)
	assert.Contains(t, doc.Code, "PXK")

	// Stock left the shelf at approval time.
	assert.Equal(t, types.NewQuantityFromFloat64(64.5), stockRepo.balances[balKey(warehouseID, fabric)])
	assert.Len(t, stockRepo.movements, 1)

	// Persisted state matches.
	stored := txRepo.docs[doc.ID]
	assert.Equal(t, transaction.StatusApproved, stored.Status)
}

func TestDrawMaterialsInsufficientStockStaysPending(t *testing.T) {
	svc, txRepo, stockRepo := newServiceForTest()

	warehouseID := id.New()
	fabricID := id.New()
	fabric := entity.MaterialRef(fabricID)
	stockRepo.balances[balKey(warehouseID, fabric)] = types.NewQuantityFromFloat64(5)

	draw := MaterialDraw{
		ProductionOrderID: id.New(),
		WarehouseID:       warehouseID,
		Lines: []DrawLine{
			{MaterialID: fabricID, Quantity: types.NewQuantityFromFloat64(50), UnitPrice: types.NewMoney(42000)},
		},
	}

	_, err := svc.DrawMaterials(context.Background(), draw, "user-1")
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// The export document exists but was never approved; the caller can
	// cancel it or retry once the shortage is resolved.
	require.Len(t, txRepo.docs, 1)
	for _, doc := range txRepo.docs {
		assert.Equal(t, transaction.StatusPending, doc.Status)
	}
	assert.Equal(t, types.NewQuantityFromFloat64(5), stockRepo.balances[balKey(warehouseID, fabric)])
}

func TestDrawMaterialsValidation(t *testing.T) {
	svc, _, _ := newServiceForTest()
	ctx := context.Background()

	line := DrawLine{MaterialID: id.New(), Quantity: types.NewQuantityFromFloat64(1)}

	t.Run("missing production order", func(t *testing.T) {
		_, err := svc.DrawMaterials(ctx, MaterialDraw{WarehouseID: id.New(), Lines: []DrawLine{line}}, "u")
		require.Error(t, err)
	})

	t.Run("missing warehouse", func(t *testing.T) {
		_, err := svc.DrawMaterials(ctx, MaterialDraw{ProductionOrderID: id.New(), Lines: []DrawLine{line}}, "u")
		require.Error(t, err)
	})

	t.Run("no lines", func(t *testing.T) {
		_, err := svc.DrawMaterials(ctx, MaterialDraw{ProductionOrderID: id.New(), WarehouseID: id.New()}, "u")
		require.Error(t, err)
	})
}
