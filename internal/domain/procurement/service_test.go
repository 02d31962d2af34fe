package procurement

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
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/inventory/transaction"
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

func newServiceForTest() (*Service, *fakeTransactionRepo) {
	txRepo := &fakeTransactionRepo{docs: make(map[id.ID]*transaction.StockTransaction)}
	txService := transaction.NewService(txRepo, fakeTxManager{}, &numerator.MockGenerator{})
	return NewService(txService), txRepo
}

func TestReceiveDeliveryCreatesPendingImport(t *testing.T) {
	svc, txRepo := newServiceForTest()

	warehouseID := id.New()
	orderID := id.New()

	receipt := Receipt{
		PurchaseOrderID: orderID,
		WarehouseID:     warehouseID,
		Note:            "giao hàng đợt 2",
		Lines: []ReceiptLine{
			{
				Item:      entity.MaterialRef(id.New()),
				Quantity:  types.NewQuantityFromFloat64(200),
				UnitPrice: types.NewMoney(38000),
			},
			{
				Item:      entity.MaterialRef(id.New()),
				Quantity:  types.NewQuantityFromFloat64(50),
				UnitPrice: types.NewMoney(12000),
			},
		},
	}

	doc, err := svc.ReceiveDelivery(context.Background(), receipt)
	require.NoError(t, err)

	// Balances change only when warehouse staff approve the import.
	assert.Equal(t, transaction.TypeImport, doc.Type)
	assert.Equal(t, transaction.StatusPending, doc.Status)
	assert.Equal(t, RefTypePurchaseOrder, doc.RefType)
	require.NotNil(t, doc.RefID)
	assert.Equal(t, orderID, *doc.RefID)
	require.NotNil(t, doc.ToWarehouseID)
	assert.Equal(t, warehouseID, *doc.ToWarehouseID)
	assert.Nil(t, doc.FromWarehouseID)
	assert.Contains(t, doc.Code, "PNK")
	assert.Len(t, doc.Lines, 2)
	assert.Equal(t, types.NewQuantityFromFloat64(250), doc.TotalQuantity)

	assert.Contains(t, txRepo.docs, doc.ID)
}

func TestReceiveDeliveryValidation(t *testing.T) {
	svc, _ := newServiceForTest()
	ctx := context.Background()

	line := ReceiptLine{
		Item:     entity.MaterialRef(id.New()),
		Quantity: types.NewQuantityFromFloat64(1),
	}

	t.Run("missing purchase order", func(t *testing.T) {
		_, err := svc.ReceiveDelivery(ctx, Receipt{WarehouseID: id.New(), Lines: []ReceiptLine{line}})
		require.Error(t, err)
	})

	t.Run("missing warehouse", func(t *testing.T) {
		_, err := svc.ReceiveDelivery(ctx, Receipt{PurchaseOrderID: id.New(), Lines: []ReceiptLine{line}})
		require.Error(t, err)
	})

	t.Run("no lines", func(t *testing.T) {
		_, err := svc.ReceiveDelivery(ctx, Receipt{PurchaseOrderID: id.New(), WarehouseID: id.New()})
		require.Error(t, err)
	})
}
