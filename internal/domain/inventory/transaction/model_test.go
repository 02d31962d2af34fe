package transaction

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
)

func qty(v float64) types.Quantity {
	return types.NewQuantityFromFloat64(v)
}

func validTransfer() *StockTransaction {
	from := id.New()
	to := id.New()
	t := NewStockTransaction(TypeTransfer)
	t.FromWarehouseID = &from
	t.ToWarehouseID = &to
	t.AddLine(entity.ProductRef(id.New()), qty(10), types.NewMoney(150000), "")
	return t
}

func TestAddLineCalculatesTotals(t *testing.T) {
	doc := NewStockTransaction(TypeImport)

	doc.AddLine(entity.MaterialRef(id.New()), qty(2.5), types.NewMoney(40000), "vải kaki")
	doc.AddLine(entity.MaterialRef(id.New()), qty(1), types.NewMoney(12000), "")

	require.Len(t, doc.Lines, 2)
	assert.Equal(t, 1, doc.Lines[0].LineNo)
	assert.Equal(t, 2, doc.Lines[1].LineNo)

	// amount = quantity x unit price
	assert.True(t, doc.Lines[0].Amount.Equal(types.NewMoney(100000)))
	assert.Equal(t, qty(3.5), doc.TotalQuantity)
	assert.True(t, doc.TotalAmount.Equal(types.NewMoney(112000)))
}

func TestValidateWarehousesPerType(t *testing.T) {
	warehouseID := id.New()
	otherID := id.New()
	ctx := context.Background()

	t.Run("import requires destination only", func(t *testing.T) {
		doc := NewStockTransaction(TypeImport)
		doc.AddLine(entity.MaterialRef(id.New()), qty(1), types.NewMoney(1000), "")

		require.Error(t, doc.Validate(ctx))

		doc.ToWarehouseID = &warehouseID
		require.NoError(t, doc.Validate(ctx))

		doc.FromWarehouseID = &otherID
		require.Error(t, doc.Validate(ctx))
	})

	t.Run("export requires source only", func(t *testing.T) {
		doc := NewStockTransaction(TypeExport)
		doc.AddLine(entity.MaterialRef(id.New()), qty(1), types.NewMoney(1000), "")

		require.Error(t, doc.Validate(ctx))

		doc.FromWarehouseID = &warehouseID
		require.NoError(t, doc.Validate(ctx))

		doc.ToWarehouseID = &otherID
		require.Error(t, doc.Validate(ctx))
	})

	t.Run("transfer requires distinct warehouses", func(t *testing.T) {
		doc := NewStockTransaction(TypeTransfer)
		doc.AddLine(entity.MaterialRef(id.New()), qty(1), types.NewMoney(1000), "")
		doc.FromWarehouseID = &warehouseID
		doc.ToWarehouseID = &warehouseID

		err := doc.Validate(ctx)
		require.Error(t, err)

		doc.ToWarehouseID = &otherID
		require.NoError(t, doc.Validate(ctx))
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		doc := NewStockTransaction(Type("ADJUSTMENT"))
		doc.AddLine(entity.MaterialRef(id.New()), qty(1), types.NewMoney(1000), "")
		require.Error(t, doc.Validate(ctx))
	})
}

func TestValidateLines(t *testing.T) {
	ctx := context.Background()

	t.Run("empty lines rejected", func(t *testing.T) {
		warehouseID := id.New()
		doc := NewStockTransaction(TypeImport)
		doc.ToWarehouseID = &warehouseID
		require.Error(t, doc.Validate(ctx))
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		doc := validTransfer()
		doc.Lines[0].Quantity = 0
		require.Error(t, doc.Validate(ctx))
	})

	t.Run("negative unit price rejected", func(t *testing.T) {
		doc := validTransfer()
		doc.Lines[0].UnitPrice = types.NewMoney(-1)
		require.Error(t, doc.Validate(ctx))
	})

	t.Run("line without item rejected", func(t *testing.T) {
		doc := validTransfer()
		doc.Lines[0].ProductID = nil
		doc.Lines[0].MaterialID = nil
		require.Error(t, doc.Validate(ctx))
	})
}

func TestStateTransitions(t *testing.T) {
	t.Run("pending to approved", func(t *testing.T) {
		doc := validTransfer()
		v := doc.Version

		require.NoError(t, doc.Approve("user-1"))
		assert.Equal(t, StatusApproved, doc.Status)
		require.NotNil(t, doc.ApprovedBy)
		assert.Equal(t, "user-1", *doc.ApprovedBy)
		assert.Equal(t, v+1, doc.Version)
	})

	t.Run("approved to completed", func(t *testing.T) {
		doc := validTransfer()
		require.NoError(t, doc.Approve("user-1"))
		require.NoError(t, doc.Complete("user-2"))
		assert.Equal(t, StatusCompleted, doc.Status)
		require.NotNil(t, doc.CompletedBy)
		assert.Equal(t, "user-2", *doc.CompletedBy)
	})

	t.Run("pending to cancelled", func(t *testing.T) {
		doc := validTransfer()
		require.NoError(t, doc.Cancel("user-1"))
		assert.Equal(t, StatusCancelled, doc.Status)
	})

	t.Run("complete requires approved", func(t *testing.T) {
		doc := validTransfer()
		err := doc.Complete("user-1")
		require.Error(t, err)
		assert.True(t, apperror.IsInvalidState(err))
	})

	t.Run("cancel requires pending", func(t *testing.T) {
		doc := validTransfer()
		require.NoError(t, doc.Approve("user-1"))
		err := doc.Cancel("user-2")
		require.Error(t, err)
		assert.True(t, apperror.IsInvalidState(err))
	})

	t.Run("approve is not repeatable", func(t *testing.T) {
		doc := validTransfer()
		require.NoError(t, doc.Approve("user-1"))
		err := doc.Approve("user-2")
		require.Error(t, err)
		assert.True(t, apperror.IsInvalidState(err))
	})

	t.Run("only pending can be modified", func(t *testing.T) {
		doc := validTransfer()
		require.NoError(t, doc.CanModify())
		require.NoError(t, doc.Approve("user-1"))
		require.Error(t, doc.CanModify())
	})
}

func TestGenerateMovements(t *testing.T) {
	warehouseID := id.New()
	otherID := id.New()
	date := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	t.Run("import produces receipts", func(t *testing.T) {
		doc := NewStockTransaction(TypeImport)
		doc.Date = date
		doc.ToWarehouseID = &warehouseID
		doc.AddLine(entity.MaterialRef(id.New()), qty(5), types.NewMoney(1000), "")

		movements, err := doc.GenerateMovements()
		require.NoError(t, err)
		require.Len(t, movements, 1)
		assert.Equal(t, entity.RecordTypeReceipt, movements[0].RecordType)
		assert.Equal(t, warehouseID, movements[0].WarehouseID)
		assert.Equal(t, date, movements[0].Period)
		assert.Equal(t, string(TypeImport), movements[0].RecorderType)
	})

	t.Run("export produces expenses", func(t *testing.T) {
		doc := NewStockTransaction(TypeExport)
		doc.FromWarehouseID = &warehouseID
		doc.AddLine(entity.MaterialRef(id.New()), qty(5), types.NewMoney(1000), "")

		movements, err := doc.GenerateMovements()
		require.NoError(t, err)
		require.Len(t, movements, 1)
		assert.Equal(t, entity.RecordTypeExpense, movements[0].RecordType)
	})

	t.Run("transfer produces expense and receipt per line", func(t *testing.T) {
		doc := NewStockTransaction(TypeTransfer)
		doc.FromWarehouseID = &warehouseID
		doc.ToWarehouseID = &otherID
		doc.AddLine(entity.ProductRef(id.New()), qty(3), types.NewMoney(1000), "")
		doc.AddLine(entity.ProductRef(id.New()), qty(4), types.NewMoney(1000), "")

		movements, err := doc.GenerateMovements()
		require.NoError(t, err)
		require.Len(t, movements, 4)

		var expenses, receipts int
		for _, m := range movements {
			switch m.RecordType {
			case entity.RecordTypeExpense:
				expenses++
				assert.Equal(t, warehouseID, m.WarehouseID)
			case entity.RecordTypeReceipt:
				receipts++
				assert.Equal(t, otherID, m.WarehouseID)
			}
		}
		assert.Equal(t, 2, expenses)
		assert.Equal(t, 2, receipts)
	})
}

func TestCodePrefix(t *testing.T) {
	assert.Equal(t, "PNK", CodePrefix(TypeImport))
	assert.Equal(t, "PXK", CodePrefix(TypeExport))
	assert.Equal(t, "PCK", CodePrefix(TypeTransfer))
	assert.Equal(t, "STK", CodePrefix(Type("OTHER")))
}
