package transaction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/apperror"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/id"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/numerator"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) RunInRetryableTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeVersionedRepo mimics the SQL repo's optimistic locking: the stored
// version lives in the repo, not in the caller's object, and Update bumps
// it the way the SQL `version = version + 1` does.
type fakeVersionedRepo struct {
	docs     map[id.ID]*StockTransaction
	versions map[id.ID]int
}

func newFakeVersionedRepo() *fakeVersionedRepo {
	return &fakeVersionedRepo{
		docs:     make(map[id.ID]*StockTransaction),
		versions: make(map[id.ID]int),
	}
}

func (r *fakeVersionedRepo) Create(_ context.Context, tx *StockTransaction) error {
	r.docs[tx.ID] = tx
	r.versions[tx.ID] = tx.Version
	return nil
}

func (r *fakeVersionedRepo) GetByID(_ context.Context, txID id.ID) (*StockTransaction, error) {
	doc, ok := r.docs[txID]
	if !ok {
		return nil, apperror.NewNotFound("stock transaction", txID.String())
	}
	return doc, nil
}

func (r *fakeVersionedRepo) GetByIDForUpdate(ctx context.Context, txID id.ID) (*StockTransaction, error) {
	return r.GetByID(ctx, txID)
}

func (r *fakeVersionedRepo) GetByCode(_ context.Context, code string) (*StockTransaction, error) {
	for _, doc := range r.docs {
		if doc.Code == code {
			return doc, nil
		}
	}
	return nil, apperror.NewNotFound("stock transaction", code)
}

func (r *fakeVersionedRepo) Update(_ context.Context, tx *StockTransaction) error {
	stored, ok := r.versions[tx.ID]
	if !ok {
		return apperror.NewNotFound("stock transaction", tx.ID.String())
	}
	if stored != tx.Version {
		return apperror.NewConcurrentModification("stock transaction", tx.ID)
	}
	r.docs[tx.ID] = tx
	r.versions[tx.ID] = stored + 1
	return nil
}

func (r *fakeVersionedRepo) UpdateStatus(_ context.Context, tx *StockTransaction) error {
	r.docs[tx.ID] = tx
	r.versions[tx.ID] = tx.Version
	return nil
}

func (r *fakeVersionedRepo) List(_ context.Context, _ Filter) (domain.ListResult[*StockTransaction], error) {
	return domain.ListResult[*StockTransaction]{}, nil
}

func newServiceForTest() (*Service, *fakeVersionedRepo) {
	repo := newFakeVersionedRepo()
	return NewService(repo, fakeTxManager{}, &numerator.MockGenerator{}), repo
}

func TestCreateGeneratesCode(t *testing.T) {
	svc, repo := newServiceForTest()

	doc := validTransfer()
	require.NoError(t, svc.Create(context.Background(), doc))

	assert.Contains(t, doc.Code, "PCK")
	assert.Equal(t, StatusPending, doc.Status)
	assert.Contains(t, repo.docs, doc.ID)
}

func TestUpdateKeepsVersionInStep(t *testing.T) {
	svc, _ := newServiceForTest()
	ctx := context.Background()

	doc := validTransfer()
	require.NoError(t, svc.Create(ctx, doc))
	v0 := doc.Version

	doc.Comment = "kiểm lại số lượng"
	require.NoError(t, svc.Update(ctx, doc))
	assert.Equal(t, v0+1, doc.Version)

	// A second update on the same object must see the stored version and
	// pass the optimistic check again.
	doc.Comment = "chốt"
	require.NoError(t, svc.Update(ctx, doc))
	assert.Equal(t, v0+2, doc.Version)
}

func TestUpdateStaleVersionRejected(t *testing.T) {
	svc, _ := newServiceForTest()
	ctx := context.Background()

	doc := validTransfer()
	require.NoError(t, svc.Create(ctx, doc))

	stale := doc.Version
	require.NoError(t, svc.Update(ctx, doc))

	doc.Version = stale
	err := svc.Update(ctx, doc)
	require.Error(t, err)
	assert.True(t, apperror.IsConcurrentModification(err))
}
