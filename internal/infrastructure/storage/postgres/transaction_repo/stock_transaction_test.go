package transaction_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/id"
)

func TestGetByIDQueryExcludesDeleted(t *testing.T) {
	repo := NewStockTransactionRepo(nil)
	txID := id.New()

	sql, args, err := repo.getByIDQuery(txID).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "deletion_mark = $")
	assert.Contains(t, args, false)
	assert.Contains(t, args, txID)
}

func TestGetByIDForUpdateQueryLocksAndExcludesDeleted(t *testing.T) {
	repo := NewStockTransactionRepo(nil)

	sql, _, err := repo.getByIDQuery(id.New()).Suffix("FOR UPDATE").ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "deletion_mark = $")
	assert.Contains(t, sql, "FOR UPDATE")
}
