package entity

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/apperror"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/id"
)

func TestItemRefValidate(t *testing.T) {
	productID := id.New()

	t.Run("valid product ref", func(t *testing.T) {
		ref := ProductRef(productID)
		require.NoError(t, ref.Validate())
		assert.Equal(t, ItemKindProduct, ref.Kind)
	})

	t.Run("valid material ref", func(t *testing.T) {
		ref := MaterialRef(id.New())
		require.NoError(t, ref.Validate())
		assert.Equal(t, ItemKindMaterial, ref.Kind)
	})

	t.Run("nil id rejected", func(t *testing.T) {
		ref := ProductRef(id.Nil())
		err := ref.Validate()
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		ref := ItemRef{Kind: "service", ID: productID}
		require.Error(t, ref.Validate())
	})

	t.Run("zero value rejected", func(t *testing.T) {
		var ref ItemRef
		assert.True(t, ref.IsZero())
		require.Error(t, ref.Validate())
	})
}

func TestItemRefColumns(t *testing.T) {
	productID := id.New()
	materialID := id.New()

	t.Run("product maps to product_id column", func(t *testing.T) {
		p, m := ProductRef(productID).Columns()
		require.NotNil(t, p)
		assert.Equal(t, productID, *p)
		assert.Nil(t, m)
	})

	t.Run("material maps to material_id column", func(t *testing.T) {
		p, m := MaterialRef(materialID).Columns()
		assert.Nil(t, p)
		require.NotNil(t, m)
		assert.Equal(t, materialID, *m)
	})

	t.Run("round trip", func(t *testing.T) {
		for _, ref := range []ItemRef{ProductRef(productID), MaterialRef(materialID)} {
			p, m := ref.Columns()
			got, err := ItemRefFromColumns(p, m)
			require.NoError(t, err)
			assert.True(t, ref.Equal(got))
		}
	})

	t.Run("both columns set rejected", func(t *testing.T) {
		_, err := ItemRefFromColumns(&productID, &materialID)
		require.Error(t, err)
	})

	t.Run("neither column set rejected", func(t *testing.T) {
		_, err := ItemRefFromColumns(nil, nil)
		require.Error(t, err)
	})
}

func TestItemRefKeyOrdering(t *testing.T) {
	// Lock ordering depends on Key being deterministic: same inputs,
	// same order, regardless of how the refs were produced.
	refs := []ItemRef{
		ProductRef(id.MustParse("0190b7a0-0000-7000-8000-000000000003")),
		MaterialRef(id.MustParse("0190b7a0-0000-7000-8000-000000000001")),
		ProductRef(id.MustParse("0190b7a0-0000-7000-8000-000000000002")),
	}

	sorted := make([]ItemRef, len(refs))
	copy(sorted, refs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key() < sorted[j].Key() })

	// Materials sort before products, then by id.
	assert.Equal(t, ItemKindMaterial, sorted[0].Kind)
	assert.Equal(t, ItemKindProduct, sorted[1].Kind)
	assert.True(t, sorted[1].Key() < sorted[2].Key())
}
