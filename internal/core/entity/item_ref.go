package entity

import (
	"fmt"

	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/apperror"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/id"
)

// ItemKind discriminates what an ItemRef points to.
type ItemKind string

const (
	// ItemKindProduct refers to a finished-goods catalog entry.
	ItemKindProduct ItemKind = "product"
	// ItemKindMaterial refers to a raw-material catalog entry.
	ItemKindMaterial ItemKind = "material"
)

// ItemRef identifies a stockable item: either a product or a material.
// It is a tagged union - exactly one target kind, never both, never neither.
// Construct only via ProductRef/MaterialRef or ItemRefFromColumns so the
// invariant holds everywhere an ItemRef flows.
type ItemRef struct {
	Kind ItemKind `json:"kind"`
	ID   id.ID    `json:"id"`
}

// ProductRef creates an ItemRef pointing at a product.
func ProductRef(productID id.ID) ItemRef {
	return ItemRef{Kind: ItemKindProduct, ID: productID}
}

// MaterialRef creates an ItemRef pointing at a material.
func MaterialRef(materialID id.ID) ItemRef {
	return ItemRef{Kind: ItemKindMaterial, ID: materialID}
}

// Validate checks the tagged-union invariant.
func (r ItemRef) Validate() error {
	switch r.Kind {
	case ItemKindProduct, ItemKindMaterial:
	default:
		return apperror.NewValidation("item kind must be product or material").
			WithDetail("kind", string(r.Kind))
	}
	if id.IsNil(r.ID) {
		return apperror.NewValidation("item id is required").
			WithDetail("kind", string(r.Kind))
	}
	return nil
}

// IsZero reports whether the reference is unset.
func (r ItemRef) IsZero() bool {
	return r.Kind == "" && id.IsNil(r.ID)
}

// Equal reports whether two references point at the same item.
func (r ItemRef) Equal(other ItemRef) bool {
	return r.Kind == other.Kind && r.ID == other.ID
}

// String renders the reference as "kind:uuid" for logs and error details.
func (r ItemRef) String() string {
	return fmt.Sprintf("%s:%s", r.Kind, r.ID)
}

// Key returns a deterministic sort key (kind, then id bytes).
// Balance rows are locked in (warehouse, item key) order to avoid deadlocks,
// so every code path that locks multiple items must sort by this key.
func (r ItemRef) Key() string {
	return string(r.Kind) + ":" + r.ID.String()
}

// Columns splits the reference into the nullable DB column pair
// (product_id, material_id). Exactly one result is non-nil.
func (r ItemRef) Columns() (productID, materialID *id.ID) {
	itemID := r.ID
	switch r.Kind {
	case ItemKindProduct:
		return &itemID, nil
	case ItemKindMaterial:
		return nil, &itemID
	}
	return nil, nil
}

// ItemRefFromColumns rebuilds an ItemRef from the nullable column pair,
// re-checking the exactly-one-set invariant on rows read back from storage.
func ItemRefFromColumns(productID, materialID *id.ID) (ItemRef, error) {
	switch {
	case productID != nil && materialID != nil:
		return ItemRef{}, apperror.NewValidation("row references both product and material")
	case productID != nil:
		return ProductRef(*productID), nil
	case materialID != nil:
		return MaterialRef(*materialID), nil
	}
	return ItemRef{}, apperror.NewValidation("row references neither product nor material")
}
