package entity

import (
	"context"
	"time"

	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/apperror"
)

// Document is the base type for business transactions.
// Examples: stock transaction, purchase receipt.
type Document struct {
	BaseDocument

	// Code is the document code (auto-generated, unique within type+day)
	Code string `db:"code" json:"code"`

	// Date is the business date of the document
	Date time.Time `db:"date" json:"date"`

	// Comment is an optional user comment
	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewDocument creates a new Document with generated ID.
func NewDocument() Document {
	return Document{
		BaseDocument: NewBaseDocument(),
		Date:         time.Now().UTC(),
	}
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	return nil
}

// IsBackdated checks if document date is in the past.
func (d *Document) IsBackdated() bool {
	return d.Date.Before(time.Now().UTC().Truncate(24 * time.Hour))
}
