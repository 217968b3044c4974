package warranty

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoEligibleProducts is matched by every *NoEligibleProductsError.
var ErrNoEligibleProducts = errors.New("no eligible products for warranty generation")

// MissingProductDataError is returned when a line's product has no usable name.
type MissingProductDataError struct {
	ProductID int64
}

func (e *MissingProductDataError) Error() string {
	return fmt.Sprintf("product %d has no display name", e.ProductID)
}

// TemplateFieldError reports a template that lacks expected form fields or
// cannot be read as a form at all.
type TemplateFieldError struct {
	Missing []string
	Err     error
}

func (e *TemplateFieldError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("warranty template is missing fields: %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("warranty template has no usable form: %v", e.Err)
}

func (e *TemplateFieldError) Unwrap() error { return e.Err }

// TemplateAssetNotFoundError is returned when the template file is absent
// from its storage location.
type TemplateAssetNotFoundError struct {
	Location string
	Err      error
}

func (e *TemplateAssetNotFoundError) Error() string {
	return fmt.Sprintf("warranty template not found at %s", e.Location)
}

func (e *TemplateAssetNotFoundError) Unwrap() error { return e.Err }

// NoEligibleProductsError means the invoice produced nothing to print: all
// lines were excluded, skipped, or there were no lines.
type NoEligibleProductsError struct {
	InvoiceID string
	Skipped   []SkippedLine
}

func (e *NoEligibleProductsError) Error() string {
	if len(e.Skipped) > 0 {
		return fmt.Sprintf("invoice %s: %v (%d lines skipped)", e.InvoiceID, ErrNoEligibleProducts, len(e.Skipped))
	}
	return fmt.Sprintf("invoice %s: %v", e.InvoiceID, ErrNoEligibleProducts)
}

func (e *NoEligibleProductsError) Is(target error) bool { return target == ErrNoEligibleProducts }

// Warnings renders the skipped lines as human-readable messages.
func (e *NoEligibleProductsError) Warnings() []string {
	return skippedMessages(e.Skipped)
}
