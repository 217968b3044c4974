package models

import "time"

// Status values of a WarrantyRun.
const (
	RunStatusGenerating        = "GENERATING"
	RunStatusCompleted         = "COMPLETED"
	RunStatusNothingToGenerate = "NOTHING_TO_GENERATE"
	RunStatusFailed            = "FAILED"
)

// WarrantyRun is the Firestore record of one certificate generation run.
// It tracks the status of the run and where its output was stored.
type WarrantyRun struct {
	InvoiceID    string    `firestore:"invoiceId,omitempty"`
	InvoiceName  string    `firestore:"invoiceName,omitempty"`
	Fingerprint  string    `firestore:"fingerprint,omitempty"`
	Status       string    `firestore:"status,omitempty"`
	PageCount    int       `firestore:"pageCount,omitempty"`
	OutputURI    string    `firestore:"outputUri,omitempty"`
	Filename     string    `firestore:"filename,omitempty"`
	Warnings     []string  `firestore:"warnings,omitempty"`
	ErrorDetails string    `firestore:"errorDetails,omitempty"`
	ExecutionID  string    `firestore:"executionId,omitempty"` // For traceability
	CreatedAt    time.Time `firestore:"createdAt,omitempty"`
}

// WarrantySettings is the persisted configuration record owned by the
// settings function.
// An empty TemplateObject selects the deployment's default template.
type WarrantySettings struct {
	ExcludeProductIDs     []int64   `firestore:"excludeProductIds"`
	DefaultWarrantyPeriod int       `firestore:"defaultWarrantyPeriod"`
	TemplateObject        string    `firestore:"templateObject,omitempty"`
	UpdatedAt             time.Time `firestore:"updatedAt,omitempty"`
}
