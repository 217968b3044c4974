// Package warranty selects the invoice lines that get a warranty certificate
// and resolves the values printed on each one.
package warranty

// Names of the fillable text fields in the certificate template.
const (
	FieldCustomerName   = "Emer Mbiemer"
	FieldBrand          = "Marka"
	FieldWarrantyPeriod = "Afati Garancise"
)

// TemplateFields lists every field the template must provide, in fill order.
var TemplateFields = []string{FieldCustomerName, FieldBrand, FieldWarrantyPeriod}

// Invoice is the subset of a host invoice needed to produce certificates.
type Invoice struct {
	ID           string
	Name         string
	CustomerName string
	Lines        []InvoiceLine
}

// InvoiceLine references the product sold on one invoice line. A zero
// ProductID marks a line without a product (notes, sections).
type InvoiceLine struct {
	ProductID   int64
	ProductName string
	// WarrantyMonths overrides the configured default when set and positive.
	WarrantyMonths *int
}

// ResolvedFields are the values bound to the template for one line.
type ResolvedFields struct {
	CustomerName   string
	Brand          string
	WarrantyMonths int
}

// Certificate is one filled copy of the template.
type Certificate struct {
	Fields  ResolvedFields
	Content []byte
	Pages   int
}

// SkippedLine records an eligible line that produced no certificate.
type SkippedLine struct {
	Index     int
	ProductID int64
	Reason    string
}

// Document is the merged result of one generation run.
type Document struct {
	InvoiceID   string
	Content     []byte
	PageCount   int
	Fingerprint string
	Fields      []ResolvedFields
	Skipped     []SkippedLine
}

// Warnings renders the skipped lines as human-readable messages.
func (d *Document) Warnings() []string {
	return skippedMessages(d.Skipped)
}

func skippedMessages(skipped []SkippedLine) []string {
	if len(skipped) == 0 {
		return nil
	}
	out := make([]string, 0, len(skipped))
	for _, s := range skipped {
		out = append(out, s.Reason)
	}
	return out
}
