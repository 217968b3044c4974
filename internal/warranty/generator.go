package warranty

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
)

// Filler produces one certificate from a template.
type Filler interface {
	Fill(fields ResolvedFields) (Certificate, error)
	// Digest identifies the template content.
	Digest() string
}

// Merger concatenates certificates, in order, into one PDF.
type Merger interface {
	Merge(certs []Certificate) ([]byte, error)
}

// MergerFunc adapts a function to the Merger interface.
type MergerFunc func(certs []Certificate) ([]byte, error)

func (f MergerFunc) Merge(certs []Certificate) ([]byte, error) { return f(certs) }

// Generator runs the line filter, resolver, filler and merger for one
// invoice at a time. It holds no per-run state.
type Generator struct {
	filler Filler
	merger Merger
	logger *slog.Logger
}

// NewGenerator returns a Generator. A nil logger uses slog.Default().
func NewGenerator(filler Filler, merger Merger, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{filler: filler, merger: merger, logger: logger}
}

// Generate fills one certificate per eligible line of inv and merges them.
//
// Lines whose product has no name are skipped and reported in
// Document.Skipped. When no certificate is produced the error is a
// *NoEligibleProductsError. Any fill or merge failure aborts the run and no
// document is returned.
func (g *Generator) Generate(inv Invoice, cfg Config) (*Document, error) {
	logCtx := g.logger.With("invoiceId", inv.ID)
	eligible := EligibleLines(inv.Lines, cfg)
	logCtx.Info("Selected eligible invoice lines.", "lineCount", len(inv.Lines), "eligibleCount", len(eligible))

	var (
		certs   []Certificate
		fields  []ResolvedFields
		skipped []SkippedLine
		pages   int
	)
	for i, line := range eligible {
		resolved, err := Resolve(line, inv.CustomerName, cfg)
		if err != nil {
			var missing *MissingProductDataError
			if !errors.As(err, &missing) {
				return nil, err
			}
			logCtx.Warn("Skipping line without product data.", "productId", line.ProductID, "error", err)
			skipped = append(skipped, SkippedLine{Index: i, ProductID: line.ProductID, Reason: err.Error()})
			continue
		}
		cert, err := g.filler.Fill(resolved)
		if err != nil {
			return nil, fmt.Errorf("failed to fill certificate for product %d: %w", line.ProductID, err)
		}
		certs = append(certs, cert)
		fields = append(fields, resolved)
		pages += cert.Pages
	}

	if len(certs) == 0 {
		return nil, &NoEligibleProductsError{InvoiceID: inv.ID, Skipped: skipped}
	}

	content, err := g.merger.Merge(certs)
	if err != nil {
		return nil, fmt.Errorf("failed to merge %d certificates: %w", len(certs), err)
	}
	logCtx.Info("Warranty certificates merged.", "certificateCount", len(certs), "pageCount", pages)

	return &Document{
		InvoiceID:   inv.ID,
		Content:     content,
		PageCount:   pages,
		Fingerprint: Fingerprint(g.filler.Digest(), inv.ID, fields),
		Fields:      fields,
		Skipped:     skipped,
	}, nil
}

// Fingerprint identifies the content of a generated document. It depends only
// on the template, the invoice and the resolved values, so it stays stable
// across re-runs even though PDF writers stamp each file differently.
func Fingerprint(templateDigest, invoiceID string, fields []ResolvedFields) string {
	h := sha256.New()
	writeField := func(s string) {
		h.Write([]byte(strconv.Itoa(len(s))))
		h.Write([]byte{':'})
		h.Write([]byte(s))
	}
	writeField(templateDigest)
	writeField(invoiceID)
	for _, f := range fields {
		writeField(f.CustomerName)
		writeField(f.Brand)
		writeField(strconv.Itoa(f.WarrantyMonths))
	}
	return hex.EncodeToString(h.Sum(nil))
}
