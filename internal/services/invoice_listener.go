package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Lllllllleong/warrantydocumentflow/internal/models"
)

// GCSEvent is the payload of a GCS event.
type GCSEvent struct {
	Bucket string `json:"bucket"`
	Name   string `json:"name"`
}

type warrantyProcessor interface {
	Process(ctx context.Context, req *models.GenerateWarrantyRequest) (*models.GenerateWarrantyResponse, error)
}

// InvoiceListenerFunction generates certificates for invoice exports
// uploaded to a bucket.
type InvoiceListenerFunction struct {
	objects   objectStore
	generator warrantyProcessor
}

// NewInvoiceListener creates a listener that reads exports through the
// generator's Storage client.
func NewInvoiceListener(ctx context.Context) (*InvoiceListenerFunction, error) {
	generator, err := NewWarrantyGenerator(ctx)
	if err != nil {
		return nil, err
	}
	return listenerFor(generator), nil
}

func listenerFor(generator *WarrantyGeneratorFunction) *InvoiceListenerFunction {
	return newInvoiceListener(generator.objects, generator)
}

func newInvoiceListener(objects objectStore, generator warrantyProcessor) *InvoiceListenerFunction {
	return &InvoiceListenerFunction{objects: objects, generator: generator}
}

// Process reads the invoice export named by e and generates its certificates.
// Objects that are not JSON files are ignored.
func (f *InvoiceListenerFunction) Process(ctx context.Context, e GCSEvent) error {
	logCtx := slog.With("gcsBucket", e.Bucket, "gcsObject", e.Name)
	if !strings.HasSuffix(e.Name, ".json") {
		logCtx.Info("Ignoring non-JSON object.")
		return nil
	}
	logCtx.Info("Processing invoice export.")

	raw, err := f.objects.Read(ctx, e.Bucket, e.Name)
	if err != nil {
		logCtx.Error("Failed to download invoice export", "error", err)
		return err
	}
	var invoice models.InvoicePayload
	if err := json.Unmarshal(raw, &invoice); err != nil {
		logCtx.Error("Failed to decode invoice export", "error", err)
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	res, err := f.generator.Process(ctx, &models.GenerateWarrantyRequest{
		Invoice:     invoice,
		ExecutionID: fmt.Sprintf("gs://%s/%s", e.Bucket, e.Name),
	})
	if err != nil {
		return err
	}
	logCtx.Info("Invoice export processed.", "status", res.Status, "outputUri", res.OutputGCSUri)
	return nil
}
