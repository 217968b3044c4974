package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/Lllllllleong/warrantydocumentflow/internal/services"
	cloudevents "github.com/cloudevents/sdk-go/v2"
)

var (
	listenerInstance *services.InvoiceListenerFunction
	once             sync.Once
	initErr          error
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Register the CloudEvent function. The framework will handle routing the event here.
	functions.CloudEvent("GenerateFromInvoiceExport", generateFromInvoiceExport)
}

// main is required by the Go Functions Framework.
func main() {}

// generateFromInvoiceExport is the Cloud Function entry point for invoice
// exports written to the exports bucket.
func generateFromInvoiceExport(ctx context.Context, e cloudevents.Event) error {
	once.Do(func() {
		listenerInstance, initErr = services.NewInvoiceListener(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		return initErr
	}

	var gcsEvent services.GCSEvent
	if err := json.Unmarshal(e.Data(), &gcsEvent); err != nil {
		slog.Error("Failed to unmarshal event data", "error", err, "data", string(e.Data()))
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	// Returning an error marks the invocation as failed.
	return listenerInstance.Process(ctx, gcsEvent)
}
