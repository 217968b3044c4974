package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/Lllllllleong/warrantydocumentflow/internal/models"
	"github.com/Lllllllleong/warrantydocumentflow/internal/services"
	"github.com/Lllllllleong/warrantydocumentflow/internal/warranty"
)

var (
	generatorInstance *services.WarrantyGeneratorFunction
	once              sync.Once
	initErr           error
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Register the HTTP function with the framework.
	// "HandleGenerateWarranty" is the entry point invoked by the invoice action.
	functions.HTTP("HandleGenerateWarranty", handleGenerateWarranty)
}

// main is required by the Go Functions Framework.
func main() {}

// handleGenerateWarranty is the HTTP handler for warranty certificate generation.
func handleGenerateWarranty(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		generatorInstance, initErr = services.NewWarrantyGenerator(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical: WarrantyGenerator initialization failed", "error", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}

	var req models.GenerateWarrantyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Could not decode request body", "error", err)
		http.Error(w, "Bad Request: could not parse JSON", http.StatusBadRequest)
		return
	}

	res, err := generatorInstance.Process(r.Context(), &req)
	if err != nil {
		// The specific error is already logged inside the Process method.
		http.Error(w, errorMessage(err), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		slog.Error(
			"Failed to write response",
			"error", err,
			"invoiceId", req.Invoice.ID,
			"executionId", req.ExecutionID,
		)
		http.Error(w, "Internal Server Error: failed to encode response", http.StatusInternalServerError)
	}
}

func statusFor(err error) int {
	var (
		notFound *warranty.TemplateAssetNotFoundError
		badForm  *warranty.TemplateFieldError
	)
	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.As(err, &notFound), errors.As(err, &badForm):
		return http.StatusFailedDependency
	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(err error) string {
	return "Error generating warranty PDF: " + err.Error()
}
