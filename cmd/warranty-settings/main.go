package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/Lllllllleong/warrantydocumentflow/internal/models"
	"github.com/Lllllllleong/warrantydocumentflow/internal/services"
)

var (
	settingsInstance *services.SettingsFunction
	once             sync.Once
	initErr          error
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	functions.HTTP("HandleWarrantySettings", handleWarrantySettings)
}

// main is required by the Go Functions Framework.
func main() {}

// handleWarrantySettings reads settings on GET and saves them on POST or PUT.
func handleWarrantySettings(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		settingsInstance, initErr = services.NewSettings(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical: Settings initialization failed", "error", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}

	var (
		res *models.WarrantySettingsResponse
		err error
	)
	switch r.Method {
	case http.MethodGet:
		res, err = settingsInstance.Get(r.Context())
	case http.MethodPost, http.MethodPut:
		var req models.WarrantySettingsRequest
		if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
			slog.Warn("Could not decode request body", "error", decodeErr)
			http.Error(w, "Bad Request: could not parse JSON", http.StatusBadRequest)
			return
		}
		res, err = settingsInstance.Save(r.Context(), &req)
	default:
		w.Header().Set("Allow", "GET, POST, PUT")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	if err != nil {
		http.Error(w, "Internal Server Error: processing failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		slog.Error("Failed to write response", "error", err)
		http.Error(w, "Internal Server Error: failed to encode response", http.StatusInternalServerError)
	}
}
