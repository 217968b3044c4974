package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Lllllllleong/warrantydocumentflow/internal/gcp"
	"github.com/Lllllllleong/warrantydocumentflow/internal/models"
	"github.com/Lllllllleong/warrantydocumentflow/internal/warranty"
)

// SettingsFunction owns the warranty configuration record.
type SettingsFunction struct {
	store settingsStore
	now   func() time.Time
}

// NewSettings creates a new SettingsFunction instance.
func NewSettings(ctx context.Context) (*SettingsFunction, error) {
	projectID := gcp.GetEnv("PROJECT_ID", "")
	if projectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set")
	}
	firestoreClient, err := gcp.NewFirestoreClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	store := gcp.NewSettingsStore(
		firestoreClient,
		gcp.GetEnv("SETTINGS_COLLECTION", "settings"),
		gcp.GetEnv("SETTINGS_DOC", "warranty_pdf"),
	)
	return newSettings(store), nil
}

func newSettings(store settingsStore) *SettingsFunction {
	return &SettingsFunction{store: store, now: time.Now}
}

// Get returns the stored settings, falling back to the defaults.
func (f *SettingsFunction) Get(ctx context.Context) (*models.WarrantySettingsResponse, error) {
	stored, err := f.store.Get(ctx)
	if err != nil {
		slog.Error("Failed to read warranty settings", "error", err)
		return nil, err
	}
	cfg := configFromSettings(stored)
	res := &models.WarrantySettingsResponse{
		Status:                "success",
		ExcludeProductIDs:     cfg.ExcludedProducts(),
		DefaultWarrantyPeriod: cfg.DefaultWarrantyMonths,
	}
	if stored != nil {
		res.TemplateObject = stored.TemplateObject
	}
	return res, nil
}

// Save stores req. An empty exclusion list resets to the default product and
// a missing or negative default period resets to one month. An empty template
// object falls back to the deployment's default template.
func (f *SettingsFunction) Save(ctx context.Context, req *models.WarrantySettingsRequest) (*models.WarrantySettingsResponse, error) {
	excluded := req.ExcludeProductIDs
	if len(excluded) == 0 {
		excluded = []int64{warranty.DefaultExcludedProductID}
	}
	period := warranty.DefaultWarrantyMonths
	if req.DefaultWarrantyPeriod != nil && *req.DefaultWarrantyPeriod >= 0 {
		period = *req.DefaultWarrantyPeriod
	}
	cfg := warranty.NewConfig(period, excluded)

	settings := models.WarrantySettings{
		ExcludeProductIDs:     cfg.ExcludedProducts(),
		DefaultWarrantyPeriod: cfg.DefaultWarrantyMonths,
		TemplateObject:        strings.TrimPrefix(strings.TrimSpace(req.TemplateObject), "/"),
		UpdatedAt:             f.now(),
	}
	if err := f.store.Put(ctx, settings); err != nil {
		slog.Error("Failed to save warranty settings", "error", err)
		return nil, err
	}
	slog.Info("Warranty settings saved.", "excludeProductIds", settings.ExcludeProductIDs, "defaultWarrantyPeriod", settings.DefaultWarrantyPeriod, "templateObject", settings.TemplateObject)
	return &models.WarrantySettingsResponse{
		Status:                "success",
		ExcludeProductIDs:     settings.ExcludeProductIDs,
		DefaultWarrantyPeriod: settings.DefaultWarrantyPeriod,
		TemplateObject:        settings.TemplateObject,
	}, nil
}
