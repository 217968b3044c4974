package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	executions "cloud.google.com/go/workflows/executions/apiv1"
	"github.com/Lllllllleong/warrantydocumentflow/internal/gcp"
	"github.com/Lllllllleong/warrantydocumentflow/internal/models"
	"github.com/Lllllllleong/warrantydocumentflow/internal/pdfform"
	"github.com/Lllllllleong/warrantydocumentflow/internal/warranty"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidRequest is wrapped by errors caused by a malformed request.
var ErrInvalidRequest = errors.New("invalid request")

type objectStore interface {
	Read(ctx context.Context, bucket, object string) ([]byte, error)
	WriteOnce(ctx context.Context, bucket, object string, content []byte, meta gcp.ObjectMeta) error
}

type runStore interface {
	FindCompleted(ctx context.Context, invoiceID, fingerprint string) (*models.WarrantyRun, error)
	Create(ctx context.Context, run models.WarrantyRun) (string, error)
	Update(ctx context.Context, id string, updates []firestore.Update) error
}

type settingsStore interface {
	Get(ctx context.Context) (*models.WarrantySettings, error)
	Put(ctx context.Context, settings models.WarrantySettings) error
}

type workflowLauncher interface {
	Launch(ctx context.Context, payload map[string]interface{}) (string, error)
}

type WarrantyGeneratorConfig struct {
	ProjectID          string
	TemplateBucket     string
	TemplateObject     string
	OutputBucket       string
	RunsCollection     string
	SettingsCollection string
	SettingsDoc        string
	WorkflowLocation   string
	DeliveryWorkflowID string
}

type WarrantyGeneratorFunction struct {
	objects  objectStore
	runs     runStore
	settings settingsStore
	delivery workflowLauncher
	config   WarrantyGeneratorConfig
	now      func() time.Time
}

func loadWarrantyGeneratorConfig() (WarrantyGeneratorConfig, error) {
	config := WarrantyGeneratorConfig{
		ProjectID:          gcp.GetEnv("PROJECT_ID", ""),
		TemplateBucket:     gcp.GetEnv("TEMPLATE_BUCKET", ""),
		TemplateObject:     gcp.GetEnv("TEMPLATE_OBJECT", "warranty/garancia_template.pdf"),
		OutputBucket:       gcp.GetEnv("OUTPUT_BUCKET", ""),
		RunsCollection:     gcp.GetEnv("RUNS_COLLECTION", "warranty_runs"),
		SettingsCollection: gcp.GetEnv("SETTINGS_COLLECTION", "settings"),
		SettingsDoc:        gcp.GetEnv("SETTINGS_DOC", "warranty_pdf"),
		WorkflowLocation:   gcp.GetEnv("WORKFLOW_LOCATION", "us-central1"),
		DeliveryWorkflowID: gcp.GetEnv("DELIVERY_WORKFLOW_ID", ""),
	}
	if config.ProjectID == "" {
		return config, fmt.Errorf("PROJECT_ID environment variable must be set")
	}
	if config.TemplateBucket == "" || config.OutputBucket == "" {
		return config, fmt.Errorf("TEMPLATE_BUCKET and OUTPUT_BUCKET must be set")
	}
	return config, nil
}

func NewWarrantyGenerator(ctx context.Context) (*WarrantyGeneratorFunction, error) {
	config, err := loadWarrantyGeneratorConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	firestoreClient, err := gcp.NewFirestoreClient(ctx, config.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Storage client: %w", err)
	}

	var delivery workflowLauncher
	if config.DeliveryWorkflowID != "" {
		executionsClient, err := executions.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create Workflows Executions client: %w", err)
		}
		delivery = gcp.NewWorkflowLauncher(executionsClient, config.ProjectID, config.WorkflowLocation, config.DeliveryWorkflowID)
	}

	f := newWarrantyGenerator(
		config,
		gcp.NewObjectStore(storageClient),
		gcp.NewRunStore(firestoreClient, config.RunsCollection),
		gcp.NewSettingsStore(firestoreClient, config.SettingsCollection, config.SettingsDoc),
		delivery,
	)
	slog.Info("Warranty generator initialized.", "templateBucket", config.TemplateBucket, "outputBucket", config.OutputBucket, "deliveryWorkflowId", config.DeliveryWorkflowID)
	return f, nil
}

func newWarrantyGenerator(config WarrantyGeneratorConfig, objects objectStore, runs runStore, settings settingsStore, delivery workflowLauncher) *WarrantyGeneratorFunction {
	return &WarrantyGeneratorFunction{
		objects:  objects,
		runs:     runs,
		settings: settings,
		delivery: delivery,
		config:   config,
		now:      time.Now,
	}
}

// Process generates the merged warranty certificates for one invoice.
// An invoice with nothing to print is a successful call with status
// models.StatusNothingToGenerate.
func (f *WarrantyGeneratorFunction) Process(ctx context.Context, req *models.GenerateWarrantyRequest) (*models.GenerateWarrantyResponse, error) {
	logCtx := slog.With("invoiceId", req.Invoice.ID, "executionId", req.ExecutionID)
	logCtx.Info("Starting warranty generation.", "lineCount", len(req.Invoice.Lines))

	if req.Invoice.ID == "" {
		return nil, fmt.Errorf("%w: invoice id must be provided", ErrInvalidRequest)
	}
	invoice := toInvoice(req.Invoice)

	cfg, tmpl, err := f.preload(ctx)
	if err != nil {
		return nil, f.recordFailure(ctx, logCtx, req, "", "failed to load settings or template", err)
	}

	doc, err := warranty.NewGenerator(tmpl, pdfform.Merger, logCtx).Generate(invoice, cfg)
	var noEligible *warranty.NoEligibleProductsError
	if errors.As(err, &noEligible) {
		return f.nothingToGenerate(ctx, logCtx, req, noEligible)
	}
	if err != nil {
		return nil, f.recordFailure(ctx, logCtx, req, "", "failed to generate warranty certificates", err)
	}
	logCtx = logCtx.With("fingerprint", doc.Fingerprint)

	existing, err := f.runs.FindCompleted(ctx, invoice.ID, doc.Fingerprint)
	if err != nil {
		return nil, f.recordFailure(ctx, logCtx, req, doc.Fingerprint, "failed to check for a previous run", err)
	}
	if existing != nil {
		logCtx.Info("Identical certificates already generated. Reusing output.", "outputUri", existing.OutputURI)
		return &models.GenerateWarrantyResponse{
			Status:       models.StatusSuccess,
			OutputGCSUri: existing.OutputURI,
			Filename:     existing.Filename,
			PageCount:    existing.PageCount,
			Warnings:     existing.Warnings,
		}, nil
	}

	filename := downloadFilename(invoice, f.now())
	objectName := fmt.Sprintf("%s/%s.pdf", invoice.ID, doc.Fingerprint)
	outputURI := fmt.Sprintf("gs://%s/%s", f.config.OutputBucket, objectName)

	runID, err := f.runs.Create(ctx, models.WarrantyRun{
		InvoiceID:   invoice.ID,
		InvoiceName: invoice.Name,
		Fingerprint: doc.Fingerprint,
		Status:      models.RunStatusGenerating,
		ExecutionID: req.ExecutionID,
		CreatedAt:   f.now(),
	})
	if err != nil {
		logCtx.Error("Failed to create run document", "error", err)
		return nil, err
	}
	logCtx = logCtx.With("runId", runID)

	meta := gcp.ObjectMeta{
		ContentType:        "application/pdf",
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", filename),
		Metadata: map[string]string{
			"invoiceId":   invoice.ID,
			"fingerprint": doc.Fingerprint,
		},
	}
	if err := f.objects.WriteOnce(ctx, f.config.OutputBucket, objectName, doc.Content, meta); err != nil {
		return nil, f.handleError(ctx, logCtx, runID, "failed to store warranty PDF", err)
	}

	updates := []firestore.Update{
		{Path: "status", Value: models.RunStatusCompleted},
		{Path: "pageCount", Value: doc.PageCount},
		{Path: "outputUri", Value: outputURI},
		{Path: "filename", Value: filename},
	}
	if warnings := doc.Warnings(); len(warnings) > 0 {
		updates = append(updates, firestore.Update{Path: "warnings", Value: warnings})
	}
	if err := f.runs.Update(ctx, runID, updates); err != nil {
		return nil, f.handleError(ctx, logCtx, runID, "failed to update status to COMPLETED", err)
	}

	if err := f.triggerDelivery(ctx, logCtx, runID, invoice.ID, outputURI, doc.PageCount); err != nil {
		return nil, err
	}

	logCtx.Info("Warranty generation complete.", "outputUri", outputURI, "pageCount", doc.PageCount)
	return &models.GenerateWarrantyResponse{
		Status:       models.StatusSuccess,
		OutputGCSUri: outputURI,
		Filename:     filename,
		PageCount:    doc.PageCount,
		Warnings:     doc.Warnings(),
	}, nil
}

// preload fetches the settings and the template in parallel. The template
// named by the environment is read speculatively; a settings record that
// names another template object replaces it.
func (f *WarrantyGeneratorFunction) preload(ctx context.Context) (warranty.Config, *pdfform.Template, error) {
	var (
		stored     *models.WarrantySettings
		defaultRaw []byte
		defaultErr error
	)
	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		stored, err = f.settings.Get(gctx)
		return err
	})
	eg.Go(func() error {
		defaultRaw, defaultErr = f.objects.Read(gctx, f.config.TemplateBucket, f.config.TemplateObject)
		return nil
	})
	if err := eg.Wait(); err != nil {
		return warranty.Config{}, nil, err
	}

	object, raw, err := f.config.TemplateObject, defaultRaw, defaultErr
	if stored != nil && stored.TemplateObject != "" && stored.TemplateObject != object {
		object = stored.TemplateObject
		raw, err = f.objects.Read(ctx, f.config.TemplateBucket, object)
	}
	if errors.Is(err, gcp.ErrObjectNotFound) {
		return warranty.Config{}, nil, &warranty.TemplateAssetNotFoundError{
			Location: fmt.Sprintf("gs://%s/%s", f.config.TemplateBucket, object),
			Err:      err,
		}
	}
	if err != nil {
		return warranty.Config{}, nil, err
	}
	tmpl, err := pdfform.LoadTemplate(raw)
	if err != nil {
		return warranty.Config{}, nil, err
	}
	return configFromSettings(stored), tmpl, nil
}

func (f *WarrantyGeneratorFunction) nothingToGenerate(ctx context.Context, logCtx *slog.Logger, req *models.GenerateWarrantyRequest, noEligible *warranty.NoEligibleProductsError) (*models.GenerateWarrantyResponse, error) {
	logCtx.Warn("No eligible products for warranty generation.", "skippedCount", len(noEligible.Skipped))
	warnings := noEligible.Warnings()
	if _, err := f.runs.Create(ctx, models.WarrantyRun{
		InvoiceID:   req.Invoice.ID,
		InvoiceName: req.Invoice.Name,
		Status:      models.RunStatusNothingToGenerate,
		Warnings:    warnings,
		ExecutionID: req.ExecutionID,
		CreatedAt:   f.now(),
	}); err != nil {
		logCtx.Error("Failed to record empty run", "error", err)
		return nil, err
	}
	return &models.GenerateWarrantyResponse{
		Status:   models.StatusNothingToGenerate,
		Message:  "No valid products found for warranty generation.",
		Warnings: warnings,
	}, nil
}

func (f *WarrantyGeneratorFunction) triggerDelivery(ctx context.Context, logCtx *slog.Logger, runID, invoiceID, outputURI string, pageCount int) error {
	if f.delivery == nil {
		return nil
	}
	logCtx.Info("Triggering delivery workflow.")
	execution, err := f.delivery.Launch(ctx, map[string]interface{}{
		"invoiceId": invoiceID,
		"outputUri": outputURI,
		"pageCount": pageCount,
	})
	if err != nil {
		return f.handleError(ctx, logCtx, runID, "failed to trigger delivery workflow", err)
	}
	logCtx.Info("Delivery workflow started.", "execution", execution)
	return nil
}

// recordFailure stores a FAILED run for errors raised before a run record exists.
func (f *WarrantyGeneratorFunction) recordFailure(ctx context.Context, logCtx *slog.Logger, req *models.GenerateWarrantyRequest, fingerprint, message string, originalErr error) error {
	fullError := fmt.Sprintf("%s: %v", message, originalErr)
	logCtx.Error(message, "error", originalErr)
	if _, err := f.runs.Create(ctx, models.WarrantyRun{
		InvoiceID:    req.Invoice.ID,
		InvoiceName:  req.Invoice.Name,
		Fingerprint:  fingerprint,
		Status:       models.RunStatusFailed,
		ErrorDetails: fullError,
		ExecutionID:  req.ExecutionID,
		CreatedAt:    f.now(),
	}); err != nil {
		logCtx.Error("CRITICAL: Failed to record FAILED run after a processing error.", "createError", err)
	}
	return fmt.Errorf("%s: %w", message, originalErr)
}

func (f *WarrantyGeneratorFunction) handleError(ctx context.Context, logCtx *slog.Logger, runID, message string, originalErr error) error {
	fullError := fmt.Sprintf("%s: %v", message, originalErr)
	logCtx.Error(message, "error", originalErr)
	updates := []firestore.Update{
		{Path: "status", Value: models.RunStatusFailed},
		{Path: "errorDetails", Value: fullError},
	}
	if err := f.runs.Update(ctx, runID, updates); err != nil {
		logCtx.Error("CRITICAL: Failed to update Firestore status to FAILED after a processing error.", "updateError", err)
	}
	return fmt.Errorf("%s: %w", message, originalErr)
}

func toInvoice(p models.InvoicePayload) warranty.Invoice {
	inv := warranty.Invoice{
		ID:           p.ID,
		Name:         p.Name,
		CustomerName: p.PartnerName,
		Lines:        make([]warranty.InvoiceLine, 0, len(p.Lines)),
	}
	for _, l := range p.Lines {
		line := warranty.InvoiceLine{ProductID: l.ProductID, ProductName: l.ProductName}
		if months, ok := warranty.ParseWarrantyPeriod(string(l.WarrantyPeriod)); ok {
			line.WarrantyMonths = &months
		}
		inv.Lines = append(inv.Lines, line)
	}
	return inv
}

func configFromSettings(s *models.WarrantySettings) warranty.Config {
	if s == nil {
		return warranty.DefaultConfig()
	}
	return warranty.NewConfig(s.DefaultWarrantyPeriod, s.ExcludeProductIDs)
}

var filenameReplacer = strings.NewReplacer("/", "_", "\\", "_", " ", "_")

func downloadFilename(inv warranty.Invoice, at time.Time) string {
	name := inv.Name
	if name == "" {
		name = inv.ID
	}
	return fmt.Sprintf("garancia_%s_%s.pdf", filenameReplacer.Replace(name), at.Format("20060102_150405"))
}
