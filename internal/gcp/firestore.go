package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/Lllllllleong/warrantydocumentflow/internal/models"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// NewFirestoreClient creates and returns a new Firestore client for the given project ID.
// It centralizes client creation for all services.
func NewFirestoreClient(ctx context.Context, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore client")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return client, nil
}

// RunStore persists WarrantyRun records in one collection.
type RunStore struct {
	client     *firestore.Client
	collection string
}

func NewRunStore(client *firestore.Client, collection string) *RunStore {
	return &RunStore{client: client, collection: collection}
}

// FindCompleted returns the completed run for invoiceID with the given
// fingerprint, or nil when there is none.
func (s *RunStore) FindCompleted(ctx context.Context, invoiceID, fingerprint string) (*models.WarrantyRun, error) {
	iter := s.client.Collection(s.collection).
		Where("invoiceId", "==", invoiceID).
		Where("fingerprint", "==", fingerprint).
		Where("status", "==", models.RunStatusCompleted).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query for completed runs: %w", err)
	}
	var run models.WarrantyRun
	if err := doc.DataTo(&run); err != nil {
		return nil, fmt.Errorf("failed to decode run %s: %w", doc.Ref.ID, err)
	}
	return &run, nil
}

// Create adds run and returns its document ID.
func (s *RunStore) Create(ctx context.Context, run models.WarrantyRun) (string, error) {
	docRef, _, err := s.client.Collection(s.collection).Add(ctx, run)
	if err != nil {
		return "", fmt.Errorf("failed to create run document: %w", err)
	}
	return docRef.ID, nil
}

// Update applies field updates to the run with the given ID.
func (s *RunStore) Update(ctx context.Context, id string, updates []firestore.Update) error {
	if _, err := s.client.Collection(s.collection).Doc(id).Update(ctx, updates); err != nil {
		return fmt.Errorf("failed to update run %s: %w", id, err)
	}
	return nil
}

// SettingsStore reads and writes the single settings document.
type SettingsStore struct {
	client     *firestore.Client
	collection string
	docID      string
}

func NewSettingsStore(client *firestore.Client, collection, docID string) *SettingsStore {
	return &SettingsStore{client: client, collection: collection, docID: docID}
}

// Get returns the stored settings, or nil when none have been saved.
func (s *SettingsStore) Get(ctx context.Context) (*models.WarrantySettings, error) {
	snap, err := s.client.Collection(s.collection).Doc(s.docID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings %s/%s: %w", s.collection, s.docID, err)
	}
	var settings models.WarrantySettings
	if err := snap.DataTo(&settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return &settings, nil
}

// Put replaces the stored settings.
func (s *SettingsStore) Put(ctx context.Context, settings models.WarrantySettings) error {
	if _, err := s.client.Collection(s.collection).Doc(s.docID).Set(ctx, settings); err != nil {
		return fmt.Errorf("failed to write settings %s/%s: %w", s.collection, s.docID, err)
	}
	return nil
}
