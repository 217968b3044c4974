package services

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/Lllllllleong/warrantydocumentflow/internal/gcp"
	"github.com/Lllllllleong/warrantydocumentflow/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockObjectStore is a mock implementation of objectStore
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Read(ctx context.Context, bucket, object string) ([]byte, error) {
	args := m.Called(ctx, bucket, object)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockObjectStore) WriteOnce(ctx context.Context, bucket, object string, content []byte, meta gcp.ObjectMeta) error {
	args := m.Called(ctx, bucket, object, content, meta)
	return args.Error(0)
}

// MockRunStore is a mock implementation of runStore
type MockRunStore struct {
	mock.Mock
}

func (m *MockRunStore) FindCompleted(ctx context.Context, invoiceID, fingerprint string) (*models.WarrantyRun, error) {
	args := m.Called(ctx, invoiceID, fingerprint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WarrantyRun), args.Error(1)
}

func (m *MockRunStore) Create(ctx context.Context, run models.WarrantyRun) (string, error) {
	args := m.Called(ctx, run)
	return args.String(0), args.Error(1)
}

func (m *MockRunStore) Update(ctx context.Context, id string, updates []firestore.Update) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

// MockSettingsStore is a mock implementation of settingsStore
type MockSettingsStore struct {
	mock.Mock
}

func (m *MockSettingsStore) Get(ctx context.Context) (*models.WarrantySettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WarrantySettings), args.Error(1)
}

func (m *MockSettingsStore) Put(ctx context.Context, settings models.WarrantySettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// MockWorkflowLauncher is a mock implementation of workflowLauncher
type MockWorkflowLauncher struct {
	mock.Mock
}

func (m *MockWorkflowLauncher) Launch(ctx context.Context, payload map[string]interface{}) (string, error) {
	args := m.Called(ctx, payload)
	return args.String(0), args.Error(1)
}

// MockProcessor is a mock implementation of warrantyProcessor
type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) Process(ctx context.Context, req *models.GenerateWarrantyRequest) (*models.GenerateWarrantyResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GenerateWarrantyResponse), args.Error(1)
}
