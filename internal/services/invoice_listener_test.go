package services

import (
	"context"
	"testing"

	"github.com/Lllllllleong/warrantydocumentflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestInvoiceListenerProcess(t *testing.T) {
	objects := new(MockObjectStore)
	processor := new(MockProcessor)
	export := []byte(`{"id":"42","name":"INV/2025/0042","partnerName":"Jane Doe","lines":[{"productId":1,"productName":"Widget X","warrantyPeriod":6}]}`)
	objects.On("Read", mock.Anything, "exports", "invoices/42.json").Return(export, nil)
	processor.On("Process", mock.Anything, mock.MatchedBy(func(req *models.GenerateWarrantyRequest) bool {
		return req.Invoice.ID == "42" &&
			req.Invoice.PartnerName == "Jane Doe" &&
			len(req.Invoice.Lines) == 1 &&
			req.Invoice.Lines[0].WarrantyPeriod == "6" &&
			req.ExecutionID == "gs://exports/invoices/42.json"
	})).Return(&models.GenerateWarrantyResponse{Status: models.StatusSuccess}, nil)

	err := newInvoiceListener(objects, processor).Process(context.Background(), GCSEvent{Bucket: "exports", Name: "invoices/42.json"})
	require.NoError(t, err)
	processor.AssertExpectations(t)
}

func TestInvoiceListenerIgnoresOtherObjects(t *testing.T) {
	objects := new(MockObjectStore)
	processor := new(MockProcessor)

	err := newInvoiceListener(objects, processor).Process(context.Background(), GCSEvent{Bucket: "exports", Name: "invoices/42.csv"})
	require.NoError(t, err)
	objects.AssertNotCalled(t, "Read", mock.Anything, mock.Anything, mock.Anything)
	processor.AssertNotCalled(t, "Process", mock.Anything, mock.Anything)
}

func TestInvoiceListenerRejectsInvalidJSON(t *testing.T) {
	objects := new(MockObjectStore)
	objects.On("Read", mock.Anything, "exports", "bad.json").Return([]byte("{"), nil)

	err := newInvoiceListener(objects, new(MockProcessor)).Process(context.Background(), GCSEvent{Bucket: "exports", Name: "bad.json"})
	assert.Error(t, err)
}

func TestInvoiceListenerSharesGeneratorStore(t *testing.T) {
	objects := new(MockObjectStore)
	generator := newWarrantyGenerator(testGeneratorConfig, objects, new(MockRunStore), new(MockSettingsStore), nil)

	listener := listenerFor(generator)
	assert.Same(t, objects, listener.objects)
	assert.Same(t, generator, listener.generator)
}
