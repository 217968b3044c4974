package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Lllllllleong/warrantydocumentflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSettingsGetDefaults(t *testing.T) {
	store := new(MockSettingsStore)
	store.On("Get", mock.Anything).Return(nil, nil)

	res, err := newSettings(store).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{7884}, res.ExcludeProductIDs)
	assert.Equal(t, 1, res.DefaultWarrantyPeriod)
}

func TestSettingsGetStored(t *testing.T) {
	store := new(MockSettingsStore)
	store.On("Get", mock.Anything).Return(&models.WarrantySettings{
		ExcludeProductIDs:     []int64{12, 3},
		DefaultWarrantyPeriod: 24,
		TemplateObject:        "warranty/garancia_v2.pdf",
	}, nil)

	res, err := newSettings(store).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 12}, res.ExcludeProductIDs)
	assert.Equal(t, 24, res.DefaultWarrantyPeriod)
	assert.Equal(t, "warranty/garancia_v2.pdf", res.TemplateObject)
}

func TestSettingsSave(t *testing.T) {
	now := time.Date(2025, 10, 14, 8, 0, 0, 0, time.UTC)
	period := 6

	tests := []struct {
		name string
		req  models.WarrantySettingsRequest
		want models.WarrantySettings
	}{
		{
			name: "explicit values",
			req:  models.WarrantySettingsRequest{ExcludeProductIDs: []int64{9, 5, 9}, DefaultWarrantyPeriod: &period},
			want: models.WarrantySettings{ExcludeProductIDs: []int64{5, 9}, DefaultWarrantyPeriod: 6, UpdatedAt: now},
		},
		{
			name: "template object is trimmed",
			req:  models.WarrantySettingsRequest{TemplateObject: " /warranty/garancia_v2.pdf "},
			want: models.WarrantySettings{ExcludeProductIDs: []int64{7884}, DefaultWarrantyPeriod: 1, TemplateObject: "warranty/garancia_v2.pdf", UpdatedAt: now},
		},
		{
			name: "empty request resets to defaults",
			req:  models.WarrantySettingsRequest{},
			want: models.WarrantySettings{ExcludeProductIDs: []int64{7884}, DefaultWarrantyPeriod: 1, UpdatedAt: now},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockSettingsStore)
			store.On("Put", mock.Anything, tt.want).Return(nil)
			f := newSettings(store)
			f.now = func() time.Time { return now }

			res, err := f.Save(context.Background(), &tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want.ExcludeProductIDs, res.ExcludeProductIDs)
			assert.Equal(t, tt.want.DefaultWarrantyPeriod, res.DefaultWarrantyPeriod)
			assert.Equal(t, tt.want.TemplateObject, res.TemplateObject)
			store.AssertExpectations(t)
		})
	}
}

func TestSettingsSaveError(t *testing.T) {
	store := new(MockSettingsStore)
	store.On("Put", mock.Anything, mock.Anything).Return(errors.New("permission denied"))

	_, err := newSettings(store).Save(context.Background(), &models.WarrantySettingsRequest{})
	assert.ErrorContains(t, err, "permission denied")
}
