package service

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"property-assistant/internal/repository"
)

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestAdminService_Upload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apartments.json")
	store := NewCatalogStore(repository.NewJSONPropertySource(path), zap.NewNop())
	svc := NewAdminService(store, path, zap.NewNop())

	n, err := svc.Upload(context.Background(), workbook(t, [][]interface{}{
		{"Building Name", "Location", "Apartment Types"},
		{"Sea Breeze", "Kadri", "2BHK"},
		{"Hill View", "Bejai", "3BHK"},
	}))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	catalog := store.Current()
	assert.Equal(t, 2, catalog.Len())
	assert.Equal(t, []string{"Kadri", "Bejai"}, catalog.Locations())

	n, err = svc.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestAdminService_UploadRejectsBadWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apartments.json")
	store := newTestStore(sampleProperties())
	svc := NewAdminService(store, path, zap.NewNop())

	_, err := svc.Upload(context.Background(), bytes.NewBufferString("not a workbook"))
	assert.Error(t, err)
	assert.Equal(t, 4, store.Current().Len())
}

func TestAdminService_UploadUnsupported(t *testing.T) {
	svc := NewAdminService(newTestStore(nil), "", zap.NewNop())

	_, err := svc.Upload(context.Background(), &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrUploadUnsupported)
}
