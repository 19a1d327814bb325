package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"property-assistant/internal/repository"
)

// ErrUploadUnsupported is returned when the catalog is not file backed
var ErrUploadUnsupported = errors.New("catalog upload requires CATALOG_SOURCE=json")

// AdminService reloads and replaces the catalog
type AdminService struct {
	catalogs    *CatalogStore
	catalogPath string // empty when the catalog is not file backed
	logger      *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(catalogs *CatalogStore, catalogPath string, logger *zap.Logger) *AdminService {
	return &AdminService{catalogs: catalogs, catalogPath: catalogPath, logger: logger}
}

// Reload re-reads the catalog source
func (s *AdminService) Reload(ctx context.Context) (int, error) {
	return s.catalogs.Reload(ctx)
}

// Upload converts an Excel workbook into the catalog file and reloads
func (s *AdminService) Upload(ctx context.Context, r io.Reader) (int, error) {
	if s.catalogPath == "" {
		return 0, ErrUploadUnsupported
	}

	rows, err := repository.ConvertExcelToJSON(r, s.catalogPath)
	if err != nil {
		return 0, fmt.Errorf("failed to convert workbook: %w", err)
	}
	s.logger.Info("catalog workbook converted", zap.Int("rows", rows), zap.String("path", s.catalogPath))

	return s.catalogs.Reload(ctx)
}
