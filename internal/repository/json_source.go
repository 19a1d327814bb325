package repository

import (
	"context"
	"fmt"
	"os"

	"property-assistant/internal/model"
	"property-assistant/internal/utils"
)

// JSONPropertySource reads the catalog from a JSON array file
type JSONPropertySource struct {
	path string
}

// NewJSONPropertySource creates a source for the given file
func NewJSONPropertySource(path string) *JSONPropertySource {
	return &JSONPropertySource{path: path}
}

// Path returns the backing file path
func (s *JSONPropertySource) Path() string {
	return s.path
}

// LoadProperties reads and decodes the file. Bare NaN and Infinity values
// are read as missing.
func (s *JSONPropertySource) LoadProperties(ctx context.Context) ([]model.Property, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	var properties []model.Property
	if err := utils.DecodeTolerant(data, &properties); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.path, err)
	}
	return properties, nil
}
