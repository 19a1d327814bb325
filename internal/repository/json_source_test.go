package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONPropertySource_LoadProperties(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apartments.json")
	data := `[
		{"Building Name": "Sea Breeze", "Location": "Kadri", "Price Range (Lakhs)": "120-180", "Latitude": 12.88, "Longitude": NaN},
		{"Building Name": "Palm Residency", "Location": "Bejai", "Builder Contact": 9876543210}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	got, err := NewJSONPropertySource(path).LoadProperties(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Sea Breeze", got[0].BuildingName)
	assert.NotNil(t, got[0].Latitude)
	assert.Nil(t, got[0].Longitude)
	assert.Equal(t, "9876543210", got[1].BuilderContact)
}

func TestJSONPropertySource_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewJSONPropertySource(filepath.Join(dir, "missing.json")).LoadProperties(context.Background())
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"not": "an array"`), 0o644))
	_, err = NewJSONPropertySource(bad).LoadProperties(context.Background())
	assert.Error(t, err)
}
