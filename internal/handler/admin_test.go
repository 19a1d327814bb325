package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbookBytes(t *testing.T, rows [][]interface{}) []byte {
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
	return buf.Bytes()
}

func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestAdminHandler_Upload(t *testing.T) {
	env := newTestEnv(t)

	content := workbookBytes(t, [][]interface{}{
		{"Building Name", "Location", "Apartment Types"},
		{"Hill View", "Bendoor", "2BHK"},
		{"Lake Side", "Kadri", "3BHK"},
		{"River Walk", "Urwa", "1BHK"},
	})
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, uploadRequest(t, "apartments.xlsx", content))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 3, decode[struct {
		Properties int `json:"properties"`
	}](t, w).Properties)

	w = performRequest(env.router, http.MethodGet, "/api/v1/properties/3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "River Walk")
}

func TestAdminHandler_UploadValidation(t *testing.T) {
	env := newTestEnv(t)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, uploadRequest(t, "apartments.csv", []byte("a,b")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(env.router, http.MethodPost, "/api/v1/admin/upload", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, uploadRequest(t, "broken.xlsx", []byte("not a zip")))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = performRequest(env.router, http.MethodGet, "/api/v1/properties", nil)
	assert.Contains(t, w.Body.String(), "Sea Breeze")
}

func TestAdminHandler_Reload(t *testing.T) {
	env := newTestEnv(t)

	w := performRequest(env.router, http.MethodPost, "/api/v1/admin/reload", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"properties":2}`, w.Body.String())
}
