package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func buildImportRequest(t *testing.T, csv string, contentType string) *http.Request {
	t.Helper()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", `form-data; name="file"; filename="products.csv"`)
	if contentType != "" {
		partHeader.Set("Content-Type", contentType)
	}
	part, err := writer.CreatePart(partHeader)
	require.NoError(t, err)
	_, err = part.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/products/import", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestProductHandler_Import_Success(t *testing.T) {
	productRepo := new(MockProductRepository)
	handler := setupProductHandler(productRepo)

	productRepo.On("ExistsByName", mock.Anything, "Branded Mug").Return(false, nil)
	productRepo.On("ExistsByName", mock.Anything, "Tote Bag").Return(false, nil)
	productRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	router := setupTestRouter()
	router.POST("/products/import", handler.Import)

	csv := "name,unit_price,category\n" +
		"Branded Mug,12.50,mugs\n" +
		"Tote Bag,8.90,bags\n"

	w := httptest.NewRecorder()
	router.ServeHTTP(w, buildImportRequest(t, csv, "text/csv"))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			TotalRows int `json:"total_rows"`
			Created   int `json:"created"`
			Failed    int `json:"failed"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.TotalRows)
	assert.Equal(t, 2, resp.Data.Created)
	assert.Equal(t, 0, resp.Data.Failed)
	productRepo.AssertExpectations(t)
}

func TestProductHandler_Import_ReportsRowErrors(t *testing.T) {
	productRepo := new(MockProductRepository)
	handler := setupProductHandler(productRepo)

	productRepo.On("ExistsByName", mock.Anything, "Tote Bag").Return(false, nil)
	productRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	router := setupTestRouter()
	router.POST("/products/import", handler.Import)

	csv := "name,unit_price,category\n" +
		",12.50,mugs\n" +
		"Tote Bag,8.90,bags\n"

	w := httptest.NewRecorder()
	router.ServeHTTP(w, buildImportRequest(t, csv, "text/csv"))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Created int `json:"created"`
			Failed  int `json:"failed"`
			Errors  []struct {
				Row    int    `json:"row"`
				Column string `json:"column"`
				Code   string `json:"code"`
			} `json:"errors"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.Created)
	assert.Equal(t, 1, resp.Data.Failed)
	require.Len(t, resp.Data.Errors, 1)
	assert.Equal(t, 2, resp.Data.Errors[0].Row)
}

func TestProductHandler_Import_MissingFile(t *testing.T) {
	productRepo := new(MockProductRepository)
	handler := setupProductHandler(productRepo)

	router := setupTestRouter()
	router.POST("/products/import", handler.Import)

	req := httptest.NewRequest(http.MethodPost, "/products/import", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandler_Import_UnsupportedContentType(t *testing.T) {
	productRepo := new(MockProductRepository)
	handler := setupProductHandler(productRepo)

	router := setupTestRouter()
	router.POST("/products/import", handler.Import)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, buildImportRequest(t, "not,a,csv", "application/pdf"))

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductHandler_Import_MissingColumns(t *testing.T) {
	productRepo := new(MockProductRepository)
	handler := setupProductHandler(productRepo)

	router := setupTestRouter()
	router.POST("/products/import", handler.Import)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, buildImportRequest(t, "name,category\nBranded Mug,mugs\n", "text/csv"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
