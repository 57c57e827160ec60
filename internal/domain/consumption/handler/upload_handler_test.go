package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/layout"
	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/service"
	"github.com/FACorreiaa/smart-water-tracker/pkg/fixtures"
)

func newTestServer(t *testing.T, kind string) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := service.NewConsumptionService(service.Config{
		Layout:        layout.Config{Kind: kind, HeaderRow: layout.AutoDetect},
		ReferenceYear: 2025,
	}, logger)
	require.NoError(t, err)
	svc.WithCache(service.NewResultCache(10))

	mux := http.NewServeMux()
	NewUploadHandler(svc, logger).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func workbookBytes(t *testing.T, rows [][]any) []byte {
	t.Helper()
	data, err := fixtures.WorkbookBytes(fixtures.Rows(layout.DashboardSheet, rows))
	require.NoError(t, err)
	return data
}

func TestUpload_Multipart(t *testing.T) {
	srv := newTestServer(t, layout.KindHeaderSearch)
	data := workbookBytes(t, [][]any{
		{"Data", "Volume", "Valor"},
		{"02/jan", "100,5", "350,00"},
		{"03/jan", "0", "1,00"},
	})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "consumo.xlsx")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/api/v1/uploads", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var job struct {
		ID       string `json:"id"`
		FileName string `json:"file_name"`
		Status   string `json:"status"`
		Stats    struct {
			ValidRows int `json:"valid_rows"`
		} `json:"stats"`
		Table struct {
			Rows []map[string]any `json:"rows"`
		} `json:"table"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&job))
	assert.Equal(t, "consumo.xlsx", job.FileName)
	assert.Equal(t, "succeeded", job.Status)
	assert.Equal(t, 1, job.Stats.ValidRows)
	require.Len(t, job.Table.Rows, 1)
	assert.Equal(t, "2025-01-02", job.Table.Rows[0]["date"])

	got, err := http.Get(srv.URL + "/api/v1/uploads/" + job.ID + "?format=csv")
	require.NoError(t, err)
	defer got.Body.Close()
	assert.Equal(t, http.StatusOK, got.StatusCode)
	assert.Contains(t, got.Header.Get("Content-Type"), "text/csv")
	csv, err := io.ReadAll(got.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(csv), "data,dia_semana"))
}

func TestUpload_RawBodyLayoutError(t *testing.T) {
	srv := newTestServer(t, layout.KindHeaderSearch)
	data := workbookBytes(t, [][]any{{"Data", "Quantidade", "Preço"}, {"02/jan", "1", "2"}})

	resp, err := http.Post(srv.URL+"/api/v1/uploads?name=x.xlsx", "application/octet-stream", bytes.NewReader(data))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotNil(t, body.Diagnostic)
	assert.Equal(t, []string{layout.FieldVolume, layout.FieldAmount}, body.Diagnostic.MissingFields)
	assert.Contains(t, body.Diagnostic.DiscoveredHeaders, "Quantidade")
}

func TestUpload_Errors(t *testing.T) {
	srv := newTestServer(t, layout.KindFixedRegion)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"not a workbook", "hello", http.StatusUnsupportedMediaType},
		{"empty", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/api/v1/uploads", "application/octet-stream", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestGet_NotFound(t *testing.T) {
	srv := newTestServer(t, layout.KindFixedRegion)

	resp, err := http.Get(srv.URL + "/api/v1/uploads/6f1c1f8e-7a39-4d2e-9d5c-2b1f0f6f2a10")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/v1/uploads/not-a-uuid")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
