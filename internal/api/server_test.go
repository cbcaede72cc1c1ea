package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/futig/pdfqa/internal/api/qa"
	"github.com/futig/pdfqa/internal/config"
	"github.com/futig/pdfqa/internal/entity"
	"github.com/futig/pdfqa/internal/integration/pdfqa"
	"github.com/futig/pdfqa/internal/pkg/validator"
	pkghttp "github.com/futig/pdfqa/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, cfg config.MockServerConfig) *httptest.Server {
	t.Helper()

	fileValidator := validator.NewFileValidator(config.FileUploadConfig{MaxFileSize: cfg.MaxUploadSize})
	handler := qa.NewHandler(qa.NewStore(), fileValidator, cfg.MaxUploadSize)

	server := httptest.NewServer(SetupRouter(cfg, handler, zap.NewNop()))
	t.Cleanup(server.Close)
	return server
}

func testServerConfig() config.MockServerConfig {
	return config.MockServerConfig{
		BasePath:       "/api",
		AllowedOrigins: []string{"http://localhost:5173"},
		MaxUploadSize:  1 << 20,
	}
}

func TestRouter_Health(t *testing.T) {
	server := newTestServer(t, testServerConfig())

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, map[string]string{"status": "healthy"}, body)
}

func TestRouter_DocsRedirect(t *testing.T) {
	server := newTestServer(t, testServerConfig())

	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}
	resp, err := client.Get(server.URL + "/docs")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/docs/index.html", resp.Header.Get("Location"))
}

func TestRouter_ServesOpenAPIDocument(t *testing.T) {
	server := newTestServer(t, testServerConfig())

	resp, err := http.Get(server.URL + "/docs/swagger.yaml")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "/upload:")
	assert.Contains(t, string(body), "DOCUMENT_NOT_FOUND")
}

func TestRouter_CORSPreflight(t *testing.T) {
	server := newTestServer(t, testServerConfig())

	req, err := http.NewRequest(http.MethodOptions, server.URL+"/api/ask", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRouter_ConnectorRoundTrip(t *testing.T) {
	server := newTestServer(t, testServerConfig())

	connector := pdfqa.NewConnector(config.BackendConnectorConfig{
		HTTPClientConfig: config.HTTPClientConfig{
			Url:         server.URL + "/api",
			ConnTimeout: 5 * time.Second,
		},
		UploadEndpoint: "/upload",
		AskEndpoint:    "/ask",
	}, zap.NewNop())

	ctx := context.Background()

	ref, err := connector.UploadDocument(ctx, entity.NewUploadFile("report.pdf", []byte("%PDF-1.7\ncontent")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref.ID, "doc-"))

	result, err := connector.AskQuestion(ctx, ref.ID, "What is this about?")
	require.NoError(t, err)
	assert.Contains(t, pdfqa.CannedAnswers, *result)

	_, err = connector.AskQuestion(ctx, "doc-unknown", "What is this about?")
	apiErr, ok := pkghttp.AsAPIError(err)
	require.True(t, ok, "got %T", err)
	assert.Equal(t, pkghttp.KindServer, apiErr.Kind)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "DOCUMENT_NOT_FOUND", apiErr.Code)

	_, err = connector.UploadDocument(ctx, entity.NewUploadFile("notes.txt", []byte("plain text")))
	apiErr, ok = pkghttp.AsAPIError(err)
	require.True(t, ok, "got %T", err)
	assert.Equal(t, "INVALID_FILE", apiErr.Code)
}

func TestBasePath(t *testing.T) {
	assert.Equal(t, "/api", basePath("api"))
	assert.Equal(t, "/api", basePath("/api/"))
	assert.Equal(t, "", basePath("/"))
	assert.Equal(t, "", basePath(""))
}
