package http

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestConnector(baseURL string) *Connector {
	return NewConnector(&ConnectorConfig{BaseURL: baseURL, Logger: zap.NewNop()}, WithRequestID(), WithRequestLogging())
}

func TestConnector_DoRequest_SetsJSONContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/ask", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello", body["greeting"])

		w.Write([]byte(`{"answer":"ok"}`))
	}))
	defer server.Close()

	var resp struct {
		Answer string `json:"answer"`
	}
	err := newTestConnector(server.URL).DoRequest(context.Background(), http.MethodPost, "/ask", map[string]string{"greeting": "hello"}, &resp)

	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Answer)
}

func TestConnector_DoRequest_KeepsCallerContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/vnd.custom+json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	err := newTestConnector(server.URL).DoRequest(context.Background(), http.MethodPost, "/x", map[string]string{}, nil,
		WithHeader("Content-Type", "application/vnd.custom+json"))

	require.NoError(t, err)
}

func TestConnector_DoMultipartRequest_UsesWriterBoundary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType := r.Header.Get("Content-Type")
		assert.True(t, strings.HasPrefix(contentType, "multipart/form-data; boundary="), contentType)
		assert.NotContains(t, contentType, "application/json")

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "report.pdf", header.Filename)
		assert.Equal(t, "%PDF-1.4 body", string(data))

		w.Write([]byte(`{"id":"doc-1"}`))
	}))
	defer server.Close()

	var resp struct {
		ID string `json:"id"`
	}
	err := newTestConnector(server.URL).DoMultipartRequest(context.Background(), http.MethodPost, "/upload",
		func(w *multipart.Writer) error {
			part, err := w.CreateFormFile("file", "report.pdf")
			if err != nil {
				return err
			}
			_, err = part.Write([]byte("%PDF-1.4 body"))
			return err
		},
		&resp,
		WithHeader("Content-Type", "application/json"),
	)

	require.NoError(t, err)
	assert.Equal(t, "doc-1", resp.ID)
}

func TestConnector_ErrorResponses(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantKind    ErrorKind
		wantCode    string
		wantMessage string
		wantDetails string
	}{
		{
			name:        "structured server error",
			status:      http.StatusBadRequest,
			body:        `{"code":"INVALID_FILE","message":"Only PDF files are accepted","details":"got text/plain"}`,
			wantKind:    KindServer,
			wantCode:    "INVALID_FILE",
			wantMessage: "Only PDF files are accepted",
			wantDetails: "got text/plain",
		},
		{
			name:        "missing fields fall back to defaults",
			status:      http.StatusInternalServerError,
			body:        `{}`,
			wantKind:    KindServer,
			wantCode:    CodeUnknownError,
			wantMessage: MessageUnknownError,
		},
		{
			name:        "non-string details are kept as raw JSON",
			status:      http.StatusUnprocessableEntity,
			body:        `{"code":"QA_FAILED","message":"failed","details":{"page":3}}`,
			wantKind:    KindServer,
			wantCode:    "QA_FAILED",
			wantMessage: "failed",
			wantDetails: `{"page":3}`,
		},
		{
			name:        "non-JSON error body is a network error",
			status:      http.StatusBadGateway,
			body:        `<html>bad gateway</html>`,
			wantKind:    KindNetwork,
			wantCode:    CodeNetworkError,
			wantMessage: MessageNetworkError,
		},
		{
			name:        "null error body is a network error",
			status:      http.StatusInternalServerError,
			body:        `null`,
			wantKind:    KindNetwork,
			wantCode:    CodeNetworkError,
			wantMessage: MessageNetworkError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			err := newTestConnector(server.URL).DoRequest(context.Background(), http.MethodPost, "/ask", map[string]string{}, nil)
			require.Error(t, err)

			apiErr, ok := err.(*APIError)
			require.True(t, ok, "error must be returned unwrapped, got %T", err)
			assert.Equal(t, tt.wantKind, apiErr.Kind)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			if tt.wantKind == KindServer {
				assert.Equal(t, tt.status, apiErr.StatusCode)
				assert.Equal(t, tt.wantDetails, apiErr.Details)
			} else {
				assert.NotEmpty(t, apiErr.Details)
			}
		})
	}
}

func TestConnector_ConnectionRefused(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	err = newTestConnector("http://"+addr).DoRequest(context.Background(), http.MethodPost, "/ask", map[string]string{}, nil)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.True(t, apiErr.IsNetwork())
	assert.Equal(t, CodeNetworkError, apiErr.Code)
	assert.Equal(t, MessageNetworkError, apiErr.Message)
	assert.Contains(t, apiErr.Details, "refused")
	assert.NotNil(t, apiErr.Unwrap())
}

func TestConnector_UndecodableSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	var resp map[string]any
	err := newTestConnector(server.URL).DoRequest(context.Background(), http.MethodGet, "/x", nil, &resp)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, KindNetwork, apiErr.Kind)
}

func TestConnector_KeepsCallerRequestID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "fixed-id", r.Header.Get("X-Request-ID"))
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	err := newTestConnector(server.URL).DoRequest(context.Background(), http.MethodGet, "/x", nil, nil,
		WithHeader("X-Request-ID", "fixed-id"))

	require.NoError(t, err)
}
