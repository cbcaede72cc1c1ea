package qa

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/futig/pdfqa/internal/config"
	"github.com/futig/pdfqa/internal/entity"
	"github.com/futig/pdfqa/internal/pkg/response"
	"github.com/futig/pdfqa/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMaxSize = 1024

func newTestHandler() *Handler {
	h := NewHandler(NewStore(), validator.NewFileValidator(config.FileUploadConfig{MaxFileSize: testMaxSize}), testMaxSize)
	h.pick = func(int) int { return 1 }
	return h
}

func multipartRequest(t *testing.T, field, name string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) entity.ErrorResponse {
	t.Helper()
	var body entity.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestHandler_Upload(t *testing.T) {
	h := newTestHandler()
	rec := httptest.NewRecorder()

	h.Upload(rec, multipartRequest(t, "file", "report.pdf", []byte("%PDF-1.7\nbody")))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var ref entity.DocumentReference
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&ref))
	assert.True(t, strings.HasPrefix(ref.ID, "doc-"))

	doc, ok := h.store.Get(ref.ID)
	require.True(t, ok)
	assert.Equal(t, "report.pdf", doc.Name)
	assert.Equal(t, int64(13), doc.Size)
}

func TestHandler_Upload_Rejects(t *testing.T) {
	tests := []struct {
		name       string
		field      string
		filename   string
		content    []byte
		wantStatus int
		wantCode   string
	}{
		{
			name:       "not a pdf extension",
			field:      "file",
			filename:   "notes.txt",
			content:    []byte("%PDF-1.7"),
			wantStatus: http.StatusBadRequest,
			wantCode:   response.CodeInvalidFile,
		},
		{
			name:       "pdf extension without signature",
			field:      "file",
			filename:   "image.pdf",
			content:    []byte("\x89PNG\r\n"),
			wantStatus: http.StatusBadRequest,
			wantCode:   response.CodeInvalidFile,
		},
		{
			name:       "over the size limit",
			field:      "file",
			filename:   "big.pdf",
			content:    append([]byte("%PDF-"), bytes.Repeat([]byte("a"), testMaxSize)...),
			wantStatus: http.StatusRequestEntityTooLarge,
			wantCode:   response.CodeInvalidFile,
		},
		{
			name:       "wrong form field",
			field:      "document",
			filename:   "report.pdf",
			content:    []byte("%PDF-1.7"),
			wantStatus: http.StatusBadRequest,
			wantCode:   response.CodeInvalidFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler()
			rec := httptest.NewRecorder()

			h.Upload(rec, multipartRequest(t, tt.field, tt.filename, tt.content))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
			assert.Zero(t, h.store.Len())
		})
	}
}

func TestHandler_Upload_NotMultipart(t *testing.T) {
	h := newTestHandler()
	rec := httptest.NewRecorder()

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(`{"file":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	h.Upload(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, response.CodeInvalidRequest, decodeError(t, rec).Code)
}

func TestHandler_Ask(t *testing.T) {
	h := newTestHandler()
	id := h.store.Add("report.pdf", 10)

	body, err := json.Marshal(entity.AskRequest{PdfID: id, Question: "What is it about?"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.Ask(rec, httptest.NewRequest(http.MethodPost, "/ask", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var result entity.QAResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, h.answers[1], result)
}

func TestHandler_Ask_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "malformed json",
			body:       `{"pdfId":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   response.CodeInvalidRequest,
		},
		{
			name:       "blank question",
			body:       `{"pdfId":"doc-1","question":"   "}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   response.CodeInvalidRequest,
		},
		{
			name:       "missing document id",
			body:       `{"question":"why?"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   response.CodeInvalidRequest,
		},
		{
			name:       "unknown document",
			body:       `{"pdfId":"doc-missing","question":"why?"}`,
			wantStatus: http.StatusNotFound,
			wantCode:   response.CodeDocumentNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler()
			rec := httptest.NewRecorder()

			h.Ask(rec, httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
		})
	}
}
