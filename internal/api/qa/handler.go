package qa

import (
	"encoding/json"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"strings"

	"github.com/futig/pdfqa/internal/entity"
	"github.com/futig/pdfqa/internal/integration/pdfqa"
	"github.com/futig/pdfqa/internal/pkg/logger"
	"github.com/futig/pdfqa/internal/pkg/response"
	"github.com/futig/pdfqa/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	uploadFormField = "file"
	// multipart framing on top of the file itself
	formOverhead = 1 << 20
)

// Handler serves the development question-answering backend.
type Handler struct {
	store         *Store
	validator     FileValidator
	maxUploadSize int64
	answers       []entity.QAResult
	pick          func(n int) int
}

func NewHandler(store *Store, fileValidator FileValidator, maxUploadSize int64) *Handler {
	return &Handler{
		store:         store,
		validator:     fileValidator,
		maxUploadSize: maxUploadSize,
		answers:       pdfqa.CannedAnswers,
		pick:          rand.Intn,
	}
}

// Upload stores a PDF sent as multipart field "file" and returns its id.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Upload")

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+formOverhead)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			ctxzap.Warn(ctx, "upload body too large", zap.Int64("limit", tooLarge.Limit))
			response.Error(w, http.StatusRequestEntityTooLarge, response.CodeInvalidFile, "File is too large", "")
			return
		}
		ctxzap.Warn(ctx, "failed to parse multipart form", zap.Error(err))
		response.Error(w, http.StatusBadRequest, response.CodeInvalidRequest, "Expected multipart/form-data", err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		ctxzap.Warn(ctx, "upload without file field", zap.Error(err))
		response.Error(w, http.StatusBadRequest, response.CodeInvalidFile, "No file provided", "")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		ctxzap.Error(ctx, "failed to read uploaded file", zap.Error(err))
		response.Error(w, http.StatusBadRequest, response.CodeInvalidFile, "Could not read file", err.Error())
		return
	}

	upload := entity.NewUploadFile(validator.SanitizeFilename(header.Filename), content)
	if err := h.validator.ValidateDocument(upload); err != nil {
		ctxzap.Warn(ctx, "rejected upload", zap.String("filename", upload.Name), zap.Error(err))
		status := http.StatusBadRequest
		if errors.Is(err, entity.ErrFileTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		response.Error(w, status, response.CodeInvalidFile, "Only PDF files within the size limit are accepted", err.Error())
		return
	}

	id := h.store.Add(upload.Name, upload.Size)
	ctxzap.Info(ctx, "document stored",
		zap.String("document_id", id),
		zap.String("filename", upload.Name),
		zap.Int64("size", upload.Size),
	)

	response.Success(w, entity.DocumentReference{ID: id})
}

// Ask answers a question about a stored document with a canned answer.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Ask")

	var req entity.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Warn(ctx, "invalid ask body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, response.CodeInvalidRequest, "Invalid request body", err.Error())
		return
	}

	if strings.TrimSpace(req.PdfID) == "" || strings.TrimSpace(req.Question) == "" {
		response.Error(w, http.StatusBadRequest, response.CodeInvalidRequest, "pdfId and question are required", "")
		return
	}

	doc, ok := h.store.Get(req.PdfID)
	if !ok {
		ctxzap.Warn(ctx, "unknown document", zap.String("document_id", req.PdfID))
		response.Error(w, http.StatusNotFound, response.CodeDocumentNotFound, "Document not found", req.PdfID)
		return
	}

	result := h.answers[h.pick(len(h.answers))]
	ctxzap.Info(ctx, "question answered",
		zap.String("document_id", doc.ID),
		zap.String("filename", doc.Name),
		zap.Float64("confidence", result.Confidence),
	)

	response.Success(w, result)
}
