package pdfqa

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/futig/pdfqa/internal/config"
	"github.com/futig/pdfqa/internal/entity"
	pkghttp "github.com/futig/pdfqa/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// uploadFormField is the multipart field the backend reads the PDF from.
const uploadFormField = "file"

// userAgent identifies this client to the backend.
const userAgent = "pdfqa-client/1.0"

// Connector talks to the PDF question-answering backend.
type Connector struct {
	config    config.BackendConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.BackendConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: newHTTPConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// newHTTPConnector builds the shared transport. It never retries: a failed
// upload or question is reported to the user as is.
func newHTTPConnector(cfg config.HTTPClientConfig, logger *zap.Logger) *pkghttp.Connector {
	return pkghttp.NewConnector(
		&pkghttp.ConnectorConfig{
			Logger:  logger,
			BaseURL: cfg.Url,
		},
		pkghttp.WithTimeouts(pkghttp.Timeouts{
			Dial:           cfg.ConnTimeout,
			KeepAlive:      cfg.KeepAlive,
			TLSHandshake:   cfg.TLSHandshakeTimeout,
			ResponseHeader: cfg.ResponseHeaderTimeout,
			IdleConn:       cfg.IdleConnTimeout,
			Request:        cfg.RequestTimeout,
		}),
		pkghttp.WithInsecureSkipVerify(cfg.InsecureSkipVerify),
		pkghttp.WithRequestLogging(),
		pkghttp.WithRequestID(),
	)
}

// UploadDocument uploads a PDF
// POST {upload_endpoint} with multipart/form-data field "file"
func (c *Connector) UploadDocument(ctx context.Context, file *entity.UploadFile) (*entity.DocumentReference, error) {
	ctxzap.Info(ctx, "uploading document to backend",
		zap.String("filename", file.Name),
		zap.Int("size", len(file.Content)),
	)

	prepareBody := func(writer *multipart.Writer) error {
		part, err := writer.CreateFormFile(uploadFormField, file.Name)
		if err != nil {
			return fmt.Errorf("create form file: %w", err)
		}

		if _, err := part.Write(file.Content); err != nil {
			return fmt.Errorf("write file content: %w", err)
		}
		return nil
	}

	var resp entity.DocumentReference
	err := c.connector.DoMultipartRequest(ctx, http.MethodPost, c.config.UploadEndpoint, prepareBody, &resp,
		pkghttp.WithHeader("User-Agent", userAgent))
	if err != nil {
		ctxzap.Error(ctx, "failed to upload document", zap.Error(err))
		return nil, err
	}

	ctxzap.Info(ctx, "document uploaded successfully", zap.String("document_id", resp.ID))
	return &resp, nil
}

// AskQuestion asks a question about an uploaded document
// POST {ask_endpoint} with {"pdfId": ..., "question": ...}
func (c *Connector) AskQuestion(ctx context.Context, documentID, question string) (*entity.QAResult, error) {
	ctxzap.Info(ctx, "asking backend a question",
		zap.String("document_id", documentID),
		zap.Int("question_length", len(question)),
	)

	req := &entity.AskRequest{
		PdfID:    documentID,
		Question: question,
	}

	var resp entity.QAResult
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.AskEndpoint, req, &resp,
		pkghttp.WithHeader("User-Agent", userAgent))
	if err != nil {
		ctxzap.Error(ctx, "failed to ask question", zap.Error(err))
		return nil, err
	}

	ctxzap.Info(ctx, "answer received",
		zap.Float64("confidence", resp.Confidence),
		zap.String("source", resp.Source),
	)
	return &resp, nil
}
