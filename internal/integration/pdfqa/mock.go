package pdfqa

import (
	"context"
	"math/rand"
	"time"

	"github.com/futig/pdfqa/internal/entity"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// CannedAnswers are returned by MockConnector and the development backend.
var CannedAnswers = []entity.QAResult{
	{
		Answer:     "Based on the document, the main points discussed are the implementation of AI-driven analysis and the importance of data security in modern systems.",
		Confidence: 0.92,
		Source:     "Page 3, Section 2.1",
	},
	{
		Answer:     "The document outlines three key methodologies: machine learning algorithms, natural language processing, and statistical analysis.",
		Confidence: 0.88,
		Source:     "Page 5, Section 3.2",
	},
	{
		Answer:     "According to the research findings, the system achieved a 95% accuracy rate in document classification tasks.",
		Confidence: 0.95,
		Source:     "Page 8, Section 4.3",
	},
}

// MockConnector answers without a backend, for local runs with ENABLE_MOCKS.
type MockConnector struct {
	delay  time.Duration
	pick   func(n int) int
	logger *zap.Logger
}

func NewMockConnector(delay time.Duration, logger *zap.Logger) *MockConnector {
	return &MockConnector{
		delay:  delay,
		pick:   rand.Intn,
		logger: logger,
	}
}

func (m *MockConnector) UploadDocument(ctx context.Context, file *entity.UploadFile) (*entity.DocumentReference, error) {
	ref := &entity.DocumentReference{ID: "doc-" + uuid.NewString()}

	ctxzap.Info(ctx, "[MOCK] uploading document",
		zap.String("filename", file.Name),
		zap.String("document_id", ref.ID),
	)

	return ref, nil
}

func (m *MockConnector) AskQuestion(ctx context.Context, documentID, question string) (*entity.QAResult, error) {
	ctxzap.Info(ctx, "[MOCK] asking question",
		zap.String("document_id", documentID),
		zap.String("question", question),
	)

	if m.delay > 0 {
		timer := time.NewTimer(m.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	result := CannedAnswers[m.pick(len(CannedAnswers))]
	return &result, nil
}
