package flow

import (
	"context"

	"github.com/futig/pdfqa/internal/entity"
)

// Backend is the question-answering service the flow talks to.
type Backend interface {
	UploadDocument(ctx context.Context, file *entity.UploadFile) (*entity.DocumentReference, error)
	AskQuestion(ctx context.Context, documentID, question string) (*entity.QAResult, error)
}

type FileValidator interface {
	ValidateDocument(file *entity.UploadFile) error
	MaxFileSize() int64
}

// Notifier delivers user-facing notifications. It is called outside the
// flow's lock, one notification at a time and in the order state changed.
// It may block; View and Reset are not held up by it.
type Notifier interface {
	Notify(ctx context.Context, n entity.Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n entity.Notification)

func (f NotifierFunc) Notify(ctx context.Context, n entity.Notification) {
	f(ctx, n)
}
