package flow

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/futig/pdfqa/internal/entity"
	"github.com/futig/pdfqa/internal/pkg/logger"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// State is the position of a Flow in the upload/ask/reset cycle.
type State string

const (
	StateNoDocument    State = "NO_DOCUMENT"
	StateDocumentReady State = "DOCUMENT_READY"
	// StateAnswered is a sub-state of StateDocumentReady.
	StateAnswered State = "ANSWERED"
)

const (
	opUpload = "upload"
	opAsk    = "ask"
)

// ErrStaleResponse is returned when a response arrives after the flow was
// reset. The response is dropped without touching state or notifying.
var ErrStaleResponse = errors.New("response discarded after reset")

var errEmptyDocumentID = errors.New("backend returned an empty document id")

// inFlightRequest is the single slot for the outstanding backend call.
type inFlightRequest struct {
	op         string
	generation uint64
	cancel     context.CancelFunc
}

type queuedNotification struct {
	ctx          context.Context
	notification entity.Notification
}

// Flow drives one upload/ask/reset session. It is safe for concurrent use;
// backend calls and notifications run outside the lock so View and Reset
// stay available.
type Flow struct {
	backend   Backend
	validator FileValidator
	notifier  Notifier
	logger    *zap.Logger

	mu         sync.Mutex
	state      State
	document   *entity.DocumentReference
	filename   string
	question   string
	result     *entity.QAResult
	inFlight   *inFlightRequest
	generation uint64

	// outbox keeps notifications in the order state changed. At most one
	// goroutine drains it at a time.
	outbox     []queuedNotification
	delivering bool
}

// New creates a flow in StateNoDocument.
func New(backend Backend, validator FileValidator, notifier Notifier, logger *zap.Logger) *Flow {
	if notifier == nil {
		notifier = NotifierFunc(func(context.Context, entity.Notification) {})
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Flow{
		backend:   backend,
		validator: validator,
		notifier:  notifier,
		logger:    logger,
		state:     StateNoDocument,
	}
}

// SelectFile validates and uploads a PDF. It is only accepted in
// StateNoDocument; a rejected file never reaches the backend.
func (f *Flow) SelectFile(ctx context.Context, file *entity.UploadFile) error {
	ctx = f.withLogger(ctx, "select_file")

	f.mu.Lock()
	if f.inFlight != nil {
		f.mu.Unlock()
		return entity.ErrRequestInFlight
	}
	if f.state != StateNoDocument {
		f.mu.Unlock()
		return entity.ErrDocumentLoaded
	}

	if err := f.validator.ValidateDocument(file); err != nil {
		defer f.unlockAndDeliver()
		ctxzap.Warn(ctx, "file rejected before upload", zap.Error(err))
		f.enqueue(ctx, errorNotification(ValidationMessage(err, f.validator.MaxFileSize())))
		return err
	}

	reqCtx, generation := f.begin(ctx, opUpload)
	f.mu.Unlock()

	ref, err := f.backend.UploadDocument(reqCtx, file)
	if err == nil && (ref == nil || ref.ID == "") {
		err = errEmptyDocumentID
	}

	f.mu.Lock()
	defer f.unlockAndDeliver()

	if !f.finish(generation) {
		ctxzap.Info(ctx, "discarding upload response received after reset", zap.Error(err))
		return ErrStaleResponse
	}

	if err != nil {
		ctxzap.Error(ctx, "document upload failed", zap.Error(err))
		f.enqueue(ctx, errorNotification(failureMessage(err, MsgUploadFailed)))
		return err
	}

	f.document = &entity.DocumentReference{ID: ref.ID}
	f.filename = file.Name
	f.question = ""
	f.result = nil
	f.state = StateDocumentReady

	ctxzap.Info(ctx, "document ready",
		zap.String("document_id", ref.ID),
		zap.String("filename", file.Name),
	)
	f.enqueue(ctx, successNotification(TitleSuccess, MsgUploaded))

	return nil
}

// SubmitQuestion asks the backend about the current document. Blank
// questions and calls without a document are ignored and return nil.
func (f *Flow) SubmitQuestion(ctx context.Context, text string) error {
	ctx = f.withLogger(ctx, "submit_question")

	f.mu.Lock()
	if strings.TrimSpace(text) == "" || f.document == nil || f.state == StateNoDocument {
		f.mu.Unlock()
		return nil
	}
	if f.inFlight != nil {
		f.mu.Unlock()
		return entity.ErrRequestInFlight
	}

	documentID := f.document.ID
	f.question = text
	f.result = nil
	f.state = StateDocumentReady

	reqCtx, generation := f.begin(ctx, opAsk)
	f.mu.Unlock()

	result, err := f.backend.AskQuestion(reqCtx, documentID, text)
	if err == nil && result == nil {
		err = errors.New("backend returned an empty answer")
	}

	f.mu.Lock()
	defer f.unlockAndDeliver()

	if !f.finish(generation) {
		ctxzap.Info(ctx, "discarding answer received after reset", zap.Error(err))
		return ErrStaleResponse
	}

	if err != nil {
		ctxzap.Error(ctx, "question failed", zap.Error(err))
		f.enqueue(ctx, errorNotification(failureMessage(err, MsgAskFailed)))
		return err
	}

	answer := *result
	f.result = &answer
	f.state = StateAnswered

	ctxzap.Info(ctx, "answer stored",
		zap.String("document_id", documentID),
		zap.Float64("confidence", answer.Confidence),
	)
	f.enqueue(ctx, successNotification(TitleSuccess, MsgAnswered))

	return nil
}

// Reset returns the flow to StateNoDocument from any state. An outstanding
// request is cancelled and its response, if any, is discarded.
func (f *Flow) Reset(ctx context.Context) {
	ctx = f.withLogger(ctx, "reset")

	f.mu.Lock()
	defer f.unlockAndDeliver()

	if f.inFlight != nil {
		ctxzap.Info(ctx, "cancelling in-flight request", zap.String("operation", f.inFlight.op))
		f.inFlight.cancel()
		f.inFlight = nil
	}

	f.generation++
	f.state = StateNoDocument
	f.document = nil
	f.filename = ""
	f.question = ""
	f.result = nil

	f.enqueue(ctx, successNotification(TitleReset, MsgReset))
}

// enqueue queues a notification. The caller must hold f.mu.
func (f *Flow) enqueue(ctx context.Context, n entity.Notification) {
	f.outbox = append(f.outbox, queuedNotification{ctx: ctx, notification: n})
}

// unlockAndDeliver releases f.mu and then delivers queued notifications,
// unless another goroutine is already delivering them.
func (f *Flow) unlockAndDeliver() {
	owner := !f.delivering && len(f.outbox) > 0
	if owner {
		f.delivering = true
	}
	f.mu.Unlock()

	if owner {
		f.deliver()
	}
}

func (f *Flow) deliver() {
	for {
		f.mu.Lock()
		if len(f.outbox) == 0 {
			f.delivering = false
			f.mu.Unlock()
			return
		}
		next := f.outbox[0]
		f.outbox = f.outbox[1:]
		f.mu.Unlock()

		f.notifier.Notify(next.ctx, next.notification)
	}
}

// View returns a snapshot for rendering.
func (f *Flow) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()

	v := View{
		State:    f.state,
		Filename: f.filename,
		Question: f.question,
	}
	if f.document != nil {
		v.DocumentID = f.document.ID
	}
	if f.result != nil {
		result := *f.result
		v.Result = &result
	}
	if f.inFlight != nil {
		v.Loading = true
		v.Operation = f.inFlight.op
	}

	return v
}

// Export returns the last answer for rendering to a file.
func (f *Flow) Export() (*entity.AnswerExport, error) {
	v := f.View()
	if v.Result == nil {
		return nil, entity.ErrNoResult
	}

	return &entity.AnswerExport{
		Filename:   v.Filename,
		Question:   v.Question,
		Answer:     v.Result.Answer,
		Confidence: FormatConfidence(v.Result.Confidence),
		Source:     v.Result.Source,
	}, nil
}

// begin occupies the in-flight slot. Callers hold f.mu.
func (f *Flow) begin(ctx context.Context, op string) (context.Context, uint64) {
	reqCtx, cancel := context.WithCancel(ctx)
	f.inFlight = &inFlightRequest{
		op:         op,
		generation: f.generation,
		cancel:     cancel,
	}
	return reqCtx, f.generation
}

// finish frees the in-flight slot and reports whether the response still
// belongs to the current generation. Callers hold f.mu.
func (f *Flow) finish(generation uint64) bool {
	if f.generation != generation {
		return false
	}
	if f.inFlight != nil {
		f.inFlight.cancel()
		f.inFlight = nil
	}
	return true
}

func (f *Flow) withLogger(ctx context.Context, action string) context.Context {
	return logger.WithAction(logger.WithFallback(ctx, f.logger), action)
}
