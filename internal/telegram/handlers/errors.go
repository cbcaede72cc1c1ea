package handlers

import (
	"context"
	"errors"

	"github.com/futig/pdfqa/internal/entity"
	"github.com/futig/pdfqa/internal/telegram/render"
	"github.com/futig/pdfqa/internal/usecase/flow"
	pkghttp "github.com/futig/pdfqa/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity int

const (
	SeverityWarning ErrorSeverity = iota
	SeverityError
)

// String returns string representation of error severity
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// HandlerError represents a structured error with user message and logging info
type HandlerError struct {
	Err         error
	UserMessage string
	LogMessage  string
	Severity    ErrorSeverity
}

// classifyHandlerError analyzes an error and returns a HandlerError with appropriate severity and messages
func classifyHandlerError(err error) *HandlerError {
	if err == nil {
		return &HandlerError{
			UserMessage: render.ErrGeneric,
			LogMessage:  "unknown error",
			Severity:    SeverityWarning,
		}
	}

	warning := func(userMessage, logMessage string) *HandlerError {
		return &HandlerError{Err: err, UserMessage: userMessage, LogMessage: logMessage, Severity: SeverityWarning}
	}

	// Domain errors are expected user mistakes
	switch {
	case errors.Is(err, entity.ErrRequestInFlight):
		return warning(render.MsgBusy, "request already in flight")
	case errors.Is(err, entity.ErrDocumentLoaded):
		return warning(render.MsgDocumentLoaded, "document already loaded")
	case errors.Is(err, entity.ErrNoResult):
		return warning(render.MsgNothingToExport, "nothing to export")
	case errors.Is(err, entity.ErrUnsupportedFormat):
		return warning(render.MsgUnsupportedFormat, "unsupported export format")
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &HandlerError{
			Err:         err,
			UserMessage: render.ErrTimeout,
			LogMessage:  "operation timed out",
			Severity:    SeverityError,
		}
	}

	if apiErr, ok := pkghttp.AsAPIError(err); ok {
		return &HandlerError{
			Err:         err,
			UserMessage: render.RenderError(apiErr.Message),
			LogMessage:  "backend request failed",
			Severity:    SeverityError,
		}
	}

	// Default to generic error
	return &HandlerError{
		Err:         err,
		UserMessage: render.ErrGeneric,
		LogMessage:  "handler error",
		Severity:    SeverityError,
	}
}

// HandleError provides centralized error handling for all handlers
// It logs the error with appropriate severity and sends a user-friendly message
func (h *BaseHandler) HandleError(ctx context.Context, chatID int64, err error) {
	if err == nil {
		return
	}

	handlerErr := classifyHandlerError(err)

	switch handlerErr.Severity {
	case SeverityError:
		ctxzap.Error(ctx, handlerErr.LogMessage,
			zap.Error(handlerErr.Err),
		)
	case SeverityWarning:
		ctxzap.Warn(ctx, handlerErr.LogMessage,
			zap.Error(handlerErr.Err),
		)
	}

	h.sendMessage(ctx, chatID, handlerErr.UserMessage, nil)
}

// handleFlowError reports flow errors the flow did not already turn into a
// notification. Responses discarded after a reset stay silent.
func (h *BaseHandler) handleFlowError(ctx context.Context, chatID int64, err error) {
	switch {
	case err == nil:
	case errors.Is(err, flow.ErrStaleResponse):
		ctxzap.Debug(ctx, "response discarded after reset")
	case errors.Is(err, entity.ErrRequestInFlight), errors.Is(err, entity.ErrDocumentLoaded):
		h.HandleError(ctx, chatID, err)
	default:
		ctxzap.Debug(ctx, "flow error already notified", zap.Error(err))
	}
}
