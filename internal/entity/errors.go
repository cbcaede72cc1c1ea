package entity

import "errors"

// Domain errors
var (
	// File errors
	ErrInvalidFile      = errors.New("invalid file")
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidExtension = errors.New("invalid file extension")

	// Flow errors
	ErrDocumentLoaded  = errors.New("a document is already loaded")
	ErrRequestInFlight = errors.New("another request is in progress")
	ErrNoResult        = errors.New("no answer available")

	// Export errors
	ErrUnsupportedFormat = errors.New("unsupported format")

	// Validation errors
	ErrMissingField = errors.New("required field is missing")
)
