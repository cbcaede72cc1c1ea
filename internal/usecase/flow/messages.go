package flow

import (
	"errors"
	"fmt"

	"github.com/futig/pdfqa/internal/entity"
	pkghttp "github.com/futig/pdfqa/pkg/http"
)

const (
	TitleSuccess = "Success"
	TitleError   = "Error"
	TitleReset   = "Reset"

	MsgUploaded = "PDF uploaded successfully"
	MsgAnswered = "Answer generated successfully"
	MsgReset    = "Ready to upload a new PDF"

	MsgUploadFailed    = "Failed to upload PDF. Please try again"
	MsgAskFailed       = "Failed to process question. Please try again"
	MsgInvalidFileType = "Only PDF files are accepted"
	MsgFileTooLarge    = "File is too large. Maximum size is %s"
)

func successNotification(title, description string) entity.Notification {
	return entity.Notification{
		Type:        entity.NotificationSuccess,
		Title:       title,
		Description: description,
	}
}

func errorNotification(description string) entity.Notification {
	return entity.Notification{
		Type:        entity.NotificationError,
		Title:       TitleError,
		Description: description,
	}
}

// failureMessage returns the backend message verbatim for structured
// errors and fallback for anything else.
func failureMessage(err error, fallback string) string {
	if apiErr, ok := pkghttp.AsAPIError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// ValidationMessage is the user-facing text for a rejected file.
func ValidationMessage(err error, maxSize int64) string {
	if errors.Is(err, entity.ErrFileTooLarge) {
		return fmt.Sprintf(MsgFileTooLarge, FormatSize(maxSize))
	}
	return MsgInvalidFileType
}

// FormatSize renders a byte count the way upload limits are shown to users.
func FormatSize(size int64) string {
	const mib = 1 << 20
	switch {
	case size <= 0:
		return "0 B"
	case size%mib == 0:
		return fmt.Sprintf("%d MB", size/mib)
	case size >= mib:
		return fmt.Sprintf("%.1f MB", float64(size)/mib)
	case size >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(size)/(1<<10))
	default:
		return fmt.Sprintf("%d B", size)
	}
}

// FormatConfidence renders a 0..1 confidence as a percentage with one decimal.
func FormatConfidence(confidence float64) string {
	return fmt.Sprintf("%.1f%%", confidence*100)
}
