package response

import (
	"encoding/json"
	"net/http"

	"github.com/futig/pdfqa/internal/entity"
)

// Error codes returned by the development backend.
const (
	CodeInvalidFile      = "INVALID_FILE"
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeDocumentNotFound = "DOCUMENT_NOT_FOUND"
	CodeInternal         = "INTERNAL_ERROR"
)

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// Error writes an error body with the given code.
func Error(w http.ResponseWriter, status int, code, message, details string) {
	JSON(w, status, entity.ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// Success writes a success response
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}
