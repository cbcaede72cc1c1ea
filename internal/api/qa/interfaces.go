package qa

import "github.com/futig/pdfqa/internal/entity"

// FileValidator checks an uploaded file before it is stored.
type FileValidator interface {
	ValidateDocument(file *entity.UploadFile) error
}
