package validator

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/futig/pdfqa/internal/config"
	"github.com/futig/pdfqa/internal/entity"
)

const pdfExtension = ".pdf"

var pdfSignature = []byte("%PDF-")

// Validator checks files before they are handed to the backend.
type Validator struct {
	cfg config.FileUploadConfig
}

func NewFileValidator(cfg config.FileUploadConfig) *Validator {
	return &Validator{cfg: cfg}
}

// MaxFileSize returns the accepted upper bound in bytes.
func (v *Validator) MaxFileSize() int64 {
	return v.cfg.MaxFileSize
}

// ValidateDocumentMeta checks name and size only, for callers that know
// them before the content is available.
func (v *Validator) ValidateDocumentMeta(name string, size int64) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: file name", entity.ErrMissingField)
	}

	ext := strings.ToLower(filepath.Ext(name))
	if ext != pdfExtension {
		return fmt.Errorf("%w: %q (only .pdf files are allowed)", entity.ErrInvalidExtension, ext)
	}

	if size > v.cfg.MaxFileSize {
		return fmt.Errorf("%w: file '%s' is %d bytes (max %d)", entity.ErrFileTooLarge, name, size, v.cfg.MaxFileSize)
	}

	return nil
}

// ValidateDocument checks an upload is a PDF within the size limit.
func (v *Validator) ValidateDocument(file *entity.UploadFile) error {
	if file == nil {
		return fmt.Errorf("%w: file", entity.ErrMissingField)
	}

	size := file.Size
	if int64(len(file.Content)) > size {
		size = int64(len(file.Content))
	}

	if err := v.ValidateDocumentMeta(file.Name, size); err != nil {
		return err
	}

	if len(file.Content) == 0 {
		return fmt.Errorf("%w: file '%s' is empty", entity.ErrInvalidFile, file.Name)
	}

	if !bytes.HasPrefix(file.Content, pdfSignature) {
		return fmt.Errorf("%w: file '%s' is not a PDF document", entity.ErrInvalidFile, file.Name)
	}

	return nil
}

// SanitizeFilename sanitizes a filename for display and storage
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	replacer := strings.NewReplacer(
		" ", "_",
		"(", "",
		")", "",
		"[", "",
		"]", "",
		"{", "",
		"}", "",
	)
	return replacer.Replace(filename)
}
