package formatter

import (
	"fmt"

	"github.com/futig/pdfqa/internal/entity"
)

const (
	baseTitle       = "PDF Q&A"
	labelDocument   = "Document"
	labelQuestion   = "Question"
	labelAnswer     = "Answer"
	labelConfidence = "Confidence"
	labelSource     = "Source"
)

type Formatter interface {
	Format(export *entity.AnswerExport) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: %s", entity.ErrUnsupportedFormat, format)
	}
}

// metadata returns the labelled fields shown under the answer.
func metadata(export *entity.AnswerExport) [][2]string {
	return [][2]string{
		{labelDocument, export.Filename},
		{labelConfidence, export.Confidence},
		{labelSource, export.Source},
	}
}
