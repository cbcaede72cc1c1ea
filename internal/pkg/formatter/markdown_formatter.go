package formatter

import (
	"bytes"
	"fmt"

	"github.com/futig/pdfqa/internal/entity"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(export *entity.AnswerExport) ([]byte, error) {
	if export == nil {
		return nil, entity.ErrNoResult
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", baseTitle)
	fmt.Fprintf(&buf, "## %s\n\n%s\n\n", labelQuestion, export.Question)
	fmt.Fprintf(&buf, "## %s\n\n%s\n\n", labelAnswer, export.Answer)
	for _, field := range metadata(export) {
		fmt.Fprintf(&buf, "- **%s:** %s\n", field[0], field[1])
	}
	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
