package formatter

import (
	"bytes"
	"testing"

	"github.com/futig/pdfqa/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleExport() *entity.AnswerExport {
	return &entity.AnswerExport{
		Filename:   "report.pdf",
		Question:   "What is the main conclusion?",
		Answer:     "The document concludes that revenue doubled.",
		Confidence: "92.0%",
		Source:     "Page 3, Section 2.1",
	}
}

func TestFactory_Create(t *testing.T) {
	factory := NewFactory()

	tests := []struct {
		format  entity.ResultFormat
		ext     string
		ctype   string
		wantErr bool
	}{
		{format: entity.FormatMarkdown, ext: ".md", ctype: markdownContentType},
		{format: entity.FormatPDF, ext: ".pdf", ctype: pdfContentType},
		{format: entity.FormatDOCX, ext: ".docx", ctype: docxContentType},
		{format: "html", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			f, err := factory.Create(tt.format)
			if tt.wantErr {
				assert.ErrorIs(t, err, entity.ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ext, f.FileExtension())
			assert.Equal(t, tt.ctype, f.ContentType())
		})
	}
}

func TestMarkdownFormatter_Format(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(sampleExport())
	require.NoError(t, err)

	expected := "# PDF Q&A\n\n" +
		"## Question\n\nWhat is the main conclusion?\n\n" +
		"## Answer\n\nThe document concludes that revenue doubled.\n\n" +
		"- **Document:** report.pdf\n" +
		"- **Confidence:** 92.0%\n" +
		"- **Source:** Page 3, Section 2.1\n"
	assert.Equal(t, expected, string(out))
}

func TestPDFFormatter_Format(t *testing.T) {
	out, err := NewPDFFormatter().Format(sampleExport())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestFormatters_RequireExport(t *testing.T) {
	for _, f := range []Formatter{NewMarkdownFormatter(), NewPDFFormatter(), NewDOCXFormatter()} {
		_, err := f.Format(nil)
		assert.ErrorIs(t, err, entity.ErrNoResult)
	}
}
