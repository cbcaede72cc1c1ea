package formatter

import (
	"bytes"

	"github.com/futig/pdfqa/internal/entity"
	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (mf *DOCXFormatter) Format(export *entity.AnswerExport) ([]byte, error) {
	if export == nil {
		return nil, entity.ErrNoResult
	}

	doc := document.New()
	defer doc.Close()

	heading := func(text, style string) {
		par := doc.AddParagraph()
		par.SetStyle(style)
		par.AddRun().AddText(text)
	}

	heading(baseTitle, "Heading1")

	heading(labelQuestion, "Heading2")
	doc.AddParagraph().AddRun().AddText(export.Question)

	heading(labelAnswer, "Heading2")
	doc.AddParagraph().AddRun().AddText(export.Answer)

	doc.AddParagraph()
	for _, field := range metadata(export) {
		par := doc.AddParagraph()
		label := par.AddRun()
		label.Properties().SetBold(true)
		label.AddText(field[0] + ": ")
		par.AddRun().AddText(field[1])
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (mf *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (mf *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
