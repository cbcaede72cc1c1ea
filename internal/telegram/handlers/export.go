package handlers

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/futig/pdfqa/internal/entity"
	"github.com/futig/pdfqa/internal/pkg/formatter"
	"github.com/futig/pdfqa/internal/usecase/flow"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const defaultExportName = "answer"

// exporter renders the last answer of a flow and sends it as a document.
type exporter struct {
	formatters *formatter.Factory
	sender     *MessageSender
}

func (e *exporter) export(ctx context.Context, chatID int64, f *flow.Flow, format entity.ResultFormat) error {
	export, err := f.Export()
	if err != nil {
		return err
	}

	fm, err := e.formatters.Create(format)
	if err != nil {
		return err
	}

	data, err := fm.Format(export)
	if err != nil {
		return fmt.Errorf("format %s: %w", format, err)
	}

	name := exportFilename(export.Filename) + fm.FileExtension()
	ctxzap.Info(ctx, "sending exported answer",
		zap.String("format", string(format)),
		zap.String("filename", name),
		zap.Int("size", len(data)),
	)

	return e.sender.SendDocument(ctx, chatID, name, data)
}

// exportFilename derives "<document>-answer" from the uploaded file name.
func exportFilename(documentName string) string {
	base := strings.TrimSuffix(filepath.Base(documentName), filepath.Ext(documentName))
	if base == "" || base == "." {
		return defaultExportName
	}
	return base + "-" + defaultExportName
}
