package handlers

import (
	"context"

	"github.com/futig/pdfqa/internal/entity"
	"github.com/futig/pdfqa/internal/telegram/keyboard"
	"github.com/futig/pdfqa/internal/telegram/render"
	"github.com/futig/pdfqa/internal/telegram/state"
	"github.com/futig/pdfqa/internal/usecase/flow"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// DocumentHandler uploads PDFs sent to the chat.
type DocumentHandler struct {
	BaseHandler
	api          BotAPI
	stateManager *state.Manager
	validator    FileValidator
	downloader   FileDownloader
	keyboard     *keyboard.Builder
}

func NewDocumentHandler(
	api BotAPI,
	stateManager *state.Manager,
	validator FileValidator,
	downloader FileDownloader,
	kb *keyboard.Builder,
	sender *MessageSender,
) *DocumentHandler {
	return &DocumentHandler{
		BaseHandler: BaseHandler{
			kind:          KindDocument,
			messageSender: sender,
		},
		api:          api,
		stateManager: stateManager,
		validator:    validator,
		downloader:   downloader,
		keyboard:     kb,
	}
}

func (h *DocumentHandler) Handle(ctx context.Context, msg *Message) error {
	doc := msg.Document
	if doc == nil {
		h.sendMessage(ctx, msg.ChatID, render.MsgUnsupportedMessage, nil)
		return nil
	}

	f, err := h.stateManager.GetFlow(ctx, msg.ChatID)
	if err != nil {
		return err
	}

	view := f.View()
	switch {
	case view.Loading:
		h.sendMessage(ctx, msg.ChatID, render.MsgBusy, nil)
		return nil
	case view.HasDocument():
		h.sendMessage(ctx, msg.ChatID, render.MsgDocumentLoaded, h.keyboard.ResetKeyboard())
		return nil
	}

	// Reject from metadata so oversized or non-PDF files are never downloaded
	if err := h.validator.ValidateDocumentMeta(doc.FileName, int64(doc.FileSize)); err != nil {
		ctxzap.Warn(ctx, "document rejected before download",
			zap.Error(err),
			zap.String("filename", doc.FileName),
			zap.Int("size", doc.FileSize),
		)
		h.sendMessage(ctx, msg.ChatID, render.RenderError(flow.ValidationMessage(err, h.validator.MaxFileSize())), nil)
		return nil
	}

	stopActivity := showActivity(ctx, h.api, msg.ChatID, tgbotapi.ChatUploadDocument)
	defer stopActivity()

	data, err := h.downloader.Download(ctx, doc.FileID)
	if err != nil {
		ctxzap.Error(ctx, "failed to download document",
			zap.Error(err),
			zap.String("file_id", doc.FileID),
		)
		h.sendMessage(ctx, msg.ChatID, render.ErrDownload, nil)
		return nil
	}

	err = f.SelectFile(ctx, entity.NewUploadFile(doc.FileName, data))
	h.handleFlowError(ctx, msg.ChatID, err)
	return nil
}
