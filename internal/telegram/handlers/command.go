package handlers

import (
	"context"
	"strings"

	"github.com/futig/pdfqa/internal/entity"
	"github.com/futig/pdfqa/internal/pkg/formatter"
	"github.com/futig/pdfqa/internal/telegram/keyboard"
	"github.com/futig/pdfqa/internal/telegram/render"
	"github.com/futig/pdfqa/internal/telegram/state"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// CommandHandler handles bot commands
type CommandHandler struct {
	BaseHandler
	exporter
	stateManager *state.Manager
	keyboard     *keyboard.Builder
	maxFileSize  int64
}

func NewCommandHandler(
	stateManager *state.Manager,
	formatters *formatter.Factory,
	kb *keyboard.Builder,
	sender *MessageSender,
	maxFileSize int64,
) *CommandHandler {
	return &CommandHandler{
		BaseHandler: BaseHandler{
			kind:          KindCommand,
			messageSender: sender,
		},
		exporter: exporter{
			formatters: formatters,
			sender:     sender,
		},
		stateManager: stateManager,
		keyboard:     kb,
		maxFileSize:  maxFileSize,
	}
}

func (h *CommandHandler) Handle(ctx context.Context, msg *Message) error {
	ctxzap.Info(ctx, "command received",
		zap.String("command", msg.Command),
		zap.Int64("user_id", msg.UserID),
	)

	switch msg.Command {
	case "start":
		h.sendMessage(ctx, msg.ChatID, render.RenderWelcome(h.maxFileSize), nil)
	case "help":
		h.sendMessage(ctx, msg.ChatID, render.RenderHelp(h.maxFileSize), nil)
	case "reset":
		return h.handleReset(ctx, msg)
	case "status":
		return h.handleStatus(ctx, msg)
	case "export":
		return h.handleExport(ctx, msg)
	default:
		h.sendMessage(ctx, msg.ChatID, render.ErrUnknownCommand, nil)
	}

	return nil
}

func (h *CommandHandler) handleReset(ctx context.Context, msg *Message) error {
	f, err := h.stateManager.GetFlow(ctx, msg.ChatID)
	if err != nil {
		return err
	}

	f.Reset(ctx)
	return nil
}

func (h *CommandHandler) handleStatus(ctx context.Context, msg *Message) error {
	f, err := h.stateManager.GetFlow(ctx, msg.ChatID)
	if err != nil {
		return err
	}

	view := f.View()

	var markup any
	if view.Result != nil {
		markup = h.keyboard.AnswerKeyboard()
	}
	h.sendMessage(ctx, msg.ChatID, render.RenderStatus(view), markup)
	return nil
}

func (h *CommandHandler) handleExport(ctx context.Context, msg *Message) error {
	format := entity.FormatMarkdown
	if arg := strings.TrimSpace(msg.CommandArgs); arg != "" {
		parsed, err := entity.ParseResultFormat(arg)
		if err != nil {
			h.HandleError(ctx, msg.ChatID, err)
			return nil
		}
		format = parsed
	}

	f, err := h.stateManager.GetFlow(ctx, msg.ChatID)
	if err != nil {
		return err
	}

	if err := h.export(ctx, msg.ChatID, f, format); err != nil {
		h.HandleError(ctx, msg.ChatID, err)
	}
	return nil
}
