package handlers

import (
	"context"
	"fmt"

	"github.com/futig/pdfqa/internal/entity"
	"github.com/futig/pdfqa/internal/pkg/formatter"
	"github.com/futig/pdfqa/internal/telegram/keyboard"
	"github.com/futig/pdfqa/internal/telegram/state"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// CallbackHandler handles inline button presses
type CallbackHandler struct {
	BaseHandler
	exporter
	stateManager *state.Manager
}

func NewCallbackHandler(
	stateManager *state.Manager,
	formatters *formatter.Factory,
	sender *MessageSender,
) *CallbackHandler {
	return &CallbackHandler{
		BaseHandler: BaseHandler{
			kind:          KindCallback,
			messageSender: sender,
		},
		exporter: exporter{
			formatters: formatters,
			sender:     sender,
		},
		stateManager: stateManager,
	}
}

func (h *CallbackHandler) Handle(ctx context.Context, msg *Message) error {
	// Answer right away so Telegram stops the button spinner
	h.messageSender.AnswerCallback(ctx, msg.CallbackID, "")

	data, err := keyboard.ParseCallback(msg.CallbackData)
	if err != nil {
		return err
	}

	ctxzap.Info(ctx, "callback query received",
		zap.String("action", data.Action),
		zap.String("value", data.Value),
		zap.Int64("user_id", msg.UserID),
	)

	f, err := h.stateManager.GetFlow(ctx, msg.ChatID)
	if err != nil {
		return err
	}

	switch {
	case data.Action == keyboard.ActionCommand && data.Value == keyboard.ValueReset:
		f.Reset(ctx)
	case data.Action == keyboard.ActionExport:
		format, err := entity.ParseResultFormat(data.Value)
		if err != nil {
			h.HandleError(ctx, msg.ChatID, err)
			return nil
		}
		if err := h.export(ctx, msg.ChatID, f, format); err != nil {
			h.HandleError(ctx, msg.ChatID, err)
		}
	default:
		return fmt.Errorf("unknown callback %q", msg.CallbackData)
	}

	return nil
}
