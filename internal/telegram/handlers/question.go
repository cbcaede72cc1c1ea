package handlers

import (
	"context"
	"strings"

	"github.com/futig/pdfqa/internal/telegram/keyboard"
	"github.com/futig/pdfqa/internal/telegram/render"
	"github.com/futig/pdfqa/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// QuestionHandler treats plain text as a question about the loaded PDF.
type QuestionHandler struct {
	BaseHandler
	api          BotAPI
	stateManager *state.Manager
	keyboard     *keyboard.Builder
}

func NewQuestionHandler(
	api BotAPI,
	stateManager *state.Manager,
	kb *keyboard.Builder,
	sender *MessageSender,
) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler: BaseHandler{
			kind:          KindText,
			messageSender: sender,
		},
		api:          api,
		stateManager: stateManager,
		keyboard:     kb,
	}
}

func (h *QuestionHandler) Handle(ctx context.Context, msg *Message) error {
	if strings.TrimSpace(msg.Text) == "" {
		return nil
	}

	f, err := h.stateManager.GetFlow(ctx, msg.ChatID)
	if err != nil {
		return err
	}

	view := f.View()
	switch {
	case !view.HasDocument() && view.Loading:
		h.sendMessage(ctx, msg.ChatID, render.MsgBusy, nil)
		return nil
	case !view.HasDocument():
		h.sendMessage(ctx, msg.ChatID, render.MsgNoDocument, nil)
		return nil
	}

	stopActivity := showActivity(ctx, h.api, msg.ChatID, tgbotapi.ChatTyping)
	defer stopActivity()

	if err := f.SubmitQuestion(ctx, msg.Text); err != nil {
		h.handleFlowError(ctx, msg.ChatID, err)
		return nil
	}

	if answer := render.RenderAnswer(f.View()); answer != "" {
		h.sendMessage(ctx, msg.ChatID, answer, h.keyboard.AnswerKeyboard())
	}
	return nil
}
