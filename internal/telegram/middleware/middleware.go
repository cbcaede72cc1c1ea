package middleware

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Next continues processing of an update.
type Next func(ctx context.Context, update tgbotapi.Update)

// Middleware wraps update processing.
type Middleware interface {
	Handle(ctx context.Context, update tgbotapi.Update, next Next)
}

// Sender is the part of the Bot API middlewares reply through.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Chain builds a Next that runs mws in order before final.
func Chain(final Next, mws ...Middleware) Next {
	next := final
	for i := len(mws) - 1; i >= 0; i-- {
		mw, inner := mws[i], next
		next = func(ctx context.Context, update tgbotapi.Update) {
			mw.Handle(ctx, update, inner)
		}
	}
	return next
}

// origin returns who sent the update and where. ok is false for update
// kinds the bot does not process, or an inline callback without a chat.
func origin(update tgbotapi.Update) (userID, chatID int64, ok bool) {
	switch {
	case update.Message != nil:
		if update.Message.From != nil {
			userID = update.Message.From.ID
		}
		if update.Message.Chat != nil {
			chatID = update.Message.Chat.ID
		}
		return userID, chatID, chatID != 0
	case update.CallbackQuery != nil:
		if update.CallbackQuery.From != nil {
			userID = update.CallbackQuery.From.ID
		}
		if msg := update.CallbackQuery.Message; msg != nil && msg.Chat != nil {
			chatID = msg.Chat.ID
		}
		return userID, chatID, chatID != 0
	default:
		return 0, 0, false
	}
}

func updateType(update tgbotapi.Update) string {
	switch {
	case update.CallbackQuery != nil:
		return "callback"
	case update.Message == nil:
		return "other"
	case update.Message.IsCommand():
		return "command"
	case update.Message.Document != nil:
		return "document"
	case update.Message.Text != "":
		return "text"
	default:
		return "other"
	}
}
