package middleware

import (
	"context"
	"runtime/debug"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const panicReply = "❌ Something went wrong. Send /reset to start over."

// RecoveryMiddleware turns a handler panic into a log entry and a reply, so
// one bad update does not take the bot down.
type RecoveryMiddleware struct {
	bot Sender
}

func NewRecoveryMiddleware(bot Sender) *RecoveryMiddleware {
	return &RecoveryMiddleware{bot: bot}
}

func (m *RecoveryMiddleware) Handle(ctx context.Context, update tgbotapi.Update, next Next) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		ctxzap.Error(ctx, "panic recovered in telegram handler",
			zap.Any("panic", r),
			zap.ByteString("stack", debug.Stack()),
		)

		_, chatID, ok := origin(update)
		if !ok {
			return
		}
		if _, err := m.bot.Send(tgbotapi.NewMessage(chatID, panicReply)); err != nil {
			ctxzap.Error(ctx, "failed to send panic reply", zap.Error(err))
		}
	}()

	next(ctx, update)
}
