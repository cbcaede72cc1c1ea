package handlers

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Telegram hides a chat action after 5 seconds.
const activityRefresh = 4 * time.Second

// showActivity keeps a chat action such as tgbotapi.ChatTyping visible
// until stop is called or ctx ends. stop waits for the refresher to exit.
func showActivity(ctx context.Context, bot BotAPI, chatID int64, action string) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	send := func() {
		if _, err := bot.Request(tgbotapi.NewChatAction(chatID, action)); err != nil {
			ctxzap.Warn(ctx, "failed to send chat action",
				zap.Error(err),
				zap.String("action", action),
			)
		}
	}

	send()

	go func() {
		defer close(done)

		ticker := time.NewTicker(activityRefresh)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				send()
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}
