package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/futig/pdfqa/internal/pkg/logger"
	pkgRetry "github.com/futig/pdfqa/internal/pkg/retry"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MessageSender provides centralized message sending functionality.
// Failed sends are retried unless Telegram rejected the request itself.
type MessageSender struct {
	bot      BotAPI
	retryCfg *pkgRetry.RetryConfig
	logger   *zap.Logger
}

// NewMessageSender creates a new MessageSender
func NewMessageSender(bot BotAPI, retryCfg *pkgRetry.RetryConfig, logger *zap.Logger) *MessageSender {
	if retryCfg == nil {
		retryCfg = pkgRetry.DefaultRetryConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &MessageSender{
		bot:      bot,
		retryCfg: retryCfg,
		logger:   logger,
	}
}

// Send sends a message to the specified chat
func (s *MessageSender) Send(ctx context.Context, chatID int64, text string, markup any) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}

	if err := s.send(ctx, msg); err != nil {
		s.log(ctx).Error("failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
		return err
	}

	return nil
}

// SendDocument sends a file to the specified chat
func (s *MessageSender) SendDocument(ctx context.Context, chatID int64, filename string, data []byte) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  filename,
		Bytes: data,
	})

	if err := s.send(ctx, doc); err != nil {
		s.log(ctx).Error("failed to send document",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
			zap.String("filename", filename),
		)
		return err
	}

	return nil
}

// AnswerCallback acknowledges a button press. It is not retried: Telegram
// only accepts an answer for a short time.
func (s *MessageSender) AnswerCallback(ctx context.Context, callbackID, text string) {
	if _, err := s.bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		s.log(ctx).Warn("failed to answer callback",
			zap.Error(err),
			zap.String("callback_id", callbackID),
		)
	}
}

func (s *MessageSender) send(ctx context.Context, c tgbotapi.Chattable) error {
	opts := s.retryCfg.Options(
		retry.Context(ctx),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(attempt uint, err error) {
			s.log(ctx).Warn("failed to send, retrying",
				zap.Error(err),
				zap.Uint("attempt", attempt+1),
			)
		}),
	)

	return retry.Do(func() error {
		_, err := s.bot.Send(c)
		return err
	}, opts...)
}

func (s *MessageSender) log(ctx context.Context) *zap.Logger {
	return ctxzap.Extract(logger.WithFallback(ctx, s.logger))
}

// isRetryable reports whether a send error may succeed on a later attempt.
// Telegram's 4xx answers, other than flood control, are final.
func isRetryable(err error) bool {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	return true
}
