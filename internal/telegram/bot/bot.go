package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/futig/pdfqa/internal/config"
	"github.com/futig/pdfqa/internal/telegram/handlers"
	"github.com/futig/pdfqa/internal/telegram/middleware"
	"github.com/futig/pdfqa/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// API is the subset of *tgbotapi.BotAPI the bot needs.
type API interface {
	handlers.BotAPI
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot represents the Telegram bot
type Bot struct {
	api         API
	cfg         *config.TelegramConfig
	handlers    map[string]handlers.Handler
	sender      *handlers.MessageSender
	logger      *zap.Logger
	rateLimitMW *middleware.RateLimiterMiddleware
	dispatch    middleware.Next
	updatesChan tgbotapi.UpdatesChannel
	stopChan    chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
}

// New creates a new Telegram bot
func New(
	cfg *config.TelegramConfig,
	api API,
	sender *handlers.MessageSender,
	logger *zap.Logger,
) *Bot {
	bot := &Bot{
		api:      api,
		cfg:      cfg,
		sender:   sender,
		logger:   logger,
		handlers: make(map[string]handlers.Handler),
		stopChan: make(chan struct{}),
	}

	bot.rateLimitMW = middleware.NewRateLimiterMiddleware(
		cfg.RateLimitPerMinute,
		cfg.RateLimitBurst,
		logger,
		api,
	)
	// rate limit -> logging -> recovery -> routing
	bot.dispatch = middleware.Chain(bot.handleUpdate,
		bot.rateLimitMW,
		middleware.NewLoggingMiddleware(logger),
		middleware.NewRecoveryMiddleware(api),
	)

	return bot
}

// Start starts the bot
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	// Configure updates
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout

	b.updatesChan = b.api.GetUpdatesChan(u)

	// Add logger to context for processUpdates
	ctx = ctxzap.ToContext(ctx, b.logger)

	go b.processUpdates(ctx)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops the bot gracefully with timeout
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	// Signal to stop receiving new updates
	b.stopOnce.Do(func() {
		close(b.stopChan)
		b.api.StopReceivingUpdates()
		b.rateLimitMW.Stop()
	})

	// Wait for all active handlers to complete
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return fmt.Errorf("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

// processUpdates processes incoming updates
func (b *Bot) processUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				ctxzap.Info(ctx, "updates channel closed, stopping update processing")
				return
			}
			// Each update runs in its own goroutine; flows serialize per chat
			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				b.handleUpdateWithMiddleware(ctx, u)
			}(update)
		}
	}
}

// handleUpdateWithMiddleware processes update through middleware chain
func (b *Bot) handleUpdateWithMiddleware(ctx context.Context, update tgbotapi.Update) {
	b.dispatch(ctx, update)
}

// handleUpdate routes update to appropriate handler
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	var (
		msg  *handlers.Message
		kind string
	)

	switch {
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		msg, kind = callbackMessage(update.CallbackQuery), handlers.KindCallback
	case update.Message != nil:
		msg, kind = newMessage(update.Message)
	default:
		return
	}

	if kind == "" {
		b.sendError(ctx, msg.ChatID, render.MsgUnsupportedMessage)
		return
	}

	handler, exists := b.handlers[kind]
	if !exists {
		ctxzap.Warn(ctx, "no handler for update kind", zap.String("kind", kind))
		b.sendError(ctx, msg.ChatID, render.ErrGeneric)
		return
	}

	if err := handler.Handle(ctx, msg); err != nil {
		ctxzap.Error(ctx, "handler error",
			zap.Error(err),
			zap.String("kind", kind),
			zap.Int64("user_id", msg.UserID),
		)
		b.sendError(ctx, msg.ChatID, render.ErrGeneric)
	}
}

// newMessage normalizes a message and picks the handler kind for it.
// The kind is empty for messages the bot does not handle.
func newMessage(message *tgbotapi.Message) (*handlers.Message, string) {
	msg := &handlers.Message{
		ChatID:    message.Chat.ID,
		MessageID: message.MessageID,
		Text:      message.Text,
		Document:  message.Document,
	}
	if message.From != nil {
		msg.UserID = message.From.ID
	}

	switch {
	case message.IsCommand():
		msg.Command = message.Command()
		msg.CommandArgs = message.CommandArguments()
		return msg, handlers.KindCommand
	case message.Document != nil:
		return msg, handlers.KindDocument
	case message.Text != "":
		return msg, handlers.KindText
	default:
		return msg, ""
	}
}

func callbackMessage(query *tgbotapi.CallbackQuery) *handlers.Message {
	msg := &handlers.Message{
		ChatID:       query.Message.Chat.ID,
		MessageID:    query.Message.MessageID,
		CallbackData: query.Data,
		CallbackID:   query.ID,
	}
	if query.From != nil {
		msg.UserID = query.From.ID
	}
	return msg
}

// sendError sends an error message
func (b *Bot) sendError(ctx context.Context, chatID int64, text string) {
	b.sender.Send(ctx, chatID, text, nil)
}

// RegisterHandler registers a handler for an update kind
func (b *Bot) RegisterHandler(handler handlers.Handler) {
	kind := handler.GetKind()

	if !handlers.IsValidKind(kind) {
		b.logger.Fatal("invalid handler kind",
			zap.String("kind", kind),
		)
	}

	b.handlers[kind] = handler
	b.logger.Info("handler registered",
		zap.String("kind", kind),
	)
}

// GetAPI returns the bot API instance (for handlers)
func (b *Bot) GetAPI() API {
	return b.api
}

// GetSender returns the message sender (for handlers)
func (b *Bot) GetSender() *handlers.MessageSender {
	return b.sender
}

// GetConfig returns the bot config (for handlers)
func (b *Bot) GetConfig() *config.TelegramConfig {
	return b.cfg
}
