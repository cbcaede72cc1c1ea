package telegram

import (
	"context"
	"fmt"

	"github.com/futig/pdfqa/internal/config"
	"github.com/futig/pdfqa/internal/pkg/formatter"
	"github.com/futig/pdfqa/internal/pkg/validator"
	"github.com/futig/pdfqa/internal/telegram/bot"
	"github.com/futig/pdfqa/internal/telegram/handlers"
	"github.com/futig/pdfqa/internal/telegram/keyboard"
	"github.com/futig/pdfqa/internal/telegram/state"
	"github.com/futig/pdfqa/internal/usecase/flow"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot connects to Telegram and initializes the bot with all dependencies
func NewBot(
	cfg *config.TelegramConfig,
	backend flow.Backend,
	fileValidator *validator.Validator,
	logger *zap.Logger,
) (Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	b := newBot(cfg, api, backend, fileValidator, handlers.NewFileDownloader(api, nil, fileValidator.MaxFileSize()), logger)

	logger.Info("telegram bot initialized successfully")

	return b, nil
}

// newBot wires the bot around an already connected API.
func newBot(
	cfg *config.TelegramConfig,
	api bot.API,
	backend flow.Backend,
	fileValidator *validator.Validator,
	downloader handlers.FileDownloader,
	logger *zap.Logger,
) *bot.Bot {
	sender := handlers.NewMessageSender(api, &cfg.SendRetry, logger)

	// One flow per chat, notifying that chat
	stateManager := state.NewManager(
		state.NewMemoryStorage(cfg.SessionTTL),
		func(chatID int64) *flow.Flow {
			return flow.New(
				backend,
				fileValidator,
				handlers.NewChatNotifier(sender, chatID),
				logger.With(zap.Int64("chat_id", chatID)),
			)
		},
	)

	b := bot.New(cfg, api, sender, logger)
	registerHandlers(b, stateManager, fileValidator, downloader, logger)

	return b
}

// registerHandlers registers all handlers with the bot
func registerHandlers(
	b *bot.Bot,
	stateManager *state.Manager,
	fileValidator *validator.Validator,
	downloader handlers.FileDownloader,
	logger *zap.Logger,
) {
	api := b.GetAPI()
	sender := b.GetSender()
	kb := keyboard.NewBuilder()
	formatters := formatter.NewFactory()

	b.RegisterHandler(handlers.NewCommandHandler(stateManager, formatters, kb, sender, fileValidator.MaxFileSize()))
	b.RegisterHandler(handlers.NewCallbackHandler(stateManager, formatters, sender))
	b.RegisterHandler(handlers.NewDocumentHandler(api, stateManager, fileValidator, downloader, kb, sender))
	b.RegisterHandler(handlers.NewQuestionHandler(api, stateManager, kb, sender))

	logger.Info("telegram handlers registered",
		zap.Int("handler_count", 4),
	)
}
