package builder

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/futig/pdfqa/internal/api"
	"github.com/futig/pdfqa/internal/api/qa"
	"github.com/futig/pdfqa/internal/cli"
	"github.com/futig/pdfqa/internal/config"
	"github.com/futig/pdfqa/internal/integration/pdfqa"
	"github.com/futig/pdfqa/internal/pkg/formatter"
	pkglogger "github.com/futig/pdfqa/internal/pkg/logger"
	"github.com/futig/pdfqa/internal/pkg/validator"
	"github.com/futig/pdfqa/internal/telegram"
	"github.com/futig/pdfqa/internal/usecase/flow"
	"github.com/futig/pdfqa/internal/watcher"
	"go.uber.org/zap"
)

// BuildCLI wires the terminal client and, when WATCH_DIR is set, the
// drop-folder watcher around a single flow.
func BuildCLI() (*CLIApp, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building terminal client",
		zap.String("environment", cfg.Environment),
		zap.String("backend_url", cfg.BackendCfg.Url),
	)

	fileValidator := validator.NewFileValidator(cfg.FileUploadCfg)
	console := cli.NewConsole(os.Stdout)
	qaFlow := flow.New(newBackend(cfg, logger), fileValidator, console, logger)

	repl := cli.NewREPL(qaFlow, formatter.NewFactory(), console, os.Stdin, fileValidator.MaxFileSize(), logger)

	app := &CLIApp{
		repl:   repl,
		logger: logger,
	}

	if cfg.WatchDir != "" {
		w, err := watcher.New(cfg.WatchDir, qaFlow, logger)
		if err != nil {
			return nil, fmt.Errorf("setup watcher: %w", err)
		}
		app.watcher = w
		logger.Info("Watching folder for PDFs", zap.String("dir", cfg.WatchDir))
	}

	return app, nil
}

// BuildTelegramBot creates and initializes the Telegram bot
func BuildTelegramBot() (telegram.Bot, *zap.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.TelegramCfg.BotToken == "" {
		return nil, nil, errors.New("TELEGRAM_BOT_TOKEN is required")
	}

	logger, err := setupLogger(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building Telegram bot",
		zap.String("environment", cfg.Environment),
		zap.String("backend_url", cfg.BackendCfg.Url),
	)

	fileValidator := validator.NewFileValidator(cfg.FileUploadCfg)

	bot, err := telegram.NewBot(&cfg.TelegramCfg, newBackend(cfg, logger), fileValidator, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	logger.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return bot, logger, nil
}

// BuildMockServer builds the in-memory development backend.
func BuildMockServer() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	serverCfg := cfg.MockServerCfg
	logger.Info("Building development backend",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", serverCfg.Addr),
		zap.String("base_path", serverCfg.BasePath),
	)

	fileValidator := validator.NewFileValidator(config.FileUploadConfig{MaxFileSize: serverCfg.MaxUploadSize})
	qaHandler := qa.NewHandler(qa.NewStore(), fileValidator, serverCfg.MaxUploadSize)

	router := api.SetupRouter(serverCfg, qaHandler, logger)
	logger.Info("HTTP router configured")

	server := &http.Server{
		Addr:         serverCfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		server: server,
		logger: logger,
	}, nil
}

// newBackend picks the HTTP connector or, with ENABLE_MOCKS, the offline mock.
func newBackend(cfg *config.Config, logger *zap.Logger) flow.Backend {
	if cfg.EnableMocks {
		logger.Info("Using mock backend connector",
			zap.Duration("delay", cfg.BackendCfg.MockDelay),
		)
		return pdfqa.NewMockConnector(cfg.BackendCfg.MockDelay, logger)
	}

	logger.Info("Using backend connector", zap.String("url", cfg.BackendCfg.Url))
	return pdfqa.NewConnector(cfg.BackendCfg, logger)
}

func setupLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.LogFile != "" {
		return pkglogger.New(cfg.LogLevel, cfg.LogFile)
	}
	return pkglogger.New(cfg.LogLevel)
}
