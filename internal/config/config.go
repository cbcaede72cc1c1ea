package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/pdfqa/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// DefaultBackendURL is used when BACKEND_SERVICE_URL is not set.
const DefaultBackendURL = "http://127.0.0.1:8000/api"

// Config holds the application configuration
type Config struct {
	// Backend question-answering service
	BackendCfg BackendConnectorConfig `envPrefix:"BACKEND_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	// Log destination, stderr when empty
	LogFile string `env:"LOG_FILE"`

	// File upload configuration
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Drop folder watched by the terminal client (optional)
	WatchDir string `env:"WATCH_DIR"`

	// Telegram bot configuration (optional)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Development backend configuration
	MockServerCfg MockServerConfig `envPrefix:"MOCK_SERVER_"`

	// Environment (set from flag, not from env var)
	Environment string
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string               `env:"BOT_TOKEN"`
	UpdateTimeout      int                  `env:"UPDATE_TIMEOUT" envDefault:"60"`
	RateLimitPerMinute int                  `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`
	RateLimitBurst     int                  `env:"RATE_LIMIT_BURST" envDefault:"5"`
	ShutdownTimeout    int                  `env:"SHUTDOWN_TIMEOUT" envDefault:"30"` // seconds
	SessionTTL         time.Duration        `env:"SESSION_TTL" envDefault:"2h"`
	SendRetry          pkgRetry.RetryConfig `envPrefix:"SEND_RETRY_"`
}

// BackendConnectorConfig describes the question-answering backend.
type BackendConnectorConfig struct {
	HTTPClientConfig
	UploadEndpoint string        `env:"UPLOAD_ENDPOINT" envDefault:"/upload"`
	AskEndpoint    string        `env:"ASK_ENDPOINT" envDefault:"/ask"`
	MockDelay      time.Duration `env:"MOCK_DELAY" envDefault:"1500ms"`
}

// HTTPClientConfig configures the transport. A zero RequestTimeout or
// ResponseHeaderTimeout means no deadline is enforced on a request.
type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"0s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"30s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"0s"`
	TLSHandshakeTimeout   time.Duration `env:"TLS_HANDSHAKE_TIMEOUT" envDefault:"10s"`
	InsecureSkipVerify    bool          `env:"INSECURE_SKIP_VERIFY" envDefault:"false"`
	Url                   string        `env:"SERVICE_URL" envDefault:"http://127.0.0.1:8000/api"`
}

// FileUploadConfig holds file upload limits
type FileUploadConfig struct {
	MaxFileSize int64 `env:"MAX_FILE_SIZE" envDefault:"10485760"` // 10 MiB
}

// MockServerConfig configures cmd/mock-backend.
type MockServerConfig struct {
	Addr           string   `env:"ADDR" envDefault:"127.0.0.1:8000"`
	BasePath       string   `env:"BASE_PATH" envDefault:"/api"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	MaxUploadSize  int64    `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"`
}

// LoadConfig reads the -env flag and loads the matching configuration.
func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	return Load(*envFlag)
}

// Load loads configuration for the named environment. The .env file is
// optional; variables already set in the process environment win.
func Load(environment string) (*Config, error) {
	envFile := getEnvFile(environment)
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = environment
	if cfg.BackendCfg.Url == "" {
		cfg.BackendCfg.Url = DefaultBackendURL
	}
	cfg.BackendCfg.Url = strings.TrimRight(cfg.BackendCfg.Url, "/")

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	if cfg.FileUploadCfg.MaxFileSize < 1 {
		errors = append(errors, fmt.Sprintf("FILE_UPLOAD_MAX_FILE_SIZE must be positive, got %d", cfg.FileUploadCfg.MaxFileSize))
	}

	if cfg.BackendCfg.MockDelay < 0 {
		errors = append(errors, fmt.Sprintf("BACKEND_MOCK_DELAY must not be negative, got %s", cfg.BackendCfg.MockDelay))
	}

	if cfg.TelegramCfg.RateLimitPerMinute < 1 || cfg.TelegramCfg.RateLimitPerMinute > 60 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_PER_MINUTE must be between 1 and 60, got %d", cfg.TelegramCfg.RateLimitPerMinute))
	}

	if cfg.TelegramCfg.RateLimitBurst < 1 || cfg.TelegramCfg.RateLimitBurst > 20 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_BURST must be between 1 and 20, got %d", cfg.TelegramCfg.RateLimitBurst))
	}

	if cfg.TelegramCfg.ShutdownTimeout < 1 || cfg.TelegramCfg.ShutdownTimeout > 300 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_SHUTDOWN_TIMEOUT must be between 1 and 300 seconds, got %d", cfg.TelegramCfg.ShutdownTimeout))
	}

	if cfg.TelegramCfg.SessionTTL <= 0 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_SESSION_TTL must be positive, got %s", cfg.TelegramCfg.SessionTTL))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
