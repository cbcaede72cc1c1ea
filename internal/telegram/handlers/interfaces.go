package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotAPI is the subset of *tgbotapi.BotAPI the handlers use.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// FileDownloader fetches the content of a file sent to the bot.
type FileDownloader interface {
	Download(ctx context.Context, fileID string) ([]byte, error)
}

// FileValidator checks a document from its Telegram metadata, before it is
// downloaded.
type FileValidator interface {
	ValidateDocumentMeta(name string, size int64) error
	MaxFileSize() int64
}
