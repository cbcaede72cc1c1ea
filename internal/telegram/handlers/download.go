package handlers

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/futig/pdfqa/internal/entity"
)

const downloadTimeout = 30 * time.Second

// NewSecureHTTPClient returns the client used to fetch files from Telegram.
func NewSecureHTTPClient() *http.Client {
	return &http.Client{
		Timeout: downloadTimeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}

// TelegramDownloader downloads files sent to the bot over HTTPS.
type TelegramDownloader struct {
	bot     BotAPI
	client  *http.Client
	maxSize int64
}

func NewFileDownloader(bot BotAPI, client *http.Client, maxSize int64) *TelegramDownloader {
	if client == nil {
		client = NewSecureHTTPClient()
	}

	return &TelegramDownloader{
		bot:     bot,
		client:  client,
		maxSize: maxSize,
	}
}

// Download fetches a file by its Telegram file ID.
func (d *TelegramDownloader) Download(ctx context.Context, fileID string) ([]byte, error) {
	fileURL, err := d.bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file info: %w", err)
	}

	parsedURL, err := url.Parse(fileURL)
	if err != nil {
		return nil, fmt.Errorf("invalid file URL: %w", err)
	}

	// The URL carries the bot token
	if parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("insecure URL scheme: %s (expected https)", parsedURL.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, d.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read file data: %w", err)
	}
	if int64(len(data)) > d.maxSize {
		return nil, fmt.Errorf("%w: more than %d bytes", entity.ErrFileTooLarge, d.maxSize)
	}

	return data, nil
}
