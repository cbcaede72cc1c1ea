package state

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/futig/pdfqa/internal/usecase/flow"
	"github.com/patrickmn/go-cache"
)

var (
	ErrSessionNotFound = errors.New("telegram session not found")
	ErrSessionExists   = errors.New("telegram session already exists")
)

// ChatSession binds a Telegram chat to its flow.
type ChatSession struct {
	ChatID    int64
	Flow      *flow.Flow
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Storage defines the interface for telegram session persistence
type Storage interface {
	// Get retrieves telegram session by chat ID
	Get(ctx context.Context, chatID int64) (*ChatSession, error)

	// Add saves a new session and fails with ErrSessionExists if one is stored
	Add(ctx context.Context, session *ChatSession) error

	// Set saves telegram session, replacing any existing one
	Set(ctx context.Context, session *ChatSession) error

	// Delete removes telegram session
	Delete(ctx context.Context, chatID int64) error
}

// MemoryStorage keeps sessions in an expiring in-process cache. Every Set
// restarts the session's TTL.
type MemoryStorage struct {
	cache *cache.Cache
}

func NewMemoryStorage(ttl time.Duration) *MemoryStorage {
	cleanup := ttl
	if cleanup <= 0 || cleanup > 10*time.Minute {
		cleanup = 10 * time.Minute
	}

	return &MemoryStorage{
		cache: cache.New(ttl, cleanup),
	}
}

func (s *MemoryStorage) Get(_ context.Context, chatID int64) (*ChatSession, error) {
	item, ok := s.cache.Get(key(chatID))
	if !ok {
		return nil, ErrSessionNotFound
	}
	return item.(*ChatSession), nil
}

func (s *MemoryStorage) Add(_ context.Context, session *ChatSession) error {
	if err := s.cache.Add(key(session.ChatID), session, cache.DefaultExpiration); err != nil {
		return ErrSessionExists
	}
	return nil
}

func (s *MemoryStorage) Set(_ context.Context, session *ChatSession) error {
	s.cache.Set(key(session.ChatID), session, cache.DefaultExpiration)
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, chatID int64) error {
	s.cache.Delete(key(chatID))
	return nil
}

// Count returns the number of live sessions.
func (s *MemoryStorage) Count() int {
	return s.cache.ItemCount()
}

func key(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
