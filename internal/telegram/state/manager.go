package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/futig/pdfqa/internal/usecase/flow"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// FlowFactory builds the flow for a chat that has no session yet.
type FlowFactory func(chatID int64) *flow.Flow

// Manager manages telegram sessions
type Manager struct {
	storage Storage
	newFlow FlowFactory
}

// NewManager creates a new state manager
func NewManager(storage Storage, newFlow FlowFactory) *Manager {
	return &Manager{
		storage: storage,
		newFlow: newFlow,
	}
}

// GetFlow returns the chat's flow, creating the session on first use.
// Each call extends the session's lifetime.
func (m *Manager) GetFlow(ctx context.Context, chatID int64) (*flow.Flow, error) {
	session, err := m.storage.Get(ctx, chatID)
	switch {
	case err == nil:
		session.UpdatedAt = time.Now()
		if err := m.storage.Set(ctx, session); err != nil {
			return nil, fmt.Errorf("refresh telegram session: %w", err)
		}
		return session.Flow, nil
	case !errors.Is(err, ErrSessionNotFound):
		return nil, fmt.Errorf("get telegram session from storage: %w", err)
	}

	now := time.Now()
	session = &ChatSession{
		ChatID:    chatID,
		Flow:      m.newFlow(chatID),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = m.storage.Add(ctx, session)
	if errors.Is(err, ErrSessionExists) {
		// Another update for the same chat won the race.
		existing, getErr := m.storage.Get(ctx, chatID)
		if getErr != nil {
			return nil, fmt.Errorf("get telegram session from storage: %w", getErr)
		}
		return existing.Flow, nil
	}
	if err != nil {
		return nil, fmt.Errorf("save telegram session to storage: %w", err)
	}

	ctxzap.Info(ctx, "telegram session created", zap.Int64("chat_id", chatID))
	return session.Flow, nil
}

// DeleteSession resets and removes the chat's session.
func (m *Manager) DeleteSession(ctx context.Context, chatID int64) error {
	session, err := m.storage.Get(ctx, chatID)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get telegram session from storage: %w", err)
	}

	session.Flow.Reset(ctx)

	if err := m.storage.Delete(ctx, chatID); err != nil {
		return fmt.Errorf("delete telegram session from storage: %w", err)
	}
	return nil
}
