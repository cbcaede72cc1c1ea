package handlers

import (
	"context"

	"github.com/futig/pdfqa/internal/entity"
	"github.com/futig/pdfqa/internal/telegram/render"
)

// ChatNotifier delivers flow notifications to one chat.
type ChatNotifier struct {
	sender *MessageSender
	chatID int64
}

func NewChatNotifier(sender *MessageSender, chatID int64) *ChatNotifier {
	return &ChatNotifier{
		sender: sender,
		chatID: chatID,
	}
}

// Notify implements flow.Notifier. Delivery failures are logged by the sender.
func (n *ChatNotifier) Notify(ctx context.Context, notification entity.Notification) {
	n.sender.Send(ctx, n.chatID, render.RenderNotification(notification), nil)
}
