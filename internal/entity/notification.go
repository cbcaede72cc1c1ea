package entity

type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
)

// Notification is a user-facing message emitted by a flow operation.
type Notification struct {
	Type        NotificationType
	Title       string
	Description string
}
