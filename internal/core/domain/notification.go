package domain

import "time"

type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// NotificationDismissAfter is how long a toast stays on screen.
const NotificationDismissAfter = 3 * time.Second

type Notification struct {
	Message        string           `json:"message"`
	Kind           NotificationKind `json:"kind"`
	DismissAfterMS int64            `json:"dismiss_after_ms"`
}

func NewNotification(message string, kind NotificationKind) Notification {
	return Notification{
		Message:        message,
		Kind:           kind,
		DismissAfterMS: NotificationDismissAfter.Milliseconds(),
	}
}
