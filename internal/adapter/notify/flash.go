package notify

import (
	"sync"

	"go.uber.org/zap"

	"github.com/rl1809/bata-cart/internal/core/domain"
)

// Flash collects the notifications raised while handling one request so
// they can be returned to the client as toasts.
type Flash struct {
	mu            sync.Mutex
	logger        *zap.Logger
	notifications []domain.Notification
}

func NewFlash(logger *zap.Logger) *Flash {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Flash{logger: logger}
}

func (f *Flash) Notify(message string, kind domain.NotificationKind) {
	f.logger.Debug("notification", zap.String("message", message), zap.String("kind", string(kind)))

	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = append(f.notifications, domain.NewNotification(message, kind))
}

// Notifications returns the collected notifications in the order raised.
func (f *Flash) Notifications() []domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]domain.Notification, len(f.notifications))
	copy(out, f.notifications)
	return out
}

// Log writes notifications to the logger only.
type Log struct {
	Logger *zap.Logger
}

func (l Log) Notify(message string, kind domain.NotificationKind) {
	if l.Logger == nil {
		return
	}
	l.Logger.Info("notification", zap.String("message", message), zap.String("kind", string(kind)))
}
