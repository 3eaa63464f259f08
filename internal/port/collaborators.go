package port

import "github.com/rl1809/bata-cart/internal/core/domain"

// Renderer redraws the cart after a mutation. Fire-and-forget.
type Renderer interface {
	Render(view domain.CartView)
}

// Notifier shows a transient message. Fire-and-forget.
type Notifier interface {
	Notify(message string, kind domain.NotificationKind)
}
