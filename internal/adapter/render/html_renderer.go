package render

import (
	"bytes"
	"html"
	"html/template"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/rl1809/bata-cart/internal/core/domain"
)

var cartItemsTemplate = template.Must(template.New("cart_items").Parse(`
{{- if .Empty -}}
<p class="empty-cart">Your cart is empty</p>
{{- else -}}
{{- range .Items }}
<div class="cart-item">
	<div class="cart-item-info">
		<h4>{{ .Name }}</h4>
		<p>${{ .Price }}</p>
	</div>
	<div class="cart-item-controls">
		<button class="quantity-btn decrease" data-index="{{ .Index }}">-</button>
		<span class="quantity">{{ .Quantity }}</span>
		<button class="quantity-btn increase" data-index="{{ .Index }}">+</button>
		<button class="remove-item" data-index="{{ .Index }}">🗑️</button>
	</div>
</div>
{{- end }}
{{- end }}`))

// HTMLRenderer draws the cart panel's line-item list and keeps the result
// of the last render for the transport to send back.
type HTMLRenderer struct {
	mu     sync.Mutex
	policy *bluemonday.Policy
	logger *zap.Logger
	html   string
	drawn  bool
}

func NewHTMLRenderer(logger *zap.Logger) *HTMLRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTMLRenderer{
		policy: bluemonday.StrictPolicy(),
		logger: logger,
	}
}

func (r *HTMLRenderer) Render(view domain.CartView) {
	clean := view
	clean.Items = make([]domain.CartViewItem, len(view.Items))
	for i, item := range view.Items {
		// strip markup; the template escapes what is left
		item.Name = html.UnescapeString(r.policy.Sanitize(item.Name))
		clean.Items[i] = item
	}

	var buf bytes.Buffer
	if err := cartItemsTemplate.Execute(&buf, clean); err != nil {
		r.logger.Error("render cart items", zap.Error(err))
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.html = buf.String()
	r.drawn = true
}

// HTML returns the markup from the last render.
func (r *HTMLRenderer) HTML() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.html
}

// Rendered reports whether Render has been called.
func (r *HTMLRenderer) Rendered() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.drawn
}

// Nop discards renders.
type Nop struct{}

func (Nop) Render(domain.CartView) {}
