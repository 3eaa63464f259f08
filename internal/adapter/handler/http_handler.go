package handler

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rl1809/bata-cart/internal/adapter/notify"
	"github.com/rl1809/bata-cart/internal/adapter/render"
	"github.com/rl1809/bata-cart/internal/core/domain"
	"github.com/rl1809/bata-cart/internal/core/service"
)

const (
	ActionIncrease = "increase"
	ActionDecrease = "decrease"
	ActionRemove   = "remove"
)

type HTTPHandler struct {
	carts      *service.Carts
	logger     *zap.Logger
	cookieName string
}

type AddItemHTTPRequest struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ActionHTTPRequest mirrors a click on a cart panel button: the action
// class and the button's data-index.
type ActionHTTPRequest struct {
	Action string `json:"action"`
	Index  *int   `json:"index"`
}

type QuantityHTTPRequest struct {
	Delta int `json:"delta"`
}

type CartHTTPResponse struct {
	Success       bool                  `json:"success"`
	Message       string                `json:"message,omitempty"`
	Items         []domain.CartViewItem `json:"items"`
	Count         int                   `json:"count"`
	Total         string                `json:"total"`
	HTML          string                `json:"html,omitempty"`
	Redirect      string                `json:"redirect,omitempty"`
	Notifications []domain.Notification `json:"notifications"`
}

type ErrorHTTPResponse struct {
	Success       bool                  `json:"success"`
	Message       string                `json:"message"`
	Notifications []domain.Notification `json:"notifications,omitempty"`
}

func NewHTTPHandler(carts *service.Carts, logger *zap.Logger, cookieName string) *HTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cookieName == "" {
		cookieName = "bata_session"
	}
	return &HTTPHandler{carts: carts, logger: logger, cookieName: cookieName}
}

// cartCall is one request's worth of cart work plus the collaborators that
// observed it.
type cartCall struct {
	renderer *render.HTMLRenderer
	flash    *notify.Flash
	view     domain.CartView
	redirect string
}

func (h *HTTPHandler) run(w http.ResponseWriter, r *http.Request, fn func(*service.CartStore) error) (*cartCall, error) {
	profile := h.profile(w, r)
	call := &cartCall{
		renderer: render.NewHTMLRenderer(h.logger),
		flash:    notify.NewFlash(h.logger),
	}

	err := h.carts.Do(r.Context(), profile, call.renderer, call.flash, func(store *service.CartStore) error {
		if fn != nil {
			if err := fn(store); err != nil {
				return err
			}
		}
		call.view = store.Cart().View()
		return nil
	})
	return call, err
}

// profile returns the caller's storage profile, issuing a new session
// cookie when the request has none or an unusable one.
func (h *HTTPHandler) profile(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(h.cookieName); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	call, err := h.run(w, r, func(store *service.CartStore) error {
		store.Render()
		return nil
	})
	h.respond(w, r, call, err, "")
}

func (h *HTTPHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	call, err := h.run(w, r, func(store *service.CartStore) error {
		return store.Clear(r.Context())
	})
	h.respond(w, r, call, err, "cart cleared")
}

func (h *HTTPHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAddItem(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Message: "invalid request body"})
		return
	}
	if req.ID == "" {
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Message: "missing required fields"})
		return
	}

	call, err := h.run(w, r, func(store *service.CartStore) error {
		return store.Add(r.Context(), req.ID, req.Name, req.Price)
	})
	h.respond(w, r, call, err, "item added")
}

func decodeAddItem(r *http.Request) (AddItemHTTPRequest, error) {
	var req AddItemHTTPRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data" {
		if err := r.ParseForm(); err != nil {
			return req, err
		}
		price, err := domain.ParsePrice(r.FormValue("price"))
		if err != nil {
			return req, err
		}
		req.ID = strings.TrimSpace(r.FormValue("product_id"))
		req.Name = strings.TrimSpace(r.FormValue("name"))
		req.Price = price
		return req, nil
	}

	err := json.NewDecoder(r.Body).Decode(&req)
	req.ID = strings.TrimSpace(req.ID)
	return req, err
}

// Action handles the cart panel's delegated click listener.
func (h *HTTPHandler) Action(w http.ResponseWriter, r *http.Request) {
	var req ActionHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Message: "invalid request body"})
		return
	}
	if req.Index == nil {
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Message: "missing required fields"})
		return
	}

	index := *req.Index
	var fn func(*service.CartStore) error
	switch req.Action {
	case ActionIncrease:
		fn = func(store *service.CartStore) error { return store.ChangeQuantity(r.Context(), index, 1) }
	case ActionDecrease:
		fn = func(store *service.CartStore) error { return store.ChangeQuantity(r.Context(), index, -1) }
	case ActionRemove:
		fn = func(store *service.CartStore) error { return store.Remove(r.Context(), index) }
	default:
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Message: "unknown action"})
		return
	}

	call, err := h.run(w, r, fn)
	h.respond(w, r, call, err, "")
}

func (h *HTTPHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "itemID"))

	var req QuantityHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Message: "invalid request body"})
		return
	}
	if id == "" || req.Delta == 0 {
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Message: "missing required fields"})
		return
	}

	call, err := h.run(w, r, func(store *service.CartStore) error {
		return store.ChangeItemQuantity(r.Context(), id, req.Delta)
	})
	h.respond(w, r, call, err, "")
}

func (h *HTTPHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "itemID"))

	call, err := h.run(w, r, func(store *service.CartStore) error {
		return store.RemoveItem(r.Context(), id)
	})
	h.respond(w, r, call, err, "")
}

func (h *HTTPHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var redirect string
	call, err := h.run(w, r, func(store *service.CartStore) error {
		location, err := store.Checkout(r.Context())
		redirect = location
		return err
	})
	if call != nil {
		call.redirect = redirect
	}
	h.respond(w, r, call, err, "")
}

// Fragment returns the cart panel's line-item list markup.
func (h *HTTPHandler) Fragment(w http.ResponseWriter, r *http.Request) {
	call, err := h.run(w, r, func(store *service.CartStore) error {
		store.Render()
		return nil
	})
	if err != nil {
		h.logger.Error("render fragment", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(call.renderer.HTML()))
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) respond(w http.ResponseWriter, r *http.Request, call *cartCall, err error, message string) {
	if err != nil {
		status := http.StatusInternalServerError
		msg := "internal error"

		if errors.Is(err, service.ErrInvalidItem) {
			status = http.StatusUnprocessableEntity
			msg = "invalid item"
		} else if errors.Is(err, service.ErrEmptyCart) {
			status = http.StatusConflict
			msg = "Your cart is empty!"
		} else {
			h.logger.Error("cart request failed", zap.String("path", r.URL.Path), zap.Error(err))
		}

		resp := ErrorHTTPResponse{Message: msg}
		if call != nil {
			resp.Notifications = call.flash.Notifications()
		}
		writeJSON(w, status, resp)
		return
	}

	resp := CartHTTPResponse{
		Success:       true,
		Message:       message,
		Items:         call.view.Items,
		Count:         call.view.Count,
		Total:         call.view.Total,
		Redirect:      call.redirect,
		Notifications: call.flash.Notifications(),
	}
	if call.renderer.Rendered() {
		resp.HTML = call.renderer.HTML()
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
