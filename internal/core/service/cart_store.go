package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/rl1809/bata-cart/internal/core/domain"
	"github.com/rl1809/bata-cart/internal/port"
)

var (
	ErrInvalidItem = errors.New("invalid item")
	ErrEmptyCart   = errors.New("cart is empty")
)

const DefaultCheckoutPath = "pages/checkout.html"

// CartStore owns the in-memory cart of one storage profile and writes it
// through to local storage on every mutation.
type CartStore struct {
	mu       sync.Mutex
	storage  port.LocalStorage
	profile  string
	renderer port.Renderer
	notifier port.Notifier
	logger   *zap.Logger
	checkout string
	items    []domain.LineItem
}

type StoreOption func(*CartStore)

func WithLogger(logger *zap.Logger) StoreOption {
	return func(s *CartStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithCheckoutPath(path string) StoreOption {
	return func(s *CartStore) {
		if path != "" {
			s.checkout = path
		}
	}
}

func NewCartStore(storage port.LocalStorage, profile string, renderer port.Renderer, notifier port.Notifier, opts ...StoreOption) *CartStore {
	s := &CartStore{
		storage:  storage,
		profile:  profile,
		renderer: renderer,
		notifier: notifier,
		logger:   zap.NewNop(),
		checkout: DefaultCheckoutPath,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("profile", profile))
	return s
}

// Load replaces the in-memory cart with the persisted one. Missing or
// malformed data yields an empty cart; only a storage failure is an error.
func (s *CartStore) Load(ctx context.Context) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.storage.GetItem(ctx, s.profile, domain.StorageKey)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("load cart: %w", err)
	}

	s.items = nil
	if ok {
		s.items = s.decode(raw)
	}

	return s.snapshot(), nil
}

func (s *CartStore) decode(raw string) []domain.LineItem {
	var stored []domain.LineItem
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.logger.Warn("discarding malformed cart", zap.Error(err))
		return nil
	}

	items := make([]domain.LineItem, 0, len(stored))
	seen := make(map[string]bool, len(stored))
	for _, item := range stored {
		if !item.Valid() || seen[item.ID] {
			s.logger.Warn("dropping invalid stored line item", zap.String("item_id", item.ID))
			continue
		}
		seen[item.ID] = true
		items = append(items, item)
	}
	return items
}

// Add increments the quantity of an existing id or appends a new line item.
func (s *CartStore) Add(ctx context.Context, id, name string, price float64) error {
	if id == "" || !domain.ValidPrice(price) {
		return ErrInvalidItem
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		if s.items[i].Quantity == math.MaxInt {
			return nil
		}
		s.items[i].Quantity++
	} else {
		s.items = append(s.items, domain.LineItem{
			ID:       id,
			Name:     name,
			Price:    price,
			Quantity: 1,
		})
	}

	if err := s.persist(ctx); err != nil {
		return err
	}
	s.logger.Debug("item added", zap.String("item_id", id))
	s.notify(name+" added to cart!", domain.NotificationSuccess)
	s.render()
	return nil
}

// Remove deletes the line item at index. An out-of-range index is a no-op.
func (s *CartStore) Remove(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeAt(ctx, index)
}

// ChangeQuantity adds delta to the quantity at index, removing the item
// when the result drops to zero or below.
func (s *CartStore) ChangeQuantity(ctx context.Context, index, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changeAt(ctx, index, delta)
}

// RemoveItem is Remove keyed by line item id.
func (s *CartStore) RemoveItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeAt(ctx, s.indexOf(id))
}

// ChangeItemQuantity is ChangeQuantity keyed by line item id.
func (s *CartStore) ChangeItemQuantity(ctx context.Context, id string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changeAt(ctx, s.indexOf(id), delta)
}

func (s *CartStore) removeAt(ctx context.Context, index int) error {
	if !s.validIndex(index) {
		return nil
	}

	removed := s.items[index]
	s.items = append(s.items[:index:index], s.items[index+1:]...)

	if err := s.persist(ctx); err != nil {
		return err
	}
	s.logger.Debug("item removed", zap.String("item_id", removed.ID))
	s.render()
	return nil
}

func (s *CartStore) changeAt(ctx context.Context, index, delta int) error {
	if !s.validIndex(index) {
		return nil
	}

	if delta > 0 && s.items[index].Quantity > math.MaxInt-delta {
		return nil
	}

	quantity := s.items[index].Quantity + delta
	if quantity <= 0 {
		return s.removeAt(ctx, index)
	}
	s.items[index].Quantity = quantity

	if err := s.persist(ctx); err != nil {
		return err
	}
	s.logger.Debug("quantity changed",
		zap.String("item_id", s.items[index].ID),
		zap.Int("quantity", quantity),
	)
	s.render()
	return nil
}

// Checkout returns where the shopper should go next. An empty cart is
// reported to the notifier and returned as ErrEmptyCart.
func (s *CartStore) Checkout(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		s.notify("Your cart is empty!", domain.NotificationError)
		return "", ErrEmptyCart
	}
	return s.checkout, nil
}

// Clear drops the persisted cart.
func (s *CartStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.RemoveItem(ctx, s.profile, domain.StorageKey); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	s.items = nil
	s.render()
	return nil
}

// Persist writes the full ordered cart to local storage.
func (s *CartStore) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(ctx)
}

func (s *CartStore) persist(ctx context.Context) error {
	items := s.items
	if items == nil {
		items = []domain.LineItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	if err := s.storage.SetItem(ctx, s.profile, domain.StorageKey, string(data)); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}

func (s *CartStore) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot().Total()
}

func (s *CartStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot().Count()
}

// Items returns a copy of the line items in display order.
func (s *CartStore) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot().Items
}

func (s *CartStore) Cart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Render pushes the current cart to the renderer without mutating it.
func (s *CartStore) Render() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.render()
}

func (s *CartStore) Profile() string {
	return s.profile
}

func (s *CartStore) snapshot() domain.Cart {
	items := make([]domain.LineItem, len(s.items))
	copy(items, s.items)
	return domain.Cart{Items: items}
}

func (s *CartStore) indexOf(id string) int {
	for i, item := range s.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (s *CartStore) validIndex(index int) bool {
	return index >= 0 && index < len(s.items)
}

func (s *CartStore) render() {
	if s.renderer != nil {
		s.renderer.Render(s.snapshot().View())
	}
}

func (s *CartStore) notify(message string, kind domain.NotificationKind) {
	if s.notifier != nil {
		s.notifier.Notify(message, kind)
	}
}
