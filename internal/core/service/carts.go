package service

import (
	"context"
	"errors"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/rl1809/bata-cart/internal/port"
)

var (
	ErrMissingProfile = errors.New("missing profile")
	ErrProfileTooLong = errors.New("profile too long")
)

// MaxProfileLength matches the width of the profile column in the SQL
// backends.
const MaxProfileLength = 64

const lockStripes = 64

// Carts opens cart stores on shared local storage. Do serializes work per
// profile so two requests for one cart never interleave.
type Carts struct {
	storage      port.LocalStorage
	logger       *zap.Logger
	checkoutPath string
	locks        [lockStripes]sync.Mutex
}

func NewCarts(storage port.LocalStorage, logger *zap.Logger, checkoutPath string) *Carts {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Carts{
		storage:      storage,
		logger:       logger,
		checkoutPath: checkoutPath,
	}
}

// Open constructs a store for profile and loads its persisted cart.
func (c *Carts) Open(ctx context.Context, profile string, renderer port.Renderer, notifier port.Notifier) (*CartStore, error) {
	if profile == "" {
		return nil, ErrMissingProfile
	}
	if len(profile) > MaxProfileLength {
		return nil, ErrProfileTooLong
	}

	store := NewCartStore(c.storage, profile, renderer, notifier,
		WithLogger(c.logger),
		WithCheckoutPath(c.checkoutPath),
	)
	if _, err := store.Load(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// Do opens the profile's store and runs fn while holding the profile lock.
func (c *Carts) Do(ctx context.Context, profile string, renderer port.Renderer, notifier port.Notifier, fn func(*CartStore) error) error {
	lock := c.lockFor(profile)
	lock.Lock()
	defer lock.Unlock()

	store, err := c.Open(ctx, profile, renderer, notifier)
	if err != nil {
		return err
	}
	return fn(store)
}

func (c *Carts) lockFor(profile string) *sync.Mutex {
	return &c.locks[xxhash.Sum64String(profile)%lockStripes]
}
