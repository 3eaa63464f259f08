package handler

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/bata-cart/internal/adapter/notify"
	"github.com/rl1809/bata-cart/internal/adapter/render"
	"github.com/rl1809/bata-cart/internal/core/service"
)

type GRPCHandler struct {
	carts  *service.Carts
	logger *zap.Logger
}

func NewGRPCHandler(carts *service.Carts, logger *zap.Logger) *GRPCHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GRPCHandler{carts: carts, logger: logger}
}

func (h *GRPCHandler) GetCart(ctx context.Context, req *GetCartRequest) (*CartReply, error) {
	return h.run(ctx, req.Profile, func(store *service.CartStore, _ *CartReply) error {
		store.Render()
		return nil
	})
}

func (h *GRPCHandler) AddItem(ctx context.Context, req *AddItemRequest) (*CartReply, error) {
	return h.run(ctx, req.Profile, func(store *service.CartStore, _ *CartReply) error {
		return store.Add(ctx, req.ID, req.Name, req.Price)
	})
}

func (h *GRPCHandler) UpdateQuantity(ctx context.Context, req *UpdateQuantityRequest) (*CartReply, error) {
	return h.run(ctx, req.Profile, func(store *service.CartStore, _ *CartReply) error {
		return store.ChangeQuantity(ctx, req.Index, req.Delta)
	})
}

func (h *GRPCHandler) RemoveItem(ctx context.Context, req *RemoveItemRequest) (*CartReply, error) {
	return h.run(ctx, req.Profile, func(store *service.CartStore, _ *CartReply) error {
		return store.Remove(ctx, req.Index)
	})
}

func (h *GRPCHandler) Checkout(ctx context.Context, req *CheckoutRequest) (*CartReply, error) {
	return h.run(ctx, req.Profile, func(store *service.CartStore, reply *CartReply) error {
		location, err := store.Checkout(ctx)
		reply.Redirect = location
		return err
	})
}

func (h *GRPCHandler) Clear(ctx context.Context, req *ClearRequest) (*CartReply, error) {
	return h.run(ctx, req.Profile, func(store *service.CartStore, _ *CartReply) error {
		return store.Clear(ctx)
	})
}

func (h *GRPCHandler) run(ctx context.Context, profile string, fn func(*service.CartStore, *CartReply) error) (*CartReply, error) {
	if profile == "" {
		return nil, status.Error(codes.InvalidArgument, "profile is required")
	}

	renderer := render.NewHTMLRenderer(h.logger)
	flash := notify.NewFlash(h.logger)
	reply := &CartReply{}

	err := h.carts.Do(ctx, profile, renderer, flash, func(store *service.CartStore) error {
		if fn != nil {
			if err := fn(store, reply); err != nil {
				return err
			}
		}
		view := store.Cart().View()
		reply.Items = view.Items
		reply.Count = view.Count
		reply.Total = view.Total
		return nil
	})
	if err != nil {
		if errors.Is(err, service.ErrProfileTooLong) {
			return nil, status.Errorf(codes.InvalidArgument, "profile must be at most %d bytes", service.MaxProfileLength)
		}
		if errors.Is(err, service.ErrInvalidItem) {
			return nil, status.Error(codes.InvalidArgument, "invalid item")
		}
		if errors.Is(err, service.ErrEmptyCart) {
			return nil, status.Error(codes.FailedPrecondition, "Your cart is empty!")
		}
		h.logger.Error("grpc cart request failed", zap.String("profile", profile), zap.Error(err))
		return nil, status.Errorf(codes.Internal, "error handling cart: %v", err)
	}

	if renderer.Rendered() {
		reply.HTML = renderer.HTML()
	}
	reply.Notifications = flash.Notifications()
	return reply, nil
}
