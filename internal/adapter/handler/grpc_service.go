package handler

import (
	"context"

	"google.golang.org/grpc"

	"github.com/rl1809/bata-cart/internal/core/domain"
)

const CartServiceName = "bata.cart.v1.CartService"

type GetCartRequest struct {
	Profile string `json:"profile"`
}

type AddItemRequest struct {
	Profile string  `json:"profile"`
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
}

type UpdateQuantityRequest struct {
	Profile string `json:"profile"`
	Index   int    `json:"index"`
	Delta   int    `json:"delta"`
}

type RemoveItemRequest struct {
	Profile string `json:"profile"`
	Index   int    `json:"index"`
}

type CheckoutRequest struct {
	Profile string `json:"profile"`
}

type ClearRequest struct {
	Profile string `json:"profile"`
}

type CartReply struct {
	Items         []domain.CartViewItem `json:"items"`
	Count         int                   `json:"count"`
	Total         string                `json:"total"`
	HTML          string                `json:"html,omitempty"`
	Redirect      string                `json:"redirect,omitempty"`
	Notifications []domain.Notification `json:"notifications,omitempty"`
}

type CartServiceServer interface {
	GetCart(context.Context, *GetCartRequest) (*CartReply, error)
	AddItem(context.Context, *AddItemRequest) (*CartReply, error)
	UpdateQuantity(context.Context, *UpdateQuantityRequest) (*CartReply, error)
	RemoveItem(context.Context, *RemoveItemRequest) (*CartReply, error)
	Checkout(context.Context, *CheckoutRequest) (*CartReply, error)
	Clear(context.Context, *ClearRequest) (*CartReply, error)
}

var CartServiceDesc = grpc.ServiceDesc{
	ServiceName: CartServiceName,
	HandlerType: (*CartServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("GetCart", CartServiceServer.GetCart),
		unaryMethod("AddItem", CartServiceServer.AddItem),
		unaryMethod("UpdateQuantity", CartServiceServer.UpdateQuantity),
		unaryMethod("RemoveItem", CartServiceServer.RemoveItem),
		unaryMethod("Checkout", CartServiceServer.Checkout),
		unaryMethod("Clear", CartServiceServer.Clear),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "bata/cart/v1/cart.proto",
}

func RegisterCartServiceServer(s grpc.ServiceRegistrar, srv CartServiceServer) {
	s.RegisterService(&CartServiceDesc, srv)
}

func unaryMethod[Req any](name string, call func(CartServiceServer, context.Context, *Req) (*CartReply, error)) grpc.MethodDesc {
	fullMethod := "/" + CartServiceName + "/" + name

	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			server := srv.(CartServiceServer)
			if interceptor == nil {
				return call(server, ctx, in)
			}

			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(server, ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// CartServiceClient calls the cart service over a connection that uses the
// JSON codec.
type CartServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCartServiceClient(cc grpc.ClientConnInterface) *CartServiceClient {
	return &CartServiceClient{cc: cc}
}

func (c *CartServiceClient) invoke(ctx context.Context, method string, in any, opts ...grpc.CallOption) (*CartReply, error) {
	out := new(CartReply)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(JSONCodecName)}, opts...)
	if err := c.cc.Invoke(ctx, "/"+CartServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CartServiceClient) GetCart(ctx context.Context, in *GetCartRequest, opts ...grpc.CallOption) (*CartReply, error) {
	return c.invoke(ctx, "GetCart", in, opts...)
}

func (c *CartServiceClient) AddItem(ctx context.Context, in *AddItemRequest, opts ...grpc.CallOption) (*CartReply, error) {
	return c.invoke(ctx, "AddItem", in, opts...)
}

func (c *CartServiceClient) UpdateQuantity(ctx context.Context, in *UpdateQuantityRequest, opts ...grpc.CallOption) (*CartReply, error) {
	return c.invoke(ctx, "UpdateQuantity", in, opts...)
}

func (c *CartServiceClient) RemoveItem(ctx context.Context, in *RemoveItemRequest, opts ...grpc.CallOption) (*CartReply, error) {
	return c.invoke(ctx, "RemoveItem", in, opts...)
}

func (c *CartServiceClient) Checkout(ctx context.Context, in *CheckoutRequest, opts ...grpc.CallOption) (*CartReply, error) {
	return c.invoke(ctx, "Checkout", in, opts...)
}

func (c *CartServiceClient) Clear(ctx context.Context, in *ClearRequest, opts ...grpc.CallOption) (*CartReply, error) {
	return c.invoke(ctx, "Clear", in, opts...)
}
