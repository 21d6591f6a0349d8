package enginev1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const serviceName = "engine.v1.Engine"

type EngineClient interface {
	SubmitOrder(ctx context.Context, in *SubmitOrderReq, opts ...grpc.CallOption) (*SubmitOrderResp, error)
	GetTopOfBook(ctx context.Context, in *GetTopOfBookReq, opts ...grpc.CallOption) (*GetTopOfBookResp, error)
	GetBookDepth(ctx context.Context, in *GetBookDepthReq, opts ...grpc.CallOption) (*GetBookDepthResp, error)
	GetRecentTrades(ctx context.Context, in *GetRecentTradesReq, opts ...grpc.CallOption) (*GetRecentTradesResp, error)
	Health(ctx context.Context, in *HealthReq, opts ...grpc.CallOption) (*HealthResp, error)
}

type engineClient struct {
	cc grpc.ClientConnInterface
}

func NewEngineClient(cc grpc.ClientConnInterface) EngineClient {
	return &engineClient{cc}
}

func (c *engineClient) SubmitOrder(ctx context.Context, in *SubmitOrderReq, opts ...grpc.CallOption) (*SubmitOrderResp, error) {
	out := new(SubmitOrderResp)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/SubmitOrder", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *engineClient) GetTopOfBook(ctx context.Context, in *GetTopOfBookReq, opts ...grpc.CallOption) (*GetTopOfBookResp, error) {
	out := new(GetTopOfBookResp)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/GetTopOfBook", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *engineClient) GetBookDepth(ctx context.Context, in *GetBookDepthReq, opts ...grpc.CallOption) (*GetBookDepthResp, error) {
	out := new(GetBookDepthResp)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/GetBookDepth", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *engineClient) GetRecentTrades(ctx context.Context, in *GetRecentTradesReq, opts ...grpc.CallOption) (*GetRecentTradesResp, error) {
	out := new(GetRecentTradesResp)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/GetRecentTrades", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *engineClient) Health(ctx context.Context, in *HealthReq, opts ...grpc.CallOption) (*HealthResp, error) {
	out := new(HealthResp)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/Health", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

type EngineServer interface {
	SubmitOrder(context.Context, *SubmitOrderReq) (*SubmitOrderResp, error)
	GetTopOfBook(context.Context, *GetTopOfBookReq) (*GetTopOfBookResp, error)
	GetBookDepth(context.Context, *GetBookDepthReq) (*GetBookDepthResp, error)
	GetRecentTrades(context.Context, *GetRecentTradesReq) (*GetRecentTradesResp, error)
	Health(context.Context, *HealthReq) (*HealthResp, error)
}

// UnimplementedEngineServer is embedded for forward compatibility.
type UnimplementedEngineServer struct{}

func (UnimplementedEngineServer) SubmitOrder(context.Context, *SubmitOrderReq) (*SubmitOrderResp, error) {
	return nil, status.Error(codes.Unimplemented, "method SubmitOrder not implemented")
}
func (UnimplementedEngineServer) GetTopOfBook(context.Context, *GetTopOfBookReq) (*GetTopOfBookResp, error) {
	return nil, status.Error(codes.Unimplemented, "method GetTopOfBook not implemented")
}
func (UnimplementedEngineServer) GetBookDepth(context.Context, *GetBookDepthReq) (*GetBookDepthResp, error) {
	return nil, status.Error(codes.Unimplemented, "method GetBookDepth not implemented")
}
func (UnimplementedEngineServer) GetRecentTrades(context.Context, *GetRecentTradesReq) (*GetRecentTradesResp, error) {
	return nil, status.Error(codes.Unimplemented, "method GetRecentTrades not implemented")
}
func (UnimplementedEngineServer) Health(context.Context, *HealthReq) (*HealthResp, error) {
	return nil, status.Error(codes.Unimplemented, "method Health not implemented")
}

func RegisterEngineServer(s grpc.ServiceRegistrar, srv EngineServer) {
	s.RegisterService(&EngineServiceDesc, srv)
}

func submitOrderHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SubmitOrderReq)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EngineServer).SubmitOrder(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/SubmitOrder"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(EngineServer).SubmitOrder(ctx, req.(*SubmitOrderReq))
	}
	return interceptor(ctx, in, info, handler)
}

func getTopOfBookHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetTopOfBookReq)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EngineServer).GetTopOfBook(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/GetTopOfBook"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(EngineServer).GetTopOfBook(ctx, req.(*GetTopOfBookReq))
	}
	return interceptor(ctx, in, info, handler)
}

func getBookDepthHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetBookDepthReq)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EngineServer).GetBookDepth(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/GetBookDepth"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(EngineServer).GetBookDepth(ctx, req.(*GetBookDepthReq))
	}
	return interceptor(ctx, in, info, handler)
}

func getRecentTradesHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetRecentTradesReq)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EngineServer).GetRecentTrades(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/GetRecentTrades"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(EngineServer).GetRecentTrades(ctx, req.(*GetRecentTradesReq))
	}
	return interceptor(ctx, in, info, handler)
}

func healthHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(HealthReq)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EngineServer).Health(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Health"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(EngineServer).Health(ctx, req.(*HealthReq))
	}
	return interceptor(ctx, in, info, handler)
}

var EngineServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*EngineServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SubmitOrder", Handler: submitOrderHandler},
		{MethodName: "GetTopOfBook", Handler: getTopOfBookHandler},
		{MethodName: "GetBookDepth", Handler: getBookDepthHandler},
		{MethodName: "GetRecentTrades", Handler: getRecentTradesHandler},
		{MethodName: "Health", Handler: healthHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/engine/v1/engine.proto",
}
