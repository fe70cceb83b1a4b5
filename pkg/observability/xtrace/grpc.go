package xtrace

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

func incomingCarrier(ctx context.Context) MetadataCarrier {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		md = metadata.MD{}
	}
	return MetadataCarrier(md)
}

// UnaryServerInterceptor 返回 gRPC 一元服务端拦截器
func (p *Propagator) UnaryServerInterceptor(opts ...Option) grpc.UnaryServerInterceptor {
	cfg := applyOptions(opts)
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx, finish := p.serve(ctx, incomingCarrier(ctx), cfg, map[string]string{"grpc.method": info.FullMethod})
		defer finish()
		return handler(ctx, req)
	}
}

// StreamServerInterceptor 返回 gRPC 流式服务端拦截器
func (p *Propagator) StreamServerInterceptor(opts ...Option) grpc.StreamServerInterceptor {
	cfg := applyOptions(opts)
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx, finish := p.serve(ss.Context(), incomingCarrier(ss.Context()), cfg, map[string]string{"grpc.method": info.FullMethod})
		defer finish()
		return handler(srv, &wrappedServerStream{ServerStream: ss, ctx: ctx})
	}
}

// wrappedServerStream 覆盖 Context
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}

// UnaryClientInterceptor 返回 gRPC 一元客户端拦截器
func (p *Propagator) UnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		return invoker(p.InjectToOutgoingContext(ctx), method, req, reply, cc, opts...)
	}
}

// StreamClientInterceptor 返回 gRPC 流式客户端拦截器
func (p *Propagator) StreamClientInterceptor() grpc.StreamClientInterceptor {
	return func(ctx context.Context, desc *grpc.StreamDesc, cc *grpc.ClientConn, method string, streamer grpc.Streamer, opts ...grpc.CallOption) (grpc.ClientStream, error) {
		return streamer(p.InjectToOutgoingContext(ctx), desc, cc, method, opts...)
	}
}

// InjectToOutgoingContext 把链路上下文写入 outgoing metadata。
//
// 复制已有 metadata 再修改；ctx 中没有链路上下文时原样返回。
func (p *Propagator) InjectToOutgoingContext(ctx context.Context) context.Context {
	tc := outbound(ctx)
	if tc == nil {
		return ctx
	}
	md, ok := metadata.FromOutgoingContext(ctx)
	if ok {
		md = md.Copy()
	} else {
		md = metadata.MD{}
	}
	if err := p.Inject(tc, MetadataCarrier(md)); err != nil {
		return ctx
	}
	return metadata.NewOutgoingContext(ctx, md)
}
