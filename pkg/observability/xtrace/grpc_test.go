package xtrace_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/omeyang/xtracekit/pkg/context/xctx"
	"github.com/omeyang/xtracekit/pkg/observability/xtrace"
	"github.com/omeyang/xtracekit/pkg/trace/xspan"
	"github.com/omeyang/xtracekit/pkg/trace/xtracectx"
)

func TestUnaryServerInterceptor(t *testing.T) {
	md := metadata.Pairs(
		"traceparent", "00-000000000000000000000000000004d2-000000000000162e-01",
		"tracestate", "dd=s:2;o:rum",
	)
	ctx := metadata.NewIncomingContext(context.Background(), md)

	var (
		tc   *xtracectx.Context
		span *xspan.Span
	)
	interceptor := xtrace.Default().UnaryServerInterceptor(xtrace.WithServerSpan("grpc.server"))
	resp, err := interceptor(ctx, "req", &grpc.UnaryServerInfo{FullMethod: "/orders.v1.Orders/Get"},
		func(ctx context.Context, req any) (any, error) {
			tc = xctx.TraceContext(ctx)
			span, _ = tc.CurrentSpan().(*xspan.Span)
			return "ok", nil
		})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)

	require.NotNil(t, span)
	assert.Equal(t, uint64(1234), span.TraceID())
	assert.Equal(t, uint64(5678), span.ParentID())
	method, _ := span.Meta("grpc.method")
	assert.Equal(t, "/orders.v1.Orders/Get", method)
	origin, _ := span.Meta(xtracectx.KeyOrigin)
	assert.Equal(t, "rum", origin)
	assert.True(t, span.Finished())
}

func TestUnaryServerInterceptor_NoMetadata(t *testing.T) {
	var tc *xtracectx.Context
	_, err := xtrace.Default().UnaryServerInterceptor()(context.Background(), nil, &grpc.UnaryServerInfo{},
		func(ctx context.Context, _ any) (any, error) {
			tc = xctx.TraceContext(ctx)
			return nil, nil
		})
	require.NoError(t, err)
	require.NotNil(t, tc)
	assert.Equal(t, xtracectx.StateEmpty, tc.State())
}

type fakeServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *fakeServerStream) Context() context.Context { return s.ctx }

func TestStreamServerInterceptor(t *testing.T) {
	md := metadata.Pairs("x-datadog-trace-id", "99", "x-datadog-parent-id", "100")
	ss := &fakeServerStream{ctx: metadata.NewIncomingContext(context.Background(), md)}

	var tc *xtracectx.Context
	err := xtrace.Default().StreamServerInterceptor()(nil, ss, &grpc.StreamServerInfo{FullMethod: "/s/Watch"},
		func(_ any, stream grpc.ServerStream) error {
			tc = xctx.TraceContext(stream.Context())
			return nil
		})
	require.NoError(t, err)
	require.NotNil(t, tc)
	id, _ := tc.TraceID()
	assert.Equal(t, uint64(99), id)
}

func TestClientInterceptors(t *testing.T) {
	tc := xtracectx.New(xtracectx.WithSamplingPriority(xtracectx.PriorityUserKeep))
	root := xspan.Start(tc, "client")
	ctx, _ := xctx.WithTraceContext(context.Background(), tc)
	ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer x")

	p := xtrace.Default()

	var outMD metadata.MD
	err := p.UnaryClientInterceptor()(ctx, "/s/M", nil, nil, nil,
		func(ctx context.Context, _ string, _, _ any, _ *grpc.ClientConn, _ ...grpc.CallOption) error {
			outMD, _ = metadata.FromOutgoingContext(ctx)
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, []string{formatUint(root.TraceID())}, outMD.Get("x-datadog-trace-id"))
	assert.Equal(t, []string{"2"}, outMD.Get("x-datadog-sampling-priority"))
	assert.Equal(t, []string{"Bearer x"}, outMD.Get("authorization"))
	assert.Len(t, outMD.Get("traceparent"), 1)

	_, err = p.StreamClientInterceptor()(ctx, &grpc.StreamDesc{}, nil, "/s/S",
		func(ctx context.Context, _ *grpc.StreamDesc, _ *grpc.ClientConn, _ string, _ ...grpc.CallOption) (grpc.ClientStream, error) {
			outMD, _ = metadata.FromOutgoingContext(ctx)
			return nil, nil
		})
	require.NoError(t, err)
	assert.Equal(t, []string{formatUint(root.SpanID())}, outMD.Get("x-datadog-parent-id"))

	// 注入不修改本地链路上下文
	assert.Same(t, root, tc.CurrentSpan())
}

func TestInjectToOutgoingContext_NoTraceContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, xtrace.Default().InjectToOutgoingContext(ctx))
}

func TestMetadataCarrier(t *testing.T) {
	c := xtrace.MetadataCarrier(metadata.MD{})
	c.Set("X-Datadog-Origin", " rum ")
	assert.Equal(t, "rum", c.Get("x-datadog-origin"))
	assert.Empty(t, c.Get("missing"))
}
