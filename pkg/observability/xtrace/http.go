package xtrace

import (
	"context"
	"net/http"
)

// Middleware 返回 HTTP 服务端中间件
func (p *Propagator) Middleware(opts ...Option) func(http.Handler) http.Handler {
	cfg := applyOptions(opts)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, finish := p.serve(r.Context(), HeaderCarrier(r.Header), cfg, map[string]string{
				"http.method": r.Method,
				"http.route":  r.URL.Path,
			})
			defer finish()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// InjectToRequest 把 ctx 中的链路上下文写入出站请求头，ctx 中没有时不做任何事
func (p *Propagator) InjectToRequest(ctx context.Context, req *http.Request) error {
	if req == nil {
		return ErrNilRequest
	}
	tc := outbound(ctx)
	if tc == nil {
		return nil
	}
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	return p.Inject(tc, HeaderCarrier(req.Header))
}

// Transport 返回在每个请求上调用 InjectToRequest 的 RoundTripper，base 为 nil 时使用 http.DefaultTransport
func (p *Propagator) Transport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		// RoundTripper 不得修改入参请求
		out := req.Clone(req.Context())
		if err := p.InjectToRequest(req.Context(), out); err != nil {
			return nil, err
		}
		return base.RoundTrip(out)
	})
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
