package xrun

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"
)

// Service 一个命名的服务
type Service struct {
	Name string
	Run  func(ctx context.Context) error
}

// Run 运行服务直到全部退出。
//
// 默认监听 SIGINT/SIGTERM，收到信号时以 *SignalError 取消所有服务并作为返回值。
func Run(ctx context.Context, opts []Option, services ...Service) error {
	g, _ := NewGroup(ctx, opts...)
	if !g.opts.noSignalHandler {
		signals := g.opts.signals
		if len(signals) == 0 {
			signals = defaultSignals()
		}
		g.Go("signal", func(ctx context.Context) error {
			ch := make(chan os.Signal, 1)
			signal.Notify(ch, signals...)
			defer signal.Stop(ch)

			var sig os.Signal
			select {
			case sig = <-ch:
			case sig = <-injectedSignals(ctx):
			case <-ctx.Done():
				return ctx.Err()
			}
			g.opts.log().Info(ctx, "received signal",
				slog.String("group", g.opts.name), slog.String("signal", sig.String()))
			g.Cancel(&SignalError{Signal: sig})
			return nil
		})
	}
	for _, svc := range services {
		g.Go(svc.Name, svc.Run)
	}
	return g.Wait()
}

// signalKey 测试通过 ctx 注入信号，避免向进程发送真实信号
type signalKey struct{}

func injectedSignals(ctx context.Context) <-chan os.Signal {
	ch, _ := ctx.Value(signalKey{}).(<-chan os.Signal)
	return ch
}

// Server *http.Server 满足该接口
type Server interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServer 把 Server 包装为服务函数：ctx 取消时 Shutdown，
// 最多等待 shutdownTimeout（非正数表示不限时）。
func HTTPServer(srv Server, shutdownTimeout time.Duration) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if srv == nil {
			return ErrNilServer
		}
		shutdownErr := make(chan error, 1)
		served := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				sctx := context.WithoutCancel(ctx)
				if shutdownTimeout > 0 {
					var cancel context.CancelFunc
					sctx, cancel = context.WithTimeout(sctx, shutdownTimeout)
					defer cancel()
				}
				shutdownErr <- srv.Shutdown(sctx)
			case <-served:
			}
		}()

		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			close(served)
			return err
		}
		// ErrServerClosed：由 ctx 触发时等待 Shutdown 结果，否则是外部关闭
		select {
		case err := <-shutdownErr:
			return err
		case <-ctx.Done():
			return <-shutdownErr
		default:
			close(served)
			return nil
		}
	}
}
