package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xtracekit/pkg/config/xconf"
	"github.com/omeyang/xtracekit/pkg/context/xctx"
	"github.com/omeyang/xtracekit/pkg/lifecycle/xrun"
	"github.com/omeyang/xtracekit/pkg/observability/xlog"
	"github.com/omeyang/xtracekit/pkg/observability/xmetrics"
	"github.com/omeyang/xtracekit/pkg/observability/xtrace"
)

const defaultServeAddr = "127.0.0.1:8126"

func (e *env) serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "启动回显服务：返回每个请求提取到的链路上下文与出站请求头，/metrics 暴露传播指标",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "监听地址", Value: defaultServeAddr},
			&cli.DurationFlag{Name: "shutdown-timeout", Usage: "优雅关闭超时", Value: 5 * time.Second},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return e.serve(ctx, cmd.String("addr"), cmd.Duration("shutdown-timeout"), cmd.Root().String("config"))
		},
	}
}

// serve 运行回显服务直到收到信号；指定了配置文件时热加载日志级别
func (e *env) serve(ctx context.Context, addr string, shutdownTimeout time.Duration, configPath string) (err error) {
	metrics, err := xmetrics.NewPrometheusProvider()
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		err = errors.Join(err, metrics.Shutdown(shutdownCtx))
	}()
	rec, err := xmetrics.NewOTelRecorder(xmetrics.WithMeterProvider(metrics.MeterProvider()))
	if err != nil {
		return err
	}
	p, err := e.propagator(nil, xtrace.WithMetrics(rec))
	if err != nil {
		return err
	}
	serverOpts, err := e.settings.Propagation.ServerOptions()
	if err != nil {
		return &usageError{err: err}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/", p.Middleware(serverOpts...)(e.echoHandler(p)))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	services := []xrun.Service{{Name: "http", Run: xrun.HTTPServer(srv, shutdownTimeout)}}
	if configPath != "" {
		services = append(services, xrun.Service{Name: "config-watch", Run: e.watchConfig(configPath)})
	}

	e.logger.Info(ctx, "echo server listening", slog.String("addr", addr))
	err = xrun.Run(ctx, []xrun.Option{xrun.WithName("xtracectl"), xrun.WithLogger(e.logger)}, services...)
	if errors.Is(err, xrun.ErrSignal) {
		return nil
	}
	return err
}

// echoResponse serve 的响应体
type echoResponse struct {
	Context  contextDump       `json:"context"`
	Outbound map[string]string `json:"outbound"`
}

func (e *env) echoHandler(p *xtrace.Propagator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tc := xctx.TraceContext(r.Context())
		if tc == nil {
			http.Error(w, "no trace context", http.StatusNotFound)
			return
		}
		out := xtrace.MapCarrier{}
		if err := p.Inject(tc.Clone(), out); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		resp := echoResponse{Context: dumpContext(tc), Outbound: out}
		if err := writeJSON(w, resp); err != nil {
			e.logger.Warn(r.Context(), "write echo response", xlog.Err(err))
		}
	})
}

// watchConfig 配置文件变更时调整日志级别，其余配置需重启生效
func (e *env) watchConfig(path string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		w, err := xconf.Watch(path, func(s *xconf.Settings, err error) {
			if err != nil {
				e.logger.Warn(ctx, "config reload failed", xlog.Err(err))
				return
			}
			level, err := xlog.ParseLevel(s.Log.Level)
			if err != nil {
				return
			}
			e.logger.SetLevel(level)
			e.logger.Info(ctx, "config reloaded", slog.String("log.level", level.String()))
		})
		if err != nil {
			return err
		}
		<-ctx.Done()
		if err := w.Stop(); err != nil {
			return err
		}
		return ctx.Err()
	}
}
