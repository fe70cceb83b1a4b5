package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xtracekit/pkg/config/xconf"
	"github.com/omeyang/xtracekit/pkg/context/xctx"
	"github.com/omeyang/xtracekit/pkg/observability/xsampling"
	"github.com/omeyang/xtracekit/pkg/observability/xtrace"
	"github.com/omeyang/xtracekit/pkg/trace/xspan"
	"github.com/omeyang/xtracekit/pkg/trace/xtracectx"
	"github.com/omeyang/xtracekit/pkg/util/xid"
)

func styleFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:  "style",
		Usage: "传播格式 (datadog/tracecontext)，可重复；默认取配置",
	}
}

func (e *env) extractCommand() *cli.Command {
	return &cli.Command{
		Name:    "extract",
		Aliases: []string{"x"},
		Usage:   "从请求头提取链路上下文",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "header",
				Aliases: []string{"H"},
				Usage:   "请求头 'Name: value'，可重复",
			},
			styleFlag(),
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			h, err := parseHeaders(cmd.StringSlice("header"))
			if err != nil {
				return err
			}
			p, err := e.propagator(cmd.StringSlice("style"))
			if err != nil {
				return err
			}
			tc, err := p.Extract(xtrace.HeaderCarrier(h))
			if err != nil {
				return err
			}
			return writeJSON(e.stdout, dumpContext(tc))
		},
	}
}

func (e *env) injectCommand() *cli.Command {
	return &cli.Command{
		Name:    "inject",
		Aliases: []string{"i"},
		Usage:   "生成传播请求头，未指定的 ID 按配置生成",
		Flags: []cli.Flag{
			&cli.Uint64Flag{Name: "trace-id", Usage: "trace ID"},
			&cli.Uint64Flag{Name: "span-id", Usage: "父 span ID"},
			&cli.IntFlag{Name: "priority", Usage: "采样优先级"},
			&cli.StringFlag{Name: "origin", Usage: "链路来源"},
			styleFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			p, err := e.propagator(cmd.StringSlice("style"))
			if err != nil {
				return err
			}
			gen, err := e.idGenerator(ctx)
			if err != nil {
				return err
			}

			traceID, spanID := cmd.Uint64("trace-id"), cmd.Uint64("span-id")
			if !cmd.IsSet("trace-id") {
				if traceID, err = gen(); err != nil {
					return err
				}
			}
			if !cmd.IsSet("span-id") {
				if spanID, err = gen(); err != nil {
					return err
				}
			}
			if traceID == 0 {
				return usagef("trace id must be non-zero")
			}

			opts := []xtracectx.Option{xtracectx.WithTraceID(traceID), xtracectx.WithSpanID(spanID)}
			if cmd.IsSet("priority") {
				opts = append(opts, xtracectx.WithSamplingPriority(cmd.Int("priority")))
			}
			if cmd.IsSet("origin") {
				opts = append(opts, xtracectx.WithOrigin(cmd.String("origin")))
			}

			h := http.Header{}
			if err := p.Inject(xtracectx.New(opts...), xtrace.HeaderCarrier(h)); err != nil {
				return err
			}
			return e.writeHeaders(h)
		},
	}
}

func (e *env) simulateCommand() *cli.Command {
	return &cli.Command{
		Name:    "simulate",
		Aliases: []string{"sim"},
		Usage:   "模拟本地 span 的开启与关闭并打印每一步的状态",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "depth", Usage: "根 span 下的嵌套子 span 层数", Value: 2},
			&cli.Uint64Flag{Name: "trace-id", Usage: "模拟上游传入的 trace ID"},
			&cli.Uint64Flag{Name: "parent-id", Usage: "模拟上游传入的父 span ID"},
			&cli.IntFlag{Name: "priority", Usage: "预设采样优先级，未设置时由采样器决定"},
			&cli.StringFlag{Name: "origin", Usage: "链路来源"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			depth := cmd.Int("depth")
			if depth < 0 {
				return usagef("depth must be >= 0, got %d", depth)
			}
			var opts []xtracectx.Option
			if cmd.IsSet("trace-id") {
				opts = append(opts, xtracectx.WithTraceID(cmd.Uint64("trace-id")))
			}
			if cmd.IsSet("parent-id") {
				opts = append(opts, xtracectx.WithSpanID(cmd.Uint64("parent-id")))
			}
			if cmd.IsSet("priority") {
				opts = append(opts, xtracectx.WithSamplingPriority(cmd.Int("priority")))
			}
			if cmd.IsSet("origin") {
				opts = append(opts, xtracectx.WithOrigin(cmd.String("origin")))
			}
			return e.simulate(ctx, depth, opts)
		},
	}
}

// simulate 建立本地根，逐层开启子 span，再按相反顺序关闭
func (e *env) simulate(ctx context.Context, depth int, opts []xtracectx.Option) error {
	gen, err := e.idGenerator(ctx)
	if err != nil {
		return err
	}
	sampler, err := xsampling.NewKeyBasedSampler(e.settings.Propagation.SampleRate, xsampling.TraceIDKey)
	if err != nil {
		return &usageError{err: err}
	}
	if e.settings.Log.Diagnostics {
		opts = append(opts, xtracectx.WithDiagnostics(e.logger))
	}

	tc := xtracectx.New(opts...)
	ctx, err = xctx.WithTraceContext(ctx, tc)
	if err != nil {
		return err
	}
	e.step("new", tc)

	root := xspan.Start(tc, "root", xspan.WithIDGenerator(gen))
	e.step("add root", tc)

	xsampling.Prioritize(ctx, tc, sampler)
	e.step("prioritize", tc)

	spans := []*xspan.Span{root}
	for i := 1; i <= depth; i++ {
		s := xspan.Start(tc, fmt.Sprintf("child-%d", i),
			xspan.WithParent(spans[len(spans)-1]), xspan.WithIDGenerator(gen))
		spans = append(spans, s)
		e.step("add "+s.Name(), tc)
	}
	for i := len(spans) - 1; i >= 0; i-- {
		spans[i].Finish()
		e.step("close "+spans[i].Name(), tc)
	}

	if p, ok := root.Metric(xtracectx.KeySamplingPriority); ok {
		fmt.Fprintf(e.stdout, "root %s=%v\n", xtracectx.KeySamplingPriority, p)
	}
	if o, ok := root.Meta(xtracectx.KeyOrigin); ok {
		fmt.Fprintf(e.stdout, "root %s=%s\n", xtracectx.KeyOrigin, o)
	}
	e.logger.Debug(ctx, "simulation finished", slog.Any("root", root))
	return nil
}

func (e *env) step(name string, tc *xtracectx.Context) {
	fmt.Fprintf(e.stdout, "%-12s %s\n", name, tc)
}

// propagator 命令行 --style 优先于配置
func (e *env) propagator(styles []string, opts ...xtrace.PropagatorOption) (*xtrace.Propagator, error) {
	cfg := e.settings.Propagation
	if len(styles) > 0 {
		cfg.Styles = styles
	}
	p, err := cfg.NewPropagator(append([]xtrace.PropagatorOption{
		xtrace.WithLogger(e.logger),
		xtrace.WithContextDiagnostics(e.settings.Log.Diagnostics),
	}, opts...)...)
	if err != nil {
		return nil, &usageError{err: err}
	}
	return p, nil
}

// idGenerator 按配置选择随机或 sonyflake ID。
// sonyflake 遇到时钟回拨时在 ctx 内等待重试。
func (e *env) idGenerator(ctx context.Context) (xspan.IDGenerator, error) {
	if e.settings.IDs.Generator != xconf.GeneratorSonyflake {
		return func() (uint64, error) { return xspan.RandomID(), nil }, nil
	}
	var opts []xid.Option
	if m := e.settings.IDs.MachineID; m != 0 {
		opts = append(opts, xid.WithMachineID(func() (uint16, error) { return m, nil }))
	}
	g, err := xid.NewGenerator(opts...)
	if err != nil {
		return nil, err
	}
	return func() (uint64, error) {
		id, err := g.NextUint64WithRetry(ctx)
		if err != nil {
			return 0, err
		}
		if c, err := xid.Decompose(id); err == nil {
			e.logger.Debug(ctx, "sonyflake id generated",
				slog.Uint64("id", id),
				slog.Uint64("machine", c.Machine),
				slog.Uint64("sequence", c.Sequence))
		}
		return id, nil
	}, nil
}

// contextDump extract 的 JSON 输出，缺失字段省略
type contextDump struct {
	TraceID          *uint64 `json:"trace_id,omitempty"`
	SpanID           *uint64 `json:"span_id,omitempty"`
	SamplingPriority *int    `json:"sampling_priority,omitempty"`
	Origin           *string `json:"origin,omitempty"`
	State            string  `json:"state"`
}

func dumpContext(tc *xtracectx.Context) contextDump {
	d := contextDump{State: tc.State().String()}
	if v, ok := tc.TraceID(); ok {
		d.TraceID = &v
	}
	if v, ok := tc.ActiveSpanID(); ok {
		d.SpanID = &v
	}
	if v, ok := tc.SamplingPriority(); ok {
		d.SamplingPriority = &v
	}
	if v, ok := tc.Origin(); ok {
		d.Origin = &v
	}
	return d
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeHeaders 按名称排序输出，便于比对
func (e *env) writeHeaders(h http.Header) error {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		for _, v := range h[k] {
			if _, err := fmt.Fprintf(e.stdout, "%s: %s\n", k, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// parseHeaders 解析 'Name: value'，至少需要一条
func parseHeaders(lines []string) (http.Header, error) {
	if len(lines) == 0 {
		return nil, usagef("at least one --header is required")
	}
	h := http.Header{}
	for _, line := range lines {
		name, value, ok := strings.Cut(line, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, usagef("malformed header %q, want 'Name: value'", line)
		}
		h.Add(name, strings.TrimSpace(value))
	}
	return h, nil
}
