package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xtracekit/pkg/config/xconf"
	"github.com/omeyang/xtracekit/pkg/observability/xlog"
)

// usageError 参数错误，退出码 2
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// env 一次运行共享的配置与日志
type env struct {
	stdout   io.Writer
	stderr   io.Writer
	settings xconf.Settings
	logger   xlog.LoggerWithLevel
	cleanup  func() error
}

func createApp(stdout, stderr io.Writer) *cli.Command {
	e := &env{stdout: stdout, stderr: stderr, settings: xconf.Defaults()}

	app := &cli.Command{
		Name:      "xtracectl",
		Usage:     "链路上下文调试工具",
		Version:   fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "日志级别 (debug/info/warn/error)",
			},
		},
		Commands: []*cli.Command{
			e.extractCommand(),
			e.injectCommand(),
			e.simulateCommand(),
			e.serveCommand(),
		},
		Before: e.before,
		After: func(context.Context, *cli.Command) error {
			if e.cleanup != nil {
				return e.cleanup()
			}
			return nil
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Present() {
				return usagef("unknown command %q", cmd.Args().First())
			}
			return cli.ShowRootCommandHelp(cmd)
		},
		// 由 run 统一映射退出码，不让框架直接 os.Exit
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
	setUsageHandler(app)
	return app
}

// setUsageHandler 把框架产生的参数错误统一包装成 usageError
func setUsageHandler(cmd *cli.Command) {
	cmd.OnUsageError = func(_ context.Context, _ *cli.Command, err error, _ bool) error {
		return &usageError{err: err}
	}
	for _, sub := range cmd.Commands {
		setUsageHandler(sub)
	}
}

func (e *env) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" {
		s, err := xconf.Load(path)
		if err != nil {
			if errors.Is(err, xconf.ErrLoadFailed) {
				return ctx, err
			}
			return ctx, &usageError{err: err}
		}
		e.settings = *s
	}
	if cmd.IsSet("log-level") {
		e.settings.Log.Level = cmd.String("log-level")
	}

	logger, cleanup, err := e.settings.BuildLogger(e.stderr)
	if err != nil {
		return ctx, &usageError{err: err}
	}
	e.logger = logger
	e.cleanup = cleanup
	return ctx, nil
}
