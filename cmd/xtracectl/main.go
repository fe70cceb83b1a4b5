// xtracectl 是链路上下文的调试命令行工具。
//
// 用法:
//
//	xtracectl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-c, --config     配置文件路径（YAML/JSON，见 xconf）
//	    --log-level  覆盖配置中的日志级别
//
// 命令:
//
//	extract    从请求头提取链路上下文并以 JSON 输出
//	inject     由给定的 ID 生成传播请求头
//	simulate   模拟一次本地根/子 span 的开启与关闭，逐步打印状态
//	serve      启动回显服务：提取入站链路上下文并返回注入后的出站请求头
//
// 退出码:
//
//	0: 成功
//	1: 执行失败（例如请求头中没有可用的链路信息）
//	2: 参数错误
//
// 示例:
//
//	xtracectl extract -H 'x-datadog-trace-id: 1234' -H 'x-datadog-parent-id: 5678'
//	xtracectl inject --trace-id 1234 --span-id 5678 --priority 1 --style tracecontext
//	xtracectl -c trace.yaml simulate --depth 3 --origin synthetics
//	xtracectl -c trace.yaml serve --addr 127.0.0.1:8126
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// 版本信息，可通过 -ldflags 注入:
//
//	go build -ldflags "-X main.Version=1.0.0 -X main.GitCommit=$(git rev-parse --short HEAD)"
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run 执行命令并映射退出码
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := createApp(stdout, stderr)
	if err := app.Run(ctx, args); err != nil {
		var uerr *usageError
		if errors.As(err, &uerr) {
			fmt.Fprintf(stderr, "参数错误: %v\n", uerr)
			return 2
		}
		fmt.Fprintf(stderr, "错误: %v\n", err)
		return 1
	}
	return 0
}
