// Package xrun 管理一组长期运行的服务：并发启动，任一失败或收到信号时统一取消并等待退出。
//
//	err := xrun.Run(ctx, []xrun.Option{xrun.WithName("xtracectl")},
//		xrun.Service{Name: "http", Run: xrun.HTTPServer(srv, 5*time.Second)},
//		xrun.Service{Name: "config-watch", Run: watch},
//	)
//	if errors.Is(err, xrun.ErrSignal) {
//		// 正常的信号退出
//	}
package xrun
