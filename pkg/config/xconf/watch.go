package xconf

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchCallback 重新加载后的回调，err 非 nil 时 s 为 nil
type WatchCallback func(s *Settings, err error)

// WatchOption Watch 选项
type WatchOption func(*Watcher)

// WithDebounce 防抖时间，默认 100ms，非正值忽略
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// Watcher 配置文件监视器
type Watcher struct {
	path     string
	callback WatchCallback
	debounce time.Duration
	fs       *fsnotify.Watcher

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	reload chan struct{}

	mu    sync.Mutex
	timer *time.Timer
}

// Watch 监视配置文件并在后台运行，调用方负责 Stop。
//
// 监视的是文件所在目录：编辑器常以"写临时文件再 rename"的方式保存。
func Watch(path string, callback WatchCallback, opts ...WatchOption) (*Watcher, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	if _, err := DetectFormat(path); err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("xconf: create watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		return nil, errors.Join(fmt.Errorf("xconf: watch directory %s: %w", dir, err), fsw.Close())
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     path,
		callback: callback,
		debounce: 100 * time.Millisecond,
		fs:       fsw,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
		reload:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	go w.run()
	return w, nil
}

// Stop 停止监视并等待后台 goroutine 退出，可重复调用
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	select {
	case <-w.ctx.Done():
		<-w.done
		return nil
	default:
	}
	w.cancel()
	err := w.fs.Close()
	<-w.done
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	name := filepath.Base(w.path)
	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) == name && ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				w.schedule()
			}
		case <-w.reload:
			w.notify(Load(w.path))
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.notify(nil, fmt.Errorf("xconf: watch error: %w", err))
		}
	}
}

// schedule 防抖：窗口内的多次变更只触发一次加载
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.reload <- struct{}{}:
		default:
		}
	})
}

// notify 在 run goroutine 中执行回调，回调 panic 不会终止监视
func (w *Watcher) notify(s *Settings, err error) {
	if w.callback == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	w.callback(s, err)
}
