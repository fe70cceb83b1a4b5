package xrun

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blockUntilDone(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestGroup_FirstErrorCancelsOthers(t *testing.T) {
	boom := errors.New("boom")
	g, _ := NewGroup(context.Background())

	stopped := make(chan struct{})
	g.Go("blocker", func(ctx context.Context) error {
		defer close(stopped)
		return blockUntilDone(ctx)
	})
	g.Go("failer", func(context.Context) error { return boom })

	assert.ErrorIs(t, g.Wait(), boom)
	<-stopped
}

func TestGroup_CancelCause(t *testing.T) {
	reason := errors.New("shutdown requested")
	g, _ := NewGroup(context.Background(), WithName("test"))
	g.Go("blocker", blockUntilDone)

	g.Cancel(reason)
	assert.ErrorIs(t, g.Wait(), reason)
}

func TestGroup_CancelWithoutCause(t *testing.T) {
	g, _ := NewGroup(context.Background())
	g.Go("blocker", blockUntilDone)

	g.Cancel(nil)
	assert.NoError(t, g.Wait())
}

func TestGroup_ParentCanceled(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	g, _ := NewGroup(parent)
	g.Go("blocker", blockUntilDone)

	cancel()
	assert.NoError(t, g.Wait())
}

func TestGroup_InternalCanceledIsReported(t *testing.T) {
	g, _ := NewGroup(context.Background())
	g.Go("svc", func(context.Context) error { return context.Canceled })

	assert.ErrorIs(t, g.Wait(), context.Canceled)
}

func TestGroup_NilFunc(t *testing.T) {
	//nolint:staticcheck // nil ctx 归一化为 Background
	g, ctx := NewGroup(nil, nil)
	require.NotNil(t, ctx)
	g.Go("nil", nil)
	assert.ErrorIs(t, g.Wait(), ErrNilFunc)
}

func TestRun_Signal(t *testing.T) {
	sigs := make(chan os.Signal, 1)
	ctx := context.WithValue(context.Background(), signalKey{}, (<-chan os.Signal)(sigs))

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, nil, Service{Name: "blocker", Run: blockUntilDone})
	}()
	sigs <- syscall.SIGTERM

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrSignal)
		var se *SignalError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, syscall.SIGTERM, se.Signal)
		assert.Contains(t, se.Error(), "terminated")
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after signal")
	}
}

func TestRun_WithoutSignalHandler(t *testing.T) {
	err := Run(context.Background(), []Option{WithoutSignalHandler(), WithSignals(syscall.SIGINT)},
		Service{Name: "once", Run: func(context.Context) error { return nil }},
	)
	assert.NoError(t, err)
}

func TestRun_ServiceError(t *testing.T) {
	boom := errors.New("boom")
	err := Run(context.Background(), nil,
		Service{Name: "blocker", Run: blockUntilDone},
		Service{Name: "failer", Run: func(context.Context) error { return boom }},
	)
	assert.ErrorIs(t, err, boom)
}

func TestHTTPServer_ShutdownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }),
		ReadHeaderTimeout: time.Second,
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- HTTPServer(srv, time.Second)(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusNoContent
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	http.DefaultClient.CloseIdleConnections()
}

type fakeServer struct {
	listenErr error
	closed    chan struct{}
}

func (s *fakeServer) ListenAndServe() error {
	if s.listenErr != nil {
		return s.listenErr
	}
	<-s.closed
	return http.ErrServerClosed
}

func (s *fakeServer) Shutdown(context.Context) error {
	close(s.closed)
	return nil
}

func TestHTTPServer_ListenError(t *testing.T) {
	bind := errors.New("address in use")
	err := HTTPServer(&fakeServer{listenErr: bind}, 0)(context.Background())
	assert.ErrorIs(t, err, bind)
}

func TestHTTPServer_Fake(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- HTTPServer(&fakeServer{closed: make(chan struct{})}, 0)(ctx) }()
	cancel()
	assert.NoError(t, <-done)
}

func TestHTTPServer_Nil(t *testing.T) {
	assert.ErrorIs(t, HTTPServer(nil, 0)(context.Background()), ErrNilServer)
}
