package xconf_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xtracekit/pkg/config/xconf"
)

type reloadResult struct {
	s   *xconf.Settings
	err error
}

func TestWatch_Reload(t *testing.T) {
	path := writeFile(t, "trace.yaml", "log:\n  level: info\n")

	results := make(chan reloadResult, 8)
	w, err := xconf.Watch(path, func(s *xconf.Settings, err error) {
		results <- reloadResult{s, err}
	}, xconf.WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, w.Stop()) })

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: error\n"), 0o600))

	// 截断与写入可能分两次触发，等到看见新值为止
	deadline := time.After(5 * time.Second)
	for {
		select {
		case r := <-results:
			require.NoError(t, r.err)
			if r.s.Log.Level == "error" {
				return
			}
		case <-deadline:
			t.Fatal("no reload after write")
		}
	}
}

func TestWatch_ReloadError(t *testing.T) {
	path := writeFile(t, "trace.yaml", "")

	results := make(chan reloadResult, 8)
	w, err := xconf.Watch(path, func(s *xconf.Settings, err error) {
		results <- reloadResult{s, err}
	}, xconf.WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: loud\n"), 0o600))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case r := <-results:
			if r.err != nil {
				assert.Nil(t, r.s)
				assert.ErrorIs(t, r.err, xconf.ErrInvalidSettings)
				return
			}
		case <-deadline:
			t.Fatal("no reload error after write")
		}
	}
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	path := writeFile(t, "trace.yaml", "")

	results := make(chan reloadResult, 8)
	w, err := xconf.Watch(path, func(s *xconf.Settings, err error) {
		results <- reloadResult{s, err}
	}, xconf.WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	other := filepath.Join(filepath.Dir(path), "other.yaml")
	require.NoError(t, os.WriteFile(other, []byte("x: 1\n"), 0o600))

	select {
	case r := <-results:
		t.Fatalf("unexpected reload: %+v", r)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatch_CallbackPanic(t *testing.T) {
	path := writeFile(t, "trace.yaml", "")

	calls := make(chan struct{}, 8)
	w, err := xconf.Watch(path, func(*xconf.Settings, error) {
		calls <- struct{}{}
		panic("boom")
	}, xconf.WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	for i := range 2 {
		require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o600))
		select {
		case <-calls:
		case <-time.After(5 * time.Second):
			t.Fatalf("callback not invoked on write %d", i)
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func TestWatch_StopIdempotent(t *testing.T) {
	path := writeFile(t, "trace.yaml", "")
	w, err := xconf.Watch(path, nil)
	require.NoError(t, err)

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}

func TestWatch_InvalidArgs(t *testing.T) {
	_, err := xconf.Watch("", nil)
	assert.ErrorIs(t, err, xconf.ErrEmptyPath)

	_, err = xconf.Watch("trace.ini", nil)
	assert.ErrorIs(t, err, xconf.ErrUnsupportedFormat)

	_, err = xconf.Watch(filepath.Join(t.TempDir(), "missing", "trace.yaml"), nil)
	assert.Error(t, err)
}
