package xconf

import (
	"fmt"
	"io"

	"github.com/omeyang/xtracekit/pkg/observability/xlog"
	"github.com/omeyang/xtracekit/pkg/observability/xtrace"
)

// ID 生成器名称
const (
	GeneratorRandom    = "random"
	GeneratorSonyflake = "sonyflake"
)

// Settings 配置根
type Settings struct {
	Log         LogSettings   `koanf:"log"`
	Propagation xtrace.Config `koanf:"propagation"`
	IDs         IDSettings    `koanf:"ids"`
}

// LogSettings 日志配置
type LogSettings struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`

	// File 非空时输出到按大小轮转的文件
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
	Compress   bool   `koanf:"compress"`

	// Diagnostics 链路上下文误用时输出告警
	Diagnostics bool `koanf:"diagnostics"`
}

// IDSettings span/trace ID 生成配置
type IDSettings struct {
	// Generator random 或 sonyflake
	Generator string `koanf:"generator"`

	// MachineID sonyflake 机器号，0 表示自动探测
	MachineID uint16 `koanf:"machine_id"`
}

// Defaults 默认配置
func Defaults() Settings {
	return Settings{
		Log: LogSettings{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  100,
			MaxBackups: 7,
			MaxAgeDays: 30,
		},
		Propagation: xtrace.DefaultConfig(),
		IDs:         IDSettings{Generator: GeneratorRandom},
	}
}

// Validate 校验取值
func (s *Settings) Validate() error {
	if _, err := xlog.ParseLevel(s.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalidSettings, err)
	}
	if _, err := xtrace.ParseStyles(s.Propagation.Styles); err != nil {
		return fmt.Errorf("%w: propagation.styles: %w", ErrInvalidSettings, err)
	}
	if r := s.Propagation.SampleRate; r < 0 || r > 1 {
		return fmt.Errorf("%w: propagation.sample_rate must be in [0, 1], got %v", ErrInvalidSettings, r)
	}
	switch s.IDs.Generator {
	case GeneratorRandom, GeneratorSonyflake:
	default:
		return fmt.Errorf("%w: ids.generator %q", ErrInvalidSettings, s.IDs.Generator)
	}
	return nil
}

// BuildLogger 按日志配置构建 xlog Logger，cleanup 关闭轮转文件。
//
// 未配置 log.file 时输出到 w，w 为 nil 时使用 xlog 默认输出。
func (s *Settings) BuildLogger(w io.Writer) (xlog.LoggerWithLevel, func() error, error) {
	b := xlog.New().
		SetLevelString(s.Log.Level).
		SetFormat(s.Log.Format)
	if s.Log.File == "" && w != nil {
		b.SetOutput(w)
	}
	if s.Log.File != "" {
		b.SetRotation(s.Log.File,
			xlog.WithMaxSizeMB(s.Log.MaxSizeMB),
			xlog.WithMaxBackups(s.Log.MaxBackups),
			xlog.WithMaxAgeDays(s.Log.MaxAgeDays),
			xlog.WithCompress(s.Log.Compress),
		)
	}
	return b.Build()
}
