// Package xconf 加载 xtracekit 的配置文件。
//
// 基于 koanf，支持 YAML 与 JSON，文件中未出现的字段保留 [Defaults] 的值。
//
//	log:
//	  level: info
//	  format: json
//	  file: /var/log/app/trace.log
//	  diagnostics: true
//	propagation:
//	  styles: [datadog, tracecontext]
//	  auto_generate: true
//	  span_name: http.request
//	  sample_rate: 0.5
//	ids:
//	  generator: sonyflake
//
// [Watch] 监控配置文件，变更时重新加载并回调，适合动态调整日志级别与采样率。
package xconf
