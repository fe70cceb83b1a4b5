// Package util 提供通用工具子包。
//
// 子包列表：
//   - xid: 基于 sonyflake 的 64 位 ID 生成
package util
