// Package xid 基于 Sonyflake v2 生成 64 位 span/trace ID。
//
// 默认 span ID 由 crypto/rand 生成；需要按时间有序、可反解机器号的 ID 时，
// 通过 xspan.WithIDGenerator 注入本包的 Generator.NextUint64。
//
// # 机器 ID
//
// 按优先级：XID_MACHINE_ID 环境变量 → POD_NAME 哈希 → HOSTNAME 哈希 → os.Hostname 哈希。
// 哈希使用 xxhash 并折叠为 16 位；规模较大的部署应显式分配 XID_MACHINE_ID。
//
// # 位布局
//
//	39 bits 时间（10ms） | 8 bits 序列 | 16 bits 机器
package xid
