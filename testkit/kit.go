// Package testkit 提供测试辅助工具。
//
// 集成测试默认连接本地 Redis（可用环境变量覆盖地址），
// 环境中没有可用实例时自动跳过，不会当作失败。
package testkit

import "github.com/ceyewan/tiergate/clog"

// NewLogger 返回只输出 error 级别的测试 Logger
func NewLogger() clog.Logger {
	logger, err := clog.New(&clog.Config{Level: "error", Format: "console"})
	if err != nil {
		return clog.Discard()
	}
	return logger
}
