package clog

import "log/slog"

// Option 组件初始化选项函数
type Option func(*options)

// options 组件初始化选项配置（内部使用）
type options struct {
	baseAttrs []slog.Attr
}

// applyOptions 应用选项列表（内部使用）
func applyOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithFields 设置出现在所有日志中的预设字段
//
// 示例：
//
//	logger, _ := clog.New(cfg, clog.WithFields(clog.String("service", "tiergate")))
func WithFields(fields ...Field) Option {
	return func(o *options) {
		o.baseAttrs = append(o.baseAttrs, fields...)
	}
}
