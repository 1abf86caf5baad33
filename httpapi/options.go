package httpapi

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ceyewan/tiergate/clog"
)

// Option 服务可选配置
type Option func(*options)

type options struct {
	logger      clog.Logger
	registry    *prometheus.Registry
	healthCheck func(ctx context.Context) error
}

// WithLogger 注入日志器
func WithLogger(logger clog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRegistry 注入 Prometheus 注册表，同时启用 /metrics 端点
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// WithHealthCheck 注入依赖健康检查，/healthz 在检查失败时返回 503
func WithHealthCheck(fn func(ctx context.Context) error) Option {
	return func(o *options) {
		o.healthCheck = fn
	}
}

func applyOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = clog.Discard()
	}
	return o
}
