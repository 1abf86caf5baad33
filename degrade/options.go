package degrade

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ceyewan/tiergate/clog"
	"github.com/ceyewan/tiergate/connector"
)

// Option 组件初始化选项函数
type Option func(*options)

// options 组件初始化选项配置（内部使用）
type options struct {
	logger     clog.Logger
	redisConn  connector.RedisConnector
	registerer prometheus.Registerer
}

// applyOptions 应用选项列表并填充默认值（内部使用）
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

// WithLogger 设置 Logger
func WithLogger(logger clog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRedisConnector 设置 Redis 连接器（分布式模式必需）
func WithRedisConnector(redisConn connector.RedisConnector) Option {
	return func(o *options) {
		o.redisConn = redisConn
	}
}

// WithRegisterer 设置 Prometheus 注册器，启用状态迁移指标
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}
