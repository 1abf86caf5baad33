// Package degrade 提供了 tiergate 的分层降级熔断状态机。
//
// degrade 是系统的核心组件，它维护一条全系统唯一的熔断记录，
// 依据非对称迟滞规则在三个服务层级之间迁移：
//   - 快速降级：errorCount 累计到 5 进入二级，累计到 10 进入三级
//   - 缓慢恢复：连续 10 次不间断的真实成功才晋升一个层级
//   - 任何失败立即清零全部恢复进度，而不是暂停
//
// 组件自身无进程内共享状态，多个并发调用方之间仅通过持久化的
// 熔断记录协调，正确性完全由存储端的原子更新原语保证。
//
// ## 基本使用
//
//	// 单机模式（测试/单实例部署）
//	brk, _ := degrade.New(&degrade.Config{
//	    Driver: degrade.DriverStandalone,
//	}, degrade.WithLogger(logger))
//
//	// 分布式模式
//	redisConn, _ := connector.NewRedis(&cfg.Redis, connector.WithLogger(logger))
//	brk, _ := degrade.New(&degrade.Config{
//	    Driver:      degrade.DriverDistributed,
//	    Distributed: &degrade.DistributedConfig{Key: "myapp:breaker"},
//	}, degrade.WithRedisConnector(redisConn), degrade.WithLogger(logger))
//
//	rec, _ := brk.State(ctx)          // 读取当前层级
//	res, _ := brk.Failure(ctx)        // 记录一次失败
//	res, _ = brk.Success(ctx, false)  // 记录一次真实成功
//	res, _ = brk.Reset(ctx)           // 运维重置
package degrade

import (
	"context"

	"github.com/ceyewan/tiergate/clog"
	"github.com/ceyewan/tiergate/xerrors"
)

// ========================================
// 接口定义 (Interface Definitions)
// ========================================

// Breaker 分层降级熔断器核心接口
type Breaker interface {
	// State 读取当前熔断记录（只读，无副作用）
	//
	// 记录不存在时返回默认记录 {TierFull, 0, 0}，不会创建存储条目。
	// 存储不可用时返回 ErrStorageUnavailable。
	State(ctx context.Context) (Record, error)

	// Failure 记录一次失败并按迟滞规则决定是否降级
	//
	// 错误计数自增与恢复进度清零在同一原子步骤内完成，
	// 层级决策使用自增后的计数和自增前的层级。
	Failure(ctx context.Context) (Result, error)

	// Success 记录一次成功
	//
	// protected 为 true 表示请求携带失败标记但仍被降级层级正常处理
	// （受保护的成功），按压力信号处理；为 false 表示真实成功，
	// 在降级层级累计恢复进度。
	Success(ctx context.Context, protected bool) (Result, error)

	// Reset 无条件恢复到一级默认状态（运维逃生通道）
	Reset(ctx context.Context) (Result, error)

	// Close 释放组件持有的资源（不关闭借用的连接器）
	Close() error
}

// ========================================
// 工厂函数 (Factory Functions)
// ========================================

// New 根据配置创建熔断器
//
// Driver 为 distributed 时必须通过 WithRedisConnector 注入连接器。
func New(cfg *Config, opts ...Option) (Breaker, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	opt := applyOptions(opts...)
	logger := opt.logger.With(clog.String("component", "degrade"))

	switch cfg.Driver {
	case DriverStandalone:
		return newStandalone(logger, newBreakerMetrics(opt.registerer))
	case DriverDistributed:
		dcfg := cfg.Distributed
		if dcfg == nil {
			dcfg = &DistributedConfig{}
		}
		return newDistributed(dcfg, opt.redisConn, logger, newBreakerMetrics(opt.registerer))
	case "":
		return nil, xerrors.Wrap(ErrUnknownDriver, "driver is required")
	default:
		return nil, xerrors.Wrapf(ErrUnknownDriver, "driver: %s", cfg.Driver)
	}
}
