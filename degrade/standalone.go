package degrade

import (
	"context"
	"sync"
	"time"

	"github.com/ceyewan/tiergate/clog"
)

// standaloneBreaker 单机熔断器实现（非导出）
//
// 记录保存在进程内存中，用一把互斥锁充当存储端原子更新原语的
// 单进程替身。语义与分布式驱动完全一致，适用于测试与单实例部署。
type standaloneBreaker struct {
	mu      sync.Mutex
	rec     *Record // nil 表示记录尚未创建
	logger  clog.Logger
	metrics *breakerMetrics
}

// newStandalone 创建单机熔断器（内部函数）
func newStandalone(logger clog.Logger, metrics *breakerMetrics) (Breaker, error) {
	logger.Info("standalone breaker created")

	return &standaloneBreaker{
		logger:  logger,
		metrics: metrics,
	}, nil
}

func (b *standaloneBreaker) State(ctx context.Context) (Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// 读取不创建记录
	if b.rec == nil {
		return DefaultRecord(), nil
	}
	return *b.rec, nil
}

func (b *standaloneBreaker) Failure(ctx context.Context) (Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	res := applyFailure(b.current(), time.Now())
	b.rec = &res.Record

	b.metrics.observe("failure", res)
	if res.Changed {
		b.logger.WarnContext(ctx, "breaker degraded",
			clog.String("tier", res.Tier.String()),
			clog.Int("error_count", res.ErrorCount))
	}
	return res, nil
}

func (b *standaloneBreaker) Success(ctx context.Context, protected bool) (Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	res := applySuccess(b.current(), protected, time.Now())
	b.rec = &res.Record

	b.metrics.observe("success", res)
	if res.Changed {
		b.logger.InfoContext(ctx, "breaker tier changed after success",
			clog.String("tier", res.Tier.String()),
			clog.Bool("protected", protected))
	}
	return res, nil
}

func (b *standaloneBreaker) Reset(ctx context.Context) (Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	res := applyReset(time.Now())
	b.rec = &res.Record

	b.metrics.observe("reset", res)
	b.logger.InfoContext(ctx, "breaker reset to full capacity")
	return res, nil
}

func (b *standaloneBreaker) Close() error {
	return nil
}

// current 返回当前记录，缺失时返回默认记录（调用方需持锁）
func (b *standaloneBreaker) current() Record {
	if b.rec == nil {
		return DefaultRecord()
	}
	return *b.rec
}
