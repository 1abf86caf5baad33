package degrade

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"

	"github.com/ceyewan/tiergate/clog"
	"github.com/ceyewan/tiergate/connector"
	"github.com/ceyewan/tiergate/xerrors"
)

// 熔断记录在 Redis 哈希中的字段名
const (
	fieldTier           = "tier"
	fieldErrorCount     = "error_count"
	fieldRecoveryPoints = "recovery_points"
	fieldLastUpdated    = "last_updated"
)

// timeLayout 持久化时间戳格式（ISO-8601）
const timeLayout = time.RFC3339Nano

// failureScript 失败迁移的第一阶段。
// 错误计数自增与恢复进度清零必须在同一原子步骤完成，
// 否则并发的成功迁移可能插在两次写之间，让恢复进度躲过清零。
//
// KEYS[1]: 熔断记录哈希键
// ARGV[1]: 当前时间戳 (ISO-8601)
// 返回: {自增后的 error_count, 自增前的 tier}
const failureScript = `
local count = redis.call("HINCRBY", KEYS[1], "error_count", 1)
redis.call("HSET", KEYS[1], "recovery_points", 0, "last_updated", ARGV[1])
local tier = tonumber(redis.call("HGET", KEYS[1], "tier"))
if tier == nil then
  tier = 1
  redis.call("HSET", KEYS[1], "tier", 1)
end
return {count, tier}
`

// degradeScript 失败迁移的第二阶段：写入决定的目标层级。
// 只允许向更低能力（更大数值）写入。两个并发失败在两阶段之间
// 交错时，会各自决定出同一个目标层级并重复写入，写入的是决定值
// 而不是累加值，因此这个竞态是良性的。
//
// KEYS[1]: 熔断记录哈希键
// ARGV[1]: 目标层级
// ARGV[2]: 当前时间戳 (ISO-8601)
// 返回: 1 写入 / 0 跳过
const degradeScript = `
local tier = tonumber(redis.call("HGET", KEYS[1], "tier")) or 1
local target = tonumber(ARGV[1])
if target > tier then
  redis.call("HSET", KEYS[1], "tier", target, "last_updated", ARGV[2])
  return 1
end
return 0
`

// distributedBreaker 分布式熔断器实现（非导出）
type distributedBreaker struct {
	client  *redis.Client
	key     string
	logger  clog.Logger
	metrics *breakerMetrics

	failureScript *redis.Script
	degradeScript *redis.Script

	// guard 守护 Redis 访问：存储持续不可用时快速失败
	guard *gobreaker.CircuitBreaker[any]
}

// newDistributed 创建分布式熔断器（内部函数）
func newDistributed(
	cfg *DistributedConfig,
	redisConn connector.RedisConnector,
	logger clog.Logger,
	metrics *breakerMetrics,
) (Breaker, error) {
	if redisConn == nil {
		return nil, ErrConnectorNil
	}
	cfg.setDefaults()

	b := &distributedBreaker{
		client:        redisConn.GetClient(),
		key:           cfg.Key,
		logger:        logger,
		metrics:       metrics,
		failureScript: redis.NewScript(failureScript),
		degradeScript: redis.NewScript(degradeScript),
	}

	guardCfg := cfg.Guard
	b.guard = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "degrade-storage",
		MaxRequests: guardCfg.MaxRequests,
		Interval:    guardCfg.Interval,
		Timeout:     guardCfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < guardCfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= guardCfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("storage guard state changed",
				clog.String("from", from.String()),
				clog.String("to", to.String()))
		},
	})

	logger.Info("distributed breaker created", clog.String("key", cfg.Key))
	return b, nil
}

func (b *distributedBreaker) State(ctx context.Context) (Record, error) {
	raw, err := b.execute(func() (any, error) {
		return b.client.HGetAll(ctx, b.key).Result()
	})
	if err != nil {
		return Record{}, xerrors.Wrapf(ErrStorageUnavailable, "read breaker record: %v", err)
	}

	fields := raw.(map[string]string)
	if len(fields) == 0 {
		// 记录缺失是定义好的空状态，不是错误，读取也不创建条目
		return DefaultRecord(), nil
	}
	return parseRecord(fields)
}

func (b *distributedBreaker) Failure(ctx context.Context) (Result, error) {
	now := time.Now()

	// 第一阶段：原子自增错误计数并清零恢复进度
	raw, err := b.execute(func() (any, error) {
		return b.failureScript.Run(ctx, b.client, []string{b.key}, now.Format(timeLayout)).Result()
	})
	if err != nil {
		return Result{}, xerrors.Wrapf(ErrStorageUnavailable, "apply failure: %v", err)
	}

	vals, ok := raw.([]interface{})
	if !ok || len(vals) != 2 {
		return Result{}, xerrors.Wrap(ErrStorageUnavailable, "unexpected failure script result")
	}
	count, _ := vals[0].(int64)
	preTier, _ := vals[1].(int64)

	res := Result{Record: Record{
		Tier:           Tier(preTier),
		ErrorCount:     int(count),
		RecoveryPoints: 0,
		LastUpdated:    now,
	}}

	// 层级决策：自增后的计数 + 自增前的层级
	target, changed := nextTierAfterFailure(Tier(preTier), int(count))
	if changed {
		// 第二阶段：幂等写入决定的目标层级
		_, err = b.execute(func() (any, error) {
			return b.degradeScript.Run(ctx, b.client, []string{b.key},
				int(target), now.Format(timeLayout)).Result()
		})
		if err != nil {
			return Result{}, xerrors.Wrapf(ErrStorageUnavailable, "persist degraded tier: %v", err)
		}

		res.Tier = target
		res.Changed = true
		b.logger.WarnContext(ctx, "breaker degraded",
			clog.String("tier", target.String()),
			clog.Int("error_count", int(count)))
	}

	b.metrics.observe("failure", res)
	return res, nil
}

func (b *distributedBreaker) Success(ctx context.Context, protected bool) (Result, error) {
	now := time.Now()

	raw, err := b.execute(func() (any, error) {
		return b.client.HGetAll(ctx, b.key).Result()
	})
	if err != nil {
		return Result{}, xerrors.Wrapf(ErrStorageUnavailable, "read breaker record: %v", err)
	}

	fields := raw.(map[string]string)
	if len(fields) == 0 {
		// 记录在首次变更时惰性创建：写入默认状态后直接返回，不做晋升
		res := Result{Record: DefaultRecord()}
		res.LastUpdated = now
		if err := b.persist(ctx, res.Record); err != nil {
			return Result{}, err
		}
		b.metrics.observe("success", res)
		return res, nil
	}

	rec, err := parseRecord(fields)
	if err != nil {
		return Result{}, err
	}

	res := applySuccess(rec, protected, now)

	// 所有变更字段与新时间戳在单条 HSET 中原子落盘
	if err := b.persist(ctx, res.Record); err != nil {
		return Result{}, err
	}

	if res.Changed {
		b.logger.InfoContext(ctx, "breaker tier changed after success",
			clog.String("tier", res.Tier.String()),
			clog.Bool("protected", protected))
	}
	b.metrics.observe("success", res)
	return res, nil
}

func (b *distributedBreaker) Reset(ctx context.Context) (Result, error) {
	res := applyReset(time.Now())

	if err := b.persist(ctx, res.Record); err != nil {
		return Result{}, err
	}

	b.metrics.observe("reset", res)
	b.logger.InfoContext(ctx, "breaker reset to full capacity")
	return res, nil
}

// Close 释放资源（Redis 连接由 Connector 管理）
func (b *distributedBreaker) Close() error {
	return nil
}

// persist 将完整记录原子写入哈希
func (b *distributedBreaker) persist(ctx context.Context, rec Record) error {
	_, err := b.execute(func() (any, error) {
		return b.client.HSet(ctx, b.key,
			fieldTier, int(rec.Tier),
			fieldErrorCount, rec.ErrorCount,
			fieldRecoveryPoints, rec.RecoveryPoints,
			fieldLastUpdated, rec.LastUpdated.Format(timeLayout),
		).Result()
	})
	if err != nil {
		return xerrors.Wrapf(ErrStorageUnavailable, "persist breaker record: %v", err)
	}
	return nil
}

// execute 经由存储守护执行 Redis 操作
func (b *distributedBreaker) execute(fn func() (any, error)) (any, error) {
	return b.guard.Execute(fn)
}

// parseRecord 解析哈希字段为记录
func parseRecord(fields map[string]string) (Record, error) {
	rec := DefaultRecord()

	if v, ok := fields[fieldTier]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Record{}, xerrors.Wrapf(ErrStorageUnavailable, "corrupt tier field: %q", v)
		}
		rec.Tier = Tier(n)
	}
	if v, ok := fields[fieldErrorCount]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Record{}, xerrors.Wrapf(ErrStorageUnavailable, "corrupt error_count field: %q", v)
		}
		rec.ErrorCount = n
	}
	if v, ok := fields[fieldRecoveryPoints]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Record{}, xerrors.Wrapf(ErrStorageUnavailable, "corrupt recovery_points field: %q", v)
		}
		rec.RecoveryPoints = n
	}
	if v, ok := fields[fieldLastUpdated]; ok {
		if t, err := time.Parse(timeLayout, v); err == nil {
			rec.LastUpdated = t
		}
	}

	return rec, nil
}
