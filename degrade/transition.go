package degrade

import "time"

// 迟滞阈值：降级阈值低于恢复阈值是刻意设计。
// 快速降级保护下游容量，缓慢恢复（要求连续不间断的真实成功）
// 证明系统已稳定，避免层级在间歇性负载下来回震荡。
const (
	// DegradeToTier2 errorCount 达到该值时由一级降至二级
	DegradeToTier2 = 5

	// DegradeToTier3 errorCount 达到该值时降至三级
	DegradeToTier3 = 10

	// RecoveryThreshold 连续真实成功达到该值时晋升一个层级
	RecoveryThreshold = 10
)

// applyFailure 对记录应用一次失败迁移（纯函数）
//
// 任何失败都会无条件清零恢复进度，且与错误计数自增属于同一迁移步骤。
// 层级决策使用自增后的 errorCount 和自增前的 tier，且单次只降一级。
func applyFailure(rec Record, now time.Time) Result {
	rec.ErrorCount++
	rec.RecoveryPoints = 0

	next, changed := nextTierAfterFailure(rec.Tier, rec.ErrorCount)
	rec.Tier = next

	rec.LastUpdated = now
	return Result{Record: rec, Changed: changed}
}

// nextTierAfterFailure 依据自增后的错误计数决定降级目标层级
//
// 分布式驱动在第一阶段原子自增后用它单独决策，
// 第二阶段把决定值幂等地写回存储。
func nextTierAfterFailure(tier Tier, errorCount int) (Tier, bool) {
	switch {
	case tier < TierMaintenance && errorCount >= DegradeToTier3:
		return TierMaintenance, true
	case tier < TierDegraded && errorCount >= DegradeToTier2:
		return TierDegraded, true
	default:
		return tier, false
	}
}

// applySuccess 对记录应用一次成功迁移（纯函数）
//
// protected 表示本次请求携带了失败标记但仍被降级层级正常处理，
// 即"受保护的成功"。它是压力信号而不是恢复信号：错误计数继续累加，
// 恢复进度清零，必要时继续压向三级。
//
// 真实成功在降级层级累计恢复点数，达到 RecoveryThreshold 时晋升
// 恰好一个层级，并同时清零错误计数和恢复点数。
func applySuccess(rec Record, protected bool, now time.Time) Result {
	changed := false

	switch {
	case rec.Tier == TierFull:
		// 一级：逐步遗忘历史失败，恢复点数在一级没有意义
		if rec.ErrorCount > 0 {
			rec.ErrorCount--
		}
	case protected:
		rec.ErrorCount++
		rec.RecoveryPoints = 0
		if rec.ErrorCount >= DegradeToTier3 && rec.Tier < TierMaintenance {
			rec.Tier = TierMaintenance
			changed = true
		}
	default:
		rec.RecoveryPoints++
		if rec.RecoveryPoints >= RecoveryThreshold {
			rec.Tier--
			rec.ErrorCount = 0
			rec.RecoveryPoints = 0
			changed = true
		}
	}

	rec.LastUpdated = now
	return Result{Record: rec, Changed: changed}
}

// applyReset 无条件恢复到一级默认状态（纯函数）
//
// 运维逃生通道，不属于自动状态机的一部分，始终报告 Changed=true。
func applyReset(now time.Time) Result {
	rec := DefaultRecord()
	rec.LastUpdated = now
	return Result{Record: rec, Changed: true}
}
