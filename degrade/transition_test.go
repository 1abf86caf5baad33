package degrade

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

// ============================================================
// 失败迁移测试
// ============================================================

func TestApplyFailure_IncrementsAndClearsStreak(t *testing.T) {
	rec := Record{Tier: TierDegraded, ErrorCount: 2, RecoveryPoints: 7}

	res := applyFailure(rec, now)

	assert.Equal(t, 3, res.ErrorCount)
	assert.Equal(t, 0, res.RecoveryPoints, "任何失败都应清零恢复进度")
	assert.Equal(t, TierDegraded, res.Tier)
	assert.False(t, res.Changed)
	assert.Equal(t, now, res.LastUpdated)
}

func TestApplyFailure_DegradeToTier2(t *testing.T) {
	rec := Record{Tier: TierFull, ErrorCount: DegradeToTier2 - 1}

	res := applyFailure(rec, now)

	assert.Equal(t, DegradeToTier2, res.ErrorCount)
	assert.Equal(t, TierDegraded, res.Tier)
	assert.True(t, res.Changed)
}

func TestApplyFailure_DegradeToTier3(t *testing.T) {
	rec := Record{Tier: TierDegraded, ErrorCount: DegradeToTier3 - 1}

	res := applyFailure(rec, now)

	assert.Equal(t, DegradeToTier3, res.ErrorCount)
	assert.Equal(t, TierMaintenance, res.Tier)
	assert.True(t, res.Changed)
}

func TestApplyFailure_Tier3Stays(t *testing.T) {
	rec := Record{Tier: TierMaintenance, ErrorCount: 42}

	res := applyFailure(rec, now)

	assert.Equal(t, TierMaintenance, res.Tier)
	assert.Equal(t, 43, res.ErrorCount)
	assert.False(t, res.Changed)
}

// 单步迁移性质：可达状态下一次失败最多降一级，不跳级
func TestApplyFailure_SingleStepOnly(t *testing.T) {
	rec := DefaultRecord()

	// 从默认状态连续失败，层级序列必须 1→2→3，每次至多一步
	for i := 0; i < 20; i++ {
		prev := rec
		res := applyFailure(rec, now)
		rec = res.Record

		assert.LessOrEqual(t, int(rec.Tier-prev.Tier), 1,
			"第 %d 次失败跳级: %v -> %v", i+1, prev.Tier, rec.Tier)
		assert.GreaterOrEqual(t, rec.Tier, prev.Tier, "失败不应晋升层级")
	}
	assert.Equal(t, TierMaintenance, rec.Tier)
}

// ============================================================
// 成功迁移测试
// ============================================================

func TestApplySuccess_Tier1DecaysErrorCount(t *testing.T) {
	rec := Record{Tier: TierFull, ErrorCount: 3}

	res := applySuccess(rec, false, now)

	assert.Equal(t, 2, res.ErrorCount, "一级成功应逐步遗忘历史失败")
	assert.Equal(t, TierFull, res.Tier)
	assert.Equal(t, 0, res.RecoveryPoints)
	assert.False(t, res.Changed)
}

func TestApplySuccess_Tier1FlooredAtZero(t *testing.T) {
	rec := Record{Tier: TierFull, ErrorCount: 0}

	res := applySuccess(rec, false, now)

	assert.Equal(t, 0, res.ErrorCount, "errorCount 不应变为负数")
}

func TestApplySuccess_GenuineAccumulatesRecovery(t *testing.T) {
	rec := Record{Tier: TierDegraded, ErrorCount: 5, RecoveryPoints: 3}

	res := applySuccess(rec, false, now)

	assert.Equal(t, 4, res.RecoveryPoints)
	assert.Equal(t, 5, res.ErrorCount, "未达晋升阈值时 errorCount 不变")
	assert.Equal(t, TierDegraded, res.Tier)
	assert.False(t, res.Changed)
}

func TestApplySuccess_PromotionClearsCounters(t *testing.T) {
	rec := Record{Tier: TierDegraded, ErrorCount: 5, RecoveryPoints: RecoveryThreshold - 1}

	res := applySuccess(rec, false, now)

	assert.Equal(t, TierFull, res.Tier)
	assert.Equal(t, 0, res.ErrorCount, "晋升应清零 errorCount")
	assert.Equal(t, 0, res.RecoveryPoints, "晋升应清零 recoveryPoints")
	assert.True(t, res.Changed)
}

func TestApplySuccess_PromotionSingleStep(t *testing.T) {
	rec := Record{Tier: TierMaintenance, ErrorCount: 12, RecoveryPoints: RecoveryThreshold - 1}

	res := applySuccess(rec, false, now)

	assert.Equal(t, TierDegraded, res.Tier, "三级晋升只到二级，不跳级")
	assert.True(t, res.Changed)
}

func TestApplySuccess_ProtectedIsStressSignal(t *testing.T) {
	rec := Record{Tier: TierDegraded, ErrorCount: 5, RecoveryPoints: 9}

	res := applySuccess(rec, true, now)

	assert.Equal(t, 6, res.ErrorCount, "受保护成功应累加错误计数")
	assert.Equal(t, 0, res.RecoveryPoints, "受保护成功应清零恢复进度")
	assert.Equal(t, TierDegraded, res.Tier)
	assert.False(t, res.Changed)
}

func TestApplySuccess_ProtectedPushesToTier3(t *testing.T) {
	rec := Record{Tier: TierDegraded, ErrorCount: DegradeToTier3 - 1}

	res := applySuccess(rec, true, now)

	assert.Equal(t, TierMaintenance, res.Tier)
	assert.True(t, res.Changed)
}

func TestApplySuccess_ProtectedAtTier3Stays(t *testing.T) {
	rec := Record{Tier: TierMaintenance, ErrorCount: 15}

	res := applySuccess(rec, true, now)

	assert.Equal(t, TierMaintenance, res.Tier)
	assert.Equal(t, 16, res.ErrorCount)
	assert.False(t, res.Changed)
}

// 恢复进度被打断后必须从零重新累计，而不是从暂停处继续
func TestRecoveryStreak_ResetOnInterruption(t *testing.T) {
	cases := []struct {
		name      string
		interrupt func(Record) Result
	}{
		{"失败打断", func(r Record) Result { return applyFailure(r, now) }},
		{"受保护成功打断", func(r Record) Result { return applySuccess(r, true, now) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := Record{Tier: TierDegraded, ErrorCount: 5}

			// 累计 9 次真实成功
			for i := 0; i < RecoveryThreshold-1; i++ {
				rec = applySuccess(rec, false, now).Record
			}
			require.Equal(t, RecoveryThreshold-1, rec.RecoveryPoints)

			// 打断
			rec = tc.interrupt(rec).Record
			require.Equal(t, 0, rec.RecoveryPoints)

			// 其后第 10 次真实成功不应晋升
			res := applySuccess(rec, false, now)
			assert.Equal(t, 1, res.RecoveryPoints)
			assert.False(t, res.Changed, "被打断后第一次成功不应晋升")
		})
	}
}

// ============================================================
// 重置测试
// ============================================================

func TestApplyReset(t *testing.T) {
	res := applyReset(now)

	assert.Equal(t, TierFull, res.Tier)
	assert.Equal(t, 0, res.ErrorCount)
	assert.Equal(t, 0, res.RecoveryPoints)
	assert.True(t, res.Changed, "reset 始终报告 changed")
	assert.Equal(t, now, res.LastUpdated)

	// 幂等：重复 reset 得到相同结果
	again := applyReset(now)
	assert.Equal(t, res, again)
}

// ============================================================
// 场景测试（端到端状态序列）
// ============================================================

// 场景 A：默认状态连续 5 次失败 → 二级
func TestScenario_FiveFailuresDegrade(t *testing.T) {
	rec := DefaultRecord()
	var res Result
	for i := 0; i < 5; i++ {
		res = applyFailure(rec, now)
		rec = res.Record
	}

	assert.Equal(t, TierDegraded, rec.Tier)
	assert.Equal(t, 5, rec.ErrorCount)
	assert.Equal(t, 0, rec.RecoveryPoints)
	assert.True(t, res.Changed, "第 5 次失败触发降级")
}

// 场景 B：二级起连续 10 次真实成功 → 一级且计数清零
func TestScenario_TenGenuineSuccessesRecover(t *testing.T) {
	rec := Record{Tier: TierDegraded, ErrorCount: 5}
	var res Result
	for i := 0; i < RecoveryThreshold; i++ {
		res = applySuccess(rec, false, now)
		rec = res.Record
	}

	assert.Equal(t, TierFull, rec.Tier)
	assert.Equal(t, 0, rec.ErrorCount)
	assert.Equal(t, 0, rec.RecoveryPoints)
	assert.True(t, res.Changed)
}

// 场景 C：二级起连续受保护成功，错误计数跨过 10 后压入三级
func TestScenario_ProtectedSuccessesPushToTier3(t *testing.T) {
	rec := Record{Tier: TierDegraded, ErrorCount: 5}

	for i := 0; i < 10; i++ {
		res := applySuccess(rec, true, now)
		rec = res.Record
		assert.Equal(t, 0, rec.RecoveryPoints, "受保护成功期间恢复进度恒为 0")
	}

	assert.Equal(t, TierMaintenance, rec.Tier)
	assert.Equal(t, 15, rec.ErrorCount)
}

// 完整生命周期：降级到底再恢复到顶
func TestScenario_FullLifecycle(t *testing.T) {
	rec := DefaultRecord()

	// 10 次失败：1 → 2 → 3
	for i := 0; i < 10; i++ {
		rec = applyFailure(rec, now).Record
	}
	require.Equal(t, TierMaintenance, rec.Tier)

	// 10 次真实成功：3 → 2，计数清零
	for i := 0; i < RecoveryThreshold; i++ {
		rec = applySuccess(rec, false, now).Record
	}
	require.Equal(t, TierDegraded, rec.Tier)
	require.Equal(t, 0, rec.ErrorCount)

	// 再 10 次：2 → 1
	for i := 0; i < RecoveryThreshold; i++ {
		rec = applySuccess(rec, false, now).Record
	}
	assert.Equal(t, TierFull, rec.Tier)
	assert.Equal(t, 0, rec.ErrorCount)
	assert.Equal(t, 0, rec.RecoveryPoints)
}
