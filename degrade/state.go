package degrade

import (
	"fmt"
	"time"
)

// Tier 服务能力层级
//
// 层级数值越大，能力越低：一级全量服务，二级降级服务，三级仅维护应答。
type Tier int

const (
	TierFull        Tier = 1 // 全量服务
	TierDegraded    Tier = 2 // 降级服务
	TierMaintenance Tier = 3 // 维护模式
)

// String 返回 Tier 的字符串表示
func (t Tier) String() string {
	switch t {
	case TierFull:
		return "full"
	case TierDegraded:
		return "degraded"
	case TierMaintenance:
		return "maintenance"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Valid 判断层级是否在合法范围内
func (t Tier) Valid() bool {
	return t >= TierFull && t <= TierMaintenance
}

// Record 熔断记录，全系统唯一的共享状态
//
// 记录不存在时等价于默认记录 {TierFull, 0, 0}，该解析只发生在读取边界，
// 变更逻辑内部不再重复判断缺失。
type Record struct {
	Tier           Tier      `json:"tier"`
	ErrorCount     int       `json:"errorCount"`
	RecoveryPoints int       `json:"recoveryPoints"`
	LastUpdated    time.Time `json:"lastUpdated"`
}

// DefaultRecord 返回记录缺失时的默认状态
func DefaultRecord() Record {
	return Record{
		Tier:           TierFull,
		ErrorCount:     0,
		RecoveryPoints: 0,
	}
}

// Result 状态迁移的结果
type Result struct {
	Record

	// Changed 表示本次迁移是否改变了层级
	Changed bool `json:"changed"`
}
