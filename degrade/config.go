package degrade

import "time"

// DriverType 驱动类型
type DriverType string

const (
	// DriverStandalone 单机模式：进程内存中的记录，仅适用于单实例部署与测试
	DriverStandalone DriverType = "standalone"

	// DriverDistributed 分布式模式：Redis 中的共享记录，多实例间语义一致
	DriverDistributed DriverType = "distributed"
)

// Config 熔断降级组件配置
//
// 降级/恢复阈值是状态机语义的一部分，不开放配置。
type Config struct {
	// Driver [必填] 驱动类型 (standalone|distributed)
	Driver DriverType `mapstructure:"driver"`

	// Distributed 分布式模式配置（Driver 为 distributed 时必填）
	Distributed *DistributedConfig `mapstructure:"distributed"`
}

// DistributedConfig 分布式模式配置
type DistributedConfig struct {
	// Key 熔断记录在 Redis 中的键 (默认: "tiergate:breaker")
	Key string `mapstructure:"key"`

	// Guard 存储守护熔断配置，nil 时使用默认值
	Guard *GuardConfig `mapstructure:"guard"`
}

// setDefaults 设置默认值
func (c *DistributedConfig) setDefaults() {
	if c.Key == "" {
		c.Key = "tiergate:breaker"
	}
	if c.Guard == nil {
		c.Guard = &GuardConfig{}
	}
	c.Guard.setDefaults()
}

// GuardConfig 存储守护熔断配置
//
// 守护熔断包在 Redis 访问外层：存储持续不可用时快速失败，
// 避免每个请求都等待完整的连接超时。存储错误对请求仍然是硬失败，
// 守护只改变失败的速度，不改变失败的语义。
type GuardConfig struct {
	// MaxRequests 半开状态允许的探测请求数 (默认: 3)
	MaxRequests uint32 `mapstructure:"max_requests"`

	// Interval 闭合状态下计数窗口重置周期 (默认: 60s)
	Interval time.Duration `mapstructure:"interval"`

	// Timeout 熔断后进入半开状态前的等待时间 (默认: 10s)
	Timeout time.Duration `mapstructure:"timeout"`

	// FailureThreshold 触发熔断的失败率阈值 (默认: 0.6)
	FailureThreshold float64 `mapstructure:"failure_threshold"`

	// MinRequests 窗口内触发熔断判断的最小请求数 (默认: 5)
	MinRequests uint32 `mapstructure:"min_requests"`
}

// setDefaults 设置默认值
func (c *GuardConfig) setDefaults() {
	if c.MaxRequests == 0 {
		c.MaxRequests = 3
	}
	if c.Interval == 0 {
		c.Interval = 60 * time.Second
	}
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}
	if c.FailureThreshold <= 0 || c.FailureThreshold > 1 {
		c.FailureThreshold = 0.6
	}
	if c.MinRequests == 0 {
		c.MinRequests = 5
	}
}
