package degrade

import "github.com/ceyewan/tiergate/xerrors"

// 错误定义
var (
	// ErrConfigNil 配置为空
	ErrConfigNil = xerrors.New("degrade: config is nil")

	// ErrConnectorNil 分布式模式缺少 Redis 连接器
	ErrConnectorNil = xerrors.New("degrade: redis connector is nil")

	// ErrUnknownDriver 不支持的驱动类型
	ErrUnknownDriver = xerrors.New("degrade: unknown driver")

	// ErrStorageUnavailable 共享状态存储不可用
	//
	// 读写熔断记录失败时返回，对当前请求是硬失败，
	// 绝不静默退回到过期的本地状态。
	ErrStorageUnavailable = xerrors.New("degrade: storage unavailable")
)
