// Package httpapi 是 tiergate 的 HTTP 前门。
//
// 它把入口请求解析为统一的调用契约 {error: bool}，按当前熔断层级
// 路由到对应的业务处理器，把处理结果记录回熔断状态机，最后将结果
// 组装为传输层状态码与消息。路由与结果组装都是无状态的纯映射，
// 请求之间只通过 degrade.Breaker 背后的共享记录协调。
//
// 路由规则：
//   - 一级：严格处理器，失败被捕获后记录 Failure 并返回 500
//   - 二级：宽松处理器，总是成功，按请求的原始错误标记记录成功
//   - 三级：自应答，不调用处理器，仍记录成功以推进恢复进度
package httpapi

import (
	"github.com/ceyewan/tiergate/degrade"
)

// handlerChoice 层级路由结果
type handlerChoice int

const (
	routeTier1      handlerChoice = iota + 1 // 调用一级严格处理器（带失败捕获）
	routeTier2                               // 调用二级宽松处理器
	routeSelfAnswer                          // 三级自应答，不调用处理器
)

// route 纯路由函数：层级 → 处理器选择
//
// 层级越界时按维护模式处理，避免异常状态下放大流量。
func route(tier degrade.Tier) handlerChoice {
	switch tier {
	case degrade.TierFull:
		return routeTier1
	case degrade.TierDegraded:
		return routeTier2
	default:
		return routeSelfAnswer
	}
}
