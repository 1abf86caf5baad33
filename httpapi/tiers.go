package httpapi

import "github.com/ceyewan/tiergate/xerrors"

// errTierFailure 一级处理器的预期失败信号
//
// 在"路由 → 处理 → 记录"流程内部消化，转换为 500 响应，
// 绝不作为未捕获故障传播到传输层之外。
var errTierFailure = xerrors.New("httpapi: tier-1 handler failure")

// invokeRequest 入口请求契约，error 缺省视为 false
type invokeRequest struct {
	Error bool `json:"error"`
}

// tier1Handler 一级严格处理器
//
// 业务语义：全量能力下不容忍失败标记，携带失败标记的请求
// 以显式结果（而非异常）报告失败，由调用方决定如何转换。
func tier1Handler(req invokeRequest) error {
	if req.Error {
		return errTierFailure
	}
	return nil
}

// tier2Handler 二级宽松处理器，吸收失败标记，总是成功
func tier2Handler(req invokeRequest) {
	// 降级模式下失败标记被吸收，是否为"受保护的成功"由记录方判断
	_ = req
}
