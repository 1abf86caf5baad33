package httpapi

import (
	"time"

	"github.com/ceyewan/tiergate/degrade"
)

// 对外响应消息（层级 × 条件的完整枚举，不存在未映射的状态）
const (
	msgFullCapacity     = "Full Capacity"
	msgInternalError    = "Internal Server Error"
	msgDegradedMode     = "Degraded Mode"
	msgMinimalOperation = "Operation at minimum"
	msgMaintenance      = "System under maintenance, try later"

	msgStorageUnavailable = "breaker state storage unavailable"
	msgResetDone          = "breaker reset to full capacity"
)

// invokeResponse 调用结果响应体
type invokeResponse struct {
	Message string       `json:"message"`
	Tier    degrade.Tier `json:"tier"`
}

// stateResponse 状态查询响应体
type stateResponse struct {
	Tier           degrade.Tier `json:"tier"`
	TierName       string       `json:"tierName"`
	ErrorCount     int          `json:"errorCount"`
	RecoveryPoints int          `json:"recoveryPoints"`
	LastUpdated    string       `json:"lastUpdated,omitempty"`
}

// resetResponse 重置结果响应体
type resetResponse struct {
	Message string        `json:"message"`
	State   stateResponse `json:"state"`
}

// errorResponse 错误响应体
type errorResponse struct {
	Error string `json:"error"`
}

// newStateResponse 将熔断记录转换为响应体
func newStateResponse(rec degrade.Record) stateResponse {
	resp := stateResponse{
		Tier:           rec.Tier,
		TierName:       rec.Tier.String(),
		ErrorCount:     rec.ErrorCount,
		RecoveryPoints: rec.RecoveryPoints,
	}
	if !rec.LastUpdated.IsZero() {
		resp.LastUpdated = rec.LastUpdated.Format(time.RFC3339Nano)
	}
	return resp
}
