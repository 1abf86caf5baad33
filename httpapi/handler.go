package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ceyewan/tiergate/clog"
	"github.com/ceyewan/tiergate/degrade"
)

// handleInvoke 核心调用入口：读状态 → 路由 → 处理 → 记录 → 组装响应
func (s *Server) handleInvoke(c *gin.Context) {
	ctx := c.Request.Context()

	var req invokeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
	}

	rec, err := s.breaker.State(ctx)
	if err != nil {
		s.storageError(c, err)
		return
	}

	switch route(rec.Tier) {
	case routeTier1:
		s.invokeTier1(c, req)
	case routeTier2:
		s.invokeTier2(c, req)
	default:
		s.invokeTier3(c, req)
	}
}

// invokeTier1 一级：严格处理器，失败捕获后记入熔断状态并转换为 500
func (s *Server) invokeTier1(c *gin.Context, req invokeRequest) {
	ctx := c.Request.Context()

	if err := tier1Handler(req); err != nil {
		res, ferr := s.breaker.Failure(ctx)
		if ferr != nil {
			s.storageError(c, ferr)
			return
		}
		s.metrics.observeInvoke(degrade.TierFull, http.StatusInternalServerError)
		c.JSON(http.StatusInternalServerError, invokeResponse{
			Message: msgInternalError,
			Tier:    res.Tier,
		})
		return
	}

	res, err := s.breaker.Success(ctx, false)
	if err != nil {
		s.storageError(c, err)
		return
	}

	s.metrics.observeInvoke(degrade.TierFull, http.StatusOK)
	c.JSON(http.StatusOK, invokeResponse{Message: msgFullCapacity, Tier: res.Tier})
}

// invokeTier2 二级：宽松处理器总是成功，按原始错误标记记录受保护成功
func (s *Server) invokeTier2(c *gin.Context, req invokeRequest) {
	ctx := c.Request.Context()

	tier2Handler(req)

	res, err := s.breaker.Success(ctx, req.Error)
	if err != nil {
		s.storageError(c, err)
		return
	}

	s.metrics.observeInvoke(degrade.TierDegraded, http.StatusOK)
	c.JSON(http.StatusOK, invokeResponse{Message: msgDegradedMode, Tier: res.Tier})
}

// invokeTier3 三级：自应答，不调用处理器；仍记录成功推进恢复进度
func (s *Server) invokeTier3(c *gin.Context, req invokeRequest) {
	ctx := c.Request.Context()

	res, err := s.breaker.Success(ctx, req.Error)
	if err != nil {
		s.storageError(c, err)
		return
	}

	if req.Error {
		s.metrics.observeInvoke(degrade.TierMaintenance, http.StatusServiceUnavailable)
		c.JSON(http.StatusServiceUnavailable, invokeResponse{
			Message: msgMaintenance,
			Tier:    res.Tier,
		})
		return
	}

	s.metrics.observeInvoke(degrade.TierMaintenance, http.StatusOK)
	c.JSON(http.StatusOK, invokeResponse{Message: msgMinimalOperation, Tier: res.Tier})
}

// handleState 状态查询（只读）
func (s *Server) handleState(c *gin.Context) {
	rec, err := s.breaker.State(c.Request.Context())
	if err != nil {
		s.storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, newStateResponse(rec))
}

// handleReset 运维重置：无条件恢复一级默认状态
func (s *Server) handleReset(c *gin.Context) {
	res, err := s.breaker.Reset(c.Request.Context())
	if err != nil {
		s.storageError(c, err)
		return
	}

	s.logger.InfoContext(c.Request.Context(), "breaker reset via admin endpoint",
		clog.String("request_id", requestID(c)))
	c.JSON(http.StatusOK, resetResponse{
		Message: msgResetDone,
		State:   newStateResponse(res.Record),
	})
}

// handleHealthz 健康检查：进程存活 + 依赖连接健康
func (s *Server) handleHealthz(c *gin.Context) {
	if s.healthCheck != nil {
		if err := s.healthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "reason": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// storageError 存储不可用：对当前请求硬失败，绝不退回过期状态
func (s *Server) storageError(c *gin.Context, err error) {
	s.logger.ErrorContext(c.Request.Context(), "breaker storage unavailable",
		clog.Error(err),
		clog.String("request_id", requestID(c)))
	s.metrics.observeStorageError()
	c.JSON(http.StatusServiceUnavailable, errorResponse{Error: msgStorageUnavailable})
}
