package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ceyewan/tiergate/clog"
)

// 上下文键
const ctxKeyRequestID = "request_id"

// requestIDMiddleware 为每个请求生成或透传请求 ID
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxKeyRequestID, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// requestID 从上下文提取请求 ID
func requestID(c *gin.Context) string {
	if id, ok := c.Get(ctxKeyRequestID); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}

// loggingMiddleware 结构化请求日志
func loggingMiddleware(logger clog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.InfoContext(c.Request.Context(), "http request",
			clog.String("method", c.Request.Method),
			clog.String("path", c.Request.URL.Path),
			clog.Int("status", c.Writer.Status()),
			clog.Duration("latency", time.Since(start)),
			clog.String("request_id", requestID(c)))
	}
}

// adminAuthMiddleware 管理端点的 JWT Bearer 鉴权
//
// secret 为空时鉴权关闭（本地开发模式），配置了密钥后
// 要求 Authorization: Bearer <HS256 token>。
func adminAuthMiddleware(secret string, logger clog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		auth := c.GetHeader("Authorization")
		tokenStr, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
			return
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			logger.WarnContext(c.Request.Context(), "admin auth rejected",
				clog.Error(err),
				clog.String("request_id", requestID(c)))
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "invalid token"})
			return
		}

		c.Next()
	}
}
