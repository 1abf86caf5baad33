// Package connector 为 tiergate 提供统一的连接管理能力。
//
// 设计理念沿用接口优先与显式依赖注入：NewRedis 创建连接器但不立即建连，
// Connect 时才真正建立连接且可安全重复调用；组件（如 degrade）仅借用
// Connector，不负责关闭，Close 应由应用层按"谁创建，谁负责释放"调用。
//
// 基本使用：
//
//	cfg := &connector.RedisConfig{Addr: "127.0.0.1:6379"}
//	conn, err := connector.NewRedis(cfg, connector.WithLogger(logger))
//	if err != nil {
//		panic(err)
//	}
//	defer conn.Close()
//
//	if err := conn.Connect(ctx); err != nil {
//		panic(err)
//	}
//	client := conn.GetClient()
package connector

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Connector 定义所有连接器的通用行为。
//
// 接口方法均为并发安全，可从多个协程同时调用。
type Connector interface {
	// Connect 建立连接。幂等，可安全多次调用，阻塞直到成功或失败。
	Connect(ctx context.Context) error

	// Close 关闭连接并释放资源。幂等。
	Close() error

	// HealthCheck 通过测试请求验证连接可用性，并更新内部健康状态缓存。
	HealthCheck(ctx context.Context) error

	// IsHealthy 返回缓存的健康状态，不发起网络请求。
	IsHealthy() bool

	// Name 返回连接器名称，用于日志与指标。
	Name() string
}

// RedisConnector Redis 连接器接口
type RedisConnector interface {
	Connector

	// GetClient 返回底层 Redis 客户端
	GetClient() *redis.Client
}
