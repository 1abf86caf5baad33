package testkit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ceyewan/tiergate/connector"
)

// RedisAddrEnv 覆盖测试 Redis 地址的环境变量
const RedisAddrEnv = "TIERGATE_TEST_REDIS_ADDR"

// GetRedisConfig 返回 Redis 测试配置
//
// 默认连接 localhost:6379，可通过 TIERGATE_TEST_REDIS_ADDR 覆盖。
func GetRedisConfig() *connector.RedisConfig {
	addr := os.Getenv(RedisAddrEnv)
	if addr == "" {
		addr = "localhost:6379"
	}
	return &connector.RedisConfig{
		Name:         "test-redis",
		Addr:         addr,
		DB:           1, // 使用 DB 1 避免与默认的 DB 0 冲突
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// GetRedisConnector 获取已连接的 Redis 连接器
//
// Redis 不可达时跳过当前测试。连接器随测试结束自动关闭。
func GetRedisConnector(t *testing.T) connector.RedisConnector {
	t.Helper()

	conn, err := connector.NewRedis(GetRedisConfig(), connector.WithLogger(NewLogger()))
	if err != nil {
		t.Fatalf("failed to create redis connector: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := conn.Connect(ctx); err != nil {
		_ = conn.Close()
		t.Skipf("redis not available at %s, skipping integration test: %v", GetRedisConfig().Addr, err)
	}

	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}

// CleanupKey 删除测试键，注册在测试结束时再次清理
func CleanupKey(t *testing.T, conn connector.RedisConnector, key string) {
	t.Helper()

	ctx := context.Background()
	if err := conn.GetClient().Del(ctx, key).Err(); err != nil {
		t.Fatalf("failed to cleanup key %s: %v", key, err)
	}
	t.Cleanup(func() {
		_ = conn.GetClient().Del(ctx, key).Err()
	})
}
