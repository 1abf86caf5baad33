// Package config 为 tiergate 提供统一的配置管理能力。
// 基于 Viper 实现，支持多源配置加载与热更新。
//
// 配置优先级：环境变量 > .env 文件 > 配置文件。
//
// 基本使用：
//
//	loader, _ := config.New(&config.Config{
//		Name:      "config",
//		Paths:     []string{".", "./configs"},
//		EnvPrefix: "TIERGATE",
//	})
//	if err := loader.Load(ctx); err != nil {
//		panic(err)
//	}
//
//	var cfg AppConfig
//	if err := loader.Unmarshal(&cfg); err != nil {
//		panic(err)
//	}
package config

import (
	"context"
	"time"
)

// Loader 定义配置加载器的核心行为
type Loader interface {
	// Load 加载配置并初始化内部状态，同时启动配置文件监听
	Load(ctx context.Context) error

	// Get 获取原始配置值
	Get(key string) any

	// Unmarshal 将整个配置反序列化到结构体
	Unmarshal(v any) error

	// UnmarshalKey 将指定 Key 的配置反序列化到结构体
	UnmarshalKey(key string, v any) error

	// Watch 订阅配置文件变更事件，通过 context 取消订阅
	Watch(ctx context.Context) (<-chan Event, error)
}

// Event 配置变更事件
type Event struct {
	File      string    // 发生变更的配置文件
	Timestamp time.Time // 变更时间
}
