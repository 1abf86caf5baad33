package config

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ceyewan/tiergate/xerrors"
)

// loader 实现 Loader 接口
type loader struct {
	v       *viper.Viper
	cfg     *Config
	mu      sync.RWMutex
	watches []chan Event
}

// newLoader 创建一个新的配置加载器（内部使用）
func newLoader(cfg *Config) (Loader, error) {
	return &loader{
		v:   viper.New(),
		cfg: cfg,
	}, nil
}

// Load 初始化并从所有来源加载配置
func (l *loader) Load(ctx context.Context) error {
	// 1. 配置 Viper
	l.v.SetConfigName(l.cfg.Name)
	l.v.SetConfigType(l.cfg.FileType)
	for _, path := range l.cfg.Paths {
		l.v.AddConfigPath(path)
	}

	// 2. 环境变量（最高优先级）先设置，确保能捕获所有环境变量
	l.v.SetEnvPrefix(l.cfg.EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	// 3. 尝试加载 .env 文件（.env 不存在不算错误）
	l.loadDotEnv()

	// 4. 加载配置文件（最低优先级），文件缺失时仅依赖环境变量
	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return xerrors.Wrapf(err, "failed to read config file %s", l.cfg.Name)
		}
	}

	// 5. 启动文件监听
	l.v.OnConfigChange(func(e fsnotify.Event) {
		l.notifyWatches(e)
	})
	l.v.WatchConfig()

	return nil
}

// loadDotEnv 尝试从搜索路径加载 .env 文件
func (l *loader) loadDotEnv() {
	_ = godotenv.Load()
	for _, path := range l.cfg.Paths {
		_ = godotenv.Load(filepath.Join(path, ".env"))
	}
}

// Get 获取原始配置值
func (l *loader) Get(key string) any {
	return l.v.Get(key)
}

// Unmarshal 将整个配置反序列化到结构体
func (l *loader) Unmarshal(v any) error {
	if err := l.v.Unmarshal(v); err != nil {
		return xerrors.Wrap(err, "failed to unmarshal config")
	}
	return nil
}

// UnmarshalKey 将指定 Key 的配置反序列化到结构体
func (l *loader) UnmarshalKey(key string, v any) error {
	if err := l.v.UnmarshalKey(key, v); err != nil {
		return xerrors.Wrapf(err, "failed to unmarshal config key %s", key)
	}
	return nil
}

// Watch 订阅配置文件变更事件
func (l *loader) Watch(ctx context.Context) (<-chan Event, error) {
	ch := make(chan Event, 1)

	l.mu.Lock()
	l.watches = append(l.watches, ch)
	l.mu.Unlock()

	go func() {
		<-ctx.Done()
		l.mu.Lock()
		defer l.mu.Unlock()
		for i, c := range l.watches {
			if c == ch {
				l.watches = append(l.watches[:i], l.watches[i+1:]...)
				close(ch)
				break
			}
		}
	}()

	return ch, nil
}

// notifyWatches 向所有订阅者广播变更事件（内部使用）
func (l *loader) notifyWatches(e fsnotify.Event) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	event := Event{File: e.Name, Timestamp: time.Now()}
	for _, ch := range l.watches {
		select {
		case ch <- event:
		default:
			// 订阅者未及时消费，丢弃事件避免阻塞回调
		}
	}
}
