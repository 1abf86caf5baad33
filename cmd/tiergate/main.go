// tiergate 服务入口：加载配置，组装依赖，启动 HTTP 服务。
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ceyewan/tiergate/clog"
	"github.com/ceyewan/tiergate/config"
	"github.com/ceyewan/tiergate/connector"
	"github.com/ceyewan/tiergate/degrade"
	"github.com/ceyewan/tiergate/httpapi"
)

// appConfig 服务的完整配置
type appConfig struct {
	Log     clog.Config           `mapstructure:"log"`
	Redis   connector.RedisConfig `mapstructure:"redis"`
	Breaker degrade.Config        `mapstructure:"breaker"`
	HTTP    httpapi.Config        `mapstructure:"http"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "tiergate:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 配置：文件 + .env + TIERGATE_* 环境变量
	loader, err := config.New(&config.Config{
		Name:      "config",
		Paths:     []string{".", "./configs"},
		EnvPrefix: "TIERGATE",
	})
	if err != nil {
		return err
	}
	if err := loader.Load(ctx); err != nil {
		return err
	}

	cfg := appConfig{Log: *clog.DefaultConfig()}
	if err := loader.Unmarshal(&cfg); err != nil {
		return err
	}

	logger, err := clog.New(&cfg.Log)
	if err != nil {
		return err
	}

	// 配置热更新：目前只响应日志级别调整
	go watchLogLevel(ctx, loader, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	breakerOpts := []degrade.Option{
		degrade.WithLogger(logger),
		degrade.WithRegisterer(registry),
	}
	serverOpts := []httpapi.Option{
		httpapi.WithLogger(logger.With(clog.String("component", "httpapi"))),
		httpapi.WithRegistry(registry),
	}

	if cfg.Breaker.Driver == degrade.DriverDistributed {
		redisConn, err := connector.NewRedis(&cfg.Redis, connector.WithLogger(logger))
		if err != nil {
			return err
		}
		if err := redisConn.Connect(ctx); err != nil {
			return err
		}
		defer redisConn.Close()

		breakerOpts = append(breakerOpts, degrade.WithRedisConnector(redisConn))
		serverOpts = append(serverOpts, httpapi.WithHealthCheck(redisConn.HealthCheck))
	}

	brk, err := degrade.New(&cfg.Breaker, breakerOpts...)
	if err != nil {
		return err
	}
	defer brk.Close()

	srv, err := httpapi.New(&cfg.HTTP, brk, serverOpts...)
	if err != nil {
		return err
	}

	logger.Info("tiergate starting",
		clog.String("driver", string(cfg.Breaker.Driver)),
		clog.String("addr", cfg.HTTP.Addr))
	return srv.Run(ctx)
}

// watchLogLevel 监听配置变更，动态调整日志级别
func watchLogLevel(ctx context.Context, loader config.Loader, logger clog.Logger) {
	events, err := loader.Watch(ctx)
	if err != nil {
		return
	}
	for range events {
		level, ok := loader.Get("log.level").(string)
		if !ok || level == "" {
			continue
		}
		parsed, err := clog.ParseLevel(level)
		if err != nil {
			logger.Warn("invalid log level in config", clog.String("level", level))
			continue
		}
		if err := logger.SetLevel(parsed); err != nil {
			continue
		}
		logger.Info("log level updated", clog.String("level", level))
	}
}
