package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ceyewan/tiergate/clog"
	"github.com/ceyewan/tiergate/degrade"
	"github.com/ceyewan/tiergate/xerrors"
)

// Server 分级降级网关的 HTTP 服务
type Server struct {
	cfg         *Config
	engine      *gin.Engine
	httpSrv     *http.Server
	breaker     degrade.Breaker
	logger      clog.Logger
	metrics     *apiMetrics
	healthCheck func(ctx context.Context) error
}

// New 创建 HTTP 服务。cfg 为 nil 时使用默认配置，brk 不能为 nil。
func New(cfg *Config, brk degrade.Breaker, opts ...Option) (*Server, error) {
	if brk == nil {
		return nil, xerrors.New("httpapi: breaker 不能为 nil")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.setDefaults()

	o := applyOptions(opts...)

	gin.SetMode(cfg.Mode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestIDMiddleware())
	engine.Use(loggingMiddleware(o.logger))

	s := &Server{
		cfg:         cfg,
		engine:      engine,
		breaker:     brk,
		logger:      o.logger,
		metrics:     newAPIMetrics(o.registry),
		healthCheck: o.healthCheck,
	}
	s.httpSrv = &http.Server{
		Addr:         cfg.Addr,
		Handler:      engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	s.registerRoutes(o)
	return s, nil
}

func (s *Server) registerRoutes(o *options) {
	api := s.engine.Group("/api")
	{
		api.POST("/invoke", s.handleInvoke)
		api.GET("/state", s.handleState)
	}

	admin := s.engine.Group("/admin", adminAuthMiddleware(s.cfg.AdminSecret, s.logger))
	{
		admin.POST("/reset", s.handleReset)
	}

	s.engine.GET("/healthz", s.handleHealthz)
	if o.registry != nil {
		s.engine.GET("/metrics", gin.WrapH(
			promhttp.HandlerFor(o.registry, promhttp.HandlerOpts{})))
	}
}

// Handler 返回底层 http.Handler，供测试使用
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run 启动服务并阻塞，ctx 取消后触发优雅关闭
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", clog.String("addr", s.cfg.Addr))
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return xerrors.Wrap(err, "http server failed")
	case <-ctx.Done():
	}

	s.logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return xerrors.Wrap(err, "http server shutdown")
	}
	return nil
}
