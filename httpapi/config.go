package httpapi

import "time"

// Config HTTP 服务配置
type Config struct {
	// Addr 监听地址，默认 ":8080"
	Addr string `mapstructure:"addr"`
	// Mode gin 运行模式：debug / release / test，默认 "release"
	Mode string `mapstructure:"mode"`
	// AdminSecret 管理端点的 JWT 签名密钥，为空时管理端点不鉴权
	AdminSecret string `mapstructure:"admin_secret"`
	// ReadTimeout 请求读超时，默认 10s
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout 响应写超时，默认 10s
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// ShutdownTimeout 优雅关闭等待时间，默认 15s
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Addr:            ":8080",
		Mode:            "release",
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 15 * time.Second,
	}
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.Mode == "" {
		c.Mode = "release"
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 15 * time.Second
	}
}
