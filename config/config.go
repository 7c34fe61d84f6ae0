package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// 配置来源的环境变量
const (
	EnvPrefix     = "CRM_"
	EnvConfigFile = "CRM_CONFIG"
)

// Config 应用配置
type Config struct {
	Port     int    `koanf:"port"`
	MongoURI string `koanf:"mongo_uri"`
	MongoDB  string `koanf:"mongo_db"`
	JWTKey   string `koanf:"jwt_key"`
	Debug    bool   `koanf:"debug"`
	LogLevel string `koanf:"log_level"`

	// CORSOrigins 逗号分隔的允许来源
	CORSOrigins string `koanf:"cors_origins"`

	// RequestTimeout 单次请求访问数据源的超时
	RequestTimeout time.Duration `koanf:"request_timeout"`

	// 业务员注册表每日刷新时间
	RegistryRefreshHour   int `koanf:"registry_refresh_hour"`
	RegistryRefreshMinute int `koanf:"registry_refresh_minute"`

	// 看板各榜单长度
	TopManagers  int `koanf:"top_managers"`
	TopTypes     int `koanf:"top_types"`
	TopReferrers int `koanf:"top_referrers"`

	// ReferralChunkSize 查询转介绍人时每批客户ID数量
	ReferralChunkSize int `koanf:"referral_chunk_size"`
}

// Default 默认配置
func Default() *Config {
	return &Config{
		Port:                  8080,
		MongoURI:              "mongodb://127.0.0.1:27017",
		MongoDB:               "crm",
		JWTKey:                "change-me",
		Debug:                 false,
		LogLevel:              "info",
		CORSOrigins:           "*",
		RequestTimeout:        30 * time.Second,
		RegistryRefreshHour:   2,
		RegistryRefreshMinute: 0,
		TopManagers:           10,
		TopTypes:              8,
		TopReferrers:          10,
		ReferralChunkSize:     200,
	}
}

// Load 依次叠加默认值、CRM_CONFIG 指向的YAML文件和 CRM_ 前缀的环境变量，
// 例如 CRM_MONGO_URI -> mongo_uri
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrLoadConfig, path, err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置取值
func (c *Config) Validate() error {
	switch {
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	case c.MongoURI == "":
		return fmt.Errorf("%w: mongo_uri must not be empty", ErrInvalidConfig)
	case c.MongoDB == "":
		return fmt.Errorf("%w: mongo_db must not be empty", ErrInvalidConfig)
	case c.JWTKey == "":
		return fmt.Errorf("%w: jwt_key must not be empty", ErrInvalidConfig)
	case c.RequestTimeout <= 0:
		return fmt.Errorf("%w: request_timeout must be positive", ErrInvalidConfig)
	case c.RegistryRefreshHour < 0 || c.RegistryRefreshHour > 23:
		return fmt.Errorf("%w: registry_refresh_hour %d out of range", ErrInvalidConfig, c.RegistryRefreshHour)
	case c.RegistryRefreshMinute < 0 || c.RegistryRefreshMinute > 59:
		return fmt.Errorf("%w: registry_refresh_minute %d out of range", ErrInvalidConfig, c.RegistryRefreshMinute)
	case c.TopManagers <= 0 || c.TopTypes <= 0 || c.TopReferrers <= 0:
		return fmt.Errorf("%w: top_* limits must be positive", ErrInvalidConfig)
	case c.ReferralChunkSize <= 0:
		return fmt.Errorf("%w: referral_chunk_size must be positive", ErrInvalidConfig)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

// Origins 允许的跨域来源列表
func (c *Config) Origins() []string {
	out := make([]string, 0)
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Addr HTTP监听地址
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
