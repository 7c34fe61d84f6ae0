package config

import "errors"

// 配置错误，可用 errors.Is 判断
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
