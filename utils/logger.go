package utils

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger 全局日志对象
var Logger = zerolog.New(io.Discard)

// InitLogger 初始化日志系统，level 无法识别时使用 info
func InitLogger(level string, debug bool) {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if debug {
		lvl = zerolog.DebugLevel
	}

	Logger = zerolog.New(output).
		With().
		Timestamp().
		Caller().
		Logger().
		Level(lvl)

	Logger.Info().Str("level", lvl.String()).Msg("日志系统初始化完成")
}

// LogApiRequest 记录API请求
func LogApiRequest(method, url string, params interface{}, headers map[string]string) {
	// 过滤敏感信息
	if auth := headers["Authorization"]; len(auth) > 15 {
		headers["Authorization"] = auth[:15] + "..."
	}

	Logger.Debug().
		Str("method", method).
		Str("url", url).
		Interface("params", params).
		Interface("headers", headers).
		Msg("API请求")
}

// LogApiResponse 记录API响应，响应体只在 debug 级别输出
func LogApiResponse(method, url string, statusCode int, responseTime time.Duration, size int) {
	event := Logger.Info()
	if statusCode >= 400 {
		event = Logger.Error()
	}
	event.
		Str("method", method).
		Str("url", url).
		Int("statusCode", statusCode).
		Dur("responseTime", responseTime).
		Int("size", size).
		Msg("API响应")
}

// LogError 记录错误
func LogError(err error, context map[string]interface{}, message string) {
	Logger.Error().
		Err(err).
		Interface("context", context).
		Msg(message)
}

// LogDbOperation 记录数据库操作
func LogDbOperation(operation string, collection string, query interface{}, count int) {
	Logger.Debug().
		Str("operation", operation).
		Str("collection", collection).
		Interface("query", query).
		Int("count", count).
		Msg("数据库操作")
}
