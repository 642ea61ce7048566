package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config 定義 log 設定
type Config struct {
	Level  string `yaml:"level"`  // Log 等級: "debug", "info", "warn", "error"
	Format string `yaml:"format"` // 輸出格式: "json", "console"
}

// New 依設定建立 zap Logger，輸出到 stderr
// stdout 保留給帳戶報表
//
// 參數:
//
//	cfg: Config - log 設定
//
// 回傳值:
//
//	*zap.Logger: logger
//	error: 等級或格式不正確
func New(cfg Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		parsed, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	// 逐筆拒絕的交易可能很多，不做取樣以免漏掉
	zapCfg.Sampling = nil

	switch strings.ToLower(cfg.Format) {
	case "", "json":
		zapCfg.Encoding = "json"
	case "console":
		zapCfg.Encoding = "console"
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}

	return zapCfg.Build()
}
