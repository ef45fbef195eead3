package logger

import (
	"design_sense_backend/internal/config"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log 在 InitLogger 之前是 no-op，测试中可直接使用
var Log = zap.NewNop()

// levelFor 优先使用 log.level；未配置时 debug 模式输出 debug 日志
func levelFor(cfg *config.Config) zapcore.Level {
	if cfg.Log.Level != "" {
		if lvl, err := zapcore.ParseLevel(cfg.Log.Level); err == nil {
			return lvl
		}
	}
	if cfg.Server.Mode == "debug" {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

func InitLogger(cfg *config.Config) {
	Log = New(cfg)
}

// New 构建 JSON 文件日志(按大小轮转)与控制台日志的组合
func New(cfg *config.Config) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	path := cfg.Log.Path
	if path == "" {
		path = "logs/app.log"
	}
	rotation := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    positiveOr(cfg.Log.MaxSizeMB, 100),
		MaxBackups: positiveOr(cfg.Log.MaxBackups, 5),
		MaxAge:     positiveOr(cfg.Log.MaxAgeDays, 30),
		Compress:   true,
	}

	level := zap.NewAtomicLevelAt(levelFor(cfg))
	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(rotation), level),
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(os.Stdout), level),
	)

	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)).
		With(zap.String("service", cfg.Tracing.ServiceName), zap.String("mode", cfg.Server.Mode))
}

func positiveOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
