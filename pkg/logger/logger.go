package logger

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestIdKey is the context key under which the transport layer stores
// the per-request id.
const RequestIdKey = "request_id"

// Global logger instance. Nop until Init runs so library code and tests
// can log unconditionally.
var Log = zap.NewNop()

// Init configures the global logger.
// serviceName: service tag attached to every entry (e.g. "engine")
// level: debug, info, warn, error
func Init(serviceName string, level string) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zap.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.MessageKey = "msg"

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		zapLevel,
	)

	// AddCallerSkip(1) because call sites go through the package-level
	// helpers below.
	Log = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	Log = Log.With(zap.String("service", serviceName))
}

func Info(ctx context.Context, msg string, fields ...zap.Field) {
	extractRequestID(ctx, &fields)
	Log.Info(msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...zap.Field) {
	extractRequestID(ctx, &fields)
	Log.Error(msg, fields...)
}

func Warn(ctx context.Context, msg string, fields ...zap.Field) {
	extractRequestID(ctx, &fields)
	Log.Warn(msg, fields...)
}

func Debug(ctx context.Context, msg string, fields ...zap.Field) {
	extractRequestID(ctx, &fields)
	Log.Debug(msg, fields...)
}

// Fatal logs and calls os.Exit.
func Fatal(ctx context.Context, msg string, fields ...zap.Field) {
	extractRequestID(ctx, &fields)
	Log.Fatal(msg, fields...)
}

func extractRequestID(ctx context.Context, fields *[]zap.Field) {
	if ctx == nil {
		return
	}
	if rid, ok := ctx.Value(RequestIdKey).(string); ok && rid != "" {
		*fields = append(*fields, zap.String("request_id", rid))
	}
}

// Sync flushes buffered entries; call from a defer in main.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
