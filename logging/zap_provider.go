package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLoggerProvider 基于 zap 的日志提供者
type ZapLoggerProvider struct {
	root  *zap.Logger
	level zap.AtomicLevel
}

// NewZapLoggerProvider 按选项构建 zap 日志提供者
func NewZapLoggerProvider(options Options) (*ZapLoggerProvider, error) {
	level, err := ParseLevel(options.Level)
	if err != nil {
		return nil, err
	}

	atomic := zap.NewAtomicLevelAt(toZapLevel(level))
	outputs := options.Output
	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}

	cfg := zap.Config{
		Level:             atomic,
		Encoding:          encoding(options.Format),
		EncoderConfig:     encoderConfig(options.Format),
		OutputPaths:       outputs,
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: true,
	}

	root, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &ZapLoggerProvider{root: root, level: atomic}, nil
}

// WrapZap 使用已有的 *zap.Logger 作为提供者（级别由该 logger 的 core 决定）
func WrapZap(root *zap.Logger) *ZapLoggerProvider {
	return &ZapLoggerProvider{root: root, level: zap.NewAtomicLevelAt(zapcore.DebugLevel)}
}

func (p *ZapLoggerProvider) CreateLogger(category string) Logger {
	return newZapLogger(p.root, category, nil)
}

func (p *ZapLoggerProvider) SetMinimumLevel(level LogLevel) {
	p.level.SetLevel(toZapLevel(level))
}

// Sync 刷新缓冲的日志
func (p *ZapLoggerProvider) Sync() error {
	return p.root.Sync()
}

// zapLogger 将 Logger 接口适配到 zap
type zapLogger struct {
	root     *zap.Logger
	category string
	fields   []zap.Field
	z        *zap.Logger
}

func newZapLogger(root *zap.Logger, category string, fields []zap.Field) *zapLogger {
	z := root
	if category != "" {
		z = z.Named(category)
	}
	if len(fields) > 0 {
		z = z.With(fields...)
	}
	return &zapLogger{root: root, category: category, fields: fields, z: z}
}

func (l *zapLogger) Trace(msg string, fields ...Field) { l.Log(LogLevelTrace, msg, fields...) }
func (l *zapLogger) Debug(msg string, fields ...Field) { l.Log(LogLevelDebug, msg, fields...) }
func (l *zapLogger) Info(msg string, fields ...Field) { l.Log(LogLevelInfo, msg, fields...) }
func (l *zapLogger) Warn(msg string, fields ...Field) { l.Log(LogLevelWarn, msg, fields...) }
func (l *zapLogger) Error(msg string, fields ...Field) { l.Log(LogLevelError, msg, fields...) }
func (l *zapLogger) Fatal(msg string, fields ...Field) { l.Log(LogLevelFatal, msg, fields...) }

func (l *zapLogger) Log(level LogLevel, msg string, fields ...Field) {
	// Fatal 级别写入后由 zap 退出进程
	if ce := l.z.Check(toZapLevel(level), msg); ce != nil {
		ce.Write(toZapFields(fields)...)
	}
}

func (l *zapLogger) WithFields(fields ...Field) Logger {
	merged := append(append([]zap.Field{}, l.fields...), toZapFields(fields)...)
	return newZapLogger(l.root, l.category, merged)
}

func (l *zapLogger) WithCategory(category string) Logger {
	return newZapLogger(l.root, category, l.fields)
}

func toZapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}

// toZapLevel zap 没有 Trace，映射为 Debug
func toZapLevel(level LogLevel) zapcore.Level {
	switch level {
	case LogLevelTrace, LogLevelDebug:
		return zapcore.DebugLevel
	case LogLevelInfo:
		return zapcore.InfoLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelError:
		return zapcore.ErrorLevel
	case LogLevelFatal:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func encoding(format string) string {
	if format == "json" {
		return "json"
	}
	return "console"
}

func encoderConfig(format string) zapcore.EncoderConfig {
	if format == "json" {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		return cfg
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}
