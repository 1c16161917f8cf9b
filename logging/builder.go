package logging

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// LoggingBuilder 日志构建器
type LoggingBuilder struct {
	providers    []LoggerProvider
	minimumLevel LogLevel
	mu           sync.RWMutex
}

// NewLoggingBuilder 创建日志构建器
func NewLoggingBuilder() *LoggingBuilder {
	return &LoggingBuilder{
		providers:    make([]LoggerProvider, 0),
		minimumLevel: LogLevelInfo,
	}
}

// SetMinimumLevel 设置最小日志级别
func (b *LoggingBuilder) SetMinimumLevel(level LogLevel) *LoggingBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.minimumLevel = level
	return b
}

// AddProvider 添加日志提供者
func (b *LoggingBuilder) AddProvider(provider LoggerProvider) *LoggingBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.providers = append(b.providers, provider)
	return b
}

// AddZap 添加 zap 日志提供者，构建失败时退化为空输出
func (b *LoggingBuilder) AddZap(options ...Options) *LoggingBuilder {
	opts := DefaultOptions()
	if len(options) > 0 {
		opts = options[0]
	}

	provider, err := NewZapLoggerProvider(opts)
	if err != nil {
		fmt.Fprintf(stderr, "logging: failed to build zap logger: %v\n", err)
		return b.AddProvider(WrapZap(zap.NewNop()))
	}
	if level, err := ParseLevel(opts.Level); err == nil {
		b.SetMinimumLevel(level)
	}
	return b.AddProvider(provider)
}

// Build 构建日志工厂
func (b *LoggingBuilder) Build() LoggerFactory {
	b.mu.RLock()
	defer b.mu.RUnlock()

	factory := &loggerFactory{
		providers:    make([]LoggerProvider, 0, len(b.providers)),
		minimumLevel: b.minimumLevel,
	}

	for _, provider := range b.providers {
		factory.AddProvider(provider)
	}

	return factory
}
