package di

import (
	"reflect"

	"github.com/gocrud/ioc/logging"
)

// BuilderOption 配置定义构建器。
type BuilderOption func(*Builder)

// WithLogger 设置构建日志。
func WithLogger(logger logging.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithCapabilities 追加可用于按类型查找的接口类型。
// 候选集中声明的接口会自动加入。
func WithCapabilities(types ...reflect.Type) BuilderOption {
	return func(b *Builder) {
		for _, t := range types {
			if t != nil && t.Kind() == reflect.Interface {
				b.capabilities = append(b.capabilities, t)
			}
		}
	}
}

// Capability 返回接口 T 的类型，用于 WithCapabilities。
func Capability[T any]() reflect.Type {
	return TypeOf[T]()
}
