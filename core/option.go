package core

import (
	"reflect"

	"github.com/gocrud/ioc/logging"
	"github.com/gocrud/ioc/meta"
)

// Option 配置 ApplicationContext
type Option func(*options)

type options struct {
	table        *meta.Table
	logger       logging.Logger
	capabilities []reflect.Type
}

// WithTagTable 使用自定义标签表（注册了自定义组件标签时需要）
func WithTagTable(table *meta.Table) Option {
	return func(o *options) {
		if table != nil {
			o.table = table
		}
	}
}

// WithLogger 设置日志
func WithLogger(logger logging.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithCapabilities 追加可按类型查找的接口
func WithCapabilities(types ...reflect.Type) Option {
	return func(o *options) {
		o.capabilities = append(o.capabilities, types...)
	}
}
