package config

import "github.com/gocrud/ioc/logging"

// ResolverOption 配置属性解析器。
type ResolverOption func(*resolverOptions)

type resolverOptions struct {
	logger  logging.Logger
	environ []string
	useEnv  bool
}

func defaultResolverOptions() *resolverOptions {
	return &resolverOptions{
		logger: logging.NewNopLogger(),
		useEnv: true,
	}
}

// WithLogger 设置解析器日志。
func WithLogger(logger logging.Logger) ResolverOption {
	return func(o *resolverOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEnvironment 使用给定的 "KEY=value" 列表代替进程环境变量。
func WithEnvironment(environ []string) ResolverOption {
	return func(o *resolverOptions) {
		o.environ = environ
		o.useEnv = true
	}
}

// WithoutEnvironment 不加载进程环境变量。
func WithoutEnvironment() ResolverOption {
	return func(o *resolverOptions) {
		o.environ = nil
		o.useEnv = false
	}
}
