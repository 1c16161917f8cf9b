package logging

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Options 日志选项，可从环境变量加载
type Options struct {
	Level  string   `envconfig:"LEVEL" default:"info"`
	Format string   `envconfig:"FORMAT" default:"console"` // console | json
	Output []string `envconfig:"OUTPUT" default:"stderr"`
}

// DefaultOptions 返回默认选项
func DefaultOptions() Options {
	return Options{
		Level:  "info",
		Format: "console",
		Output: []string{"stderr"},
	}
}

// LoadOptions 从带前缀的环境变量加载选项，例如 prefix 为 "IOC_LOG" 时读取 IOC_LOG_LEVEL。
// 值不合法时返回默认选项和错误。
func LoadOptions(prefix string) (Options, error) {
	var opts Options
	if err := envconfig.Process(prefix, &opts); err != nil {
		return DefaultOptions(), fmt.Errorf("logging: failed to load options: %w", err)
	}
	if _, err := ParseLevel(opts.Level); err != nil {
		return DefaultOptions(), fmt.Errorf("logging: failed to load options: %w", err)
	}
	if opts.Format != "console" && opts.Format != "json" {
		return DefaultOptions(), fmt.Errorf("logging: failed to load options: unknown format %q", opts.Format)
	}
	return opts, nil
}
