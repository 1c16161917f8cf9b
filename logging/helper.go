package logging

import (
	"fmt"
	"io"
	"os"
)

// stderr 用于报告日志系统自身的错误
var stderr io.Writer = os.Stderr

// NewLogger 创建一个默认的 zap Logger，选项读取自 IOC_LOG_* 环境变量。
// 环境变量不合法时在 stderr 上报告并使用默认选项。
func NewLogger(category string) Logger {
	opts, err := LoadOptions("IOC_LOG")
	if err != nil {
		fmt.Fprintf(stderr, "%v, falling back to defaults\n", err)
	}
	return NewLoggingBuilder().AddZap(opts).Build().CreateLogger(category)
}
