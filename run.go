package ioc

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"

	"github.com/gocrud/ioc/config"
	"github.com/gocrud/ioc/core"
)

// ShutdownTimeout 是退出时关闭应用上下文的超时时间
var ShutdownTimeout = 5 * time.Second

// SetupFunc 在上下文构建完成后执行，通常用于启动 Web 主机等后台服务
type SetupFunc func(ctx context.Context, app *core.ApplicationContext) error

// Run 构建应用上下文并阻塞，直到收到退出信号 (Ctrl+C, kill)
func Run(root string, catalog core.Catalog, props *config.PropertyResolver, setup SetupFunc, opts ...core.Option) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return RunContext(ctx, root, catalog, props, setup, opts...)
}

// RunContext 与 Run 相同，但在 ctx 结束时退出
func RunContext(ctx context.Context, root string, catalog core.Catalog, props *config.PropertyResolver, setup SetupFunc, opts ...core.Option) error {
	app, err := core.NewApplicationContext(root, catalog, props, opts...)
	if err != nil {
		return err
	}

	if setup != nil {
		if err := setup(ctx, app); err != nil {
			return multierr.Append(err, shutdown(app))
		}
	}

	<-ctx.Done()

	// 优雅关闭
	return shutdown(app)
}

func shutdown(app *core.ApplicationContext) error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return app.Close(ctx)
}
