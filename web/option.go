package web

import (
	"github.com/gin-gonic/gin"

	"github.com/gocrud/ioc/core"
	"github.com/gocrud/ioc/logging"
)

// BuilderOption 用于配置 Web Builder
type BuilderOption func(*Builder)

// WithAddr 设置监听地址
func WithAddr(addr string) BuilderOption {
	return func(b *Builder) {
		b.UseAddr(addr)
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger logging.Logger) BuilderOption {
	return func(b *Builder) {
		b.UseLogger(logger)
	}
}

// WithControllers 添加控制器
func WithControllers(controllers ...Controller) BuilderOption {
	return func(b *Builder) {
		b.AddControllers(controllers...)
	}
}

// WithInspector 挂载应用上下文的检查端点，prefix 为空时挂载在根路径。
// 检查器在 Build 时创建并使用最终的日志记录器，与选项顺序无关。
func WithInspector(ctx *core.ApplicationContext, prefix string) BuilderOption {
	return func(b *Builder) {
		b.inspectors = append(b.inspectors, inspectorMount{app: ctx, prefix: prefix})
	}
}

type inspectorMount struct {
	app    *core.ApplicationContext
	prefix string
}

func (m inspectorMount) controller(logger logging.Logger) Controller {
	inspector := NewInspector(m.app.Registry(), m.app.Properties(), logger.WithCategory("inspector"))
	if m.prefix == "" {
		return inspector
	}
	return &groupController{prefix: m.prefix, inner: inspector}
}

type groupController struct {
	prefix string
	inner  Controller
}

func (g *groupController) MountRoutes(router gin.IRouter) {
	g.inner.MountRoutes(router.Group(g.prefix))
}
