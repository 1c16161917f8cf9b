package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/gocrud/ioc/core"
	"github.com/gocrud/ioc/logging"
)

// Controller 简单的控制器接口标记
type Controller interface {
	// MountRoutes 注册路由
	MountRoutes(router gin.IRouter)
}

// Builder Web 主机构建器（基于 Gin）
type Builder struct {
	logger      logging.Logger
	addr        string
	engine      *gin.Engine
	controllers []Controller
	inspectors  []inspectorMount
}

// NewBuilder 创建 Web 构建器
func NewBuilder(opts ...BuilderOption) *Builder {
	// 设置 Gin 为发布模式（默认）
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	// 默认中间件：恢复 panic
	engine.Use(gin.Recovery())

	b := &Builder{
		logger: logging.NewNopLogger(),
		addr:   ":8080",
		engine: engine,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// UseLogger 设置日志记录器
func (b *Builder) UseLogger(logger logging.Logger) *Builder {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// UseAddr 设置监听地址，端口为 0 时随机分配
func (b *Builder) UseAddr(addr string) *Builder {
	b.addr = addr
	return b
}

// Use 使用全局中间件
func (b *Builder) Use(middleware ...gin.HandlerFunc) *Builder {
	b.engine.Use(middleware...)
	return b
}

// AddControllers 注册控制器，路由在 Build 时挂载
func (b *Builder) AddControllers(controllers ...Controller) *Builder {
	b.controllers = append(b.controllers, controllers...)
	return b
}

// Engine 获取 Gin 引擎（用于高级定制）
func (b *Builder) Engine() *gin.Engine {
	return b.engine
}

// Build 挂载控制器路由并构建 Web 主机
func (b *Builder) Build() *Host {
	controllers := slices.Clone(b.controllers)
	for _, m := range b.inspectors {
		controllers = append(controllers, m.controller(b.logger))
	}
	for _, ctrl := range controllers {
		ctrl.MountRoutes(b.engine)
		b.logger.Debug("Mapped controller routes", logging.Field{Key: "controller", Value: fmt.Sprintf("%T", ctrl)})
	}
	return &Host{
		addr:   b.addr,
		engine: b.engine,
		server: &http.Server{
			Addr:    b.addr,
			Handler: b.engine,
		},
		logger: b.logger,
		ready:  make(chan struct{}),
	}
}

// Host Web 主机
type Host struct {
	addr   string
	engine *gin.Engine
	server *http.Server
	logger logging.Logger
	ready  chan struct{}
}

// Handler 返回 HTTP 处理器，便于测试或嵌入其他服务
func (h *Host) Handler() http.Handler {
	return h.engine
}

// Ready 在监听成功后关闭
func (h *Host) Ready() <-chan struct{} {
	return h.ready
}

// Address 获取监听地址 (e.g., "[::]:50234")
// 仅在 Ready 之后有效
func (h *Host) Address() string {
	return h.server.Addr
}

// Start 启动 Web 主机
// 注意：此方法会阻塞，直到服务退出。
func (h *Host) Start(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", h.addr)
	if err != nil {
		return fmt.Errorf("web: failed to listen on %s: %w", h.addr, err)
	}

	// 更新 server 地址
	h.server.Addr = ln.Addr().String()
	close(h.ready)

	h.logger.Info("Web host started", logging.Field{Key: "address", Value: h.server.Addr})

	// Serve 会一直阻塞直到 Shutdown 被调用或发生错误
	if err := h.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		h.logger.Error("Web host error", logging.Field{Key: "error", Value: err.Error()})
		return err
	}
	return nil
}

// Stop 停止 Web 主机
func (h *Host) Stop(ctx context.Context) error {
	h.logger.Info("Stopping web host")

	if err := h.server.Shutdown(ctx); err != nil {
		h.logger.Error("Failed to shutdown web host gracefully",
			logging.Field{Key: "error", Value: err.Error()})
		return err
	}

	h.logger.Info("Web host stopped")
	return nil
}

// Attach 将 Stop 注册为应用上下文的关闭钩子
func (h *Host) Attach(lifecycle *core.LifecycleEvents) {
	lifecycle.OnClose(h.Stop)
}
