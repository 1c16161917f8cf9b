package core

import (
	"context"
	"sync"

	"go.uber.org/multierr"
)

// LifecycleEvents 管理上下文关闭时的回调
type LifecycleEvents struct {
	mu      sync.Mutex
	onClose []func(context.Context) error
}

// NewLifecycle 创建新的生命周期管理器
func NewLifecycle() *LifecycleEvents {
	return &LifecycleEvents{
		onClose: make([]func(context.Context) error, 0),
	}
}

// OnClose 注册关闭钩子
func (l *LifecycleEvents) OnClose(fn func(context.Context) error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onClose = append(l.onClose, fn)
}

// Close 倒序执行关闭钩子，单个钩子失败不会中断其余钩子，错误合并返回
func (l *LifecycleEvents) Close(ctx context.Context) error {
	l.mu.Lock()
	hooks := l.onClose
	l.onClose = nil
	l.mu.Unlock()

	var err error
	for i := len(hooks) - 1; i >= 0; i-- {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return multierr.Append(err, ctxErr)
		}
		err = multierr.Append(err, hooks[i](ctx))
	}
	return err
}
