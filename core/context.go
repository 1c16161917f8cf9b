package core

import (
	"context"
	"fmt"
	"reflect"
	"sync/atomic"

	"go.uber.org/multierr"

	"github.com/gocrud/ioc/config"
	"github.com/gocrud/ioc/di"
	"github.com/gocrud/ioc/logging"
	"github.com/gocrud/ioc/meta"
)

// Catalog 同时提供候选枚举和声明查找，*di.Catalog 实现了该接口
type Catalog interface {
	di.Enumerator
	di.Lookup
}

// ApplicationContext 从根配置类型出发扫描候选声明，构建并持有封存的定义注册表和属性解析器。
//
// 示例：
//
//	catalog := di.NewCatalog().MustAdd(
//		di.Declare[*AppConfig](di.Tagged(meta.New(meta.Configuration), meta.New(meta.ComponentScan, "example.com/app"))),
//		di.Declare[*UserService](di.Tagged(meta.New(meta.Component))),
//	)
//	ctx, err := core.NewApplicationContext(di.QualifiedName[*AppConfig](), catalog, props)
type ApplicationContext struct {
	registry   *di.Registry
	properties *config.PropertyResolver
	logger     logging.Logger
	lifecycle  *LifecycleEvents
	closed     atomic.Bool
}

// NewApplicationContext 创建应用上下文。
//
// 扫描的包为根类型上 @ComponentScan 的值，没有时为根类型所在的包；
// 根类型上 @Import 的值作为额外候选合并进来。
func NewApplicationContext(root string, catalog Catalog, props *config.PropertyResolver, opts ...Option) (*ApplicationContext, error) {
	o := &options{
		table:  meta.NewTable(),
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if props == nil {
		props = config.NewPropertyResolver(nil)
	}

	rootDecl, ok := catalog.Lookup(root)
	if !ok {
		return nil, &di.DefinitionError{Message: fmt.Sprintf("cannot find root declaration '%s'", root)}
	}

	packages, err := scanPackages(o.table, rootDecl)
	if err != nil {
		return nil, err
	}
	o.logger.Info("component scan", logging.Field{Key: "packages", Value: packages})

	var candidates []string
	for _, pkg := range packages {
		names := catalog.Enumerate(pkg)
		for _, name := range names {
			o.logger.Debug("found by component scan", logging.Field{Key: "type", Value: name})
		}
		candidates = append(candidates, names...)
	}

	var imports []string
	if tag, ok := meta.Direct(rootDecl.Tags, meta.Import); ok {
		imports = tag.Values
	}

	builder := di.NewBuilder(o.table, catalog,
		di.WithLogger(o.logger.WithCategory("di")),
		di.WithCapabilities(o.capabilities...))
	registry, err := builder.Build(candidates, imports...)
	if err != nil {
		return nil, err
	}

	return &ApplicationContext{
		registry:   registry,
		properties: props,
		logger:     o.logger,
		lifecycle:  NewLifecycle(),
	}, nil
}

func scanPackages(table *meta.Table, root *di.TypeDecl) ([]string, error) {
	tag, ok, err := table.Find(root, meta.ComponentScan)
	if err != nil {
		return nil, &di.DefinitionError{Message: fmt.Sprintf("cannot resolve @ComponentScan on %s", root.Name()), Err: err}
	}
	if !ok || len(tag.Values) == 0 {
		return []string{root.Package()}, nil
	}
	return tag.Values, nil
}

// Registry 返回定义注册表
func (c *ApplicationContext) Registry() *di.Registry {
	return c.registry
}

// Properties 返回属性解析器
func (c *ApplicationContext) Properties() *config.PropertyResolver {
	return c.properties
}

// Lifecycle 返回生命周期管理器，可以注册额外的关闭钩子
func (c *ApplicationContext) Lifecycle() *LifecycleEvents {
	return c.lifecycle
}

// FindDefinition 按名称查找，required 为 nil 时不检查类型
func (c *ApplicationContext) FindDefinition(name string, required reflect.Type) (*di.Definition, error) {
	return c.registry.ByName(name, required)
}

// FindDefinitions 按类型查找全部定义
func (c *ApplicationContext) FindDefinitions(t reflect.Type) []*di.Definition {
	return c.registry.ByType(t)
}

// FindUniqueDefinition 按类型查找唯一定义
func (c *ApplicationContext) FindUniqueDefinition(t reflect.Type) (*di.Definition, error) {
	return c.registry.UniqueByType(t)
}

// Close 按创建顺序的倒序调用已实例化定义的销毁回调，再执行关闭钩子。
// 失败不会中断后续回调，所有错误合并返回。重复调用无效果。
func (c *ApplicationContext) Close(ctx context.Context) error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	var err error
	order := c.registry.CreationOrder()
	for i := len(order) - 1; i >= 0; i-- {
		def := order[i]
		if _, ok := def.Instance(); !ok {
			continue
		}
		if destroyErr := di.InvokeDestroy(def); destroyErr != nil {
			c.logger.Error("destroy failed",
				logging.Field{Key: "name", Value: def.Name},
				logging.Field{Key: "error", Value: destroyErr.Error()})
			err = multierr.Append(err, destroyErr)
		}
	}
	err = multierr.Append(err, c.lifecycle.Close(ctx))

	c.logger.Info("application context closed", logging.Field{Key: "definitions", Value: c.registry.Len()})
	return err
}
