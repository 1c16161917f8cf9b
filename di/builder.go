package di

import (
	"fmt"
	"go/token"
	"reflect"
	"slices"
	"strconv"

	"github.com/gocrud/ioc/logging"
	"github.com/gocrud/ioc/meta"
)

// Builder 将候选类型声明转换为组件定义。
type Builder struct {
	table        *meta.Table
	decls        Lookup
	logger       logging.Logger
	capabilities []reflect.Type
}

// NewBuilder 创建定义构建器。
func NewBuilder(table *meta.Table, decls Lookup, opts ...BuilderOption) *Builder {
	b := &Builder{
		table:  table,
		decls:  decls,
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build 处理候选类型（以及额外导入的类型）并返回封存的注册表。
// 任何错误都会中止构建，不返回部分结果。
func (b *Builder) Build(candidates []string, imports ...string) (*Registry, error) {
	names := b.merge(candidates, imports)

	decls := make([]*TypeDecl, 0, len(names))
	caps := slices.Clone(b.capabilities)
	for _, name := range names {
		decl, ok := b.decls.Lookup(name)
		if !ok {
			return nil, definitionErrorf("cannot find declaration '%s'", name)
		}
		if decl.Type.Kind() == reflect.Interface && !slices.Contains(caps, decl.Type) {
			caps = append(caps, decl.Type)
		}
		decls = append(decls, decl)
	}

	reg := NewRegistry(b.logger)
	for _, decl := range decls {
		if err := b.define(reg, decl, caps); err != nil {
			return nil, err
		}
	}
	if err := reg.Seal(); err != nil {
		return nil, err
	}
	b.logger.Info("definitions built", logging.Field{Key: "count", Value: reg.Len()})
	return reg, nil
}

// merge 去重并排序候选名，重复的导入只记录警告。
func (b *Builder) merge(candidates, imports []string) []string {
	seen := make(map[string]bool, len(candidates)+len(imports))
	names := make([]string, 0, len(candidates)+len(imports))
	for _, name := range candidates {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, name := range imports {
		if seen[name] {
			b.logger.Warn("import already scanned, skipped", logging.Field{Key: "type", Value: name})
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (b *Builder) define(reg *Registry, decl *TypeDecl, caps []reflect.Type) error {
	if b.skip(decl) {
		return nil
	}

	_, isComponent, err := b.table.Find(decl, meta.Component)
	if err != nil {
		return &DefinitionError{Message: fmt.Sprintf("cannot resolve @Component on %s", decl.Name()), Err: err}
	}
	if !isComponent {
		return nil
	}
	b.logger.Debug("found component", logging.Field{Key: "type", Value: decl.Name()})

	if decl.Abstract {
		return definitionErrorf("@Component type %s must not be abstract", decl.Name())
	}
	if !token.IsExported(decl.SimpleName()) {
		return definitionErrorf("@Component type %s must not be private", decl.Name())
	}

	name, err := typeName(b.table, decl)
	if err != nil {
		return &DefinitionError{Message: fmt.Sprintf("cannot derive name of %s", decl.Name()), Err: err}
	}
	ctor, err := suitableConstructor(decl)
	if err != nil {
		return err
	}
	order, err := orderOf(decl.Tags, decl.Name())
	if err != nil {
		return err
	}

	def := NewDefinition(name, decl.Type, &DirectConstruction{Constructor: ctor}, capabilitiesOf(decl.Type, caps)...)
	def.Order = order
	def.Primary = meta.Present(decl.Tags, meta.Primary)
	if def.InitHook, err = lifecycleMethod(decl, meta.PostConstruct); err != nil {
		return err
	}
	if def.DestroyHook, err = lifecycleMethod(decl, meta.PreDestroy); err != nil {
		return err
	}
	if err := reg.Register(def); err != nil {
		return err
	}

	isConfig, err := b.table.Has(decl, meta.Configuration)
	if err != nil {
		return &DefinitionError{Message: fmt.Sprintf("cannot resolve @Configuration on %s", decl.Name()), Err: err}
	}
	if isConfig {
		return b.scanFactoryMethods(reg, name, decl, caps)
	}
	return nil
}

// skip 跳过标签类型、枚举和纯接口。命名的整数或字符串类型一律视为枚举，即使带有 @Component。
func (b *Builder) skip(decl *TypeDecl) bool {
	var reason string
	switch t := decl.Type; {
	case t.Kind() == reflect.Interface:
		reason = "interface"
	case b.table.IsTagType(t):
		reason = "tag type"
	case isEnum(t):
		reason = "enum"
	default:
		return false
	}
	b.logger.Debug("declaration skipped",
		logging.Field{Key: "type", Value: decl.Name()},
		logging.Field{Key: "reason", Value: reason})
	return true
}

func isEnum(t reflect.Type) bool {
	if t.Name() == "" || t.PkgPath() == "" {
		return false
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.String:
		return true
	}
	return false
}

// isPrimitive 报告 t 是否为未命名的内置布尔或数值类型。
func isPrimitive(t reflect.Type) bool {
	if t.PkgPath() != "" {
		return false
	}
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}

// suitableConstructor 选择唯一的公开构造函数；没有公开构造函数时，仅当声明了唯一一个构造函数才使用它。
// 没有声明任何构造函数的结构体类型使用零值构造。
func suitableConstructor(decl *TypeDecl) (Callable, error) {
	ctors := decl.Constructors
	if len(ctors) == 0 {
		return implicitConstructor(decl)
	}

	var public []Constructor
	for _, c := range ctors {
		if token.IsExported(c.Name) {
			public = append(public, c)
		}
	}

	var chosen Constructor
	switch {
	case len(public) == 1:
		chosen = public[0]
	case len(public) > 1:
		return Callable{}, definitionErrorf("more than one public constructor found in type %s", decl.Name())
	case len(ctors) == 1:
		chosen = ctors[0]
	default:
		return Callable{}, definitionErrorf("more than one constructor found in type %s", decl.Name())
	}

	fn := reflect.ValueOf(chosen.Fn)
	if fn.Kind() != reflect.Func || fn.IsNil() {
		return Callable{}, definitionErrorf("constructor %s of %s is not a function", chosen.Name, decl.Name())
	}
	ft := fn.Type()
	if ft.NumOut() == 0 || !ft.Out(0).AssignableTo(decl.Type) {
		return Callable{}, definitionErrorf("constructor %s must return %v", chosen.Name, decl.Type)
	}
	if ft.NumOut() > 2 || (ft.NumOut() == 2 && ft.Out(1) != errorType) {
		return Callable{}, definitionErrorf("constructor %s must return (%v) or (%v, error)", chosen.Name, decl.Type, decl.Type)
	}
	return Callable{Name: chosen.Name, Fn: fn}, nil
}

func implicitConstructor(decl *TypeDecl) (Callable, error) {
	t := decl.Type
	var zero func() reflect.Value
	switch {
	case t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct:
		zero = func() reflect.Value { return reflect.New(t.Elem()) }
	case t.Kind() == reflect.Struct:
		zero = func() reflect.Value { return reflect.New(t).Elem() }
	default:
		return Callable{}, definitionErrorf("no constructor declared for non-struct type %s", decl.Name())
	}

	fn := reflect.MakeFunc(reflect.FuncOf(nil, []reflect.Type{t}, false), func([]reflect.Value) []reflect.Value {
		return []reflect.Value{zero()}
	})
	return Callable{Name: "new(" + decl.SimpleName() + ")", Fn: fn}, nil
}

func orderOf(tags []meta.Tag, owner string) (int, error) {
	tag, ok := meta.Direct(tags, meta.Order)
	if !ok {
		return DefaultOrder, nil
	}
	order, err := strconv.Atoi(tag.Value())
	if err != nil {
		return 0, &DefinitionError{Message: fmt.Sprintf("invalid @Order value on %s", owner), Err: err}
	}
	return order, nil
}

// lifecycleMethod 在类型自身声明的方法中查找带 kind 标签的无参方法，最多一个。
func lifecycleMethod(decl *TypeDecl, kind meta.Kind) (Hook, error) {
	var found *MethodDecl
	for i := range decl.Methods {
		if !meta.Present(decl.Methods[i].Tags, kind) {
			continue
		}
		if found != nil {
			return Hook{}, definitionErrorf("multiple methods with @%s found in type %s", kind.SimpleName(), decl.Name())
		}
		found = &decl.Methods[i]
	}
	if found == nil {
		return Hook{}, nil
	}

	m, ok := decl.Type.MethodByName(found.Name)
	if !ok {
		return Hook{}, definitionErrorf("@%s method %s.%s is not reachable", kind.SimpleName(), decl.Name(), found.Name)
	}
	// 第一个参数是接收者
	if m.Type.NumIn() != 1 {
		return Hook{}, definitionErrorf("@%s method %s.%s must not have parameters", kind.SimpleName(), decl.Name(), found.Name)
	}
	return Hook{Method: Callable{Name: found.Name, Fn: m.Func}, Name: found.Name}, nil
}

// scanFactoryMethods 为配置类型上带 @Bean 的方法创建工厂定义。
func (b *Builder) scanFactoryMethods(reg *Registry, factory string, decl *TypeDecl, caps []reflect.Type) error {
	for _, md := range decl.Methods {
		bean, ok := meta.Direct(md.Tags, meta.Bean)
		if !ok {
			continue
		}
		where := decl.Name() + "." + md.Name

		switch {
		case md.Abstract:
			return definitionErrorf("@Bean method %s must not be abstract", where)
		case md.Final:
			return definitionErrorf("@Bean method %s must not be final", where)
		case !token.IsExported(md.Name):
			return definitionErrorf("@Bean method %s must not be private", where)
		}

		m, ok := decl.Type.MethodByName(md.Name)
		if !ok {
			return definitionErrorf("@Bean method %s is not defined on %v", where, decl.Type)
		}
		out, err := factoryResult(m.Type, where)
		if err != nil {
			return err
		}
		order, err := orderOf(md.Tags, where)
		if err != nil {
			return err
		}

		def := NewDefinition(methodName(md), out, &FactoryConstruction{
			FactoryDefinition: factory,
			Method:            Callable{Name: md.Name, Fn: m.Func},
		}, capabilitiesOf(out, caps)...)
		def.Order = order
		def.Primary = meta.Present(md.Tags, meta.Primary)
		if init := bean.Attr(meta.AttrInitMethod); init != "" {
			def.InitHook = Hook{Name: init}
		}
		if destroy := bean.Attr(meta.AttrDestroyMethod); destroy != "" {
			def.DestroyHook = Hook{Name: destroy}
		}
		if err := reg.Register(def); err != nil {
			return err
		}
		b.logger.Debug("found factory method", logging.Field{Key: "method", Value: where}, logging.Field{Key: "name", Value: def.Name})
	}
	return nil
}

// factoryResult 返回工厂方法创建的类型：第一个非 error 的返回值。
func factoryResult(mt reflect.Type, where string) (reflect.Type, error) {
	if mt.NumOut() == 0 || mt.Out(0) == errorType {
		return nil, definitionErrorf("@Bean method %s must not return void", where)
	}
	out := mt.Out(0)
	if isPrimitive(out) {
		return nil, definitionErrorf("@Bean method %s must not return a primitive type", where)
	}
	if mt.NumOut() > 2 || (mt.NumOut() == 2 && mt.Out(1) != errorType) {
		return nil, definitionErrorf("@Bean method %s must return (T) or (T, error)", where)
	}
	return out, nil
}

// capabilitiesOf 返回 t 实现的接口类型。
func capabilitiesOf(t reflect.Type, ifaces []reflect.Type) []reflect.Type {
	var caps []reflect.Type
	for _, iface := range ifaces {
		if iface != t && t.Implements(iface) {
			caps = append(caps, iface)
		}
	}
	return caps
}

