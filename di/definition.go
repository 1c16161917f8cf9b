package di

import (
	"cmp"
	"fmt"
	"math"
	"reflect"
	"sync"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// DefaultOrder 是未指定 @Order 时的排序值。
const DefaultOrder = math.MaxInt

// Callable 是一个已解析的可调用引用（构造函数、工厂方法或生命周期方法）。
type Callable struct {
	Name string
	Fn   reflect.Value
}

// IsZero 报告 Callable 是否未解析。
func (c Callable) IsZero() bool {
	return !c.Fn.IsValid()
}

// Call 调用函数，检查 error 返回值和 nil 实例。
// 没有非 error 返回值时结果为 nil。
func (c Callable) Call(args ...reflect.Value) (any, error) {
	if c.IsZero() {
		return nil, fmt.Errorf("di: callable %s is not resolved", c.Name)
	}
	results := c.Fn.Call(args)
	if len(results) == 0 {
		return nil, nil
	}

	last := results[len(results)-1]
	if last.Type() == errorType {
		if !last.IsNil() {
			return nil, fmt.Errorf("di: %s failed: %w", c.Name, last.Interface().(error))
		}
		results = results[:len(results)-1]
	}
	if len(results) == 0 {
		return nil, nil
	}

	first := results[0]
	switch first.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if first.IsNil() {
			return nil, fmt.Errorf("di: %s returned nil instance", c.Name)
		}
	}
	return first.Interface(), nil
}

// Creation 描述定义的创建方式：*DirectConstruction 或 *FactoryConstruction。
type Creation interface {
	creation()
}

// DirectConstruction 通过构造函数直接创建。
type DirectConstruction struct {
	Constructor Callable
}

// FactoryConstruction 通过另一个定义（配置类）上的工厂方法创建。
type FactoryConstruction struct {
	FactoryDefinition string
	Method            Callable
}

func (*DirectConstruction) creation()  {}
func (*FactoryConstruction) creation() {}

// Hook 是生命周期回调：未设置、已解析的方法，或延迟到调用时才解析的方法名。
type Hook struct {
	Method Callable
	Name   string
}

func (h Hook) IsZero() bool {
	return h.Method.IsZero() && h.Name == ""
}

// Deferred 报告该回调是否只记录了方法名。
func (h Hook) Deferred() bool {
	return h.Method.IsZero() && h.Name != ""
}

// Definition 描述一个组件如何被创建和管理。
// 除实例外，构建完成后定义不再变化。
type Definition struct {
	Name        string
	Type        reflect.Type
	Creation    Creation
	Order       int
	Primary     bool
	InitHook    Hook
	DestroyHook Hook

	capabilities map[reflect.Type]struct{}

	mu       sync.RWMutex
	instance any
	set      bool
}

// NewDefinition 创建定义。Order 默认为 DefaultOrder，caps 中的类型会被加入能力集合。
func NewDefinition(name string, typ reflect.Type, creation Creation, caps ...reflect.Type) *Definition {
	def := &Definition{
		Name:         name,
		Type:         typ,
		Creation:     creation,
		Order:        DefaultOrder,
		capabilities: map[reflect.Type]struct{}{typ: {}},
	}
	for _, c := range caps {
		def.capabilities[c] = struct{}{}
	}
	return def
}

// Implements 报告该定义是否可以作为 t 类型使用。
func (d *Definition) Implements(t reflect.Type) bool {
	_, ok := d.capabilities[t]
	return ok
}

// Capabilities 返回能力集合（无序）。
func (d *Definition) Capabilities() []reflect.Type {
	caps := make([]reflect.Type, 0, len(d.capabilities))
	for t := range d.capabilities {
		caps = append(caps, t)
	}
	return caps
}

// IsFactory 报告定义是否由工厂方法创建。
func (d *Definition) IsFactory() bool {
	_, ok := d.Creation.(*FactoryConstruction)
	return ok
}

// FactoryName 返回工厂定义名，直接构造的定义返回空字符串。
func (d *Definition) FactoryName() string {
	if fc, ok := d.Creation.(*FactoryConstruction); ok {
		return fc.FactoryDefinition
	}
	return ""
}

// SetInstance 设置创建好的实例，只能设置一次。
func (d *Definition) SetInstance(v any) error {
	if v == nil {
		return fmt.Errorf("di: nil instance for definition '%s'", d.Name)
	}
	if actual := reflect.TypeOf(v); !actual.AssignableTo(d.Type) {
		return &TypeMismatchError{Name: d.Name, Required: d.Type, Actual: actual}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.set {
		return fmt.Errorf("%w: '%s'", ErrInstanceAlreadySet, d.Name)
	}
	d.instance = v
	d.set = true
	return nil
}

// Instance 返回实例以及是否已设置。
func (d *Definition) Instance() (any, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.instance, d.set
}

// RequiredInstance 返回实例，未设置时返回错误。
func (d *Definition) RequiredInstance() (any, error) {
	v, ok := d.Instance()
	if !ok {
		return nil, fmt.Errorf("di: definition '%s' has no instance yet", d.Name)
	}
	return v, nil
}

func (d *Definition) String() string {
	if fc, ok := d.Creation.(*FactoryConstruction); ok {
		return fmt.Sprintf("%s (%v) from %s.%s", d.Name, d.Type, fc.FactoryDefinition, fc.Method.Name)
	}
	return fmt.Sprintf("%s (%v)", d.Name, d.Type)
}

// compareDefinitions 按 (order, name) 排序。
func compareDefinitions(a, b *Definition) int {
	return cmp.Or(cmp.Compare(a.Order, b.Order), cmp.Compare(a.Name, b.Name))
}

