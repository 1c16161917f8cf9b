package di

import (
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/gocrud/ioc/logging"
)

// Registry 按名称保存组件定义，构建完成后封存为只读。
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]*Definition
	sealed      atomic.Bool
	order       []string

	logger logging.Logger
}

// NewRegistry 创建空注册表。
func NewRegistry(logger logging.Logger) *Registry {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Registry{
		definitions: make(map[string]*Definition),
		logger:      logger,
	}
}

// Register 按唯一名称注册定义。
func (r *Registry) Register(def *Definition) error {
	if r.sealed.Load() {
		return definitionErrorf("cannot register '%s' after the registry is sealed", def.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.definitions[def.Name]; exists {
		return definitionErrorf("duplicate bean name '%s' is not allowed", def.Name)
	}
	r.definitions[def.Name] = def
	r.logger.Debug("definition registered",
		logging.Field{Key: "name", Value: def.Name},
		logging.Field{Key: "type", Value: def.Type.String()},
		logging.Field{Key: "factory", Value: def.IsFactory()})
	return nil
}

// Seal 校验工厂引用并计算创建顺序，之后注册表不可再修改。
func (r *Registry) Seal() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed.Load() {
		return nil
	}
	order, err := newGraphBuilder(r.definitions).buildOrder()
	if err != nil {
		return err
	}
	r.order = order
	r.sealed.Store(true)
	return nil
}

// Sealed 报告注册表是否已封存。
func (r *Registry) Sealed() bool {
	return r.sealed.Load()
}

// ByName 按名称查找定义。不存在时返回 (nil, nil)；
// required 非 nil 且不在定义的能力集合中时返回 *TypeMismatchError，与 ByType 的匹配规则一致。
func (r *Registry) ByName(name string, required reflect.Type) (*Definition, error) {
	def, ok := r.Lookup(name)
	if !ok {
		return nil, nil
	}
	if required != nil && !def.Implements(required) {
		return nil, &TypeMismatchError{Name: name, Required: required, Actual: def.Type}
	}
	return def, nil
}

// Lookup 按名称查找定义，不做类型检查。
func (r *Registry) Lookup(name string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[name]
	return def, ok
}

// ByType 返回所有可以作为 t 使用的定义，按 (order, name) 排序。
func (r *Registry) ByType(t reflect.Type) []*Definition {
	r.mu.RLock()
	var matches []*Definition
	for _, def := range r.definitions {
		if def.Implements(t) {
			matches = append(matches, def)
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(matches, compareDefinitions)
	return matches
}

// UniqueByType 返回 t 类型的唯一定义。
// 没有匹配时返回 (nil, nil)；多个匹配时取唯一的 primary，否则返回 *AmbiguousDefinitionError。
func (r *Registry) UniqueByType(t reflect.Type) (*Definition, error) {
	matches := r.ByType(t)
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	}

	var primary *Definition
	for _, def := range matches {
		if !def.Primary {
			continue
		}
		if primary != nil {
			return nil, &AmbiguousDefinitionError{Type: t, MultiplePrimary: true}
		}
		primary = def
	}
	if primary == nil {
		return nil, &AmbiguousDefinitionError{Type: t}
	}
	return primary, nil
}

// All 返回所有定义，按 (order, name) 排序。
func (r *Registry) All() []*Definition {
	r.mu.RLock()
	defs := make([]*Definition, 0, len(r.definitions))
	for _, def := range r.definitions {
		defs = append(defs, def)
	}
	r.mu.RUnlock()

	slices.SortFunc(defs, compareDefinitions)
	return defs
}

// Names 返回所有定义名（已排序）。
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.definitions))
	for name := range r.definitions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.definitions)
}

// CreationOrder 返回创建顺序：工厂定义总是排在其产物之前。未封存时返回 nil。
func (r *Registry) CreationOrder() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.order == nil {
		return nil
	}
	defs := make([]*Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.definitions[name])
	}
	return defs
}
