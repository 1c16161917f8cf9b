package config

import (
	"fmt"
	"os"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/gocrud/ioc/logging"
)

// PropertyResolver 保存扁平的字符串属性，并解析 ${key} 和 ${key:default} 占位符。
//
// 环境变量先载入，随后是显式属性，后写入的同名键覆盖先前的值。
// 属性和转换器只通过构造和 RegisterConverter 修改。
type PropertyResolver struct {
	mu         sync.RWMutex
	properties map[string]string
	converters map[reflect.Type]Converter
	logger     logging.Logger
}

// NewPropertyResolver 创建属性解析器。
func NewPropertyResolver(props map[string]string, opts ...ResolverOption) *PropertyResolver {
	o := defaultResolverOptions()
	for _, opt := range opts {
		opt(o)
	}

	r := &PropertyResolver{
		properties: make(map[string]string, len(props)),
		converters: defaultConverters(),
		logger:     o.logger,
	}
	if o.useEnv {
		environ := o.environ
		if environ == nil {
			environ = os.Environ()
		}
		for _, kv := range environ {
			if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
				r.properties[k] = v
			}
		}
	}
	for k, v := range props {
		r.properties[k] = v
	}

	r.logger.Debug("property resolver created", logging.Field{Key: "count", Value: len(r.properties)})
	for _, k := range r.Keys() {
		r.logger.Trace("property", logging.Field{Key: "key", Value: k}, logging.Field{Key: "value", Value: r.properties[k]})
	}
	return r
}

// Contains 报告 key 是否直接存在于属性中（不解析占位符）。
func (r *PropertyResolver) Contains(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.properties[key]
	return ok
}

// Keys 返回全部属性键（已排序）。
func (r *PropertyResolver) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.properties))
	for k := range r.properties {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// RegisterConverter 注册类型转换器，覆盖同类型的内置转换器。
func (r *PropertyResolver) RegisterConverter(typ reflect.Type, conv Converter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.converters[typ] = conv
}

// Get 解析属性。
//
// key 本身是占位符时解析其中的键；否则直接查找，找到的值会再经过一次占位符解析，
// 例如 x=${y}。不存在时返回 ("", false, nil)。
func (r *PropertyResolver) Get(key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.get(key, make(map[string]bool))
}

// GetWithDefault 解析属性，不存在时解析并返回 def。
func (r *PropertyResolver) GetWithDefault(key, def string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.getWithDefault(key, def, make(map[string]bool))
}

// GetRequired 解析属性，不存在时返回 *PropertyNotFoundError。
func (r *PropertyResolver) GetRequired(key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.required(key, make(map[string]bool))
}

// GetAs 解析属性并转换为 typ 类型。不存在时返回 (nil, false, nil)。
func (r *PropertyResolver) GetAs(key string, typ reflect.Type) (any, bool, error) {
	value, ok, err := r.Get(key)
	if err != nil || !ok {
		return nil, false, err
	}
	v, err := r.convert(key, value, typ)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// GetAsWithDefault 与 GetAs 相同，不存在时返回 def。
func (r *PropertyResolver) GetAsWithDefault(key string, typ reflect.Type, def any) (any, error) {
	v, ok, err := r.GetAs(key, typ)
	if err != nil {
		return nil, err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

// GetRequiredAs 与 GetAs 相同，不存在时返回 *PropertyNotFoundError。
func (r *PropertyResolver) GetRequiredAs(key string, typ reflect.Type) (any, error) {
	v, ok, err := r.GetAs(key, typ)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &PropertyNotFoundError{Key: key}
	}
	return v, nil
}

func (r *PropertyResolver) get(key string, visiting map[string]bool) (string, bool, error) {
	if expr, ok := parseExpr(key); ok {
		v, err := r.resolveExpr(expr, visiting)
		return v, err == nil, err
	}

	value, ok := r.properties[key]
	if !ok {
		return "", false, nil
	}
	if visiting[key] {
		return "", false, fmt.Errorf("%w: '%s'", ErrCircularReference, key)
	}
	visiting[key] = true
	defer delete(visiting, key)

	v, err := r.parseValue(value, visiting)
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *PropertyResolver) getWithDefault(key, def string, visiting map[string]bool) (string, error) {
	v, ok, err := r.get(key, visiting)
	if err != nil {
		return "", err
	}
	if ok {
		return v, nil
	}
	return r.parseValue(def, visiting)
}

func (r *PropertyResolver) required(key string, visiting map[string]bool) (string, error) {
	v, ok, err := r.get(key, visiting)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", &PropertyNotFoundError{Key: key}
	}
	return v, nil
}

// parseValue 对值做占位符解析，不是占位符时原样返回。
func (r *PropertyResolver) parseValue(value string, visiting map[string]bool) (string, error) {
	expr, ok := parseExpr(value)
	if !ok {
		return value, nil
	}
	return r.resolveExpr(expr, visiting)
}

func (r *PropertyResolver) resolveExpr(expr propertyExpr, visiting map[string]bool) (string, error) {
	if expr.hasDefault {
		return r.getWithDefault(expr.key, expr.defaultVal, visiting)
	}
	return r.required(expr.key, visiting)
}

func (r *PropertyResolver) convert(key, value string, typ reflect.Type) (any, error) {
	r.mu.RLock()
	conv, ok := r.converters[typ]
	r.mu.RUnlock()
	if !ok {
		return nil, &UnsupportedTypeError{Type: typ}
	}
	v, err := conv(value)
	if err != nil {
		return nil, &ConversionError{Key: key, Value: value, Type: typ, Err: err}
	}
	return v, nil
}

// As 解析属性并转换为 T。
//
// 示例：
//
//	port, ok, err := config.As[int](resolver, "${server.port:8080}")
func As[T any](r *PropertyResolver, key string) (T, bool, error) {
	var zero T
	v, ok, err := r.GetAs(key, reflect.TypeFor[T]())
	if err != nil || !ok {
		return zero, ok, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, false, fmt.Errorf("config: converter for %v returned %T", reflect.TypeFor[T](), v)
	}
	return t, true, nil
}

// RequiredAs 解析必需的属性并转换为 T。
func RequiredAs[T any](r *PropertyResolver, key string) (T, error) {
	var zero T
	v, err := r.GetRequiredAs(key, reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("config: converter for %v returned %T", reflect.TypeFor[T](), v)
	}
	return t, nil
}
