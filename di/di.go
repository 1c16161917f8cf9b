package di

import "fmt"

// ByTypeOf 返回可作为 T 使用的全部定义，按 (order, name) 排序。
func ByTypeOf[T any](reg *Registry) []*Definition {
	return reg.ByType(TypeOf[T]())
}

// UniqueOf 返回 T 类型的唯一定义。
func UniqueOf[T any](reg *Registry) (*Definition, error) {
	return reg.UniqueByType(TypeOf[T]())
}

// ByNameOf 按名称查找定义并校验其可作为 T 使用。
func ByNameOf[T any](reg *Registry, name string) (*Definition, error) {
	return reg.ByName(name, TypeOf[T]())
}

// InstanceOf 返回定义中已设置的实例。
//
// 示例：
//
//	def, _ := di.UniqueOf[*UserService](registry)
//	svc, err := di.InstanceOf[*UserService](def)
func InstanceOf[T any](def *Definition) (T, error) {
	var zero T
	if def == nil {
		return zero, fmt.Errorf("di: no definition for %v", TypeOf[T]())
	}
	v, err := def.RequiredInstance()
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, &TypeMismatchError{Name: def.Name, Required: TypeOf[T](), Actual: def.Type}
	}
	return t, nil
}
