package di

import (
	"fmt"
	"reflect"
)

// Ref 是带类型的定义名引用，用于按名称取得定义时同时校验类型。
//
// 示例：
//
//	var PrimaryZone = di.NewRef[*time.Location]("utcZone")
//
//	def, err := PrimaryZone.Lookup(registry)
type Ref[T any] struct {
	name string
	typ  reflect.Type
}

// NewRef 创建一个新的 Ref。
func NewRef[T any](name string) *Ref[T] {
	return &Ref[T]{
		name: name,
		typ:  TypeOf[T](),
	}
}

// Name 返回定义名
func (r *Ref[T]) Name() string {
	return r.name
}

// Type 返回要求的类型
func (r *Ref[T]) Type() reflect.Type {
	return r.typ
}

func (r *Ref[T]) String() string {
	return fmt.Sprintf("Ref[%s](%s)", r.typ, r.name)
}

// Lookup 在注册表中按名称查找并校验类型，不存在时返回 (nil, nil)。
func (r *Ref[T]) Lookup(reg *Registry) (*Definition, error) {
	return reg.ByName(r.name, r.typ)
}

// TypeOf 获取类型 T 的 reflect.Type（泛型辅助函数）
//
// 示例：
//
//	userServiceType := di.TypeOf[*UserService]()
//	defs := registry.ByType(userServiceType)
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
