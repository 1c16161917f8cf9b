package di

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrInstanceAlreadySet 表示定义的实例已经被设置过。
var ErrInstanceAlreadySet = errors.New("di: instance already set")

// DefinitionError 表示声明不合法：可见性、构造函数数量、重名、生命周期方法重复、工厂方法返回类型等。
type DefinitionError struct {
	Message string
	Err     error
}

func (e *DefinitionError) Error() string {
	if e.Err != nil {
		return "di: " + e.Message + ": " + e.Err.Error()
	}
	return "di: " + e.Message
}

func (e *DefinitionError) Unwrap() error { return e.Err }

func definitionErrorf(format string, args ...any) error {
	return &DefinitionError{Message: fmt.Sprintf(format, args...)}
}

// AmbiguousDefinitionError 表示按类型查找时无法确定唯一定义。
type AmbiguousDefinitionError struct {
	Type            reflect.Type
	MultiplePrimary bool
}

func (e *AmbiguousDefinitionError) Error() string {
	if e.MultiplePrimary {
		return fmt.Sprintf("di: multiple definitions with type '%v' found, and multiple primary specified", e.Type)
	}
	return fmt.Sprintf("di: multiple definitions with type '%v' found, but no primary specified", e.Type)
}

// TypeMismatchError 表示按名称查找到的定义与要求的类型不兼容。
type TypeMismatchError struct {
	Name     string
	Required reflect.Type
	Actual   reflect.Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("di: required type '%v' but definition '%s' has actual type '%v'", e.Required, e.Name, e.Actual)
}
