package config

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrCircularReference 表示占位符链再次引用了正在解析的键。
var ErrCircularReference = errors.New("config: circular property reference")

// PropertyNotFoundError 表示必需的属性不存在。
type PropertyNotFoundError struct {
	Key string
}

func (e *PropertyNotFoundError) Error() string {
	return fmt.Sprintf("config: property '%s' not found", e.Key)
}

// UnsupportedTypeError 表示没有为目标类型注册转换器。
type UnsupportedTypeError struct {
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("config: unsupported value type: %v", e.Type)
}

// ConversionError 表示属性值无法转换为目标类型。
type ConversionError struct {
	Key   string
	Value string
	Type  reflect.Type
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("config: cannot convert property '%s' value %q to %v: %v", e.Key, e.Value, e.Type, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }
