package meta

import "fmt"

// DuplicateTagError 表示同一个标签通过多条路径被解析到。
type DuplicateTagError struct {
	Target string
	Kind   Kind
}

func (e *DuplicateTagError) Error() string {
	return fmt.Sprintf("meta: duplicate @%s found on %s", e.Kind.SimpleName(), e.Target)
}

// InvalidTagError 表示标签类型在注册时不满足约束。
type InvalidTagError struct {
	Kind   Kind
	Reason string
}

func (e *InvalidTagError) Error() string {
	return fmt.Sprintf("meta: invalid tag type %s: %s", e.Kind, e.Reason)
}
