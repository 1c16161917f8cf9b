package meta

import "strings"

// Kind 标识一种元数据标签，格式为 "namespace.Name"。
type Kind string

// BuiltinNamespace 是语言层面的元标签命名空间，递归查找时会跳过。
const BuiltinNamespace = "lang"

// 内置标签
const (
	Component     Kind = "ioc.Component"
	Configuration Kind = "ioc.Configuration"
	Bean          Kind = "ioc.Bean"
	Primary       Kind = "ioc.Primary"
	Order         Kind = "ioc.Order"
	PostConstruct Kind = "ioc.PostConstruct"
	PreDestroy    Kind = "ioc.PreDestroy"
	ComponentScan Kind = "ioc.ComponentScan"
	Import        Kind = "ioc.Import"

	LangRetention  Kind = "lang.Retention"
	LangTarget     Kind = "lang.Target"
	LangDocumented Kind = "lang.Documented"
)

// Bean 标签的属性名
const (
	AttrInitMethod    = "initMethod"
	AttrDestroyMethod = "destroyMethod"
)

// Namespace 返回标签所属的命名空间。
func (k Kind) Namespace() string {
	if i := strings.LastIndex(string(k), "."); i >= 0 {
		return string(k[:i])
	}
	return ""
}

// SimpleName 返回不带命名空间的标签名。
func (k Kind) SimpleName() string {
	if i := strings.LastIndex(string(k), "."); i >= 0 {
		return string(k[i+1:])
	}
	return string(k)
}

// Tag 是附加在类型或方法上的一个标签实例。
type Tag struct {
	Kind   Kind
	Values []string
	Attrs  map[string]string
}

// New 创建标签实例。
//
// 示例：
//
//	meta.New(meta.Component)              // @Component
//	meta.New(meta.Component, "userSvc")   // @Component("userSvc")
//	meta.New(meta.ComponentScan, "a", "b") // @ComponentScan({"a", "b"})
func New(kind Kind, values ...string) Tag {
	return Tag{Kind: kind, Values: values}
}

// Value 返回第一个值，没有值时返回空字符串。
func (t Tag) Value() string {
	if len(t.Values) == 0 {
		return ""
	}
	return t.Values[0]
}

// Attr 返回命名属性的值。
func (t Tag) Attr(name string) string {
	return t.Attrs[name]
}

// With 返回设置了属性 name 的副本。
func (t Tag) With(name, value string) Tag {
	attrs := make(map[string]string, len(t.Attrs)+1)
	for k, v := range t.Attrs {
		attrs[k] = v
	}
	attrs[name] = value
	t.Attrs = attrs
	return t
}

// Direct 在 tags 中查找直接附加的 kind 标签。
func Direct(tags []Tag, kind Kind) (Tag, bool) {
	for _, tag := range tags {
		if tag.Kind == kind {
			return tag, true
		}
	}
	return Tag{}, false
}

// Present 报告 kind 是否直接附加在 tags 中。
func Present(tags []Tag, kind Kind) bool {
	_, ok := Direct(tags, kind)
	return ok
}

// Target 是可以携带标签的声明（类型、方法或标签类型本身）。
type Target interface {
	TagList() []Tag
	String() string
}
