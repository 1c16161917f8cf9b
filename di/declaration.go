package di

import (
	"reflect"

	"github.com/gocrud/ioc/meta"
)

// Constructor 描述一个用于创建组件的构造函数。
// 可见性遵循 Go 的导出规则：Name 首字母大写即为公开。
type Constructor struct {
	Name string
	Fn   any
}

// MethodDecl 描述组件类型上自身声明的方法（不含嵌入类型提升的方法）。
type MethodDecl struct {
	Name     string
	Tags     []meta.Tag
	Abstract bool
	Final    bool
}

func (m MethodDecl) TagList() []meta.Tag { return m.Tags }

func (m MethodDecl) String() string { return m.Name }

// TypeDecl 是一个候选类型声明：Go 类型、附加的标签、构造函数和方法。
type TypeDecl struct {
	Type         reflect.Type
	Tags         []meta.Tag
	Abstract     bool
	Constructors []Constructor
	Methods      []MethodDecl
}

// DeclOption 配置类型声明。
type DeclOption func(*TypeDecl)

// Declare 声明类型 T。
//
// 示例：
//
//	di.Declare[*UserService](
//		di.Tagged(meta.New(meta.Component)),
//		di.WithConstructor("NewUserService", NewUserService),
//		di.WithMethod("Init", meta.New(meta.PostConstruct)),
//	)
func Declare[T any](opts ...DeclOption) *TypeDecl {
	return DeclareType(TypeOf[T](), opts...)
}

// DeclareType 声明给定的 reflect.Type。
func DeclareType(typ reflect.Type, opts ...DeclOption) *TypeDecl {
	decl := &TypeDecl{Type: typ}
	for _, opt := range opts {
		opt(decl)
	}
	return decl
}

// Tagged 附加类型级标签。
func Tagged(tags ...meta.Tag) DeclOption {
	return func(d *TypeDecl) {
		d.Tags = append(d.Tags, tags...)
	}
}

// WithConstructor 添加一个构造函数。
func WithConstructor(name string, fn any) DeclOption {
	return func(d *TypeDecl) {
		d.Constructors = append(d.Constructors, Constructor{Name: name, Fn: fn})
	}
}

// WithMethod 声明一个带标签的方法。
func WithMethod(name string, tags ...meta.Tag) DeclOption {
	return WithMethodDecl(MethodDecl{Name: name, Tags: tags})
}

// WithMethodDecl 添加完整的方法声明。
func WithMethodDecl(m MethodDecl) DeclOption {
	return func(d *TypeDecl) {
		d.Methods = append(d.Methods, m)
	}
}

// Abstract 将类型标记为抽象（不可直接实例化）。
func Abstract() DeclOption {
	return func(d *TypeDecl) {
		d.Abstract = true
	}
}

func (d *TypeDecl) TagList() []meta.Tag { return d.Tags }

func (d *TypeDecl) String() string { return d.Name() }

// Name 返回完全限定名 "<pkgpath>.<TypeName>"，指针类型使用其元素类型。
func (d *TypeDecl) Name() string {
	return qualifiedName(d.Type)
}

// Package 返回声明所在的包路径。
func (d *TypeDecl) Package() string {
	return baseType(d.Type).PkgPath()
}

// SimpleName 返回不带包路径的类型名。
func (d *TypeDecl) SimpleName() string {
	return baseType(d.Type).Name()
}

func baseType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}

func qualifiedName(t reflect.Type) string {
	base := baseType(t)
	if base.PkgPath() == "" || base.Name() == "" {
		return base.String()
	}
	return base.PkgPath() + "." + base.Name()
}

// QualifiedName 返回类型 T 在 Catalog 中的名称。
func QualifiedName[T any]() string {
	return qualifiedName(TypeOf[T]())
}
