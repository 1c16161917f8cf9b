package meta

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// Namer 由参与组件命名的标签类型实现。
// 任何（直接或间接）携带 @Component 的自定义标签都必须提供 Namer。
type Namer interface {
	ComponentName(tag Tag) string
}

// NamerFunc 将普通函数适配为 Namer。
type NamerFunc func(tag Tag) string

func (f NamerFunc) ComponentName(tag Tag) string { return f(tag) }

// ValueNamer 使用标签的第一个值作为组件名。
var ValueNamer Namer = NamerFunc(func(tag Tag) string { return tag.Value() })

// TagType 是静态标签表中的一行：描述一种标签自身携带的标签以及它的属性模式。
type TagType struct {
	Kind Kind

	// Tags 是标签声明本身携带的元标签
	Tags []Tag

	// Attributes 是该标签允许的命名属性
	Attributes []string

	// Namer 用于从标签实例推导组件名
	Namer Namer

	// GoType 是与该标签对应的 Go 类型（可选），扫描时此类型会被跳过
	GoType reflect.Type
}

func (tt *TagType) TagList() []Tag { return tt.Tags }

func (tt *TagType) String() string { return "@" + string(tt.Kind) }

// Table 是标签类型的静态注册表。
type Table struct {
	mu      sync.RWMutex
	types   map[Kind]*TagType
	goTypes map[reflect.Type]Kind
}

// NewTable 创建包含内置标签的标签表。
func NewTable() *Table {
	t := &Table{
		types:   make(map[Kind]*TagType),
		goTypes: make(map[reflect.Type]Kind),
	}

	plumbing := []Tag{New(LangRetention), New(LangTarget), New(LangDocumented)}
	builtins := []TagType{
		{Kind: LangRetention},
		{Kind: LangTarget},
		{Kind: LangDocumented},
		{Kind: Component, Tags: plumbing, Namer: ValueNamer},
		{Kind: Configuration, Tags: append(slices.Clone(plumbing), New(Component)), Namer: ValueNamer},
		{Kind: Bean, Tags: plumbing, Attributes: []string{AttrInitMethod, AttrDestroyMethod}},
		{Kind: Primary, Tags: plumbing},
		{Kind: Order, Tags: plumbing},
		{Kind: PostConstruct, Tags: plumbing},
		{Kind: PreDestroy, Tags: plumbing},
		{Kind: ComponentScan, Tags: plumbing},
		{Kind: Import, Tags: plumbing},
	}
	for _, tt := range builtins {
		if err := t.Register(tt); err != nil {
			panic(fmt.Sprintf("meta: failed to register builtin %s: %v", tt.Kind, err))
		}
	}
	return t
}

// Register 注册一种标签类型。
// 元标签必须引用已注册的标签，因此标签图在构造上不可能成环。
func (t *Table) Register(tt TagType) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if tt.Kind == "" || tt.Kind.Namespace() == "" {
		return &InvalidTagError{Kind: tt.Kind, Reason: "kind must have the form namespace.Name"}
	}
	if _, exists := t.types[tt.Kind]; exists {
		return &InvalidTagError{Kind: tt.Kind, Reason: "already registered"}
	}
	if tt.GoType != nil {
		if other, exists := t.goTypes[tt.GoType]; exists {
			return &InvalidTagError{Kind: tt.Kind, Reason: fmt.Sprintf("go type %v already bound to %s", tt.GoType, other)}
		}
	}

	for _, tag := range tt.Tags {
		if tag.Kind == tt.Kind {
			return &InvalidTagError{Kind: tt.Kind, Reason: "tag must not carry itself"}
		}
		ref, ok := t.types[tag.Kind]
		if !ok {
			return &InvalidTagError{Kind: tt.Kind, Reason: fmt.Sprintf("unknown meta tag %s", tag.Kind)}
		}
		for name := range tag.Attrs {
			if !slices.Contains(ref.Attributes, name) {
				return &InvalidTagError{Kind: tt.Kind, Reason: fmt.Sprintf("meta tag %s has no attribute %q", tag.Kind, name)}
			}
		}
	}

	row := tt
	row.Tags = slices.Clone(tt.Tags)
	row.Attributes = slices.Clone(tt.Attributes)

	// 派生的组件标签必须显式提供命名方式
	if tt.Kind != Component {
		_, carries, err := t.find(&row, Component, map[Kind]bool{tt.Kind: true})
		if err != nil {
			return err
		}
		if carries && row.Namer == nil {
			return &InvalidTagError{Kind: tt.Kind, Reason: "carries @Component but has no Namer"}
		}
	}

	t.types[tt.Kind] = &row
	if tt.GoType != nil {
		t.goTypes[tt.GoType] = tt.Kind
	}
	return nil
}

// Lookup 返回已注册的标签类型。
func (t *Table) Lookup(kind Kind) (*TagType, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	tt, ok := t.types[kind]
	return tt, ok
}

// IsTagType 报告 typ 是否是某个已注册标签的 Go 类型。
func (t *Table) IsTagType(typ reflect.Type) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.goTypes[typ]
	return ok
}

// Carries 报告 kind 标签的声明是否（递归地）携带 sought 标签。
func (t *Table) Carries(kind, sought Kind) (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	tt, ok := t.types[kind]
	if !ok {
		return false, nil
	}
	_, found, err := t.find(tt, sought, map[Kind]bool{kind: true})
	return found, err
}
