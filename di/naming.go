package di

import (
	"unicode"
	"unicode/utf8"

	"github.com/gocrud/ioc/meta"
)

// typeName 推导类型定义名：
// 直接的 @Component 值；否则第一个携带 @Component 的其他标签经其 Namer 得到的名称；
// 否则为首字母小写的类型名。
func typeName(table *meta.Table, decl *TypeDecl) (string, error) {
	if tag, ok := meta.Direct(decl.Tags, meta.Component); ok && tag.Value() != "" {
		return tag.Value(), nil
	}

	for _, tag := range decl.Tags {
		if tag.Kind == meta.Component || tag.Kind.Namespace() == meta.BuiltinNamespace {
			continue
		}
		carries, err := table.Carries(tag.Kind, meta.Component)
		if err != nil {
			return "", err
		}
		if !carries {
			continue
		}
		tt, _ := table.Lookup(tag.Kind)
		if tt.Namer == nil {
			continue
		}
		if name := tt.Namer.ComponentName(tag); name != "" {
			return name, nil
		}
	}
	return defaultName(decl.SimpleName()), nil
}

// methodName 推导 @Bean 方法的定义名：@Bean 值或方法名本身。
func methodName(m MethodDecl) string {
	if tag, ok := meta.Direct(m.Tags, meta.Bean); ok && tag.Value() != "" {
		return tag.Value()
	}
	return m.Name
}

// defaultName 将首字母小写："UserService" -> "userService"。
func defaultName(simple string) string {
	r, size := utf8.DecodeRuneInString(simple)
	if r == utf8.RuneError {
		return simple
	}
	return string(unicode.ToLower(r)) + simple[size:]
}
