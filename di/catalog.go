package di

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Enumerator 返回某个包命名空间下可达的全部候选声明名。
type Enumerator interface {
	Enumerate(namespace string) []string
}

// Lookup 通过完全限定名查找类型声明。
type Lookup interface {
	Lookup(name string) (*TypeDecl, bool)
}

// Catalog 是进程内的声明目录，同时实现 Enumerator 和 Lookup。
// 声明通常在包的 init 中注册，类似 database/sql 的驱动注册。
type Catalog struct {
	mu    sync.RWMutex
	decls map[string]*TypeDecl
}

// NewCatalog 创建空目录。
func NewCatalog() *Catalog {
	return &Catalog{decls: make(map[string]*TypeDecl)}
}

// Add 添加声明，同名声明重复注册会报错。
func (c *Catalog) Add(decls ...*TypeDecl) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, decl := range decls {
		if decl == nil || decl.Type == nil {
			return fmt.Errorf("di: declaration without type")
		}
		name := decl.Name()
		if _, exists := c.decls[name]; exists {
			return fmt.Errorf("di: declaration %s already added", name)
		}
		c.decls[name] = decl
	}
	return nil
}

// MustAdd 与 Add 相同，但失败时 panic。
func (c *Catalog) MustAdd(decls ...*TypeDecl) *Catalog {
	if err := c.Add(decls...); err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Lookup(name string) (*TypeDecl, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	decl, ok := c.decls[name]
	return decl, ok
}

// Enumerate 返回包路径等于 namespace 或位于其子路径下的声明名（已排序）。
// 空 namespace 返回全部声明。
func (c *Catalog) Enumerate(namespace string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	namespace = strings.TrimSuffix(namespace, "/")
	var names []string
	for name, decl := range c.decls {
		pkg := decl.Package()
		if namespace == "" || pkg == namespace || strings.HasPrefix(pkg, namespace+"/") {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Len 返回声明数量。
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.decls)
}
