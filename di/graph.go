package di

import (
	"fmt"
	"slices"
)

// graphBuilder 校验工厂引用并计算创建顺序。
type graphBuilder struct {
	definitions map[string]*Definition
}

func newGraphBuilder(defs map[string]*Definition) *graphBuilder {
	return &graphBuilder{
		definitions: defs,
	}
}

// buildOrder 返回创建顺序（工厂在前）并验证图。
func (g *graphBuilder) buildOrder() ([]string, error) {
	dependencies := make(map[string][]string, len(g.definitions))

	// 1. 提取工厂引用
	for name, def := range g.definitions {
		factory := def.FactoryName()
		if factory == "" {
			continue
		}
		if _, exists := g.definitions[factory]; !exists {
			return nil, definitionErrorf("definition '%s' refers to unknown factory definition '%s'", name, factory)
		}
		dependencies[name] = append(dependencies[name], factory)
	}

	// 2. 拓扑排序 (基于 DFS)，按名称遍历以保证顺序确定
	names := make([]string, 0, len(g.definitions))
	for name := range g.definitions {
		names = append(names, name)
	}
	slices.Sort(names)

	visited := make(map[string]bool)
	recursionStack := make(map[string]bool)
	order := make([]string, 0, len(names))

	var visit func(string) error
	visit = func(u string) error {
		visited[u] = true
		recursionStack[u] = true

		for _, v := range dependencies[u] {
			if !visited[v] {
				if err := visit(v); err != nil {
					return err
				}
			} else if recursionStack[v] {
				return &DefinitionError{Message: fmt.Sprintf("circular factory reference: %s -> %s", u, v)}
			}
		}

		recursionStack[u] = false
		order = append(order, u)
		return nil
	}

	for _, name := range names {
		if !visited[name] {
			if err := visit(name); err != nil {
				return nil, err
			}
		}
	}
	return order, nil
}
