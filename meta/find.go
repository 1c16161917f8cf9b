package meta

// Find 递归查找 target 上的 kind 标签。
//
// 先查找直接附加的标签；然后对其他每个已注册的标签（跳过 lang 命名空间），
// 在该标签自身的声明上继续查找。例如：
//
//	@Component
//	@interface Service {}
//
//	@Service
//	type UserService struct{}
//
// 在 UserService 上查找 Component 会通过 Service 找到。
// 如果有多条路径都能找到，返回 *DuplicateTagError。
func (t *Table) Find(target Target, kind Kind) (Tag, bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.find(target, kind, make(map[Kind]bool))
}

// Has 报告 target 上是否（递归地）存在 kind 标签。
func (t *Table) Has(target Target, kind Kind) (bool, error) {
	_, ok, err := t.Find(target, kind)
	return ok, err
}

// find 调用方必须持有读锁。visiting 记录当前路径上的标签，重复进入时放弃该路径。
func (t *Table) find(target Target, kind Kind, visiting map[Kind]bool) (Tag, bool, error) {
	tags := target.TagList()
	found, ok := Direct(tags, kind)

	for _, tag := range tags {
		if tag.Kind == kind || tag.Kind.Namespace() == BuiltinNamespace {
			continue
		}
		tt, registered := t.types[tag.Kind]
		if !registered || visiting[tag.Kind] {
			continue
		}

		visiting[tag.Kind] = true
		sub, subOK, err := t.find(tt, kind, visiting)
		delete(visiting, tag.Kind)
		if err != nil {
			return Tag{}, false, err
		}
		if !subOK {
			continue
		}
		if ok {
			return Tag{}, false, &DuplicateTagError{Target: target.String(), Kind: kind}
		}
		found, ok = sub, true
	}
	return found, ok, nil
}
