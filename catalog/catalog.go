// Package catalog 在注册表之上提供反射式查询：某个类声明了哪些关联、
// 两个类之间由哪些关系类型连接，并可将描述保存为快照。
package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"ogm/association"
	"ogm/cache"
	apperrors "ogm/errors"
	"ogm/inflect"
	"ogm/logging"
	"ogm/model"
)

// Config 目录配置
type Config struct {
	// CacheSize TypesBetween 结果缓存条目上限，默认 256
	CacheSize int
}

// Entry 一条关联的描述
type Entry struct {
	Owner     string
	Name      string
	Kind      association.Kind
	Direction association.Direction
	Type      string
	// Targets 目标类限定名，nil 表示任意类
	Targets []string
	Unique  bool
	// Pattern 匹配用的关系片段，例如 -[:`KNOWS`]->
	Pattern string
}

// Catalog 基于注册表的关联目录
type Catalog struct {
	registry *model.Registry
	types    *cache.Cache[string, []string]

	mu   sync.Mutex
	seen uint64
}

// New 创建目录
func New(registry *model.Registry, cfg Config) *Catalog {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 256
	}
	return &Catalog{
		registry: registry,
		types:    cache.New[string, []string](cache.Config{Name: "catalog.types_between", MaxSize: cfg.CacheSize}),
		seen:     registry.Version(),
	}
}

// TypesBetween 返回 from 类上指向 to 类的关联所使用的关系类型（去重，按声明顺序）。
// 目标为任意类的关联同样计入。
func (c *Catalog) TypesBetween(from, to string) ([]string, error) {
	c.invalidateIfChanged()

	from, to = inflect.Qualify(from), inflect.Qualify(to)
	types, err := c.types.GetOrCompute(from+"->"+to, func() ([]string, error) {
		return c.computeTypesBetween(from, to)
	})
	if err != nil {
		return nil, err
	}
	return append([]string(nil), types...), nil
}

func (c *Catalog) computeTypesBetween(from, to string) ([]string, error) {
	owner, err := c.owner(from)
	if err != nil {
		return nil, err
	}
	if _, err := c.registry.ResolveClass(to); err != nil {
		return nil, err
	}

	var types []string
	seen := make(map[string]bool)
	for _, a := range orderedAssociations(owner) {
		targets, err := a.TargetClassNames()
		if err != nil {
			return nil, err
		}
		if targets != nil && !contains(targets, to) {
			continue
		}
		t, err := a.RelationshipType()
		if err != nil {
			return nil, err
		}
		if !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}

	logging.GetLogger().Debug(context.Background(), "关系类型已计算",
		logging.String("from", from), logging.String("to", to), logging.Strings("types", types))
	return types, nil
}

// Describe 描述一个节点类上的全部关联
func (c *Catalog) Describe(class string) ([]Entry, error) {
	owner, err := c.owner(inflect.Qualify(class))
	if err != nil {
		return nil, err
	}

	assocs := orderedAssociations(owner)
	entries := make([]Entry, 0, len(assocs))
	for _, a := range assocs {
		e, err := describe(owner.Name(), a)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// DescribeAll 描述注册表中全部节点类的关联，按类名排序
func (c *Catalog) DescribeAll() ([]Entry, error) {
	var entries []Entry
	for _, node := range c.registry.NodeClasses() {
		e, err := c.Describe(node.Name())
		if err != nil {
			return nil, err
		}
		entries = append(entries, e...)
	}
	return entries, nil
}

// CacheStats 缓存统计
func (c *Catalog) CacheStats() cache.CacheStats {
	return c.types.Stats()
}

func (c *Catalog) invalidateIfChanged() {
	v := c.registry.Version()

	c.mu.Lock()
	defer c.mu.Unlock()
	if v != c.seen {
		c.types.Purge()
		c.seen = v
	}
}

func (c *Catalog) owner(name string) (association.OwnerClass, error) {
	cls, err := c.registry.ResolveClass(name)
	if err != nil {
		return nil, err
	}
	owner, ok := cls.(association.OwnerClass)
	if !ok {
		return nil, apperrors.NewError(apperrors.ErrCodeInvalidInput,
			fmt.Sprintf("class %s does not declare associations", name))
	}
	return owner, nil
}

func describe(owner string, a *association.Association) (Entry, error) {
	t, err := a.RelationshipType()
	if err != nil {
		return Entry{}, err
	}
	targets, err := a.TargetClassNames()
	if err != nil {
		return Entry{}, err
	}
	pattern, err := a.PatternFragment("", nil, false)
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		Owner:     inflect.Qualify(owner),
		Name:      a.Name(),
		Kind:      a.Kind(),
		Direction: a.Direction(),
		Type:      t,
		Targets:   targets,
		Unique:    a.IsUnique(),
		Pattern:   pattern,
	}, nil
}

// orderedAssociations 节点类按声明顺序，其余实现按名称排序
func orderedAssociations(owner association.OwnerClass) []*association.Association {
	assocs := owner.Associations()

	var names []string
	if node, ok := owner.(*model.NodeClass); ok {
		names = node.AssociationNames()
	} else {
		for name := range assocs {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	out := make([]*association.Association, 0, len(names))
	for _, name := range names {
		if a := assocs[name]; a != nil {
			out = append(out, a)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
