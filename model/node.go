package model

import (
	"fmt"
	"sync"

	"ogm/association"
	apperrors "ogm/errors"
	"ogm/inflect"
)

// NodeClass 节点模型类，持有按名称声明的关联
type NodeClass struct {
	name     string
	labels   []string
	registry *Registry

	mu     sync.RWMutex
	assocs map[string]*association.Association
	order  []string
}

// NodeOption 节点类配置
type NodeOption func(*NodeClass)

// WithLabels 设置标签，默认为类名
func WithLabels(labels ...string) NodeOption {
	return func(c *NodeClass) { c.labels = append([]string(nil), labels...) }
}

// InRegistry 关联解析使用的注册表，默认 Global()
func InRegistry(r *Registry) NodeOption {
	return func(c *NodeClass) {
		if r != nil {
			c.registry = r
		}
	}
}

// NewNodeClass 创建节点类（不自动注册）
func NewNodeClass(name string, opts ...NodeOption) *NodeClass {
	c := &NodeClass{
		name:     inflect.Unqualify(name),
		registry: Global(),
		assocs:   make(map[string]*association.Association),
	}
	for _, opt := range opts {
		opt(c)
	}
	if len(c.labels) == 0 {
		c.labels = []string{c.name}
	}
	return c
}

// DefineNode 创建节点类并注册到 r
func (r *Registry) DefineNode(name string, opts ...NodeOption) (*NodeClass, error) {
	c := NewNodeClass(name, append([]NodeOption{InRegistry(r)}, opts...)...)
	if err := r.Register(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *NodeClass) Name() string { return c.name }

// Labels 节点标签副本
func (c *NodeClass) Labels() []string {
	return append([]string(nil), c.labels...)
}

// Declare 在本类上声明关联，关联使用本类的注册表解析目标类
func (c *NodeClass) Declare(kind association.Kind, direction association.Direction, name string, options association.Options) (*association.Association, error) {
	a, err := association.New(kind, direction, name, options, association.WithResolver(c.registry))
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.assocs[name]; exists {
		return nil, apperrors.WrapError(ErrDuplicateAssociation, apperrors.ErrCodeDuplicate,
			fmt.Sprintf("%s already declares association %q", c.name, name))
	}
	c.assocs[name] = a
	c.order = append(c.order, name)
	return a, nil
}

// HasMany 声明 has_many 关联
func (c *NodeClass) HasMany(direction association.Direction, name string, options association.Options) (*association.Association, error) {
	return c.Declare(association.HasMany, direction, name, options)
}

// HasOne 声明 has_one 关联
func (c *NodeClass) HasOne(direction association.Direction, name string, options association.Options) (*association.Association, error) {
	return c.Declare(association.HasOne, direction, name, options)
}

// Associations 按名称返回关联（副本）
func (c *NodeClass) Associations() map[string]*association.Association {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]*association.Association, len(c.assocs))
	for k, v := range c.assocs {
		out[k] = v
	}
	return out
}

// Association 按名称查找关联
func (c *NodeClass) Association(name string) (*association.Association, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.assocs[name]
	return a, ok
}

// AssociationNames 按声明顺序返回关联名
func (c *NodeClass) AssociationNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.order...)
}

var _ association.OwnerClass = (*NodeClass)(nil)
