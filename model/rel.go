package model

import (
	"sync"

	"ogm/association"
	"ogm/inflect"
)

// RelClass 关系模型类：规范关系类型与两端端点。端点默认任意类。
type RelClass struct {
	name    string
	relType string

	mu       sync.RWMutex
	from, to association.Endpoint
}

// NewRelClass 创建关系类，relType 为空时由类名推导（例如 OwnsCar -> OWNS_CAR）
func NewRelClass(name, relType string) *RelClass {
	name = inflect.Unqualify(name)
	if relType == "" {
		relType = inflect.RelationshipType(name)
	}
	return &RelClass{name: name, relType: relType}
}

// DefineRel 创建关系类并注册到 r
func (r *Registry) DefineRel(name, relType string) (*RelClass, error) {
	c := NewRelClass(name, relType)
	if err := r.Register(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *RelClass) Name() string { return c.name }

func (c *RelClass) Type() string { return c.relType }

// FromClass 设置起点端点
func (c *RelClass) FromClass(e association.Endpoint) *RelClass {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.from = e
	return c
}

// ToClass 设置终点端点
func (c *RelClass) ToClass(e association.Endpoint) *RelClass {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.to = e
	return c
}

func (c *RelClass) From() association.Endpoint {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.from
}

func (c *RelClass) To() association.Endpoint {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.to
}

var _ association.RelationshipClass = (*RelClass)(nil)
