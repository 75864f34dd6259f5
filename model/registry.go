// Package model 提供模型类（节点类、关系类）及按名称查找类的注册表
package model

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"ogm/association"
	apperrors "ogm/errors"
	"ogm/inflect"
	"ogm/logging"
)

// Registry 类注册表，键为根命名空间限定名（例如 ::Person）
//
// 注册通常发生在程序初始化阶段，之后以读为主；实现了 association.ClassResolver。
type Registry struct {
	classes map[string]association.Class
	mutex   sync.RWMutex
	version atomic.Uint64
}

// NewRegistry 创建注册表
func NewRegistry() *Registry {
	return &Registry{
		classes: make(map[string]association.Class),
	}
}

// Register 注册类
func (r *Registry) Register(c association.Class) error {
	if c == nil {
		return fmt.Errorf("class cannot be nil")
	}
	name := inflect.Qualify(c.Name())
	if name == "" {
		return fmt.Errorf("class name cannot be empty")
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.classes[name]; exists {
		return apperrors.WrapError(ErrClassAlreadyRegistered, apperrors.ErrCodeDuplicate,
			fmt.Sprintf("class %s already registered", name))
	}
	r.classes[name] = c
	r.version.Add(1)

	logging.GetLogger().Debug(context.Background(), "类已注册", logging.String("component", "model.registry"), logging.String("class", name))
	return nil
}

// MustRegister 注册类（失败 panic）
func (r *Registry) MustRegister(c association.Class) {
	if err := r.Register(c); err != nil {
		panic(err)
	}
}

// Unregister 取消注册，返回是否存在
func (r *Registry) Unregister(name string) bool {
	name = inflect.Qualify(name)

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.classes[name]; !exists {
		return false
	}
	delete(r.classes, name)
	r.version.Add(1)
	return true
}

// ResolveClass 按名称查找类，名称可带或不带 :: 前缀
func (r *Registry) ResolveClass(name string) (association.Class, error) {
	qualified := inflect.Qualify(name)

	r.mutex.RLock()
	c, exists := r.classes[qualified]
	r.mutex.RUnlock()

	if !exists {
		return nil, apperrors.WrapError(ErrClassNotFound, apperrors.ErrCodeNotFound,
			fmt.Sprintf("class %s is not registered", qualified))
	}
	return c, nil
}

// HasClass 检查类是否已注册
func (r *Registry) HasClass(name string) bool {
	_, err := r.ResolveClass(name)
	return err == nil
}

// Classes 按限定名排序返回所有类
func (r *Registry) Classes() []association.Class {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}
	sort.Strings(names)

	classes := make([]association.Class, len(names))
	for i, name := range names {
		classes[i] = r.classes[name]
	}
	return classes
}

// NodeClasses 按名称排序返回所有节点类
func (r *Registry) NodeClasses() []*NodeClass {
	var nodes []*NodeClass
	for _, c := range r.Classes() {
		if n, ok := c.(*NodeClass); ok {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// RelClasses 按名称排序返回所有关系类
func (r *Registry) RelClasses() []*RelClass {
	var rels []*RelClass
	for _, c := range r.Classes() {
		if rc, ok := c.(*RelClass); ok {
			rels = append(rels, rc)
		}
	}
	return rels
}

// Version 每次注册/取消注册递增，供派生缓存判断是否失效
func (r *Registry) Version() uint64 {
	return r.version.Load()
}

var globalRegistry = NewRegistry()

// Global 全局注册表，未显式指定注册表的节点类使用它
func Global() *Registry {
	return globalRegistry
}
