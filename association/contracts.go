package association

// Class 可按名称解析的模型类
type Class interface {
	// Name 类名，可带或不带根命名空间前缀
	Name() string
}

// RelationshipClass 关系模型类，持有规范关系类型与两端端点
type RelationshipClass interface {
	Class
	Type() string
	From() Endpoint
	To() Endpoint
}

// OwnerClass 声明了关联的节点类，用于查找镜像关联
type OwnerClass interface {
	Class
	Associations() map[string]*Association
}

// ClassResolver 按限定名查找类，找不到时返回错误
type ClassResolver interface {
	ResolveClass(qualifiedName string) (Class, error)
}

// ResolverFunc 函数适配为 ClassResolver
type ResolverFunc func(qualifiedName string) (Class, error)

func (f ResolverFunc) ResolveClass(qualifiedName string) (Class, error) {
	return f(qualifiedName)
}

