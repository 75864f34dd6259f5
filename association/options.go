package association

import (
	"ogm/inflect"
	"ogm/logging"
)

// Options 关联声明选项
//
// RelationshipType、Origin、RelationshipClass 三者至多设置一个。
type Options struct {
	// RelationshipType 显式关系类型
	RelationshipType string
	// Origin 目标类上镜像关联的名称，关系类型取自该关联
	Origin string
	// RelationshipClass 关系模型类，持有规范类型与端点
	RelationshipClass RelClassRef
	// ModelClass 显式目标类；Untyped() 表示不解析目标类
	ModelClass ModelClassRef
	// Unique 创建关系时是否保证唯一
	Unique bool
}

type modelClassMode int

const (
	modelClassUnset modelClassMode = iota
	modelClassNamed
	modelClassUntyped
)

// classRef 类名或已持有的类引用
type classRef struct {
	name  string
	class Class
}

func refOf(c Class) classRef {
	return classRef{name: inflect.Qualify(c.Name()), class: c}
}

func refNamed(name string) classRef {
	return classRef{name: inflect.Qualify(name)}
}

// ModelClassRef 目标类覆盖，零值表示未设置
type ModelClassRef struct {
	mode modelClassMode
	refs []classRef
}

// ModelClassName 按名称指定目标类，多个名称表示多态目标
func ModelClassName(names ...string) ModelClassRef {
	refs := make([]classRef, 0, len(names))
	for _, n := range names {
		if n != "" {
			refs = append(refs, refNamed(n))
		}
	}
	if len(refs) == 0 {
		return ModelClassRef{}
	}
	return ModelClassRef{mode: modelClassNamed, refs: refs}
}

// ModelClassOf 直接引用目标类
func ModelClassOf(classes ...Class) ModelClassRef {
	refs := make([]classRef, 0, len(classes))
	for _, c := range classes {
		if c != nil {
			refs = append(refs, refOf(c))
		}
	}
	if len(refs) == 0 {
		return ModelClassRef{}
	}
	return ModelClassRef{mode: modelClassNamed, refs: refs}
}

// Untyped 不包装目标类，目标可为任意类
func Untyped() ModelClassRef {
	return ModelClassRef{mode: modelClassUntyped}
}

// IsSet 是否设置了目标类覆盖（包括 Untyped）
func (m ModelClassRef) IsSet() bool { return m.mode != modelClassUnset }

// IsUntyped 是否为 Untyped
func (m ModelClassRef) IsUntyped() bool { return m.mode == modelClassUntyped }

// RelClassRef 关系类引用，零值表示未设置
type RelClassRef struct {
	name  string
	class RelationshipClass
}

// RelClassName 按名称引用关系类，首次使用时经 ClassResolver 解析
func RelClassName(name string) RelClassRef {
	if name == "" {
		return RelClassRef{}
	}
	return RelClassRef{name: inflect.Qualify(name)}
}

// RelClassOf 直接引用关系类
func RelClassOf(c RelationshipClass) RelClassRef {
	if c == nil {
		return RelClassRef{}
	}
	return RelClassRef{name: inflect.Qualify(c.Name()), class: c}
}

// IsSet 是否设置
func (r RelClassRef) IsSet() bool { return r.name != "" }

// Name 限定名
func (r RelClassRef) Name() string { return r.name }

// Endpoint 关系类的一端：具体类或任意类。零值为任意类。
type Endpoint struct {
	ref classRef
}

// AnyEndpoint 任意类端点
func AnyEndpoint() Endpoint { return Endpoint{} }

// EndpointOf 具体类端点
func EndpointOf(c Class) Endpoint {
	if c == nil {
		return Endpoint{}
	}
	return Endpoint{ref: refOf(c)}
}

// EndpointNamed 按名称引用的具体类端点，空名称等同 AnyEndpoint
func EndpointNamed(name string) Endpoint {
	if name == "" {
		return Endpoint{}
	}
	return Endpoint{ref: refNamed(name)}
}

// IsAny 是否为任意类
func (e Endpoint) IsAny() bool { return e.ref.name == "" }

// ClassName 具体类的限定名；任意类返回 false
func (e Endpoint) ClassName() (string, bool) {
	if e.IsAny() {
		return "", false
	}
	return e.ref.name, true
}

// String any 或限定类名
func (e Endpoint) String() string {
	if e.IsAny() {
		return "any"
	}
	return e.ref.name
}

// Option 构造期附加配置
type Option func(*Association)

// WithResolver 设置按名称查找类的注册表
func WithResolver(r ClassResolver) Option {
	return func(a *Association) { a.resolver = r }
}

// WithLogger 设置日志，默认使用全局 Logger
func WithLogger(l logging.Logger) Option {
	return func(a *Association) {
		if l != nil {
			a.logger = l
		}
	}
}
