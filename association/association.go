// Package association 描述图关系关联：由方向、名称与选项解析关系类型和目标类，
// 并渲染为 Cypher 关系模式片段。
//
// 关联在模型声明时构造一次，之后只读；惰性解析的结果（目标类、关系类、关系类型）
// 在首次成功解析后缓存，可被多个 goroutine 并发读取。
package association

import (
	"fmt"

	"ogm/logging"
	"ogm/validation"
)

// link 关系类型的来源，由 New 根据选项唯一确定
type link int

const (
	byDefaultName link = iota
	byExplicitType
	byOrigin
	byRelationshipClass
)

func (l link) String() string {
	switch l {
	case byExplicitType:
		return "explicit_type"
	case byOrigin:
		return "origin"
	case byRelationshipClass:
		return "rel_class"
	default:
		return "default_name"
	}
}

// Association 一条关联声明
type Association struct {
	kind      Kind
	direction Direction
	name      string
	options   Options
	link      link

	resolver ClassResolver
	logger   logging.Logger

	targetClass       lazy[Class]
	relationshipClass lazy[RelationshipClass]
	relationshipType  lazy[string]
}

// New 校验并构造关联。
//
// 校验基数、方向、名称，以及 RelationshipType / Origin / RelationshipClass 的互斥关系；
// 不做任何类解析，解析推迟到首次访问。
func New(kind Kind, direction Direction, name string, options Options, opts ...Option) (*Association, error) {
	if err := validation.ValidateRequired(name, "关联名"); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidName, err)
	}
	if !kind.IsValid() {
		return nil, invalidKindError(name, kind)
	}
	if !direction.IsValid() {
		return nil, invalidDirectionError(name, direction)
	}

	if err := validation.ValidateAtMostOne(
		validation.On("Origin", options.Origin != ""),
		validation.On("RelationshipType", options.RelationshipType != ""),
		validation.On("RelationshipClass", options.RelationshipClass.IsSet()),
	); err != nil {
		return nil, conflictingOptionsError(name, err)
	}

	a := &Association{
		kind:      kind,
		direction: direction,
		name:      name,
		options:   options,
		link:      linkFor(options),
		logger:    logging.GetLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.WithFields(logging.String("association", name))

	return a, nil
}

// MustNew 同 New，失败 panic，用于包级模型声明
func MustNew(kind Kind, direction Direction, name string, options Options, opts ...Option) *Association {
	a, err := New(kind, direction, name, options, opts...)
	if err != nil {
		panic(err)
	}
	return a
}

func linkFor(o Options) link {
	switch {
	case o.RelationshipClass.IsSet():
		return byRelationshipClass
	case o.Origin != "":
		return byOrigin
	case o.RelationshipType != "":
		return byExplicitType
	default:
		return byDefaultName
	}
}

func (a *Association) Kind() Kind { return a.kind }

func (a *Association) Direction() Direction { return a.direction }

func (a *Association) Name() string { return a.name }

// Options 返回声明时的选项副本
func (a *Association) Options() Options { return a.options }

// IsUnique 创建关系时是否保证唯一
func (a *Association) IsUnique() bool { return a.options.Unique }

// HasExplicitType 关系类型是否由声明显式给出（类型、关系类或镜像关联）
func (a *Association) HasExplicitType() bool { return a.link != byDefaultName }

func (a *Association) String() string {
	return fmt.Sprintf("%s %s (%s, %s)", a.kind, a.name, a.direction, a.link)
}
