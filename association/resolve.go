package association

import (
	"context"

	"ogm/inflect"
	"ogm/logging"
)

// TargetClassNames 返回目标类的限定名列表。
//
// 优先级：Untyped -> nil；ModelClass -> 指定的类；RelationshipClass -> 与方向相对的端点
// （out/both 取 To，in 取 From），端点为任意类时返回 nil；否则由关联名推导，例如 burzs -> ::Burz。
// 返回 nil 表示目标可为任意类，而不是错误。
func (a *Association) TargetClassNames() ([]string, error) {
	refs, err := a.targetRefs()
	if err != nil || refs == nil {
		return nil, err
	}
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = r.name
	}
	return names, nil
}

func (a *Association) targetRefs() ([]classRef, error) {
	mc := a.options.ModelClass
	switch {
	case mc.IsUntyped():
		return nil, nil
	case mc.IsSet():
		return mc.refs, nil
	case a.link == byRelationshipClass:
		rc, err := a.RelationshipClass()
		if err != nil {
			return nil, err
		}
		endpoint := rc.To()
		if a.direction == In {
			endpoint = rc.From()
		}
		if endpoint.IsAny() {
			return nil, nil
		}
		return []classRef{endpoint.ref}, nil
	default:
		return []classRef{refNamed(inflect.ClassName(a.name))}, nil
	}
}

// IsPolymorphic 目标是否可为任意类或多个类
func (a *Association) IsPolymorphic() (bool, error) {
	names, err := a.TargetClassNames()
	if err != nil {
		return false, err
	}
	return len(names) != 1, nil
}

// TargetClass 解析第一个目标类。
//
// 调用方应确认关联是单一目标；多态（nil 目标）关联或注册表中不存在的类返回
// ErrUnresolvableTargetClass。成功结果会被缓存。
func (a *Association) TargetClass() (Class, error) {
	return a.targetClass.get(func() (Class, error) {
		refs, err := a.targetRefs()
		if err != nil {
			return nil, err
		}
		if len(refs) == 0 {
			return nil, unresolvableTargetError(a.name, "target is polymorphic, no single target class", nil)
		}

		ref := refs[0]
		if ref.class != nil {
			return ref.class, nil
		}
		cls, err := a.resolve(ref.name)
		if err != nil {
			return nil, unresolvableTargetError(a.name, "class "+ref.name+" cannot be resolved", err)
		}

		a.logger.Debug(context.Background(), "目标类已解析", logging.String("target", ref.name))
		return cls, nil
	})
}

// RelationshipClass 解析关系类；未配置时返回 nil, nil。成功结果会被缓存。
func (a *Association) RelationshipClass() (RelationshipClass, error) {
	ref := a.options.RelationshipClass
	if !ref.IsSet() {
		return nil, nil
	}
	if ref.class != nil {
		return ref.class, nil
	}

	return a.relationshipClass.get(func() (RelationshipClass, error) {
		cls, err := a.resolve(ref.name)
		if err != nil {
			return nil, unresolvableRelClassError(a.name, ref.name, "cannot be resolved: "+err.Error())
		}
		rc, ok := cls.(RelationshipClass)
		if !ok {
			return nil, unresolvableRelClassError(a.name, ref.name, "is not a relationship class")
		}

		a.logger.Debug(context.Background(), "关系类已解析", logging.String("rel_class", ref.name))
		return rc, nil
	})
}

// RelationshipType 关系类型。
//
// 优先级：显式 RelationshipType -> 关系类的规范类型 -> 镜像关联的类型 -> 关联名的大写蛇形。
func (a *Association) RelationshipType() (string, error) {
	return a.relationshipTypeVia(nil)
}

// relationshipTypeVia visited 为沿 origin 链已访问的关联，用于发现循环
func (a *Association) relationshipTypeVia(visited []*Association) (string, error) {
	return a.relationshipType.get(func() (string, error) {
		switch a.link {
		case byExplicitType:
			return a.options.RelationshipType, nil
		case byRelationshipClass:
			rc, err := a.RelationshipClass()
			if err != nil {
				return "", err
			}
			return rc.Type(), nil
		case byOrigin:
			return a.originType(visited)
		default:
			return inflect.RelationshipType(a.name), nil
		}
	})
}

// originType 取目标类上镜像关联的关系类型。镜像自身也由 origin 声明时沿链继续追溯，
// 链上出现重复关联即为循环。
func (a *Association) originType(visited []*Association) (string, error) {
	origin := a.options.Origin

	cls, err := a.TargetClass()
	if err != nil {
		return "", err
	}
	owner, ok := cls.(OwnerClass)
	if !ok {
		return "", unresolvableOriginError(a.name, origin, "target class "+cls.Name()+" declares no associations")
	}

	mirror := owner.Associations()[origin]
	if mirror == nil {
		return "", unresolvableOriginError(a.name, origin, "not found on "+cls.Name())
	}
	if mirror.direction == a.direction {
		return "", unresolvableOriginError(a.name, origin, "has the same direction "+string(a.direction))
	}

	visited = append(visited, a)
	for _, v := range visited {
		if v == mirror {
			return "", unresolvableOriginError(a.name, origin, "forms an origin cycle")
		}
	}
	return mirror.relationshipTypeVia(visited)
}

func (a *Association) resolve(name string) (Class, error) {
	if a.resolver == nil {
		return nil, errNoResolver
	}
	cls, err := a.resolver.ResolveClass(name)
	if err != nil {
		return nil, err
	}
	if cls == nil {
		return nil, errNilClass
	}
	return cls, nil
}
