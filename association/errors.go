package association

import (
	"errors"
	"fmt"
	"strings"

	apperrors "ogm/errors"
)

var (
	// ErrInvalidAssociationKind 基数不是 has_one / has_many
	ErrInvalidAssociationKind = errors.New("association: invalid association kind")
	// ErrInvalidDirection 方向不是 out / in / both
	ErrInvalidDirection = errors.New("association: invalid direction")
	// ErrInvalidName 关联名为空
	ErrInvalidName = errors.New("association: invalid name")
	// ErrConflictingOptions 互斥的选项被同时设置
	ErrConflictingOptions = errors.New("association: conflicting options")
	// ErrUnresolvableTargetClass 目标类无法解析，或在多态关联上请求单一目标类
	ErrUnresolvableTargetClass = errors.New("association: unresolvable target class")
	// ErrUnresolvableRelationshipClass 关系类无法解析
	ErrUnresolvableRelationshipClass = errors.New("association: unresolvable relationship class")
	// ErrUnresolvableOrigin 镜像关联在目标类上不存在或不可用
	ErrUnresolvableOrigin = errors.New("association: unresolvable origin")
)

var (
	errNoResolver = errors.New("no class resolver configured")
	errNilClass   = errors.New("resolver returned no class")
)

func invalidKindError(name string, kind Kind) error {
	return apperrors.WrapError(ErrInvalidAssociationKind, apperrors.ErrCodeInvalidInput,
		fmt.Sprintf("association %q: kind %q is not one of %s, %s", name, kind, HasOne, HasMany)).
		WithContext("kind", string(kind))
}

func invalidDirectionError(name string, direction Direction) error {
	return apperrors.WrapError(ErrInvalidDirection, apperrors.ErrCodeInvalidInput,
		fmt.Sprintf("association %q: direction %q is not one of %s, %s, %s", name, direction, Out, In, Both)).
		WithContext("direction", string(direction))
}

func conflictingOptionsError(name string, cause error) error {
	var keys []string
	var verr apperrors.IError
	if errors.As(cause, &verr) {
		keys, _ = verr.Context()["keys"].([]string)
	}
	return apperrors.WrapError(ErrConflictingOptions, apperrors.ErrCodeConflict,
		fmt.Sprintf("association %q: options cannot be combined: %s", name, strings.Join(keys, ", "))).
		WithContext("keys", keys)
}

func unresolvableTargetError(name, reason string, cause error) error {
	err := apperrors.WrapError(ErrUnresolvableTargetClass, apperrors.ErrCodeNotFound,
		fmt.Sprintf("association %q: %s", name, reason))
	if cause != nil {
		return err.WithContext("cause", cause.Error())
	}
	return err
}

func unresolvableRelClassError(name, relClass, reason string) error {
	return apperrors.WrapError(ErrUnresolvableRelationshipClass, apperrors.ErrCodeNotFound,
		fmt.Sprintf("association %q: relationship class %q %s", name, relClass, reason)).
		WithContext("rel_class", relClass)
}

func unresolvableOriginError(name, origin, reason string) error {
	return apperrors.WrapError(ErrUnresolvableOrigin, apperrors.ErrCodeNotFound,
		fmt.Sprintf("association %q: origin %q %s", name, origin, reason)).
		WithContext("origin", origin)
}
