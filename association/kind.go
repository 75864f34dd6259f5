package association

import (
	apperrors "ogm/errors"
	"ogm/validation"
)

// Kind 关联基数
type Kind string

const (
	HasOne  Kind = "has_one"
	HasMany Kind = "has_many"
)

// IsValid 是否为受支持的基数
func (k Kind) IsValid() bool {
	return k == HasOne || k == HasMany
}

// IsCollection has_many 关联返回多个目标
func (k Kind) IsCollection() bool {
	return k == HasMany
}

// ParseKind 解析基数名称
func ParseKind(s string) (Kind, error) {
	if err := validation.ValidateEnum(s, "kind", []string{string(HasOne), string(HasMany)}); err != nil {
		return "", apperrors.WrapError(ErrInvalidAssociationKind, apperrors.ErrCodeInvalidInput, err.Error()).
			WithContext("kind", s)
	}
	return Kind(s), nil
}

// Direction 关联方向
type Direction string

const (
	Out  Direction = "out"
	In   Direction = "in"
	Both Direction = "both"
)

// IsValid 是否为受支持的方向
func (d Direction) IsValid() bool {
	return d == Out || d == In || d == Both
}

// Reverse 反向：out <-> in，both 不变
func (d Direction) Reverse() Direction {
	switch d {
	case Out:
		return In
	case In:
		return Out
	default:
		return d
	}
}

// ParseDirection 解析方向名称
func ParseDirection(s string) (Direction, error) {
	if err := validation.ValidateEnum(s, "direction", []string{string(Out), string(In), string(Both)}); err != nil {
		return "", apperrors.WrapError(ErrInvalidDirection, apperrors.ErrCodeInvalidInput, err.Error()).
			WithContext("direction", s)
	}
	return Direction(s), nil
}
