// Package validation 提供模型声明期使用的通用校验函数
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"ogm/errors"
)

var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Flag 表示一个可选配置项是否被设置
type Flag struct {
	Name string
	Set  bool
}

// On 构造 Flag
func On(name string, set bool) Flag {
	return Flag{Name: name, Set: set}
}

// conflictingKeys 返回被同时设置的互斥配置项名称；至多一个被设置时返回 nil
func conflictingKeys(flags ...Flag) []string {
	var set []string
	for _, f := range flags {
		if f.Set {
			set = append(set, f.Name)
		}
	}
	if len(set) < 2 {
		return nil
	}
	return set
}

// ValidateAtMostOne 校验互斥配置项至多设置一个。
// 冲突时返回 CONFLICT 错误，按 flags 顺序排列的冲突项名称在上下文键 "keys" 中。
func ValidateAtMostOne(flags ...Flag) error {
	keys := conflictingKeys(flags...)
	if keys == nil {
		return nil
	}
	return errors.NewError(errors.ErrCodeConflict,
		fmt.Sprintf("选项互斥，不能同时设置: %s", strings.Join(keys, ", "))).
		WithContext("keys", keys)
}

// ValidateRequired 验证必填字段
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s不能为空", fieldName))
	}
	return nil
}

// ValidateEnum 验证枚举值
func ValidateEnum(value, fieldName string, validValues []string) error {
	for _, valid := range validValues {
		if value == valid {
			return nil
		}
	}
	return errors.NewError(errors.ErrCodeValidation,
		fmt.Sprintf("%s的值无效，必须是以下之一: %v", fieldName, validValues))
}

// ValidateIdentifier 验证名称是否为普通标识符（字母或下划线开头，仅含字母数字下划线）
func ValidateIdentifier(value, fieldName string) error {
	if err := ValidateRequired(value, fieldName); err != nil {
		return err
	}
	if !identifierRegex.MatchString(value) {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s只能包含字母、数字和下划线，且不能以数字开头（当前%q）", fieldName, value))
	}
	return nil
}

// IsIdentifier 判断是否为普通标识符
func IsIdentifier(value string) bool {
	return identifierRegex.MatchString(value)
}
