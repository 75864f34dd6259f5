// Package errors 带错误码的应用错误。
//
// 领域包用 errors.New 声明哨兵错误，再用 WrapError 附加错误码与上下文键值；
// errors.Is 既能匹配被包装的哨兵，也能匹配同码的 *AppError。
package errors

import (
	stdErrors "errors"
	"maps"
	"strings"
)

// ErrorCode 错误码
type ErrorCode string

const (
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeDuplicate    ErrorCode = "DUPLICATE_ERROR"
	ErrCodeDatabase     ErrorCode = "DATABASE_ERROR"
)

// IError 携带错误码与上下文的错误
type IError interface {
	error

	Code() ErrorCode
	// Context 上下文键值的副本
	Context() map[string]any
	// WithContext 返回附加了 key 的新错误，原错误不变
	WithContext(key string, value any) IError
}

// AppError IError 的实现，创建后不可变
type AppError struct {
	code    ErrorCode
	message string
	cause   error
	context map[string]any
}

// NewError 创建错误
func NewError(code ErrorCode, message string) IError {
	return &AppError{code: code, message: message}
}

// WrapError 以 code 和 message 包装 err；err 为 nil 时返回 nil
func WrapError(err error, code ErrorCode, message string) IError {
	if err == nil {
		return nil
	}
	return &AppError{code: code, message: message, cause: err}
}

// Error 形如 "[CODE] message: cause"
func (e *AppError) Error() string {
	var sb strings.Builder
	sb.WriteByte('[')
	sb.WriteString(string(e.code))
	sb.WriteString("] ")
	sb.WriteString(e.message)
	if e.cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.cause.Error())
	}
	return sb.String()
}

func (e *AppError) Code() ErrorCode { return e.code }

func (e *AppError) Context() map[string]any { return maps.Clone(e.context) }

func (e *AppError) WithContext(key string, value any) IError {
	ctx := make(map[string]any, len(e.context)+1)
	maps.Copy(ctx, e.context)
	ctx[key] = value
	return &AppError{code: e.code, message: e.message, cause: e.cause, context: ctx}
}

// Is 同码的 *AppError 视为相等；哨兵匹配经 Unwrap 完成
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.code == e.code
}

func (e *AppError) Unwrap() error { return e.cause }

// GetErrorCode 错误链上最外层 AppError 的错误码；没有 AppError 时为 ErrCodeInternal，nil 为空
func GetErrorCode(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var appErr IError
	if stdErrors.As(err, &appErr) {
		return appErr.Code()
	}
	return ErrCodeInternal
}

// IsErrorCode 错误链上最外层 AppError 的错误码是否为 code
func IsErrorCode(err error, code ErrorCode) bool {
	return err != nil && GetErrorCode(err) == code
}

// IsNotFound 是否为 NOT_FOUND
func IsNotFound(err error) bool {
	return IsErrorCode(err, ErrCodeNotFound)
}
