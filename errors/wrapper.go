package errors

import (
	"context"
	"fmt"
	"runtime"

	"ogm/logging"
)

// WrapWithLog 包装错误，并以 Warn 级别记录原始错误、错误码与调用位置
func WrapWithLog(ctx context.Context, err error, code ErrorCode, msg string, fields ...logging.Field) error {
	if err == nil {
		return nil
	}

	location := "unknown"
	if _, file, line, ok := runtime.Caller(1); ok {
		location = fmt.Sprintf("%s:%d", file, line)
	}
	logging.GetLogger().Warn(ctx, msg, append([]logging.Field{
		logging.Error(err),
		logging.String("error_code", string(code)),
		logging.String("location", location),
	}, fields...)...)

	return WrapError(err, code, msg)
}

// WrapDatabaseError 包装数据库错误；已是 NOT_FOUND 的错误保留错误码且不记日志
func WrapDatabaseError(ctx context.Context, err error, operation string) error {
	switch {
	case err == nil:
		return nil
	case IsNotFound(err):
		return WrapError(err, ErrCodeNotFound, operation)
	default:
		return WrapWithLog(ctx, err, ErrCodeDatabase, "数据库操作失败: "+operation,
			logging.String("operation", operation))
	}
}
