package errors

import (
	"bytes"
	"context"
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ogm/logging"
)

var errSentinel = stdErrors.New("sentinel")

// TestWrapError_KeepsSentinel 测试包装后仍可匹配哨兵错误与错误码
func TestWrapError_KeepsSentinel(t *testing.T) {
	err := WrapError(errSentinel, ErrCodeConflict, "选项冲突")
	require.NotNil(t, err)

	assert.ErrorIs(t, err, errSentinel)
	assert.True(t, IsErrorCode(err, ErrCodeConflict))
	assert.False(t, IsNotFound(err))
	assert.Equal(t, ErrCodeConflict, GetErrorCode(err))
	assert.Equal(t, "[CONFLICT] 选项冲突: sentinel", err.Error())
	assert.Equal(t, "[NOT_FOUND] 类未找到", NewError(ErrCodeNotFound, "类未找到").Error())
}

// TestWrapError_Nil 测试包装 nil
func TestWrapError_Nil(t *testing.T) {
	assert.Nil(t, WrapError(nil, ErrCodeInternal, "x"))
	assert.NoError(t, WrapWithLog(context.Background(), nil, ErrCodeInternal, "x"))
	assert.NoError(t, WrapDatabaseError(context.Background(), nil, "x"))
}

// TestAppError_Is 测试同码匹配
func TestAppError_Is(t *testing.T) {
	a := NewError(ErrCodeNotFound, "a")
	b := NewError(ErrCodeNotFound, "b")
	c := NewError(ErrCodeConflict, "c")

	assert.ErrorIs(t, a, b)
	assert.NotErrorIs(t, a, c)
	assert.False(t, a.(*AppError).Is(nil))
}

// TestAppError_WithContext 测试上下文不污染原错误
func TestAppError_WithContext(t *testing.T) {
	base := NewError(ErrCodeValidation, "校验失败")
	withKeys := base.WithContext("keys", []string{"origin", "type"})
	withName := withKeys.WithContext("name", "friends")

	assert.Empty(t, base.Context())
	assert.Len(t, withKeys.Context(), 1)
	assert.Equal(t, []string{"origin", "type"}, withName.Context()["keys"])
	assert.Equal(t, "friends", withName.Context()["name"])
	assert.Equal(t, ErrCodeValidation, withName.Code())

	ctx := withName.Context()
	ctx["name"] = "changed"
	assert.Equal(t, "friends", withName.Context()["name"])
}

// TestGetErrorCode 测试错误码取最外层 AppError
func TestGetErrorCode(t *testing.T) {
	inner := WrapError(errSentinel, ErrCodeNotFound, "inner")
	outer := WrapError(inner, ErrCodeInvalidInput, "outer")
	wrapped := fmt.Errorf("line 3: %w", outer)

	assert.Equal(t, ErrCodeInvalidInput, GetErrorCode(wrapped))
	assert.ErrorIs(t, wrapped, errSentinel)
	assert.Equal(t, ErrCodeInternal, GetErrorCode(stdErrors.New("boom")))
	assert.Equal(t, ErrorCode(""), GetErrorCode(nil))
	assert.False(t, IsErrorCode(nil, ErrCodeInternal))
}

// TestWrapWithLog 测试包装时记录警告
func TestWrapWithLog(t *testing.T) {
	var buf bytes.Buffer
	logging.SetLogger(logging.NewStdLoggerTo(&buf, "", logging.WarnLevel))
	t.Cleanup(func() { logging.SetLogger(nil) })

	err := WrapWithLog(context.Background(), errSentinel, ErrCodeNotFound, "读取声明文件", logging.String("path", "x.yaml"))
	assert.True(t, IsNotFound(err))
	assert.Contains(t, buf.String(), "读取声明文件")
	assert.Contains(t, buf.String(), "x.yaml")
	assert.Contains(t, buf.String(), "errors_test.go")
}

// TestWrapDatabaseError 测试数据库错误包装
func TestWrapDatabaseError(t *testing.T) {
	ctx := context.Background()

	err := WrapDatabaseError(ctx, stdErrors.New("disk full"), "保存快照")
	assert.Equal(t, ErrCodeDatabase, GetErrorCode(err))

	notFound := WrapDatabaseError(ctx, NewError(ErrCodeNotFound, "快照不存在"), "加载快照")
	assert.True(t, IsNotFound(notFound))
}
