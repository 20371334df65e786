package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(CodeProjectNotFound, "project not found")

	assert.Equal(t, CodeProjectNotFound, err.Code)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
	assert.Equal(t, "[3001] project not found", err.Error())
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, CodeDatabaseError, "query failed")

	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
	assert.Contains(t, err.Error(), "connection refused")
	assert.True(t, stderrors.Is(err, cause))
}

func TestWithDetail(t *testing.T) {
	err := New(CodeInvalidParam, "invalid parameter").WithDetail("chapter_num must be positive")
	assert.Equal(t, "chapter_num must be positive", err.Detail)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
}

func TestCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{CodeSuccess, http.StatusOK},
		{CodeInvalidParam, http.StatusBadRequest},
		{CodeTokenExpired, http.StatusUnauthorized},
		{CodePermissionDenied, http.StatusForbidden},
		{CodeChapterNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeTooManyRequests, http.StatusTooManyRequests},
		{CodeServiceUnavailable, http.StatusServiceUnavailable},
		{CodeGenerationFailed, http.StatusInternalServerError},
		{CodeConsistencyFailed, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, codeToHTTPStatus(tt.code), string(tt.code))
	}
}

func TestAsAppError(t *testing.T) {
	appErr := New(CodeLLMCallFailed, "LLM call failed")
	assert.Same(t, appErr, AsAppError(appErr))

	plain := stderrors.New("boom")
	wrapped := AsAppError(plain)
	require.NotNil(t, wrapped)
	assert.Equal(t, CodeUnknown, wrapped.Code)
	assert.True(t, stderrors.Is(wrapped, plain))
}

func TestPredefinedErrorsAreIs(t *testing.T) {
	// 业务代码使用 errors.Is 与预定义哨兵比较
	err := ErrConsistencyFailed.WithDetail("score below threshold")
	assert.True(t, stderrors.Is(err, ErrConsistencyFailed))
	assert.False(t, stderrors.Is(err, ErrGenerationFailed))
}

func TestWithDetail_DoesNotMutateSentinel(t *testing.T) {
	first := ErrConsistencyFailed.WithDetail("角色偏离设定")
	second := ErrConsistencyFailed.WithDetail("时间线混乱")

	// 并发请求共享同一哨兵，副本之间不能互相覆盖
	assert.NotSame(t, ErrConsistencyFailed, first)
	assert.Equal(t, "", ErrConsistencyFailed.Detail)
	assert.Equal(t, "角色偏离设定", first.Detail)
	assert.Equal(t, "时间线混乱", second.Detail)
}

func TestWithError_DoesNotMutateSentinel(t *testing.T) {
	cause := stderrors.New("llm timeout")
	err := ErrLLMCallFailed.WithError(cause)

	assert.NotSame(t, ErrLLMCallFailed, err)
	assert.Nil(t, ErrLLMCallFailed.Err)
	assert.True(t, stderrors.Is(err, cause))
	assert.True(t, stderrors.Is(err, ErrLLMCallFailed))
}
