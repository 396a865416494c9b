package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorStringIncludesCodeAndLocation(t *testing.T) {
	err := (&Error{
		Type:    TypeParse,
		Code:    "parse-error",
		Message: "unexpected end of tag",
	}).WithLocation("src/App.svelte", 3, 10)

	msg := err.Error()
	assert.Contains(t, msg, "[parse-error]")
	assert.Contains(t, msg, "src/App.svelte:3:10")
	assert.Contains(t, msg, "unexpected end of tag")
}

func TestErrorStringIncludesCause(t *testing.T) {
	cause := errors.New("boom")
	err := NewTransformError("transform-error", "failed to lower template", cause)
	assert.Contains(t, err.Error(), "boom")
}

func TestErrorIsComparesTypeAndCode(t *testing.T) {
	a := NewParseError("parse-error", "one message")
	b := NewParseError("parse-error", "a different message")
	c := NewConfigError("parse-error", "same code, different type")

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, c))
}

func TestErrorUnwrapReturnsCause(t *testing.T) {
	cause := errors.New("root cause")
	err := NewSubprocessError("subprocess-start", "tsgo failed to start", cause, false)
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestWithContextAttachesValue(t *testing.T) {
	err := NewParseError("parse-error", "bad token")
	err.WithContext("token", "<<<")
	require.NotNil(t, err.Context)
	assert.Equal(t, "<<<", err.Context["token"])
}

func TestNewSubprocessErrorRecoverableFlag(t *testing.T) {
	retryable := NewSubprocessError("subprocess-restart", "mid-batch failure, retrying", nil, true)
	fatal := NewSubprocessError("subprocess-start", "tsgo not found", nil, false)
	assert.True(t, retryable.Recoverable)
	assert.False(t, fatal.Recoverable)
}

func TestFatalSubprocessStartPreservesStructuredError(t *testing.T) {
	err := FatalSubprocessStart("subprocess-start", "sveltec failed to start", errors.New("exec: \"sveltec\": executable file not found in $PATH"))

	var appErr *Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, TypeSubprocess, appErr.Type)
	assert.False(t, appErr.Recoverable)
	assert.Contains(t, err.Error(), "sveltec failed to start")
}
