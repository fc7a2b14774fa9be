package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	err := New(NotFound, "resource not found")
	require.Error(t, err)

	var appErr *AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, NotFound, appErr.Type())
	assert.Equal(t, "resource not found", appErr.Message())
	assert.NotEmpty(t, appErr.Stack())
	assert.Equal(t, "[NotFound] resource not found", err.Error())
}

func TestNewf(t *testing.T) {
	t.Parallel()

	err := Newf(InvalidInput, "invalid value: %d", 42)
	require.Error(t, err)
	assert.Equal(t, "[InvalidInput] invalid value: 42", err.Error())
}

func TestWrap(t *testing.T) {
	t.Parallel()

	t.Run("wraps an existing error", func(t *testing.T) {
		t.Parallel()

		cause := stderrors.New("connection refused")
		err := Wrap(cause, System, "failed to reach endpoint")
		require.Error(t, err)

		assert.Equal(t, "[System] failed to reach endpoint: connection refused", err.Error())
		assert.Equal(t, cause, stderrors.Unwrap(err))
	})

	t.Run("returns nil for nil error", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, Wrap(nil, System, "should be ignored"))
		assert.NoError(t, Wrapf(nil, System, "should be %s", "ignored"))
	})
}

func TestIs(t *testing.T) {
	t.Parallel()

	cause := New(NotFound, "template not found")
	wrapped := Wrap(cause, ExecutionFailed, "relay failed")

	tests := []struct {
		name     string
		err      error
		errType  ErrorType
		expected bool
	}{
		{"matches outer type", wrapped, ExecutionFailed, true},
		{"matches inner type through chain", wrapped, NotFound, true},
		{"does not match absent type", wrapped, Unauthorized, false},
		{"nil error never matches", nil, NotFound, false},
		{"plain error never matches", stderrors.New("plain"), NotFound, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, Is(tt.err, tt.errType))
		})
	}
}

func TestRootCause(t *testing.T) {
	t.Parallel()

	t.Run("finds the deepest error", func(t *testing.T) {
		t.Parallel()

		root := stderrors.New("root cause")
		err := Wrap(Wrap(root, System, "middle"), ExecutionFailed, "outer")

		assert.Equal(t, root, RootCause(err))
	})

	t.Run("returns the error itself when not wrapped", func(t *testing.T) {
		t.Parallel()

		err := stderrors.New("standalone")
		assert.Equal(t, err, RootCause(err))
	})

	t.Run("returns nil for nil", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, RootCause(nil))
	})
}

func TestUnderlyingType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected ErrorType
	}{
		{
			name:     "innermost AppError type wins",
			err:      Wrap(New(NotFound, "inner"), ExecutionFailed, "outer"),
			expected: NotFound,
		},
		{
			name:     "single AppError",
			err:      New(InvalidInput, "bad input"),
			expected: InvalidInput,
		},
		{
			name:     "AppError wrapping a plain error keeps its own type",
			err:      Wrap(stderrors.New("plain"), Timeout, "timed out"),
			expected: Timeout,
		},
		{
			name:     "plain error has no type",
			err:      stderrors.New("plain"),
			expected: Unknown,
		},
		{
			name:     "nil error has no type",
			err:      nil,
			expected: Unknown,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, UnderlyingType(tt.err))
		})
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	t.Run("verbose format includes chain and stack", func(t *testing.T) {
		t.Parallel()

		cause := stderrors.New("dial tcp: connection refused")
		err := Wrap(cause, System, "failed to send notification")

		formatted := fmt.Sprintf("%+v", err)
		assert.Contains(t, formatted, "[System] failed to send notification")
		assert.Contains(t, formatted, "Stack trace:")
		assert.Contains(t, formatted, "Caused by:")
		assert.Contains(t, formatted, "dial tcp: connection refused")
	})

	t.Run("stack is printed only once per chain", func(t *testing.T) {
		t.Parallel()

		err := Wrap(New(NotFound, "inner"), ExecutionFailed, "outer")

		formatted := fmt.Sprintf("%+v", err)
		assert.Equal(t, 1, strings.Count(formatted, "Stack trace:"))
	})

	t.Run("plain formats fall back to Error", func(t *testing.T) {
		t.Parallel()

		err := New(NotFound, "missing")
		assert.Equal(t, "[NotFound] missing", fmt.Sprintf("%v", err))
		assert.Equal(t, "[NotFound] missing", fmt.Sprintf("%s", err))
		assert.Equal(t, `"[NotFound] missing"`, fmt.Sprintf("%q", err))
	})
}

func TestErrorTypeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Unknown", Unknown.String())
	assert.Equal(t, "InvalidInput", InvalidInput.String())
	assert.Equal(t, "Unavailable", Unavailable.String())
	assert.Equal(t, "ErrorType(99)", ErrorType(99).String())
}
