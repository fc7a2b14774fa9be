package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureStack(t *testing.T) {
	t.Parallel()

	t.Run("records the caller of the error constructor", func(t *testing.T) {
		t.Parallel()

		err := New(Internal, "boom")

		var appErr *AppError
		require.ErrorAs(t, err, &appErr)
		require.NotEmpty(t, appErr.Stack())

		top := appErr.Stack()[0]
		assert.Equal(t, "stack_test.go", top.File)
		assert.Contains(t, top.Function, "TestCaptureStack")
		assert.Positive(t, top.Line)
	})

	t.Run("caps the number of frames", func(t *testing.T) {
		t.Parallel()

		frames := captureStack(1)
		assert.LessOrEqual(t, len(frames), 5)
	})
}
