package log

import (
	"bytes"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskSensitiveData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"short value fully masked", "abc", "***"},
		{"medium value keeps prefix", "abcdefgh", "abcd***"},
		{"long token keeps prefix and suffix", "1234567890abcdefgh", "1234***efgh"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, MaskSensitiveData(tt.input))
		})
	}
}

func TestWithComponent(t *testing.T) {
	t.Parallel()

	entry := WithComponent("relay")
	assert.Equal(t, "relay", entry.Data["component"])
}

func TestWithComponentAndFields(t *testing.T) {
	t.Parallel()

	entry := WithComponentAndFields("dispatcher", Fields{
		"delivery_id": "abc123",
		"channel":     "email",
	})

	assert.Equal(t, "dispatcher", entry.Data["component"])
	assert.Equal(t, "abc123", entry.Data["delivery_id"])
	assert.Equal(t, "email", entry.Data["channel"])
}

func TestOptionsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"valid options", Options{Name: "notify-relay"}, false},
		{"missing name", Options{}, true},
		{"negative max age", Options{Name: "notify-relay", MaxAge: -1}, true},
		{"negative max size", Options{Name: "notify-relay", MaxSizeMB: -1}, true},
		{"negative max backups", Options{Name: "notify-relay", MaxBackups: -1}, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.opts.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func newTestEntry(level Level, msg string) *Entry {
	logger := logrus.New()
	entry := logrus.NewEntry(logger)
	entry.Level = level
	entry.Message = msg
	return entry
}

func TestHookRouting(t *testing.T) {
	t.Parallel()

	newHook := func() (*hook, *bytes.Buffer, *bytes.Buffer, *bytes.Buffer) {
		var mainBuf, criticalBuf, verboseBuf bytes.Buffer
		h := &hook{
			mainWriter:     &mainBuf,
			criticalWriter: &criticalBuf,
			verboseWriter:  &verboseBuf,
			formatter:      &logrus.TextFormatter{DisableTimestamp: true},
		}
		return h, &mainBuf, &criticalBuf, &verboseBuf
	}

	t.Run("info goes to main only", func(t *testing.T) {
		t.Parallel()

		h, mainBuf, criticalBuf, verboseBuf := newHook()
		require.NoError(t, h.Fire(newTestEntry(InfoLevel, "normal operation")))

		assert.Contains(t, mainBuf.String(), "normal operation")
		assert.Empty(t, criticalBuf.String())
		assert.Empty(t, verboseBuf.String())
	})

	t.Run("error goes to critical and main", func(t *testing.T) {
		t.Parallel()

		h, mainBuf, criticalBuf, verboseBuf := newHook()
		require.NoError(t, h.Fire(newTestEntry(ErrorLevel, "something broke")))

		assert.Contains(t, mainBuf.String(), "something broke")
		assert.Contains(t, criticalBuf.String(), "something broke")
		assert.Empty(t, verboseBuf.String())
	})

	t.Run("debug goes to verbose only", func(t *testing.T) {
		t.Parallel()

		h, mainBuf, criticalBuf, verboseBuf := newHook()
		require.NoError(t, h.Fire(newTestEntry(DebugLevel, "internal detail")))

		assert.Empty(t, mainBuf.String())
		assert.Empty(t, criticalBuf.String())
		assert.Contains(t, verboseBuf.String(), "internal detail")
	})

	t.Run("closed hook drops everything", func(t *testing.T) {
		t.Parallel()

		h, mainBuf, _, _ := newHook()
		require.NoError(t, h.Close())
		require.NoError(t, h.Fire(newTestEntry(InfoLevel, "after close")))

		assert.Empty(t, mainBuf.String())
	})
}

type syncRecorder struct {
	bytes.Buffer
	synced bool
	closed bool
}

func (r *syncRecorder) Sync() error {
	r.synced = true
	return nil
}

func (r *syncRecorder) Close() error {
	r.closed = true
	return nil
}

func TestCloser(t *testing.T) {
	t.Parallel()

	t.Run("syncs and closes all resources", func(t *testing.T) {
		t.Parallel()

		first := &syncRecorder{}
		second := &syncRecorder{}
		cl := &closer{closers: []io.Closer{first, second}}
		require.NoError(t, cl.Close())

		assert.True(t, first.synced)
		assert.True(t, first.closed)
		assert.True(t, second.synced)
		assert.True(t, second.closed)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		t.Parallel()

		rec := &syncRecorder{}
		cl := &closer{closers: []io.Closer{rec}}
		require.NoError(t, cl.Close())
		require.NoError(t, cl.Close())
	})
}
