package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/darkkaiser/notify-relay/internal/pkg/errors"
)

func TestNewTemplate(t *testing.T) {
	t.Parallel()

	t.Run("valid template", func(t *testing.T) {
		t.Parallel()

		tmpl, err := NewTemplate("default", "Urgent: {{event}} at {{time}} for {{team}}")
		require.NoError(t, err)
		assert.Equal(t, "default", tmpl.ID())
	})

	t.Run("empty body rejected", func(t *testing.T) {
		t.Parallel()

		_, err := NewTemplate("empty", "   ")
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
	})
}

func TestTemplate_Render(t *testing.T) {
	t.Parallel()

	t.Run("fills all placeholders", func(t *testing.T) {
		t.Parallel()

		tmpl, err := NewTemplate("default", "Urgent: {{event}} at {{time}} for {{team}}")
		require.NoError(t, err)

		msg, err := tmpl.Render(map[string]string{
			"event": "Meeting",
			"time":  "10 AM tomorrow",
			"team":  "DevOps",
		}, MissingKeyError)
		require.NoError(t, err)

		assert.Equal(t, "Urgent: Meeting at 10 AM tomorrow for DevOps", msg)
	})

	t.Run("placeholder names are case insensitive", func(t *testing.T) {
		t.Parallel()

		tmpl, err := NewTemplate("t", "{{Event}} / {{EVENT_NAME}}")
		require.NoError(t, err)

		msg, err := tmpl.Render(map[string]string{
			"event":     "Meeting",
			"EventName": "Standup",
		}, MissingKeyError)
		require.NoError(t, err)

		assert.Equal(t, "Meeting / Standup", msg)
	})

	t.Run("missing key with error policy", func(t *testing.T) {
		t.Parallel()

		tmpl, err := NewTemplate("t", "Hello {{name}}")
		require.NoError(t, err)

		_, err = tmpl.Render(map[string]string{}, MissingKeyError)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
		assert.Contains(t, err.Error(), "name")
	})

	t.Run("empty value counts as missing", func(t *testing.T) {
		t.Parallel()

		tmpl, err := NewTemplate("t", "Hello {{name}}")
		require.NoError(t, err)

		_, err = tmpl.Render(map[string]string{"name": ""}, MissingKeyError)
		assert.Error(t, err)
	})

	t.Run("missing key with keep policy", func(t *testing.T) {
		t.Parallel()

		tmpl, err := NewTemplate("t", "Hello {{name}}, meet at {{time}}")
		require.NoError(t, err)

		msg, err := tmpl.Render(map[string]string{"time": "10 AM"}, MissingKeyKeep)
		require.NoError(t, err)

		assert.Equal(t, "Hello {{name}}, meet at 10 AM", msg)
	})

	t.Run("rendering is idempotent", func(t *testing.T) {
		t.Parallel()

		tmpl, err := NewTemplate("t", "{{a}} and {{b}}")
		require.NoError(t, err)

		params := map[string]string{"a": "x", "b": "y"}

		first, err := tmpl.Render(params, MissingKeyError)
		require.NoError(t, err)
		second, err := tmpl.Render(params, MissingKeyError)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("template without placeholders", func(t *testing.T) {
		t.Parallel()

		tmpl, err := NewTemplate("t", "static message")
		require.NoError(t, err)

		msg, err := tmpl.Render(nil, MissingKeyError)
		require.NoError(t, err)
		assert.Equal(t, "static message", msg)
	})
}

func TestTemplate_Placeholders(t *testing.T) {
	t.Parallel()

	tmpl, err := NewTemplate("t", "{{event}} at {{ time }} for {{Event}}")
	require.NoError(t, err)

	assert.Equal(t, []string{"event", "time"}, tmpl.Placeholders())
}

func TestParsePolicy(t *testing.T) {
	t.Parallel()

	assert.Equal(t, MissingKeyKeep, ParsePolicy("keep"))
	assert.Equal(t, MissingKeyKeep, ParsePolicy("KEEP"))
	assert.Equal(t, MissingKeyError, ParsePolicy("error"))
	assert.Equal(t, MissingKeyError, ParsePolicy(""))
	assert.Equal(t, MissingKeyError, ParsePolicy("unknown"))
}
