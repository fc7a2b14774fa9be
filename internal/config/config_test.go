package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/darkkaiser/notify-relay/internal/pkg/errors"
)

// validConfigMap returns a minimal configuration that passes validation.
// Individual tests mutate the returned map to trigger specific failures.
func validConfigMap() map[string]any {
	return map[string]any{
		"debug": true,
		"relay": map[string]any{
			"endpoint_url":  "https://hooks.example.com/notifications",
			"user_identity": "user@example.com",
			"default_team":  "DevOps",
		},
		"teams": []map[string]any{
			{"name": "DevOps", "address": "devops@company.com"},
			{"name": "Platform", "address": "platform@company.com"},
		},
		"templates": []map[string]any{
			{"id": "default", "text": "Urgent: {{event}} at {{time}} for {{team}}"},
		},
		"notify_api": map[string]any{
			"ws":   map[string]any{"listen_port": 8080},
			"cors": map[string]any{"allow_origins": []string{"*"}},
			"applications": []map[string]any{
				{"id": "test-app", "title": "Test Application", "app_key": "test-app-key"},
			},
		},
	}
}

func writeConfigFile(t *testing.T, cfg map[string]any) string {
	t.Helper()

	data, err := json.Marshal(cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), DefaultFilename)
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func TestLoadWithFile(t *testing.T) {
	t.Run("loads a valid configuration", func(t *testing.T) {
		cfg, err := LoadWithFile(writeConfigFile(t, validConfigMap()))
		require.NoError(t, err)

		assert.True(t, cfg.Debug)
		assert.Equal(t, "https://hooks.example.com/notifications", cfg.Relay.EndpointURL)
		assert.Equal(t, "user@example.com", cfg.Relay.UserIdentity)
		assert.Equal(t, "DevOps", cfg.Relay.DefaultTeam)
		assert.Len(t, cfg.Teams, 2)
		assert.Equal(t, 8080, cfg.NotifyAPI.WS.ListenPort)
	})

	t.Run("applies defaults for omitted sections", func(t *testing.T) {
		cfg, err := LoadWithFile(writeConfigFile(t, validConfigMap()))
		require.NoError(t, err)

		assert.Equal(t, DefaultMaxRetries, cfg.HTTPRetry.MaxRetries)
		assert.Equal(t, DefaultRetryDelay, cfg.HTTPRetry.RetryDelay)
		assert.Equal(t, 2*time.Second, cfg.HTTPRetry.Delay())
		assert.Equal(t, DefaultChannel, cfg.Relay.DefaultChannel)
		assert.Equal(t, DefaultMissingKeyPolicy, cfg.Relay.MissingKeyPolicy)
		assert.Contains(t, cfg.Relay.DraftPhrases, "draft to me")
		assert.Contains(t, cfg.Relay.EventKeywords, "meeting")
	})

	t.Run("environment variables override file values", func(t *testing.T) {
		t.Setenv("RELAY_RELAY__DEFAULT_CHANNEL", "slack")
		t.Setenv("RELAY_HTTP_RETRY__MAX_RETRIES", "7")

		cfg, err := LoadWithFile(writeConfigFile(t, validConfigMap()))
		require.NoError(t, err)

		assert.Equal(t, "slack", cfg.Relay.DefaultChannel)
		assert.Equal(t, 7, cfg.HTTPRetry.MaxRetries)
	})

	t.Run("missing file returns a system error", func(t *testing.T) {
		_, err := LoadWithFile(filepath.Join(t.TempDir(), "no-such-file.json"))
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.System))
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		cfg := validConfigMap()
		cfg["unexpected_section"] = map[string]any{"x": 1}

		_, err := LoadWithFile(writeConfigFile(t, cfg))
		assert.Error(t, err)
	})
}

func TestLoadWithFile_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg map[string]any)
	}{
		{
			name: "missing endpoint url",
			mutate: func(cfg map[string]any) {
				cfg["relay"].(map[string]any)["endpoint_url"] = ""
			},
		},
		{
			name: "endpoint url with invalid scheme",
			mutate: func(cfg map[string]any) {
				cfg["relay"].(map[string]any)["endpoint_url"] = "ftp://example.com"
			},
		},
		{
			name: "missing user identity",
			mutate: func(cfg map[string]any) {
				cfg["relay"].(map[string]any)["user_identity"] = ""
			},
		},
		{
			name: "unknown default channel",
			mutate: func(cfg map[string]any) {
				cfg["relay"].(map[string]any)["default_channel"] = "pager"
			},
		},
		{
			name: "unknown missing key policy",
			mutate: func(cfg map[string]any) {
				cfg["relay"].(map[string]any)["missing_key_policy"] = "panic"
			},
		},
		{
			name: "default team not defined",
			mutate: func(cfg map[string]any) {
				cfg["relay"].(map[string]any)["default_team"] = "Ghost"
			},
		},
		{
			name: "duplicate team names",
			mutate: func(cfg map[string]any) {
				cfg["teams"] = []map[string]any{
					{"name": "DevOps", "address": "a@company.com"},
					{"name": "DevOps", "address": "b@company.com"},
				}
			},
		},
		{
			name: "team without address",
			mutate: func(cfg map[string]any) {
				cfg["teams"] = []map[string]any{
					{"name": "DevOps", "address": ""},
				}
				cfg["relay"].(map[string]any)["default_team"] = ""
			},
		},
		{
			name: "default template missing",
			mutate: func(cfg map[string]any) {
				cfg["templates"] = []map[string]any{
					{"id": "other", "text": "hello"},
				}
			},
		},
		{
			name: "duplicate template ids",
			mutate: func(cfg map[string]any) {
				cfg["templates"] = []map[string]any{
					{"id": "default", "text": "a"},
					{"id": "default", "text": "b"},
				}
			},
		},
		{
			name: "invalid listen port",
			mutate: func(cfg map[string]any) {
				cfg["notify_api"].(map[string]any)["ws"] = map[string]any{"listen_port": 0}
			},
		},
		{
			name: "empty cors origins",
			mutate: func(cfg map[string]any) {
				cfg["notify_api"].(map[string]any)["cors"] = map[string]any{"allow_origins": []string{}}
			},
		},
		{
			name: "wildcard mixed with other origins",
			mutate: func(cfg map[string]any) {
				cfg["notify_api"].(map[string]any)["cors"] = map[string]any{
					"allow_origins": []string{"*", "https://example.com"},
				}
			},
		},
		{
			name: "application without app key",
			mutate: func(cfg map[string]any) {
				cfg["notify_api"].(map[string]any)["applications"] = []map[string]any{
					{"id": "test-app", "title": "Test", "app_key": ""},
				}
			},
		},
		{
			name: "draft alert enabled without bot token",
			mutate: func(cfg map[string]any) {
				cfg["relay"].(map[string]any)["draft_alert"] = map[string]any{
					"enabled": true,
					"chat_id": 12345,
				}
			},
		},
		{
			name: "draft alert with malformed bot token",
			mutate: func(cfg map[string]any) {
				cfg["relay"].(map[string]any)["draft_alert"] = map[string]any{
					"enabled":   true,
					"bot_token": "not-a-token",
					"chat_id":   12345,
				}
			},
		},
		{
			name: "invalid retry delay",
			mutate: func(cfg map[string]any) {
				cfg["http_retry"] = map[string]any{"max_retries": 3, "retry_delay": "soon"}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfigMap()
			tt.mutate(cfg)

			_, err := LoadWithFile(writeConfigFile(t, cfg))
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.InvalidInput) || apperrors.Is(err, apperrors.NotFound))
		})
	}
}

func TestAppConfig_Lookups(t *testing.T) {
	cfg, err := LoadWithFile(writeConfigFile(t, validConfigMap()))
	require.NoError(t, err)

	t.Run("template lookup", func(t *testing.T) {
		text, ok := cfg.Template("default")
		assert.True(t, ok)
		assert.Equal(t, "Urgent: {{event}} at {{time}} for {{team}}", text)

		_, ok = cfg.Template("missing")
		assert.False(t, ok)
	})

	t.Run("team address lookup is case insensitive", func(t *testing.T) {
		addr, ok := cfg.TeamAddress("devops")
		assert.True(t, ok)
		assert.Equal(t, "devops@company.com", addr)

		_, ok = cfg.TeamAddress("ghost")
		assert.False(t, ok)
	})
}

func TestWSConfig_VerifyRecommendations(t *testing.T) {
	t.Parallel()

	reserved := &WSConfig{ListenPort: 80}
	assert.NotEmpty(t, reserved.VerifyRecommendations())

	normal := &WSConfig{ListenPort: 8080}
	assert.Empty(t, normal.VerifyRecommendations())
}
