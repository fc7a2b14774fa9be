package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor() *RuleExtractor {
	return NewRuleExtractor(Options{
		DraftPhrases:   []string{"draft to me", "send a draft", "as a draft first"},
		EventKeywords:  []string{"meeting", "deploy", "release", "incident", "outage"},
		TeamNames:      []string{"DevOps", "Platform", "Security"},
		DefaultChannel: "email",
	})
}

func TestRuleExtractor_Extract(t *testing.T) {
	t.Parallel()

	e := newTestExtractor()

	tests := []struct {
		name         string
		conversation string
		expected     Fields
	}{
		{
			name:         "draft request with team, event and time",
			conversation: "Human: Notify DevOps about the urgent meeting tomorrow at 10 AM, but send a draft to me first.",
			expected: Fields{
				Event:          "Meeting",
				Time:           "10 AM tomorrow",
				Team:           "DevOps",
				Channel:        "email",
				DraftRequested: true,
			},
		},
		{
			name:         "direct send without draft phrase",
			conversation: "Human: Notify DevOps about the urgent meeting tomorrow at 10 AM.",
			expected: Fields{
				Event:          "Meeting",
				Time:           "10 AM tomorrow",
				Team:           "DevOps",
				Channel:        "email",
				DraftRequested: false,
			},
		},
		{
			name:         "explicit channel word",
			conversation: "Tell Platform about the deploy tonight via slack.",
			expected: Fields{
				Event:          "Deploy",
				Time:           "tonight",
				Team:           "Platform",
				Channel:        "slack",
				DraftRequested: false,
			},
		},
		{
			name:         "24 hour clock",
			conversation: "Security team: maintenance window starts at 14:30 today.",
			expected: Fields{
				Event:          "",
				Time:           "14:30 today",
				Team:           "Security",
				Channel:        "email",
				DraftRequested: false,
			},
		},
		{
			name:         "nothing recognized falls back to defaults",
			conversation: "hello there",
			expected: Fields{
				Channel: "email",
			},
		},
		{
			name:         "empty input",
			conversation: "",
			expected: Fields{
				Channel: "email",
			},
		},
		{
			name:         "team match is case insensitive but canonical name returned",
			conversation: "please alert the devops folks about the outage",
			expected: Fields{
				Event:   "Outage",
				Team:    "DevOps",
				Channel: "email",
			},
		},
		{
			name:         "html fragment input",
			conversation: "<div><p>Notify <b>DevOps</b> about the incident at 9 PM tonight.</p></div>",
			expected: Fields{
				Event:   "Incident",
				Time:    "9 PM tonight",
				Team:    "DevOps",
				Channel: "email",
			},
		},
		{
			name:         "lowercase meridiem is normalized",
			conversation: "meeting at 10am tomorrow for DevOps",
			expected: Fields{
				Event:          "Meeting",
				Time:           "10 AM tomorrow",
				Team:           "DevOps",
				Channel:        "email",
				DraftRequested: false,
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, e.Extract(tt.conversation))
		})
	}
}

func TestRuleExtractor_ExtractFromReader(t *testing.T) {
	t.Parallel()

	e := newTestExtractor()

	fields, err := e.ExtractFromReader(strings.NewReader(
		"<html><body>Notify DevOps about the meeting tomorrow at 10 AM.</body></html>"))
	require.NoError(t, err)

	assert.Equal(t, "Meeting", fields.Event)
	assert.Equal(t, "10 AM tomorrow", fields.Time)
	assert.Equal(t, "DevOps", fields.Team)
}

func TestFields_ToParams(t *testing.T) {
	t.Parallel()

	f := Fields{
		Event:   "Meeting",
		Time:    "10 AM tomorrow",
		Team:    "DevOps",
		Channel: "email",
	}

	assert.Equal(t, map[string]string{
		"event":   "Meeting",
		"time":    "10 AM tomorrow",
		"team":    "DevOps",
		"channel": "email",
	}, f.ToParams())
}
