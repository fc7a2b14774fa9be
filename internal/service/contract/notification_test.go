package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/darkkaiser/notify-relay/internal/pkg/errors"
)

func TestNotificationPayload_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload NotificationPayload
		wantErr error
	}{
		{
			name: "valid payload",
			payload: NotificationPayload{
				Recipient: "devops@company.com",
				Message:   "Urgent: Meeting at 10 AM tomorrow",
				Channel:   "email",
			},
			wantErr: nil,
		},
		{
			name: "empty recipient",
			payload: NotificationPayload{
				Message: "hello",
				Channel: "email",
			},
			wantErr: ErrRecipientRequired,
		},
		{
			name: "whitespace recipient",
			payload: NotificationPayload{
				Recipient: "   ",
				Message:   "hello",
			},
			wantErr: ErrRecipientRequired,
		},
		{
			name: "empty message",
			payload: NotificationPayload{
				Recipient: "user@example.com",
			},
			wantErr: ErrMessageRequired,
		},
		{
			name: "whitespace message",
			payload: NotificationPayload{
				Recipient: "user@example.com",
				Message:   " \t ",
			},
			wantErr: ErrMessageRequired,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.payload.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
			}
		})
	}
}

func TestStateOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DeliveryStateDraft, StateOf(NotificationPayload{IsDraft: true}))
	assert.Equal(t, DeliveryStateSent, StateOf(NotificationPayload{IsDraft: false}))
}
