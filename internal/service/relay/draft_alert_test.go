package relay

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkkaiser/notify-relay/internal/service/contract"
)

// stubBotAPI records messages passed to Send.
type stubBotAPI struct {
	sent []tgbotapi.Chattable
	err  error
}

func (s *stubBotAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.sent = append(s.sent, c)
	return tgbotapi.Message{}, s.err
}

func draftDelivery() *contract.Delivery {
	return &contract.Delivery{
		ID:    contract.DeliveryID("0001draftalert"),
		State: contract.DeliveryStateDraft,
		Payload: contract.NotificationPayload{
			Recipient: "user@example.com",
			Message:   "Urgent: Meeting at 10 AM tomorrow for DevOps",
			Channel:   "email",
			IsDraft:   true,
		},
	}
}

func TestTelegramDraftAlerter_AlertDraft(t *testing.T) {
	t.Parallel()

	bot := &stubBotAPI{}
	alerter := &telegramDraftAlerter{bot: bot, chatID: 12345}

	require.NoError(t, alerter.AlertDraft(context.Background(), draftDelivery()))
	require.Len(t, bot.sent, 1)

	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)

	assert.Equal(t, int64(12345), msg.ChatID)
	assert.Contains(t, msg.Text, "0001draftalert")
	assert.Contains(t, msg.Text, "user@example.com")
	assert.Contains(t, msg.Text, "email")
	assert.Contains(t, msg.Text, "Urgent: Meeting at 10 AM tomorrow for DevOps")
}

func TestTelegramDraftAlerter_AlertDraft_SendError(t *testing.T) {
	t.Parallel()

	bot := &stubBotAPI{err: errors.New("telegram unreachable")}
	alerter := &telegramDraftAlerter{bot: bot, chatID: 12345}

	err := alerter.AlertDraft(context.Background(), draftDelivery())
	require.Error(t, err)
	assert.Len(t, bot.sent, 1)
}
