package relay

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	apperrors "github.com/darkkaiser/notify-relay/internal/pkg/errors"
	"github.com/darkkaiser/notify-relay/internal/service/contract"
)

// DraftAlerter 초안(Draft) 알림이 생성되었을 때 요청자에게 검토 요청을 전달하는 인터페이스입니다.
type DraftAlerter interface {
	AlertDraft(ctx context.Context, delivery *contract.Delivery) error
}

// telegramBotAPI 텔레그램 메시지 전송에 필요한 최소한의 API 표면입니다.
// 실제 봇 API 호출 없이 테스트할 수 있도록 분리되어 있습니다.
type telegramBotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// telegramDraftAlerter 텔레그램 봇으로 초안 검토 요청을 전송하는 DraftAlerter 구현체입니다.
type telegramDraftAlerter struct {
	bot    telegramBotAPI
	chatID int64
}

// NewTelegramDraftAlerter 텔레그램 봇 기반의 DraftAlerter를 생성합니다.
// 봇 토큰 검증을 위해 텔레그램 API 호출(getMe)이 발생합니다.
func NewTelegramDraftAlerter(botToken string, chatID int64) (DraftAlerter, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Unavailable, "텔레그램 봇 API 초기화에 실패했습니다")
	}

	return &telegramDraftAlerter{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// AlertDraft 생성된 초안의 요약 정보를 텔레그램으로 전송합니다.
func (a *telegramDraftAlerter) AlertDraft(_ context.Context, delivery *contract.Delivery) error {
	text := fmt.Sprintf("초안 알림이 생성되었습니다. 검토 후 승인해 주세요.\n\nID: %s\n수신자: %s\n채널: %s\n\n%s",
		delivery.ID, delivery.Payload.Recipient, delivery.Payload.Channel, delivery.Payload.Message)

	if _, err := a.bot.Send(tgbotapi.NewMessage(a.chatID, text)); err != nil {
		return apperrors.Wrap(err, apperrors.Unavailable, "텔레그램 초안 검토 요청 전송에 실패했습니다")
	}

	return nil
}
