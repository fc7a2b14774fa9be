// Package response v1 API의 응답 모델을 정의합니다.
package response

import (
	"github.com/darkkaiser/notify-relay/internal/service/contract"
)

// RelayResponse 릴레이 처리 결과 응답
type RelayResponse struct {
	// 발송 건의 고유 식별자 (시간순 정렬 가능한 Base62 문자열)
	DeliveryID string `json:"delivery_id" example:"2Xk9pL3m000001"`

	// 발송 상태 (draft 또는 sent)
	State string `json:"state" example:"draft"`

	// 외부 엔드포인트로 실제 전송된 알림 페이로드
	Payload contract.NotificationPayload `json:"payload"`

	// 외부 엔드포인트가 반환한 응답 본문 (가공 없이 전달)
	Response map[string]any `json:"response,omitempty"`
}

// NewRelayResponse 처리 결과(Delivery)로부터 응답 모델을 생성합니다.
func NewRelayResponse(delivery *contract.Delivery) RelayResponse {
	return RelayResponse{
		DeliveryID: delivery.ID.String(),
		State:      string(delivery.State),
		Payload:    delivery.Payload,
		Response:   delivery.Response,
	}
}
