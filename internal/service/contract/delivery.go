package contract

// DeliveryID 단일 알림 발송 건을 식별하는 고유 식별자입니다.
// 시간순 정렬이 보장되는 Base62 문자열로 생성됩니다.
type DeliveryID string

// String DeliveryID의 문자열 표현을 반환합니다.
func (id DeliveryID) String() string {
	return string(id)
}

// DeliveryState 발송 건의 상태를 나타냅니다.
//
// 상태는 단 두 가지뿐이며, 초안(Draft)에 대한 승인은 호출자가
// 초안 플래그를 해제하여 재요청하는 방식으로 이루어집니다.
// 서버는 발송 건의 상태를 내부에 저장하지 않습니다.
type DeliveryState string

const (
	// DeliveryStateDraft 초안이 요청자 본인에게 발송된 상태입니다.
	DeliveryStateDraft DeliveryState = "draft"

	// DeliveryStateSent 최종 수신자에게 실제 알림이 발송된 상태입니다.
	DeliveryStateSent DeliveryState = "sent"
)

// StateOf 페이로드의 초안 여부에 따른 발송 상태를 반환합니다.
func StateOf(p NotificationPayload) DeliveryState {
	if p.IsDraft {
		return DeliveryStateDraft
	}
	return DeliveryStateSent
}

// Delivery 한 번의 알림 발송 요청에 대한 처리 결과입니다.
type Delivery struct {
	ID       DeliveryID          // 발송 건 식별자
	State    DeliveryState       // 발송 상태 (draft 또는 sent)
	Payload  NotificationPayload // 실제로 전송된 페이로드
	Response map[string]any      // 외부 엔드포인트가 반환한 응답 본문 (가공 없이 전달)
}

// DeliveryIDGenerator 발송 건 식별자 생성을 담당하는 인터페이스입니다.
type DeliveryIDGenerator interface {
	New() DeliveryID
}
