// Package contract 서비스 간에 공유되는 핵심 도메인 타입과 인터페이스를 정의합니다.
//
// 각 서비스 패키지(extract, render, dispatch, relay)는 이 패키지의 타입을 통해
// 상호 작용하며, 구체 구현에 대한 직접적인 의존을 가지지 않습니다.
package contract

import (
	"strings"
)

// NotificationPayload 외부 알림 엔드포인트로 전송되는 요청 본문입니다.
//
// 필드 구성과 JSON 키는 수신 측 REST API와의 계약이므로 임의로 변경해서는 안 됩니다.
type NotificationPayload struct {
	Recipient string `json:"recipient"` // 알림을 수신할 주소 (이메일, 채널 주소 등)
	Message   string `json:"message"`   // 렌더링이 완료된 최종 메시지 본문
	Channel   string `json:"channel"`   // 발송 채널 (email, sms, slack, telegram)
	IsDraft   bool   `json:"is_draft"`  // 초안(Draft) 여부
}

// Validate 페이로드가 발송 가능한 상태인지 검증합니다.
//
// 수신자와 메시지는 네트워크 호출 이전에 반드시 채워져 있어야 하며,
// 공백 문자로만 구성된 값도 비어있는 것으로 간주합니다.
func (p NotificationPayload) Validate() error {
	if strings.TrimSpace(p.Recipient) == "" {
		return ErrRecipientRequired
	}
	if strings.TrimSpace(p.Message) == "" {
		return ErrMessageRequired
	}
	return nil
}
