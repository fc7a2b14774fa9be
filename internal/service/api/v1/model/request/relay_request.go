// Package request v1 API의 요청 모델을 정의합니다.
package request

import (
	"github.com/darkkaiser/notify-relay/pkg/maputil"
)

// RelayRequest 대화 스니펫의 릴레이 처리 요청
type RelayRequest struct {
	// 인증에 사용할 애플리케이션 식별자
	ApplicationID string `json:"application_id" korean:"애플리케이션 ID" example:"my-app"`

	// 알림으로 변환할 대화 스니펫 (최대 8192자)
	Conversation string `json:"conversation" validate:"required,min=1,max=8192" korean:"대화 내용" example:"Human: Notify DevOps about the urgent meeting tomorrow at 10 AM."`

	// 사용할 메시지 템플릿 식별자 (생략 시 default 템플릿 사용)
	TemplateID string `json:"template_id" korean:"템플릿 ID" example:"default"`

	// 추출된 필드를 재정의하는 값 (키: 플레이스홀더 이름)
	// 문자열 외의 값도 허용되며, 처리 시 문자열로 변환됩니다.
	Params map[string]any `json:"params" korean:"재정의 파라미터"`

	// 초안 여부 재정의 (생략 시 대화 내용에서 판단, false 지정 시 초안 승인 재요청)
	Draft *bool `json:"draft" korean:"초안 여부"`
}

// StringParams 재정의 파라미터를 문자열 맵으로 변환하여 반환합니다.
//
// JSON 숫자나 불리언 값도 유연하게 문자열로 변환되므로,
// 클라이언트는 {"time": 10} 같은 형태로도 값을 전달할 수 있습니다.
func (r *RelayRequest) StringParams() (map[string]string, error) {
	if len(r.Params) == 0 {
		return nil, nil
	}

	params, err := maputil.Decode[map[string]string](r.Params)
	if err != nil {
		return nil, err
	}
	return *params, nil
}
