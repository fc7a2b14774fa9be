package relay

// Request 대화 스니펫을 알림으로 변환하기 위한 릴레이 요청입니다.
//
// Conversation 외의 필드는 모두 선택 사항이며, 추출 및 설정 기반의
// 기본 동작을 호출자가 명시적으로 재정의하고 싶을 때만 사용합니다.
type Request struct {
	// Conversation 알림 필드를 추출할 자유 형식의 대화 스니펫
	Conversation string

	// TemplateID 사용할 메시지 템플릿의 식별자 (비어있으면 기본 템플릿 사용)
	TemplateID string

	// Params 템플릿 렌더링 파라미터의 재정의 값
	// 대화에서 추출된 값보다 우선하며, 추출되지 않은 파라미터를 보충할 수도 있습니다.
	Params map[string]string

	// Draft 초안 여부의 명시적 재정의 값입니다.
	//
	// nil이면 대화에서 감지된 초안 요청 문구에 따라 결정됩니다.
	// 초안을 검토한 호출자가 동일한 대화로 false를 지정하여 재요청하면,
	// 알림이 초안 단계를 거치지 않고 팀 주소로 실제 발송됩니다. (승인 흐름)
	Draft *bool
}
