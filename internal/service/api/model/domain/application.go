// Package domain API 서비스의 런타임 도메인 모델을 정의합니다.
//
// config 패키지의 설정 구조체와는 별도로, 인증을 통과한 이후의
// 핸들러에서 안전하게 사용되는 엔티티를 제공합니다.
package domain

// Application 릴레이 API를 사용하는 클라이언트 애플리케이션을 나타내는 도메인 엔티티입니다.
//
// App Key는 보안을 위해 이 구조체에 저장되지 않으며, Authenticator 내부에서만 관리됩니다.
type Application struct {
	ID          string // 애플리케이션 식별자
	Title       string // 애플리케이션 이름
	Description string // 애플리케이션 설명
}
