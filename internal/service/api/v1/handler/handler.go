// Package handler v1 API의 HTTP 요청 핸들러를 제공합니다.
//
// HTTP 요청을 받아 검증하고, 릴레이 파이프라인을 호출한 후,
// 적절한 HTTP 응답을 반환하는 핸들러 함수들을 포함합니다.
package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/darkkaiser/notify-relay/internal/service/api/constants"
	"github.com/darkkaiser/notify-relay/internal/service/relay"
	applog "github.com/darkkaiser/notify-relay/pkg/log"
)

// Handler v1 API 요청을 처리하고 릴레이 파이프라인과 연결하는 핸들러입니다.
//
// 이 구조체는 다음 역할을 수행합니다:
//   - HTTP 요청 바인딩 및 검증
//   - 릴레이 파이프라인(대화 → 알림 변환 및 전송) 호출
//   - HTTP 응답 생성
type Handler struct {
	// relayer 대화 스니펫을 알림으로 변환하여 전달하는 인터페이스
	relayer relay.Relayer
}

// NewHandler Handler 인스턴스를 생성합니다.
//
// Panics:
//   - relayer가 nil인 경우
func NewHandler(relayer relay.Relayer) *Handler {
	if relayer == nil {
		panic("Relayer는 필수입니다")
	}

	return &Handler{
		relayer: relayer,
	}
}

// log 공통 로깅 필드가 설정된 로거 엔트리를 반환합니다.
func (h *Handler) log(c echo.Context) *applog.Entry {
	return applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"endpoint": c.Path(),
	})
}
