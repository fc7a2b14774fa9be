// Package v1 릴레이 API의 v1 버전 라우트를 정의하고 설정합니다.
//
// 이 패키지는 /api/v1 경로 하위의 모든 엔드포인트를 관리합니다.
//
// 주요 엔드포인트:
//   - POST /api/v1/relay - 대화 스니펫 릴레이 (알림 변환 및 전송)
//
// 모든 엔드포인트는 애플리케이션 인증(app_key)을 요구하며,
// 인증 미들웨어를 통해 요청을 검증합니다.
package v1

import (
	"github.com/labstack/echo/v4"

	"github.com/darkkaiser/notify-relay/internal/service/api/auth"
	"github.com/darkkaiser/notify-relay/internal/service/api/middleware"
	"github.com/darkkaiser/notify-relay/internal/service/api/v1/handler"
)

// RegisterRoutes Echo 인스턴스에 v1 API 라우트를 설정합니다.
//
// /api/v1 그룹을 생성하고, 인증 미들웨어와 Content-Type 검증 미들웨어를
// 적용한 후 릴레이 엔드포인트를 등록합니다.
func RegisterRoutes(e *echo.Echo, h *handler.Handler, authenticator *auth.Authenticator) {
	// 1. API v1 그룹 생성 (/api/v1 prefix)
	v1Group := e.Group("/api/v1")

	// 2. 인증 미들웨어 생성 (app_key 검증)
	authMiddleware := middleware.RequireAuthentication(authenticator)

	// 3. 릴레이 엔드포인트 등록 (인증 미들웨어 적용 + Content-Type 검증)
	v1Group.POST("/relay", h.RelayHandler,
		authMiddleware,
		middleware.ValidateContentType(echo.MIMEApplicationJSON),
	)
}
