package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/darkkaiser/notify-relay/internal/service/api/auth"
	"github.com/darkkaiser/notify-relay/internal/service/api/constants"
	applog "github.com/darkkaiser/notify-relay/pkg/log"
)

// RequireAuthentication 애플리케이션 인증을 수행하는 미들웨어를 반환합니다.
//
// 처리 과정:
//  1. App Key 추출 (X-App-Key 헤더 우선, app_key 쿼리 파라미터 폴백)
//  2. Application ID 추출 (X-Application-Id 헤더 우선, Body 폴백)
//  3. Authenticator를 통한 인증 처리
//  4. 인증된 Application 객체를 Context에 저장
//
// Application ID를 헤더로 전달하면 Body 파싱과 복원 비용 없이 인증이 가능합니다.
// 헤더가 없는 경우에만 요청 본문에서 application_id를 읽으며,
// 이때 읽은 본문은 다음 핸들러에서 다시 사용할 수 있도록 복원됩니다.
//
// 인증 실패 시:
//   - 400 Bad Request: App Key/Application ID 누락, 빈 Body, 잘못된 JSON
//   - 401 Unauthorized: 미등록 Application ID 또는 잘못된 App Key
//   - 413 Request Entity Too Large: 요청 크기가 제한을 초과함 (BodyLimit)
//
// Panics:
//   - authenticator가 nil인 경우
func RequireAuthentication(authenticator *auth.Authenticator) echo.MiddlewareFunc {
	if authenticator == nil {
		panic("Authenticator는 필수입니다")
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// 1. App Key 추출
			appKey := extractAppKey(c)
			if appKey == "" {
				return ErrAppKeyRequired
			}

			// 2. Application ID 추출
			applicationID, err := extractApplicationID(c)
			if err != nil {
				return err
			}
			if applicationID == "" {
				return ErrApplicationIDRequired
			}

			// 3. 인증 처리
			app, err := authenticator.Authenticate(applicationID, appKey)
			if err != nil {
				return err
			}

			// 4. Context에 인증된 Application 저장
			auth.SetApplication(c, app)

			return next(c)
		}
	}
}

// extractAppKey App Key를 추출합니다.
//
// 우선순위:
//  1. X-App-Key 헤더 (권장)
//  2. app_key 쿼리 파라미터 (레거시) - 사용 시 경고 로그 출력
func extractAppKey(c echo.Context) string {
	appKey := c.Request().Header.Get(constants.HeaderXAppKey)
	if appKey == "" {
		appKey = c.QueryParam(constants.QueryParamAppKey)

		// 레거시 방식 사용 시 경고 로그
		if appKey != "" {
			applog.WithComponentAndFields(constants.ComponentMiddlewareAuthentication, applog.Fields{
				"method":    c.Request().Method,
				"path":      c.Path(),
				"remote_ip": c.RealIP(),
			}).Warn("보안 경고: 쿼리 파라미터로 App Key 전달됨 (헤더 사용 권장)")
		}
	}
	return appKey
}

// extractApplicationID Application ID를 추출합니다.
//
// 우선순위:
//  1. X-Application-Id 헤더 (권장)
//  2. Request Body (레거시, 호환성 유지) - Body 파싱 및 복원 비용 발생
func extractApplicationID(c echo.Context) (string, error) {
	applicationID := c.Request().Header.Get(constants.HeaderXApplicationID)
	if applicationID != "" {
		return applicationID, nil
	}

	// 헤더가 없는 경우에만 불가피하게 Body를 파싱합니다.
	bodyBytes, err := io.ReadAll(c.Request().Body)
	if err != nil {
		// BodyLimit 미들웨어 또는 http.MaxBytesReader에 의해 요청 본문 크기가 제한된 경우
		// 읽기 시도 시 발생하는 에러를 표준 413 응답으로 정규화합니다.
		if _, ok := err.(*http.MaxBytesError); ok {
			return "", ErrBodyTooLarge
		}
		if he, ok := err.(*echo.HTTPError); ok && he.Code == http.StatusRequestEntityTooLarge {
			return "", ErrBodyTooLarge
		}
		return "", ErrBodyReadFailed
	}
	c.Request().Body.Close()

	if len(bodyBytes) == 0 {
		return "", ErrEmptyBody
	}

	// Body 복원 (다음 핸들러에서 사용 가능하도록)
	c.Request().Body = io.NopCloser(bytes.NewReader(bodyBytes))

	var authRequest struct {
		ApplicationID string `json:"application_id"`
	}
	if err := json.Unmarshal(bodyBytes, &authRequest); err != nil {
		return "", ErrInvalidJSON
	}

	return authRequest.ApplicationID, nil
}
