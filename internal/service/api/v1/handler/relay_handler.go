package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/darkkaiser/notify-relay/internal/pkg/errors"
	"github.com/darkkaiser/notify-relay/internal/service/api/auth"
	"github.com/darkkaiser/notify-relay/internal/service/api/httputil"
	"github.com/darkkaiser/notify-relay/internal/service/api/v1/model/request"
	"github.com/darkkaiser/notify-relay/internal/service/api/v1/model/response"
	"github.com/darkkaiser/notify-relay/internal/service/contract"
	"github.com/darkkaiser/notify-relay/internal/service/relay"
	applog "github.com/darkkaiser/notify-relay/pkg/log"
)

// RelayHandler godoc
// @Summary 대화 스니펫 릴레이
// @Description 대화 스니펫에서 알림 필드를 추출하고, 템플릿을 렌더링하여 설정된 엔드포인트로 전송합니다.
// @Description
// @Description 대화에 초안 요청 문구가 포함된 경우 알림은 팀 주소 대신 요청자 본인에게 초안으로 발송됩니다.
// @Description 초안 승인은 동일한 요청에 draft:false를 지정하여 재호출하는 방식으로 이루어집니다.
// @Description
// @Description ## 인증 방식
// @Description - **권장**: X-App-Key 헤더와 X-Application-Id 헤더로 전달
// @Description - **레거시**: app_key 쿼리 파라미터, 본문의 application_id 필드 (하위 호환성 유지)
// @Tags Relay
// @Accept json
// @Produce json
// @Param X-App-Key header string false "Application Key (인증용, 권장)"
// @Param X-Application-Id header string false "Application ID (인증용, 권장)"
// @Param app_key query string false "Application Key (인증용, 레거시)"
// @Param relay body request.RelayRequest true "릴레이 요청 정보"
// @Success 200 {object} response.RelayResponse "릴레이 처리 결과"
// @Failure 400 {object} response.ErrorResponse "잘못된 요청 (필수 필드 누락, 렌더링 실패 등)"
// @Failure 401 {object} response.ErrorResponse "인증 실패 (잘못된 App Key 또는 미등록 애플리케이션)"
// @Failure 404 {object} response.ErrorResponse "존재하지 않는 템플릿"
// @Failure 503 {object} response.ErrorResponse "서비스 중지 또는 엔드포인트 전송 실패"
// @Security ApiKeyAuth
// @Router /api/v1/relay [post]
func (h *Handler) RelayHandler(c echo.Context) error {
	// 1. 요청 바인딩
	req := new(request.RelayRequest)
	if err := c.Bind(req); err != nil {
		return NewErrInvalidBody()
	}

	// 2. 입력 검증
	if err := ValidateRequest(req); err != nil {
		return NewErrValidationFailed(FormatValidationError(err))
	}

	// 3. 인증된 애플리케이션과 본문의 application_id 일치 여부 확인
	app := auth.MustGetApplication(c)
	if req.ApplicationID != "" && req.ApplicationID != app.ID {
		return NewErrAppIDMismatch(req.ApplicationID, app.ID)
	}

	// 4. 재정의 파라미터 변환
	params, err := req.StringParams()
	if err != nil {
		return NewErrInvalidParams()
	}

	// 5. 릴레이 파이프라인 실행
	delivery, err := h.relayer.Relay(c.Request().Context(), relay.Request{
		Conversation: req.Conversation,
		TemplateID:   req.TemplateID,
		Params:       params,
		Draft:        req.Draft,
	})
	if err != nil {
		h.log(c).WithFields(applog.Fields{
			"application_id": app.ID,
			"template_id":    req.TemplateID,
			"error":          err.Error(),
		}).Warn("릴레이 처리 실패")

		return h.mapRelayError(err)
	}

	h.log(c).WithFields(applog.Fields{
		"application_id": app.ID,
		"delivery_id":    delivery.ID,
		"state":          delivery.State,
	}).Info("릴레이 처리 요청 성공")

	// 6. 성공 응답
	return c.JSON(http.StatusOK, response.NewRelayResponse(delivery))
}

// mapRelayError 릴레이 파이프라인의 에러를 적절한 HTTP 에러로 변환합니다.
func (h *Handler) mapRelayError(err error) error {
	// 서비스가 중지된 상태
	if errors.Is(err, contract.ErrServiceStopped) {
		return NewErrServiceStopped()
	}

	// 존재하지 않는 템플릿
	if apperrors.Is(err, apperrors.NotFound) {
		return httputil.NewNotFoundError(err.Error())
	}

	// 렌더링 실패, 수신자 누락 등 요청 데이터에서 비롯된 에러
	if apperrors.Is(err, apperrors.InvalidInput) {
		return NewErrValidationFailed(err.Error())
	}

	// 외부 엔드포인트 전송 실패
	if apperrors.Is(err, apperrors.Unavailable) {
		return NewErrEndpointUnavailable()
	}

	return httputil.NewInternalServerError("내부 서버 오류가 발생했습니다")
}
