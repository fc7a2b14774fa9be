// Package dispatch 완성된 알림 페이로드를 외부 알림 엔드포인트로 전송합니다.
//
// 전송은 설정된 엔드포인트로의 단일 POST 요청으로 수행되며,
// 엔드포인트가 반환한 JSON 응답은 가공 없이 그대로 호출자에게 전달됩니다.
// 페이로드 유효성 검사는 네트워크 I/O 이전에 수행되므로,
// 유효하지 않은 페이로드는 어떠한 네트워크 요청도 발생시키지 않습니다.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/gjson"

	apperrors "github.com/darkkaiser/notify-relay/internal/pkg/errors"
	"github.com/darkkaiser/notify-relay/internal/service/contract"
	"github.com/darkkaiser/notify-relay/internal/service/dispatch/fetcher"
	applog "github.com/darkkaiser/notify-relay/pkg/log"
)

// component 로그에 기록되는 컴포넌트 식별자
const component = "dispatch"

// maxResponseBytes 엔드포인트 응답 본문의 최대 허용 크기입니다. (1MB)
const maxResponseBytes = 1 << 20

// Dispatcher 알림 페이로드를 외부 엔드포인트로 전송하는 인터페이스입니다.
//
// 반환되는 맵은 엔드포인트가 응답한 JSON 본문을 그대로 담고 있으며,
// 응답 본문이 비어있는 경우 빈 맵을 반환합니다.
type Dispatcher interface {
	Dispatch(ctx context.Context, payload contract.NotificationPayload) (map[string]any, error)
}

// HTTPDispatcher 설정된 REST 엔드포인트로 알림 페이로드를 POST 전송하는 Dispatcher 구현체입니다.
type HTTPDispatcher struct {
	endpointURL string
	fetcher     fetcher.Fetcher
}

// 컴파일 타임에 인터페이스 구현 여부를 검증합니다.
var _ Dispatcher = (*HTTPDispatcher)(nil)

// NewHTTPDispatcher 새로운 HTTPDispatcher 인스턴스를 생성합니다.
func NewHTTPDispatcher(endpointURL string, f fetcher.Fetcher) *HTTPDispatcher {
	return &HTTPDispatcher{
		endpointURL: endpointURL,
		fetcher:     f,
	}
}

// Dispatch 알림 페이로드를 엔드포인트로 전송하고, 엔드포인트의 JSON 응답을 그대로 반환합니다.
//
// 페이로드 유효성 검사에 실패하면 네트워크 요청 없이 즉시 에러를 반환합니다.
// 전송은 정확히 한 번의 POST 요청으로 수행되며, 비멱등 메서드이므로 자동 재시도되지 않습니다.
func (d *HTTPDispatcher) Dispatch(ctx context.Context, payload contract.NotificationPayload) (map[string]any, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, "알림 페이로드의 JSON 변환에 실패했습니다")
	}

	resp, err := fetcher.PostJSON(ctx, d.fetcher, d.endpointURL, nil, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := fetcher.CheckResponseStatus(resp); err != nil {
		return nil, err
	}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "엔드포인트 응답 본문 읽기에 실패했습니다")
	}

	// 응답 본문이 비어있는 엔드포인트(예: 204 No Content)도 정상 처리합니다.
	response := map[string]any{}
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &response); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ParsingFailed,
				fmt.Sprintf("엔드포인트 응답의 JSON 변환에 실패했습니다 (본문 크기: %d바이트)", len(respBody)))
		}
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"recipient":       applog.MaskSensitiveData(payload.Recipient),
		"channel":         payload.Channel,
		"is_draft":        payload.IsDraft,
		"http_status":     resp.StatusCode,
		"upstream_status": gjson.GetBytes(respBody, "status").String(),
	}).Info("알림 페이로드 전송이 완료되었습니다")

	return response, nil
}
