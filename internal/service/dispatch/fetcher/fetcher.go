// Package fetcher 외부 알림 엔드포인트로의 HTTP 요청 전송을 담당하는 클라이언트 계층입니다.
//
// 실제 네트워크 I/O를 수행하는 HTTPFetcher를 중심으로, 재시도(RetryFetcher) 등의
// 미들웨어를 책임 연쇄 패턴(Chain of Responsibility)으로 감싸 체인을 구성합니다.
package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	apperrors "github.com/darkkaiser/notify-relay/internal/pkg/errors"
)

// Fetcher HTTP 요청을 수행하는 인터페이스
type Fetcher interface {
	Do(req *http.Request) (*http.Response, error)
}

// PostJSON 지정된 URL로 JSON 본문을 담은 HTTP POST 요청을 전송합니다.
//
// 요청 본문은 bytes.Reader로 전달되므로 http 패키지가 GetBody를 자동으로 설정하며,
// 미들웨어에서 본문 재생성이 필요한 경우에도 안전하게 처리됩니다.
// 반환된 응답 객체의 Body는 호출자가 반드시 닫아야 합니다.
func PostJSON(ctx context.Context, f Fetcher, url string, header map[string]string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, fmt.Sprintf("JSON 요청 생성에 실패했습니다. (URL: %s)", url))
	}

	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json")
	for key, value := range header {
		req.Header.Set(key, value)
	}

	resp, err := f.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Unavailable, fmt.Sprintf("JSON API(%s) 요청 전송 중 에러가 발생했습니다.", redactRawURL(url)))
	}

	return resp, nil
}
