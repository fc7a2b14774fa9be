package fetcher

import (
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/darkkaiser/notify-relay/internal/pkg/errors"
)

// maxBodySnippetBytes 에러 객체에 포함시킬 응답 본문의 최대 크기입니다. (4KB)
const maxBodySnippetBytes = 4096

// HTTPStatusError HTTP 요청 실패 시 상태 코드와 응답 정보를 포함하는 구조화된 에러입니다.
//
// 단순한 에러 메시지 대신 상태 코드, URL, 응답 헤더, 응답 본문 일부 등을
// 구조화된 필드로 제공하여, 호출자가 에러 상황을 정확히 파악하고
// 적절한 대응(재시도, 로깅 등)을 할 수 있도록 돕습니다.
// Cause 필드를 통해 errors.Is / errors.As 기반의 표준 에러 체이닝을 지원합니다.
type HTTPStatusError struct {
	// StatusCode 서버가 반환한 HTTP 상태 코드입니다. (예: 502)
	StatusCode int

	// Status HTTP 상태 코드에 대응하는 텍스트 설명입니다. (예: "502 Bad Gateway")
	Status string

	// URL 요청을 보낸 대상 URL입니다. 민감한 정보는 마스킹됩니다.
	URL string

	// Header 서버가 반환한 HTTP 응답 헤더입니다. 민감한 헤더는 마스킹됩니다.
	Header http.Header

	// BodySnippet 응답 본문의 일부(최대 4KB)입니다. 디버깅 용도로 사용됩니다.
	BodySnippet string

	// Cause 이 HTTP 에러의 근본 원인이 되는 내부 도메인 에러입니다.
	Cause error
}

// Error 표준 error 인터페이스를 구현합니다.
func (e *HTTPStatusError) Error() string {
	msg := fmt.Sprintf("HTTP %d (%s)", e.StatusCode, e.Status)
	if e.URL != "" {
		msg += fmt.Sprintf(" URL: %s", e.URL)
	}
	if e.BodySnippet != "" {
		msg += fmt.Sprintf(", Body: %s", e.BodySnippet)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

// Unwrap 래핑된 원인 에러(Cause)를 반환하여 표준 에러 체이닝을 지원합니다.
func (e *HTTPStatusError) Unwrap() error {
	return e.Cause
}

// CheckResponseStatus HTTP 응답 상태 코드를 분석하여 도메인 에러로 변환합니다.
//
// 2xx(Success) 범위의 상태 코드는 정상으로 간주하여 nil을 반환합니다.
// 그 외의 경우, 상태 코드에 따라 분류된 에러 타입과 함께 응답 본문 일부(최대 4KB)를
// 읽어 HTTPStatusError를 생성합니다. 이때 응답 객체의 Body 일부가 소비되므로,
// 에러가 반환된 응답은 더 이상 본문 파싱에 사용할 수 없습니다.
func CheckResponseStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var bodySnippet string
	if resp.Body != nil {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodySnippetBytes))
		if len(bodyBytes) > 0 {
			bodySnippet = string(bodyBytes)
		}
	}

	errType := classifyStatusCode(resp.StatusCode)

	var requestURL string
	if resp.Request != nil {
		requestURL = redactURL(resp.Request.URL)
	}

	return &HTTPStatusError{
		StatusCode:  resp.StatusCode,
		Status:      resp.Status,
		URL:         requestURL,
		Header:      redactHeaders(resp.Header),
		BodySnippet: bodySnippet,
		Cause:       apperrors.New(errType, fmt.Sprintf("HTTP 요청이 실패했습니다. 상태 코드: %s", resp.Status)),
	}
}

// classifyStatusCode HTTP 상태 코드를 도메인 에러 타입으로 분류합니다.
func classifyStatusCode(statusCode int) apperrors.ErrorType {
	switch {
	case statusCode >= 500, statusCode == http.StatusTooManyRequests, statusCode == http.StatusRequestTimeout:
		// 일시적인 서버 측 문제로 간주하여 재시도 대상으로 분류합니다.
		return apperrors.Unavailable

	case statusCode == http.StatusBadRequest:
		return apperrors.InvalidInput

	case statusCode == http.StatusUnauthorized:
		return apperrors.Unauthorized

	case statusCode == http.StatusForbidden:
		return apperrors.Forbidden

	case statusCode == http.StatusNotFound:
		return apperrors.NotFound

	default:
		return apperrors.ExecutionFailed
	}
}
