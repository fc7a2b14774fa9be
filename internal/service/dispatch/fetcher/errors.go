package fetcher

import (
	"fmt"

	apperrors "github.com/darkkaiser/notify-relay/internal/pkg/errors"
)

var (
	// ErrMaxRetriesExceeded 최대 재시도 횟수를 모두 소진했을 때 반환됩니다.
	ErrMaxRetriesExceeded = apperrors.New(apperrors.Unavailable, "최대 재시도 횟수를 초과했습니다")
)

// newErrMaxRetriesExceeded 마지막 시도에서 발생한 에러를 원인으로 포함하는 재시도 소진 에러를 생성합니다.
func newErrMaxRetriesExceeded(cause error) error {
	if cause == nil {
		return ErrMaxRetriesExceeded
	}
	return apperrors.Wrap(cause, apperrors.Unavailable, "최대 재시도 횟수를 초과했습니다")
}

// newErrRetryAfterExceeded 서버가 요구한 재시도 대기 시간(Retry-After)이 허용 범위를 초과했을 때의 에러를 생성합니다.
func newErrRetryAfterExceeded(requested, limit string) error {
	return apperrors.New(apperrors.Unavailable,
		fmt.Sprintf("서버가 요구한 재시도 대기 시간(%s)이 설정된 최대 대기 시간(%s)을 초과하여 재시도를 중단합니다", requested, limit))
}

// newErrGetBodyFailed 재시도를 위한 요청 본문 재생성(GetBody)에 실패했을 때의 에러를 생성합니다.
func newErrGetBodyFailed(cause error) error {
	return apperrors.Wrap(cause, apperrors.Internal, "재시도를 위한 요청 본문 재생성에 실패했습니다")
}
