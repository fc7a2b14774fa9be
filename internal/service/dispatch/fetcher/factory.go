package fetcher

import (
	"time"
)

// New 설정된 재시도 정책이 적용된 Fetcher 실행 체인을 생성합니다.
//
// 체인은 바깥쪽에서 안쪽으로 다음과 같이 구성됩니다:
//
//	RetryFetcher (재시도 제어) → HTTPFetcher (실제 네트워크 I/O)
//
// 매개변수:
//   - maxRetries: 최대 재시도 횟수 (0~10 범위로 자동 보정)
//   - minRetryDelay: 최소 재시도 대기 시간 (1초 미만은 1초로 자동 보정)
func New(maxRetries int, minRetryDelay time.Duration) Fetcher {
	return NewRetryFetcher(NewHTTPFetcher(), maxRetries, minRetryDelay, 0)
}
