// Package idgen 발송 건(Delivery)의 고유 식별자 생성을 담당합니다.
package idgen

import (
	"sync/atomic"
	"time"

	"github.com/darkkaiser/notify-relay/internal/service/contract"
)

const (
	// base62Chars Base62 인코딩에 사용되는 문자셋입니다.
	// 0-9, A-Z, a-z 순서는 ASCII 코드 순서와 일치하므로, 생성된 ID를 문자열로 비교할 때
	// 사전순 정렬이 시간순 정렬과 대략적으로 일치하게 되어 로그 분석 시 유리합니다.
	base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	base62Len = int64(len(base62Chars))

	// seqFixedLength 시퀀스 부분의 고정 자릿수입니다.
	// 고정 길이 패딩이 없으면 "1" > "10" 처럼 문자열 정렬 순서가 깨집니다.
	seqFixedLength = 6
)

// Generator 발송 건의 고유 식별자 생성을 담당합니다.
//
// 생성 전략:
//   - 타임스탬프(나노초 단위)를 기반으로 시간 순서를 반영합니다.
//   - 원자적(atomic) 카운터를 결합하여 동일 나노초 내 중복을 방지합니다.
//   - Base62 인코딩을 사용하여 URL-safe하고 가독성 높은 ID를 생성합니다.
type Generator struct {
	// counter 동일 나노초 내에서 생성되는 ID의 순번을 추적합니다.
	// 오버플로우 시 0으로 돌아가지만, 타임스탬프가 변경되므로 실질적 충돌 위험은 없습니다.
	counter uint32
}

// NewGenerator 새로운 Generator 인스턴스를 생성합니다.
func NewGenerator() *Generator {
	return &Generator{}
}

// New 새로운 DeliveryID를 생성합니다.
//
// ID 구조: [타임스탬프(Base62)][시퀀스(Base62, 6자리 고정)]
// 예: "2Xk9pL3m000001"
func (g *Generator) New() contract.DeliveryID {
	now := time.Now().UnixNano()
	seq := atomic.AddUint32(&g.counter, 1)

	// int64 최대값의 Base62 표현은 약 11자리, 시퀀스는 6자리 고정이므로
	// 18바이트를 미리 확보하여 재할당을 방지합니다.
	b := make([]byte, 0, 18)

	b = appendBase62(b, now)
	b = appendBase62Fixed(b, int64(seq), seqFixedLength)

	return contract.DeliveryID(b)
}

// appendBase62 정수 값을 Base62로 인코딩하여 기존 버퍼에 추가합니다.
func appendBase62(dst []byte, num int64) []byte {
	if num == 0 {
		return append(dst, base62Chars[0])
	}

	// 타임스탬프는 항상 양수이지만 안전장치로 절댓값 처리
	if num < 0 {
		num = -num
	}

	// int64 최대값도 Base62로 11자리 이내이므로 스택 버퍼로 충분합니다.
	var temp [20]byte
	i := len(temp)

	for num > 0 {
		i--
		temp[i] = base62Chars[num%base62Len]
		num /= base62Len
	}

	return append(dst, temp[i:]...)
}

// appendBase62Fixed 정수를 Base62로 인코딩하되, 지정된 고정 길이만큼 앞을 '0'으로 패딩합니다.
// 실제 숫자 길이가 목표 길이보다 길면 잘라내지 않고 그대로 모두 표현합니다.
func appendBase62Fixed(dst []byte, num int64, length int) []byte {
	if num < 0 {
		num = -num
	}

	// 숫자를 표현하는데 필요한 자릿수 계산
	temp := num
	digits := 0
	if temp == 0 {
		digits = 1
	}
	for temp > 0 {
		temp /= base62Len
		digits++
	}

	appendLen := length
	if digits > length {
		appendLen = digits
	}

	startLen := len(dst)
	targetLen := startLen + appendLen

	if cap(dst) >= targetLen {
		dst = dst[:targetLen]
	} else {
		dst = append(dst, make([]byte, appendLen)...)
	}

	// 뒤에서부터 앞으로 숫자를 채우고, 남은 앞부분은 '0'으로 패딩합니다.
	idx := targetLen - 1

	if num == 0 {
		dst[idx] = base62Chars[0]
		idx--
	} else {
		for num > 0 {
			dst[idx] = base62Chars[num%base62Len]
			num /= base62Len
			idx--
		}
	}

	for idx >= startLen {
		dst[idx] = base62Chars[0]
		idx--
	}

	return dst
}
