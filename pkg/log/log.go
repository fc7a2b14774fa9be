// Package log logrus 기반의 전역 로깅 시스템을 제공합니다.
//
// Setup()으로 초기화하면 로그 레벨에 따라 Main, Critical, Verbose 파일로
// 분산 기록되며, lumberjack을 통한 로그 로테이션이 적용됩니다.
package log

import (
	log "github.com/sirupsen/logrus"
)

// StandardLogger 전역 logrus 로거를 반환합니다.
// 외부 라이브러리에 *logrus.Logger 타입이 필요한 경우 사용합니다.
func StandardLogger() *Logger {
	return log.StandardLogger()
}

// WithComponent component 필드를 포함한 로그 Entry를 반환합니다.
// 모든 로그에 component 필드를 일관되게 추가하기 위해 사용합니다.
func WithComponent(component string) *Entry {
	return log.WithFields(Fields{
		"component": component,
	})
}

// WithFields 주어진 필드를 포함한 로그 Entry를 반환합니다.
func WithFields(fields Fields) *Entry {
	return log.WithFields(fields)
}

// WithComponentAndFields component 필드와 추가 필드를 포함한 로그 Entry를 반환합니다.
func WithComponentAndFields(component string, fields Fields) *Entry {
	newFields := make(Fields, len(fields)+1)
	for k, v := range fields {
		newFields[k] = v
	}
	newFields["component"] = component
	return log.WithFields(newFields)
}

// MaskSensitiveData 민감한 정보를 마스킹합니다.
// 토큰, 키 등의 민감 정보를 안전하게 로깅하기 위해 사용합니다.
func MaskSensitiveData(data string) string {
	if data == "" {
		return ""
	}

	// 3자 이하는 전체 마스킹
	if len(data) <= 3 {
		return "***"
	}

	// 앞 4자만 표시하고 나머지는 마스킹
	if len(data) <= 12 {
		return data[:4] + "***"
	}

	// 긴 토큰은 앞 4자 + 마스킹 + 뒤 4자
	return data[:4] + "***" + data[len(data)-4:]
}
