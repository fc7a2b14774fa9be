// Package config 애플리케이션의 설정 로드와 유효성 검증을 담당합니다.
//
// 설정은 [기본값] <- [JSON 설정 파일] <- [환경 변수] 순서로 병합되며,
// 뒤에 로드되는 항목이 앞의 값을 덮어씁니다.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	apperrors "github.com/darkkaiser/notify-relay/internal/pkg/errors"
)

const (
	// AppName 애플리케이션의 전역 고유 식별자입니다.
	AppName string = "notify-relay"

	// DefaultFilename 애플리케이션 초기화 시 참조하는 기본 설정 파일명입니다.
	// 실행 인자를 통해 명시적인 경로가 제공되지 않을 경우, 시스템은 이 파일을 탐색하여 구성을 로드합니다.
	DefaultFilename = AppName + ".json"

	// envPrefix 환경 변수를 통한 설정 덮어쓰기에 사용하는 접두사입니다.
	envPrefix = "RELAY_"

	// ------------------------------------------------------------------------------------------------
	// HTTP 재시도 정책 기본값
	// ------------------------------------------------------------------------------------------------

	// DefaultMaxRetries HTTP 요청 실패 시 최대 재시도 횟수 기본값
	DefaultMaxRetries = 3

	// DefaultRetryDelay 재시도 사이의 대기 시간 기본값
	DefaultRetryDelay = "2s"

	// ------------------------------------------------------------------------------------------------
	// 필드 추출 정책 기본값
	// ------------------------------------------------------------------------------------------------

	// DefaultChannel 대화에서 발송 채널을 찾지 못했을 때 사용하는 기본 채널
	DefaultChannel = "email"

	// DefaultMissingKeyPolicy 템플릿 렌더링 시 값이 없는 플레이스홀더의 처리 정책 기본값
	DefaultMissingKeyPolicy = "error"
)

// defaultDraftPhrases 초안(Draft) 요청으로 간주하는 기본 문구 목록입니다.
// 대화 본문에 이 문구들 중 하나라도 포함되면 초안 모드로 동작합니다.
var defaultDraftPhrases = []any{
	"draft to me",
	"send a draft",
	"send me a draft",
	"as a draft first",
}

// defaultEventKeywords 대화에서 이벤트(event) 필드로 추출하는 기본 키워드 목록입니다.
var defaultEventKeywords = []any{
	"meeting",
	"deploy",
	"release",
	"incident",
	"outage",
	"maintenance",
	"review",
	"interview",
	"standup",
}

// Load 기본 설정 파일을 읽어 애플리케이션 설정을 로드합니다.
func Load() (*AppConfig, error) {
	return LoadWithFile(DefaultFilename)
}

// LoadWithFile 지정된 경로의 설정 파일을 읽어 AppConfig 객체를 생성합니다.
func LoadWithFile(filename string) (*AppConfig, error) {
	k := koanf.New(".")

	// 1. 기본값 로드 (가장 낮은 우선순위)
	err := k.Load(confmap.Provider(map[string]interface{}{
		"http_retry.max_retries":   DefaultMaxRetries,
		"http_retry.retry_delay":   DefaultRetryDelay,
		"relay.default_channel":    DefaultChannel,
		"relay.missing_key_policy": DefaultMissingKeyPolicy,
		"relay.draft_phrases":      defaultDraftPhrases,
		"relay.event_keywords":     defaultEventKeywords,
	}, "."), nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "애플리케이션 기본 설정 로드에 실패했습니다")
	}

	// 2. JSON 설정 파일 로드 (기본값 덮어쓰기)
	if err := k.Load(file.Provider(filename), json.Parser()); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(err, apperrors.System, fmt.Sprintf("설정 파일을 찾을 수 없습니다: '%s'", filename))
		}
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일 로드 중 오류가 발생했습니다: '%s'", filename))
	}

	// 3. 환경 변수 로드 (최우선 순위, JSON 설정 덮어쓰기)
	// 구분자: 이중 언더스코어(__)를 점(.)으로 변환하여 계층 구조를 표현합니다.
	// 예: RELAY_HTTP_RETRY__MAX_RETRIES -> http_retry.max_retries
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "환경 변수 로드에 실패했습니다")
	}

	// 4. 구조체 언마샬링 (Strict Validation 적용)
	var appConfig AppConfig
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			ErrorUnused:      true, // 파일에 존재하지만 구조체에 없는 필드가 있을 경우 에러를 발생시킴
			WeaklyTypedInput: true,
			Result:           &appConfig,
		},
	}
	if err := k.UnmarshalWithConf("", &appConfig, unmarshalConf); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "설정 데이터를 애플리케이션 구조체로 변환하는데 실패했습니다")
	}

	// 5. 유효성 검사 수행 (정합성 체크)
	if err := appConfig.validate(newValidator()); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일('%s')의 유효성 검증에 실패했습니다", filename))
	}

	return &appConfig, nil
}
