// Package render 메시지 템플릿에 추출된 필드 값을 채워 최종 알림 본문을 생성합니다.
//
// 템플릿은 {{name}} 형태의 플레이스홀더를 포함하는 단순한 문자열 골격이며,
// 렌더링은 순수 함수로 동작합니다. 동일한 템플릿과 파라미터에 대해
// 항상 동일한 결과를 반환합니다.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/iancoleman/strcase"

	apperrors "github.com/darkkaiser/notify-relay/internal/pkg/errors"
)

// MissingKeyPolicy 값이 제공되지 않은 플레이스홀더의 처리 방식을 정의합니다.
type MissingKeyPolicy string

const (
	// MissingKeyError 누락된 플레이스홀더를 에러로 처리합니다. (기본 정책)
	MissingKeyError MissingKeyPolicy = "error"

	// MissingKeyKeep 누락된 플레이스홀더를 원문 그대로 유지합니다.
	MissingKeyKeep MissingKeyPolicy = "keep"
)

// ParsePolicy 설정 문자열을 MissingKeyPolicy로 변환합니다.
// 알 수 없는 값은 기본 정책(MissingKeyError)으로 처리합니다.
func ParsePolicy(s string) MissingKeyPolicy {
	if strings.EqualFold(s, string(MissingKeyKeep)) {
		return MissingKeyKeep
	}
	return MissingKeyError
}

// placeholderRegexp {{name}} 형태의 플레이스홀더 패턴
// 이름에는 영문, 숫자, 언더스코어, 공백을 허용하며 앞뒤 공백은 무시합니다.
var placeholderRegexp = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_ ]+?)\s*\}\}`)

// Template 플레이스홀더를 포함하는 메시지 골격입니다.
type Template struct {
	id   string
	text string
}

// NewTemplate 주어진 ID와 본문으로 새로운 Template을 생성합니다.
// 본문이 비어있으면 InvalidInput 에러를 반환합니다.
func NewTemplate(id, text string) (*Template, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.Newf(apperrors.InvalidInput, "템플릿('%s')의 본문이 비어있습니다", id)
	}
	return &Template{id: id, text: text}, nil
}

// ID 템플릿의 식별자를 반환합니다.
func (t *Template) ID() string {
	return t.id
}

// Placeholders 템플릿 본문에 포함된 플레이스홀더 이름 목록을 snake_case로 정규화하여 반환합니다.
// 중복된 이름은 한 번만 포함됩니다.
func (t *Template) Placeholders() []string {
	matches := placeholderRegexp.FindAllStringSubmatch(t.text, -1)

	seen := make(map[string]struct{}, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		name := normalizeKey(m[1])
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// Render 파라미터 값을 플레이스홀더에 채워 최종 메시지를 생성합니다.
//
// 플레이스홀더 이름과 파라미터 키는 모두 snake_case로 정규화한 뒤 비교하므로,
// {{Event}}와 {{event}}는 동일한 플레이스홀더로 취급됩니다.
//
// 값이 없는 플레이스홀더의 처리는 정책(policy)에 따라 달라집니다.
//   - MissingKeyError: 누락된 플레이스홀더 이름을 포함한 InvalidInput 에러 반환
//   - MissingKeyKeep: 플레이스홀더 원문을 결과에 그대로 유지
func (t *Template) Render(params map[string]string, policy MissingKeyPolicy) (string, error) {
	// 파라미터 키를 snake_case로 정규화하여 조회 테이블을 구성합니다.
	normalized := make(map[string]string, len(params))
	for k, v := range params {
		normalized[normalizeKey(k)] = v
	}

	var missing []string

	rendered := placeholderRegexp.ReplaceAllStringFunc(t.text, func(match string) string {
		name := normalizeKey(placeholderRegexp.FindStringSubmatch(match)[1])

		if value, ok := normalized[name]; ok && value != "" {
			return value
		}

		if policy == MissingKeyKeep {
			return match
		}

		missing = append(missing, name)
		return match
	})

	if len(missing) > 0 {
		return "", apperrors.New(apperrors.InvalidInput,
			fmt.Sprintf("템플릿('%s') 렌더링에 필요한 값이 누락되었습니다: %s", t.id, strings.Join(missing, ", ")))
	}

	return rendered, nil
}

// normalizeKey 플레이스홀더 이름과 파라미터 키를 snake_case로 통일합니다.
func normalizeKey(s string) string {
	return strcase.ToSnake(strings.TrimSpace(s))
}
