// Package strutil 문자열 처리를 위한 다양한 유틸리티 함수들을 제공합니다.
package strutil

import (
	"html"
	"regexp"
	"strings"
)

// HTML 태그 제거에 사용하는 정규식
// < 다음에 영문자가 오는 경우만 태그로 인식하여 수학 기호(<) 오탐지를 방지합니다.
// 예: "3 < 5"는 유지되고, "<br>"이나 "<b>"는 제거됩니다.
var htmlTagRegexp = regexp.MustCompile(`</?([a-zA-Z]+)[^>]*>`)

// NormalizeSpaces 문자열의 앞뒤 공백을 제거하고 연속된 공백을 하나로 축약합니다.
// 예: "  hello   world  " -> "hello world"
func NormalizeSpaces(s string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(s)), " ")
}

// SplitAndTrim 주어진 구분자로 문자열을 분리한 후, 각 항목의 앞뒤 공백을 제거하고 빈 문자열을 제외한 슬라이스를 반환합니다.
// 결과가 없거나 입력 문자열이 비어있는 경우 nil을 반환합니다.
// 예: "a, , b,c" (구분자 ",") -> ["a", "b", "c"]
func SplitAndTrim(s, sep string) []string {
	tokens := strings.Split(s, sep)
	if len(tokens) == 0 {
		return nil
	}

	result := make([]string, 0, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token != "" {
			result = append(result, token)
		}
	}

	if len(result) == 0 {
		return nil
	}

	return result
}

// StripHTMLTags 문자열에서 HTML 태그를 제거하고, HTML 엔티티를 디코딩하여 순수한 텍스트를 반환합니다.
// 예: "<b>Hello</b> &amp; World" -> "Hello & World"
func StripHTMLTags(s string) string {
	stripped := htmlTagRegexp.ReplaceAllString(s, "")
	return html.UnescapeString(stripped)
}

// ContainsFold 문자열 s가 substr을 대소문자 구분 없이 포함하는지 검사합니다.
//
// strings.ToLower(s)를 사용할 경우 매 호출마다 전체 문자열의 복사본을 힙에 할당하게 되므로,
// 원본 문자열을 순회하며 필요한 부분만 슬라이싱하여 strings.EqualFold로 비교하는 방식을 채택했습니다.
//
// 이 최적화는 대소문자 변환 시 바이트 길이가 동일하다는 가정에 의존합니다.
// 대부분의 언어(ASCII, 한글 등)에서는 정상 동작하지만, 터키어(İ/i)와 같이
// 변환 시 바이트 길이가 달라지는 특수 케이스에서는 정확하지 않을 수 있습니다.
func ContainsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	if len(s) < len(substr) {
		return false
	}

	// range 순회로 각 Rune의 시작 바이트 인덱스를 얻어 유효한 문자 경계에서만 비교합니다.
	for i := range s {
		if i+len(substr) > len(s) {
			break
		}
		if strings.EqualFold(s[i:i+len(substr)], substr) {
			return true
		}
	}
	return false
}
