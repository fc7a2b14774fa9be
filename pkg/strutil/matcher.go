package strutil

import (
	"strings"
)

// KeywordMatcher 키워드 매칭을 수행하는 상태 기반(Stateful) 구조체입니다.
//
// 생성 시점에 키워드 파싱과 전처리(소문자 변환)를 수행합니다.
// 따라서 동일한 키워드 셋으로 여러 문자열을 검사해야 하는 상황에서
// 반복적인 파싱과 메모리 할당 비용을 제거합니다.
type KeywordMatcher struct {
	// includedGroups 포함 키워드 그룹 (AND 조건)
	// 각 그룹 내부([])는 파이프(|)로 구분된 OR 조건입니다.
	// 예: ["A", "B|C"] -> A를 포함하고, (B 또는 C)를 포함해야 함
	includedGroups [][]string

	// excluded 제외 키워드 목록 (OR 조건)
	// 이 중 하나라도 포함되면 매칭 실패로 간주합니다.
	excluded []string
}

// NewKeywordMatcher 주어진 포함/제외 키워드로 새로운 KeywordMatcher를 생성합니다.
//
// 초기화 과정에서 모든 키워드를 소문자로 변환하고, 포함 키워드 내의
// 파이프(|) 구문을 파싱하여 그룹화하며, 빈 키워드를 필터링합니다.
func NewKeywordMatcher(included, excluded []string) *KeywordMatcher {
	m := &KeywordMatcher{
		includedGroups: make([][]string, 0, len(included)),
		excluded:       make([]string, 0, len(excluded)),
	}

	for _, k := range excluded {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		m.excluded = append(m.excluded, strings.ToLower(k))
	}

	for _, k := range included {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}

		if strings.Contains(k, "|") {
			orGroup := SplitAndTrim(k, "|")
			for i, v := range orGroup {
				orGroup[i] = strings.ToLower(v)
			}
			if len(orGroup) > 0 {
				m.includedGroups = append(m.includedGroups, orGroup)
			}
		} else {
			m.includedGroups = append(m.includedGroups, []string{strings.ToLower(k)})
		}
	}

	return m
}

// Match 대상 문자열이 키워드 조건을 만족하는지 검사합니다.
//
// 문자열 s가 제외 키워드를 포함하지 않고, 모든 포함 키워드 그룹 조건을 만족하면 true를 반환합니다.
func (m *KeywordMatcher) Match(s string) bool {
	// 제외 조건은 하나라도 걸리면 즉시 실패하므로 먼저 검사합니다.
	for _, k := range m.excluded {
		if ContainsFold(s, k) {
			return false
		}
	}

	// 모든 그룹(AND)을 만족해야 하며, 그룹 내부는 OR 조건입니다.
	for _, group := range m.includedGroups {
		matched := false
		for _, k := range group {
			if ContainsFold(s, k) {
				matched = true
				break
			}
		}

		if !matched {
			return false
		}
	}

	return true
}
