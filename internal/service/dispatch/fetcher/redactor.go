package fetcher

import (
	"net/http"
	"net/url"
	"slices"
	"strings"
)

var (
	// sensitiveExactKeys 전체 문자열이 정확히 일치해야 마스킹되는 쿼리 파라미터 키워드 목록입니다.
	//
	// "key", "token" 같은 일반적인 단어를 부분 일치로 검사하면 "monkey", "broken" 등의
	// 무해한 단어까지 마스킹되는 오탐이 발생할 수 있으므로, 전체 일치만 민감한 정보로 처리합니다.
	sensitiveExactKeys = []string{
		"token", "auth", "key", "secret", "pass", "credential", "signature", "password",
		"access_token", "api_key", "client_secret", "refresh_token",
		"access_key", "secret_key", "private_key", "app_key", "auth_key",
	}

	// sensitiveSuffixes 특정 접미사로 끝나면 마스킹되는 쿼리 파라미터 키워드 목록입니다.
	sensitiveSuffixes = []string{
		"_token", "_secret", "_cred", "_sig", "_password",
	}
)

// redactHeaders HTTP 응답 헤더에서 민감한 정보를 마스킹하여 안전한 복사본을 반환합니다.
// 원본 헤더는 변경하지 않습니다.
func redactHeaders(h http.Header) http.Header {
	if h == nil {
		return nil
	}

	masked := h.Clone()

	sensitive := []string{"Authorization", "Proxy-Authorization", "Cookie", "Set-Cookie"}
	for _, key := range sensitive {
		if masked.Get(key) != "" {
			masked.Set(key, "***")
		}
	}

	return masked
}

// redactURL URL에서 민감한 정보를 마스킹하여 안전한 문자열로 반환합니다.
//
// 사용자 인증 정보(user:password)와 민감한 쿼리 파라미터 값을 "xxxxx"로 치환하며,
// URL의 구조와 그 외 정보는 변경 없이 그대로 유지합니다. 원본 URL 객체는 변경되지 않습니다.
func redactURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	ru := *u

	if u.User != nil {
		if _, has := u.User.Password(); has {
			ru.User = url.UserPassword(u.User.Username(), "xxxxx")
		} else if u.User.Username() != "" {
			// 비밀번호 없이 사용자명만 있는 경우, 사용자명을 토큰으로 간주하여 마스킹합니다.
			ru.User = url.User("xxxxx")
		}
	}

	if u.RawQuery != "" {
		query := ru.Query()
		for key := range query {
			if isSensitiveKey(key) {
				query.Set(key, "xxxxx")
			}
		}
		ru.RawQuery = query.Encode()
	}

	return ru.String()
}

// redactRawURL URL 문자열에서 민감한 정보를 마스킹하여 안전한 문자열로 반환합니다.
// 파싱에 실패한 경우 원본 문자열을 그대로 반환합니다.
func redactRawURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return redactURL(u)
}

// isSensitiveKey 주어진 키가 민감한 정보를 나타내는 키워드인지 확인합니다.
func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)

	if slices.Contains(sensitiveExactKeys, lowerKey) {
		return true
	}

	for _, suffix := range sensitiveSuffixes {
		if strings.HasSuffix(lowerKey, suffix) {
			return true
		}
	}

	return false
}
