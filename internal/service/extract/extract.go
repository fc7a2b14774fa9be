// Package extract 자유 형식의 대화 스니펫에서 알림 생성에 필요한 필드를 추출합니다.
//
// 추출은 규칙 기반(Rule-based)의 최선 노력(Best-Effort) 방식으로 동작합니다.
// 자연어 이해의 정확성은 보장하지 않으며, 찾지 못한 필드는 설정된 기본값으로 대체됩니다.
// 따라서 추출 과정은 어떤 입력에 대해서도 에러를 반환하지 않습니다.
package extract

import (
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	apperrors "github.com/darkkaiser/notify-relay/internal/pkg/errors"
	"github.com/darkkaiser/notify-relay/pkg/strutil"
)

// Fields 대화에서 추출된 알림 구성 필드의 집합입니다.
// 값이 비어있는 필드는 해당 정보를 대화에서 찾지 못했음을 의미합니다.
type Fields struct {
	Event          string // 알림의 대상이 되는 사건 (예: "Meeting", "Deploy")
	Time           string // 사건의 시점 표현 (예: "10 AM tomorrow")
	Team           string // 알림을 수신할 팀 이름 (예: "DevOps")
	Channel        string // 발송 채널 (email, sms, slack, telegram)
	DraftRequested bool   // 초안(Draft) 요청 문구 포함 여부
}

// ToParams 추출된 필드를 템플릿 렌더링용 파라미터 맵으로 변환합니다.
func (f Fields) ToParams() map[string]string {
	return map[string]string{
		"event":   f.Event,
		"time":    f.Time,
		"team":    f.Team,
		"channel": f.Channel,
	}
}

// Extractor 대화 스니펫에서 알림 필드를 추출하는 인터페이스입니다.
// 규칙 기반 구현을 더 정교한 구현(예: 언어 모델 기반)으로 교체할 수 있도록 분리되어 있습니다.
type Extractor interface {
	Extract(conversation string) Fields
}

// 시각 표현 추출에 사용하는 정규식
var (
	// clockRegexp 12시간제("10 AM") 및 24시간제("14:30") 시각 표현
	clockRegexp = regexp.MustCompile(`(?i)\b(\d{1,2})(:\d{2})?\s*(am|pm)\b|\b(\d{1,2}:\d{2})\b`)

	// dayWordRegexp 상대적 날짜 표현 (요일 포함)
	dayWordRegexp = regexp.MustCompile(`(?i)\b(today|tomorrow|tonight|yesterday|monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)

	// htmlHintRegexp 입력이 HTML 조각인지 판별하기 위한 태그 패턴
	htmlHintRegexp = regexp.MustCompile(`</?([a-zA-Z]+)[^>]*>`)
)

// channelWords 대화에서 인식하는 발송 채널 단어 목록입니다.
// 설정의 default_channel 허용 값과 동일한 집합을 사용합니다.
var channelWords = []string{"email", "sms", "slack", "telegram"}

// Options RuleExtractor의 동작을 제어하는 설정입니다.
type Options struct {
	DraftPhrases   []string // 초안 요청으로 간주하는 문구 목록
	EventKeywords  []string // 이벤트 필드로 추출하는 키워드 목록
	TeamNames      []string // 인식 대상 팀 이름 목록
	DefaultChannel string   // 채널을 찾지 못했을 때 사용하는 기본값
}

// RuleExtractor 키워드와 정규식 기반의 Extractor 구현체입니다.
type RuleExtractor struct {
	draftPhrases   []string
	eventKeywords  []string
	teamNames      []string
	defaultChannel string

	titleCaser cases.Caser
}

// NewRuleExtractor 주어진 옵션으로 새로운 RuleExtractor를 생성합니다.
func NewRuleExtractor(opts Options) *RuleExtractor {
	return &RuleExtractor{
		draftPhrases:   opts.DraftPhrases,
		eventKeywords:  opts.EventKeywords,
		teamNames:      opts.TeamNames,
		defaultChannel: opts.DefaultChannel,
		titleCaser:     cases.Title(language.English),
	}
}

// Extract 대화 스니펫에서 알림 필드를 추출합니다.
//
// 입력은 먼저 유니코드 정규화(NFKC)와 공백 정리를 거치며, HTML 조각으로 판별되면
// 태그를 제거한 순수 텍스트로 변환한 뒤 규칙 매칭을 수행합니다.
func (e *RuleExtractor) Extract(conversation string) Fields {
	text := e.sanitize(conversation)

	return Fields{
		Event:          e.extractEvent(text),
		Time:           e.extractTime(text),
		Team:           e.extractTeam(text),
		Channel:        e.extractChannel(text),
		DraftRequested: e.detectDraft(text),
	}
}

// ExtractFromReader 문자 인코딩이 명확하지 않은 입력 스트림에서 알림 필드를 추출합니다.
//
// 채팅 클라이언트가 내보낸 HTML 파일처럼 UTF-8이 아닐 수 있는 입력을 처리하기 위해,
// 인코딩을 감지하여 UTF-8로 변환한 뒤 Extract와 동일한 규칙을 적용합니다.
func (e *RuleExtractor) ExtractFromReader(r io.Reader) (Fields, error) {
	decoded, err := charset.NewReader(r, "text/html")
	if err != nil {
		return Fields{}, apperrors.Wrap(err, apperrors.ParsingFailed, "입력 스트림의 문자 인코딩 감지에 실패했습니다")
	}

	data, err := io.ReadAll(decoded)
	if err != nil {
		return Fields{}, apperrors.Wrap(err, apperrors.System, "입력 스트림 읽기에 실패했습니다")
	}

	return e.Extract(string(data)), nil
}

// sanitize 입력 텍스트를 규칙 매칭이 가능한 형태로 정리합니다.
func (e *RuleExtractor) sanitize(s string) string {
	// 전각 문자, 호환 분해형 등을 표준 형태로 통일합니다.
	s = norm.NFKC.String(s)

	// HTML 조각으로 보이는 입력은 태그를 제거한 순수 텍스트로 변환합니다.
	if htmlHintRegexp.MatchString(s) {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			s = doc.Text()
		} else {
			// 파싱에 실패하더라도 추출은 계속되어야 하므로 정규식 기반 제거로 대체합니다.
			s = strutil.StripHTMLTags(s)
		}
	}

	return strutil.NormalizeSpaces(s)
}

// detectDraft 대화에 초안 요청 문구가 포함되어 있는지 검사합니다.
func (e *RuleExtractor) detectDraft(text string) bool {
	for _, phrase := range e.draftPhrases {
		if strutil.ContainsFold(text, phrase) {
			return true
		}
	}
	return false
}

// extractTeam 대화에 포함된 첫 번째 팀 이름을 반환합니다.
// 반환되는 값은 설정에 정의된 표기 그대로입니다. (대화 내 표기와 무관)
func (e *RuleExtractor) extractTeam(text string) string {
	for _, name := range e.teamNames {
		if strutil.ContainsFold(text, name) {
			return name
		}
	}
	return ""
}

// extractEvent 대화에 포함된 첫 번째 이벤트 키워드를 Title Case로 변환하여 반환합니다.
// 예: "meeting" -> "Meeting"
func (e *RuleExtractor) extractEvent(text string) string {
	for _, keyword := range e.eventKeywords {
		if strutil.ContainsFold(text, keyword) {
			return e.titleCaser.String(strings.ToLower(keyword))
		}
	}
	return ""
}

// extractChannel 대화에 명시된 발송 채널 단어를 반환합니다.
// 찾지 못하면 설정된 기본 채널을 반환합니다.
func (e *RuleExtractor) extractChannel(text string) string {
	for _, word := range channelWords {
		if strutil.ContainsFold(text, word) {
			return word
		}
	}
	return e.defaultChannel
}

// extractTime 대화에 포함된 시각 표현을 추출합니다.
//
// 시계 표현("10 AM", "14:30")과 상대적 날짜 표현("tomorrow", "tonight")을 각각 찾은 뒤
// "시계 날짜" 순서로 결합합니다. 예: "10 AM tomorrow"
// 둘 중 하나만 발견되면 해당 표현만 반환합니다.
func (e *RuleExtractor) extractTime(text string) string {
	clock := e.extractClock(text)

	var day string
	if m := dayWordRegexp.FindString(text); m != "" {
		day = strings.ToLower(m)
	}

	switch {
	case clock != "" && day != "":
		return clock + " " + day
	case clock != "":
		return clock
	default:
		return day
	}
}

// extractClock 시계 표현을 찾아 표준 형태로 정리하여 반환합니다.
// 12시간제는 "10 AM" 형태(대문자, 단일 공백)로, 24시간제는 "14:30" 형태로 통일합니다.
func (e *RuleExtractor) extractClock(text string) string {
	m := clockRegexp.FindStringSubmatch(text)
	if m == nil {
		return ""
	}

	// 24시간제 매칭 (네 번째 그룹)
	if m[4] != "" {
		return m[4]
	}

	// 12시간제 매칭: 시(1) + 분(2, 선택) + 오전/오후(3)
	clock := m[1] + m[2]
	return clock + " " + strings.ToUpper(m[3])
}
