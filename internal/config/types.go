package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/darkkaiser/notify-relay/internal/pkg/errors"
	"github.com/darkkaiser/notify-relay/pkg/validation"
)

// AppConfig 애플리케이션의 모든 설정을 포함하는 최상위 구조체
type AppConfig struct {
	Debug     bool             `json:"debug"`
	HTTPRetry HTTPRetryConfig  `json:"http_retry"`
	Relay     RelayConfig      `json:"relay"`
	Teams     []TeamConfig     `json:"teams" validate:"unique=Name"`
	Templates []TemplateConfig `json:"templates" validate:"unique=ID"`
	NotifyAPI NotifyAPIConfig  `json:"notify_api"`
}

// validate 설정 파일 로드 직후, 각 설정 항목의 정합성과 필수 값의 유효성을 검증합니다.
func (c *AppConfig) validate(v *validator.Validate) error {
	if err := c.HTTPRetry.validate(); err != nil {
		return err
	}

	teamNames, err := c.validateTeams(v)
	if err != nil {
		return err
	}

	templateIDs, err := c.validateTemplates(v)
	if err != nil {
		return err
	}

	if err := c.Relay.validate(v, teamNames, templateIDs); err != nil {
		return err
	}

	if err := c.NotifyAPI.validate(v); err != nil {
		return err
	}

	return nil
}

func (c *AppConfig) validateTeams(v *validator.Validate) ([]string, error) {
	// Team 중복 이름 검사
	if err := checkUniqueField(v, c.Teams, "Name", "Team"); err != nil {
		return nil, err
	}

	var teamNames []string
	for _, team := range c.Teams {
		if err := checkStruct(v, team, fmt.Sprintf("Team['%s']", team.Name)); err != nil {
			return nil, err
		}
		teamNames = append(teamNames, team.Name)
	}

	return teamNames, nil
}

func (c *AppConfig) validateTemplates(v *validator.Validate) ([]string, error) {
	// Template 중복 ID 검사
	if err := checkUniqueField(v, c.Templates, "ID", "Template"); err != nil {
		return nil, err
	}

	var templateIDs []string
	for _, tmpl := range c.Templates {
		if err := checkStruct(v, tmpl, fmt.Sprintf("Template['%s']", tmpl.ID)); err != nil {
			return nil, err
		}
		templateIDs = append(templateIDs, tmpl.ID)
	}

	// 템플릿 ID가 생략된 요청을 처리하기 위한 "default" 템플릿은 반드시 존재해야 합니다.
	if !slices.Contains(templateIDs, DefaultTemplateID) {
		return nil, apperrors.New(apperrors.NotFound, fmt.Sprintf("기본 템플릿('%s')이 정의되지 않았습니다", DefaultTemplateID))
	}

	return templateIDs, nil
}

// VerifyRecommendations 서비스 운영의 안정성과 보안을 위해 권장되는 설정 준수 여부를 진단합니다.
// 강제적인 에러를 발생시키지는 않으나, 잠재적 위험 요소(예: Well-known Port 사용)에 대한 경고 메시지를 반환합니다.
func (c *AppConfig) VerifyRecommendations() []string {
	return c.NotifyAPI.VerifyRecommendations()
}

// Template 지정된 ID의 메시지 템플릿 본문을 반환합니다.
// 해당 ID의 템플릿이 없으면 빈 문자열과 false를 반환합니다.
func (c *AppConfig) Template(id string) (string, bool) {
	for _, tmpl := range c.Templates {
		if tmpl.ID == id {
			return tmpl.Text, true
		}
	}
	return "", false
}

// TeamAddress 지정된 팀 이름의 알림 수신 주소를 반환합니다.
// 팀 이름은 대소문자를 구분하지 않고 비교합니다.
func (c *AppConfig) TeamAddress(name string) (string, bool) {
	for _, team := range c.Teams {
		if strings.EqualFold(team.Name, name) {
			return team.Address, true
		}
	}
	return "", false
}

// DefaultTemplateID 템플릿 ID가 생략된 요청에 사용되는 템플릿의 식별자입니다.
const DefaultTemplateID = "default"

// HTTPRetryConfig HTTP 요청 실패 시 재시도 횟수와 대기 시간을 정의하는 설정 구조체
type HTTPRetryConfig struct {
	MaxRetries int    `json:"max_retries"`
	RetryDelay string `json:"retry_delay"`
}

func (c *HTTPRetryConfig) validate() error {
	if c.MaxRetries < 0 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("HTTP 최대 재시도 횟수(max_retries)는 0 이상이어야 합니다: %d", c.MaxRetries))
	}
	if _, err := time.ParseDuration(c.RetryDelay); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("HTTP 재시도 대기 시간(retry_delay) 설정이 올바르지 않습니다: '%s' (예: 1s, 500ms)", c.RetryDelay))
	}
	return nil
}

// Delay 재시도 대기 시간을 time.Duration으로 변환하여 반환합니다.
// 값이 유효하지 않은 경우 기본값을 반환합니다. (validate에서 이미 검증됨)
func (c *HTTPRetryConfig) Delay() time.Duration {
	d, err := time.ParseDuration(c.RetryDelay)
	if err != nil {
		d, _ = time.ParseDuration(DefaultRetryDelay)
	}
	return d
}

// RelayConfig 대화 스니펫을 알림으로 변환하는 릴레이 파이프라인의 동작을 정의하는 설정 구조체
type RelayConfig struct {
	// EndpointURL 최종 알림 페이로드를 POST로 전송할 외부 REST 엔드포인트 주소
	EndpointURL string `json:"endpoint_url" validate:"required"`

	// UserIdentity 초안(Draft) 알림을 수신할 요청자 본인의 주소
	UserIdentity string `json:"user_identity" validate:"required"`

	// DefaultChannel 대화에서 발송 채널을 찾지 못했을 때 사용하는 채널
	DefaultChannel string `json:"default_channel" validate:"required,oneof=email sms slack telegram"`

	// DefaultTeam 대화에서 팀을 찾지 못했을 때 사용하는 팀 이름 (빈 값 허용)
	DefaultTeam string `json:"default_team"`

	// MissingKeyPolicy 템플릿 렌더링 시 값이 없는 플레이스홀더의 처리 정책 (error 또는 keep)
	MissingKeyPolicy string `json:"missing_key_policy" validate:"required,oneof=error keep"`

	// DraftPhrases 초안 요청으로 간주하는 문구 목록
	DraftPhrases []string `json:"draft_phrases" validate:"min=1"`

	// EventKeywords 이벤트 필드로 추출하는 키워드 목록
	EventKeywords []string `json:"event_keywords" validate:"min=1"`

	// DraftAlert 초안 생성 시 요청자에게 검토 알림을 보내는 텔레그램 봇 설정
	DraftAlert DraftAlertConfig `json:"draft_alert"`
}

func (c *RelayConfig) validate(v *validator.Validate, teamNames, _ []string) error {
	if err := checkStruct(v, c, "Relay"); err != nil {
		return err
	}

	if err := validation.ValidateHTTPURL(c.EndpointURL); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, "알림 엔드포인트 주소(endpoint_url) 설정이 올바르지 않습니다")
	}

	// 기본 팀이 지정된 경우, 정의된 팀 목록에 존재해야 합니다.
	if c.DefaultTeam != "" {
		found := slices.ContainsFunc(teamNames, func(name string) bool {
			return strings.EqualFold(name, c.DefaultTeam)
		})
		if !found {
			return apperrors.New(apperrors.NotFound, fmt.Sprintf("기본 팀('%s')이 정의된 Team 목록에 존재하지 않습니다", c.DefaultTeam))
		}
	}

	if err := c.DraftAlert.validate(v); err != nil {
		return err
	}

	return nil
}

// DraftAlertConfig 초안 생성 시 요청자에게 검토 요청을 보내는 텔레그램 봇 설정 구조체
type DraftAlertConfig struct {
	Enabled  bool   `json:"enabled"`
	BotToken string `json:"bot_token" validate:"required_if=Enabled true,omitempty,telegram_bot_token"`
	ChatID   int64  `json:"chat_id" validate:"required_if=Enabled true"`
}

func (c *DraftAlertConfig) validate(v *validator.Validate) error {
	return checkStruct(v, c, "Relay > DraftAlert")
}

// TeamConfig 알림을 수신할 팀의 이름과 주소를 정의하는 구조체
type TeamConfig struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
}

// TemplateConfig 메시지 골격(템플릿)을 정의하는 구조체
// 본문에는 {{name}} 형태의 플레이스홀더를 포함할 수 있습니다.
type TemplateConfig struct {
	ID   string `json:"id" validate:"required"`
	Text string `json:"text" validate:"required"`
}

// NotifyAPIConfig 릴레이 기능을 노출하는 REST API 서버 설정 구조체
type NotifyAPIConfig struct {
	WS           WSConfig            `json:"ws"`
	CORS         CORSConfig          `json:"cors"`
	Applications []ApplicationConfig `json:"applications" validate:"unique=ID"`
}

func (c *NotifyAPIConfig) validate(v *validator.Validate) error {
	if err := c.WS.validate(v); err != nil {
		return err
	}

	if err := c.CORS.validate(v); err != nil {
		return err
	}

	// Applications 중복 ID 검사
	if err := checkUniqueField(v, c.Applications, "ID", "Application"); err != nil {
		return err
	}

	for _, app := range c.Applications {
		if strings.TrimSpace(app.ID) == "" {
			return apperrors.New(apperrors.InvalidInput, "Application의 식별자(id)가 설정되지 않았습니다")
		}
		if strings.TrimSpace(app.AppKey) == "" {
			return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("Application['%s']의 API 키(app_key)가 설정되지 않았습니다", app.ID))
		}
	}

	return nil
}

func (c *NotifyAPIConfig) VerifyRecommendations() []string {
	return c.WS.VerifyRecommendations()
}

// WSConfig 웹서버의 포트 및 TLS(HTTPS) 보안 설정을 정의하는 구조체
type WSConfig struct {
	TLSServer   bool   `json:"tls_server"`
	TLSCertFile string `json:"tls_cert_file" validate:"required_if=TLSServer true,omitempty,file"`
	TLSKeyFile  string `json:"tls_key_file" validate:"required_if=TLSServer true,omitempty,file"`
	ListenPort  int    `json:"listen_port" validate:"min=1,max=65535"`
}

func (c *WSConfig) validate(v *validator.Validate) error {
	if err := v.Struct(c); err != nil {
		// Validator 에러를 사용자 친화적인 메시지로 변환한다.
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range validationErrors {
				switch fieldErr.StructField() {
				case "ListenPort":
					return apperrors.New(apperrors.InvalidInput, "웹 서버 포트(listen_port)는 1에서 65535 사이의 값이어야 합니다")
				case "TLSCertFile":
					switch fieldErr.Tag() {
					case "required_if":
						return apperrors.New(apperrors.InvalidInput, "TLS 서버 활성화 시 인증서 파일 경로(tls_cert_file)는 필수입니다")
					case "file":
						return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("지정된 TLS 인증서 파일(tls_cert_file)을 찾을 수 없습니다: '%v'", fieldErr.Value()))
					default:
						return apperrors.New(apperrors.InvalidInput, "TLS 인증서 파일 경로(tls_cert_file) 설정이 올바르지 않습니다")
					}
				case "TLSKeyFile":
					switch fieldErr.Tag() {
					case "required_if":
						return apperrors.New(apperrors.InvalidInput, "TLS 서버 활성화 시 키 파일 경로(tls_key_file)는 필수입니다")
					case "file":
						return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("지정된 TLS 키 파일(tls_key_file)을 찾을 수 없습니다: '%v'", fieldErr.Value()))
					default:
						return apperrors.New(apperrors.InvalidInput, "TLS 키 파일 경로(tls_key_file) 설정이 올바르지 않습니다")
					}
				}
			}
		}
		return apperrors.Wrap(err, apperrors.InvalidInput, "웹 서버 설정 검증 중 알 수 없는 오류가 발생했습니다")
	}

	return nil
}

func (c *WSConfig) VerifyRecommendations() []string {
	var warnings []string

	// 시스템 예약 포트(1024 미만) 사용 경고
	if c.ListenPort < 1024 {
		warnings = append(warnings, fmt.Sprintf("시스템 예약 포트(1-1023)를 사용하도록 설정되었습니다(port: %d). 이 경우 서버 구동 시 관리자 권한이 필요할 수 있습니다", c.ListenPort))
	}

	return warnings
}

// CORSConfig 웹 브라우저의 교차 출처 리소스 공유(CORS) 정책을 설정하는 구조체
type CORSConfig struct {
	AllowOrigins []string `json:"allow_origins" validate:"dive,cors_origin"`
}

func (c *CORSConfig) validate(v *validator.Validate) error {
	if len(c.AllowOrigins) == 0 {
		return apperrors.New(apperrors.InvalidInput, "CORS 허용 도메인(allow_origins) 목록이 비어있습니다")
	}

	for _, origin := range c.AllowOrigins {
		if origin == "*" {
			if len(c.AllowOrigins) > 1 {
				return apperrors.New(apperrors.InvalidInput, "와일드카드(*)는 다른 도메인과 함께 사용할 수 없습니다. 모든 도메인을 허용하려면 와일드카드만 설정하세요")
			}

			// 와일드카드만 있는 경우는 유효함 (validator skip)
			return nil
		}
	}

	// 각 Origin 유효성 검사
	if err := v.Struct(c); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range validationErrors {
				if fieldErr.Tag() == "cors_origin" {
					return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("CORS Origin 형식이 올바르지 않습니다: '%v' (형식: Scheme://Host[:Port], 예: https://example.com)", fieldErr.Value()))
				}
			}
		}
		return apperrors.Wrap(err, apperrors.InvalidInput, "CORS 설정 검증 중 알 수 없는 오류가 발생했습니다")
	}
	return nil
}

// ApplicationConfig 릴레이 API를 사용할 수 있는 클라이언트 어플리케이션의 인증 정보를 정의하는 구조체
type ApplicationConfig struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	AppKey      string `json:"app_key"`
}
