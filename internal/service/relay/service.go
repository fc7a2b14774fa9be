// Package relay 대화 스니펫을 구조화된 알림으로 변환하여 전달하는 릴레이 파이프라인입니다.
//
// 파이프라인은 추출(extract) → 수신자 결정 → 렌더링(render) → 전송(dispatch) 순서로
// 동작하며, 대화에 초안 요청 문구가 포함된 경우 알림은 팀 주소 대신
// 요청자 본인에게 초안으로 발송됩니다.
package relay

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/darkkaiser/notify-relay/internal/config"
	apperrors "github.com/darkkaiser/notify-relay/internal/pkg/errors"
	"github.com/darkkaiser/notify-relay/internal/service/contract"
	"github.com/darkkaiser/notify-relay/internal/service/dispatch"
	"github.com/darkkaiser/notify-relay/internal/service/extract"
	"github.com/darkkaiser/notify-relay/internal/service/relay/idgen"
	"github.com/darkkaiser/notify-relay/internal/service/render"
	applog "github.com/darkkaiser/notify-relay/pkg/log"
)

// component 로그에 기록되는 컴포넌트 식별자
const component = "relay.service"

// Relayer 대화 스니펫을 알림으로 변환하여 전달하는 인터페이스입니다.
type Relayer interface {
	Relay(ctx context.Context, req Request) (*contract.Delivery, error)
}

// Service 릴레이 파이프라인의 구성 요소를 관리하고 요청을 처리하는 서비스입니다.
type Service struct {
	appConfig *config.AppConfig

	extractor    extract.Extractor
	dispatcher   dispatch.Dispatcher
	idGenerator  contract.DeliveryIDGenerator
	draftAlerter DraftAlerter

	// templates 설정에서 로드된 템플릿 레지스트리 (Start 시점에 구성됨)
	templates map[string]*render.Template

	// missingKeyPolicy 렌더링 시 값이 없는 플레이스홀더의 처리 정책
	missingKeyPolicy render.MissingKeyPolicy

	running   bool
	runningMu sync.Mutex
}

// 컴파일 타임에 인터페이스 구현 여부를 검증합니다.
var _ Relayer = (*Service)(nil)

// NewService 새로운 릴레이 서비스를 생성합니다.
func NewService(appConfig *config.AppConfig, dispatcher dispatch.Dispatcher) *Service {
	teamNames := make([]string, 0, len(appConfig.Teams))
	for _, team := range appConfig.Teams {
		teamNames = append(teamNames, team.Name)
	}

	return &Service{
		appConfig: appConfig,

		extractor: extract.NewRuleExtractor(extract.Options{
			DraftPhrases:   appConfig.Relay.DraftPhrases,
			EventKeywords:  appConfig.Relay.EventKeywords,
			TeamNames:      teamNames,
			DefaultChannel: appConfig.Relay.DefaultChannel,
		}),
		dispatcher:  dispatcher,
		idGenerator: idgen.NewGenerator(),

		missingKeyPolicy: render.ParsePolicy(appConfig.Relay.MissingKeyPolicy),

		running:   false,
		runningMu: sync.Mutex{},
	}
}

// SetExtractor 필드 추출기를 교체합니다. (테스트 또는 고도화된 추출기 주입용)
func (s *Service) SetExtractor(extractor extract.Extractor) {
	s.extractor = extractor
}

// SetDraftAlerter 초안 검토 요청 전달자를 설정합니다.
func (s *Service) SetDraftAlerter(alerter DraftAlerter) {
	s.draftAlerter = alerter
}

// Start 릴레이 서비스를 시작합니다.
//
// 설정된 템플릿을 로드하여 레지스트리를 구성하고, 초안 검토 알림이 활성화된 경우
// 텔레그램 봇을 초기화합니다. 서비스 종료 감시 루틴이 함께 실행됩니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("Relay 서비스 시작중...")

	if s.dispatcher == nil {
		defer serviceStopWG.Done()
		return apperrors.New(apperrors.Internal, "Dispatcher 객체가 초기화되지 않았습니다")
	}

	if s.running {
		defer serviceStopWG.Done()
		applog.WithComponent(component).Warn("Relay 서비스가 이미 시작됨!!!")
		return nil
	}

	// 1. 템플릿 레지스트리 구성
	templates := make(map[string]*render.Template, len(s.appConfig.Templates))
	for _, tmplConfig := range s.appConfig.Templates {
		tmpl, err := render.NewTemplate(tmplConfig.ID, tmplConfig.Text)
		if err != nil {
			defer serviceStopWG.Done()
			return apperrors.Wrap(err, apperrors.Internal, "템플릿 레지스트리 구성 중 에러가 발생했습니다")
		}
		templates[tmpl.ID()] = tmpl

		applog.WithComponentAndFields(component, applog.Fields{
			"template_id":  tmpl.ID(),
			"placeholders": strings.Join(tmpl.Placeholders(), ","),
		}).Debug("템플릿이 Relay 서비스에 등록됨")
	}
	s.templates = templates

	// 2. 초안 검토 알림(텔레그램) 초기화
	if s.draftAlerter == nil && s.appConfig.Relay.DraftAlert.Enabled {
		alerter, err := NewTelegramDraftAlerter(s.appConfig.Relay.DraftAlert.BotToken, s.appConfig.Relay.DraftAlert.ChatID)
		if err != nil {
			defer serviceStopWG.Done()
			return apperrors.Wrap(err, apperrors.Internal, "초안 검토 알림 초기화 중 에러가 발생했습니다")
		}
		s.draftAlerter = alerter
	}

	// 3. 서비스 종료 감시 루틴 실행
	go s.waitForShutdown(serviceStopCtx, serviceStopWG)

	s.running = true

	applog.WithComponent(component).Info("Relay 서비스 시작됨")

	return nil
}

// waitForShutdown 서비스의 종료 신호를 감지하고 리소스를 안전하게 정리합니다.
func (s *Service) waitForShutdown(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

	<-serviceStopCtx.Done()

	applog.WithComponent(component).Info("Relay 서비스 중지중...")

	s.runningMu.Lock()
	s.running = false
	s.templates = nil
	s.draftAlerter = nil
	s.runningMu.Unlock()

	applog.WithComponent(component).Info("Relay 서비스 중지됨")
}

// Health 서비스가 현재 요청을 처리할 수 있는 상태인지 확인합니다.
// 서비스가 중지된 경우 에러를 반환합니다.
func (s *Service) Health() error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return contract.ErrServiceStopped
	}
	return nil
}

// Relay 대화 스니펫을 알림으로 변환하여 엔드포인트로 전달합니다.
//
// 처리 순서:
//  1. 대화에서 알림 필드(event, time, team, channel, 초안 여부)를 추출합니다.
//  2. 요청에 명시된 재정의 값(Params, Draft)을 적용합니다.
//  3. 초안 여부에 따라 수신자를 결정합니다. (초안: 요청자 본인, 실제 발송: 팀 주소)
//  4. 템플릿을 렌더링하여 최종 메시지를 생성합니다.
//  5. 완성된 페이로드를 엔드포인트로 전송합니다.
//
// 초안이 생성되고 초안 검토 알림이 활성화된 경우 요청자에게 텔레그램 검토 요청을
// 보내며, 이 전송의 실패는 릴레이 처리 결과에 영향을 주지 않습니다.
func (s *Service) Relay(ctx context.Context, req Request) (*contract.Delivery, error) {
	s.runningMu.Lock()
	if !s.running {
		s.runningMu.Unlock()
		return nil, contract.ErrServiceStopped
	}
	templates := s.templates
	draftAlerter := s.draftAlerter
	s.runningMu.Unlock()

	// 1. 필드 추출
	fields := s.extractor.Extract(req.Conversation)

	// 대화에서 팀을 찾지 못한 경우 설정된 기본 팀으로 대체합니다.
	// 대체된 팀 이름은 수신자 결정과 템플릿 렌더링 양쪽에 일관되게 반영됩니다.
	team := fields.Team
	if team == "" {
		team = s.appConfig.Relay.DefaultTeam
	}

	// 2. 재정의 값 적용
	params := fields.ToParams()
	params["team"] = team
	for key, value := range req.Params {
		params[key] = value
	}

	isDraft := fields.DraftRequested
	if req.Draft != nil {
		isDraft = *req.Draft
	}

	// 3. 수신자 결정
	recipient := s.resolveRecipient(team, isDraft)

	// 4. 템플릿 렌더링
	templateID := req.TemplateID
	if templateID == "" {
		templateID = config.DefaultTemplateID
	}

	tmpl, ok := templates[templateID]
	if !ok {
		return nil, apperrors.New(apperrors.NotFound, fmt.Sprintf("템플릿('%s')을 찾을 수 없습니다", templateID))
	}

	message, err := tmpl.Render(params, s.missingKeyPolicy)
	if err != nil {
		return nil, err
	}

	// 5. 페이로드 전송
	payload := contract.NotificationPayload{
		Recipient: recipient,
		Message:   message,
		Channel:   fields.Channel,
		IsDraft:   isDraft,
	}

	response, err := s.dispatcher.Dispatch(ctx, payload)
	if err != nil {
		return nil, err
	}

	delivery := &contract.Delivery{
		ID:       s.idGenerator.New(),
		State:    contract.StateOf(payload),
		Payload:  payload,
		Response: response,
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"delivery_id": delivery.ID,
		"state":       delivery.State,
		"recipient":   applog.MaskSensitiveData(payload.Recipient),
		"channel":     payload.Channel,
		"template_id": templateID,
	}).Info("릴레이 처리가 완료되었습니다")

	// 초안 검토 요청 전달 (실패하더라도 릴레이 결과에는 영향 없음)
	if isDraft && draftAlerter != nil {
		if err := draftAlerter.AlertDraft(ctx, delivery); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"delivery_id": delivery.ID,
				"error":       err.Error(),
			}).Warn("초안 검토 요청 전달에 실패했습니다")
		}
	}

	return delivery, nil
}

// resolveRecipient 초안 여부와 팀 이름으로 알림 수신자 주소를 결정합니다.
//
// 초안인 경우 설정된 요청자 본인의 주소(user_identity)를 사용합니다.
// 실제 발송인 경우 팀의 주소를 조회하며, 팀이 없거나 주소를 찾지 못하면
// 빈 주소를 반환합니다. 이 경우 전송 단계의 페이로드 검증에서 거부됩니다.
func (s *Service) resolveRecipient(team string, isDraft bool) string {
	if isDraft {
		return s.appConfig.Relay.UserIdentity
	}

	if team == "" {
		return ""
	}

	address, ok := s.appConfig.TeamAddress(team)
	if !ok {
		return ""
	}
	return address
}
